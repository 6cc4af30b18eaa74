package moonshot

import (
	"github.com/mylxsw/go-utils/array"
	"github.com/sashabaranov/go-openai"
)

type Role string

const (
	RoleSystem Role = openai.ChatMessageRoleSystem
	RoleUser   Role = openai.ChatMessageRoleUser
)

// Message 对话中的一条消息
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

func toChatCompletionMessages(messages []Message) []openai.ChatCompletionMessage {
	return array.Map(messages, func(msg Message, _ int) openai.ChatCompletionMessage {
		return openai.ChatCompletionMessage{Role: string(msg.Role), Content: msg.Content}
	})
}

// withSystemPrompt 将 prompt 追加到首条系统消息之后，没有系统消息时插入到最前面，不修改原始消息
func withSystemPrompt(messages []Message, prompt string) []Message {
	if prompt == "" {
		return messages
	}

	if len(messages) > 0 && messages[0].Role == RoleSystem {
		merged := make([]Message, len(messages))
		copy(merged, messages)
		if merged[0].Content == "" {
			merged[0].Content = prompt
		} else {
			merged[0].Content += "\n" + prompt
		}

		return merged
	}

	return append([]Message{SystemMessage(prompt)}, messages...)
}
