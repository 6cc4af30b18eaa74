package openai

import (
	"fmt"
	"strings"

	"github.com/mylxsw/go-utils/array"
	"github.com/pkoukk/tiktoken-go"
	"github.com/sashabaranov/go-openai"
)

// NumTokensFromMessages 估算对话上下文的 token 数量
func NumTokensFromMessages(messages []openai.ChatCompletionMessage, model string) (numTokens int, err error) {
	// 所有非 gpt-3.5-turbo/gpt-4 的模型（包括 moonshot），都按照 gpt-3.5 的方式估算
	if !array.In(model, []string{"gpt-3.5-turbo", "gpt-4"}) {
		model = "gpt-3.5-turbo"
	}

	tkm, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return 0, fmt.Errorf("EncodingForModel: %v", err)
	}

	tokensPerMessage, tokensPerName := 3, 1
	if strings.HasPrefix(model, "gpt-3.5-turbo") {
		tokensPerMessage = 4
		tokensPerName = -1
	}

	for _, message := range messages {
		numTokens += tokensPerMessage
		numTokens += len(tkm.Encode(message.Content, nil, nil))
		numTokens += len(tkm.Encode(message.Role, nil, nil))
		numTokens += len(tkm.Encode(message.Name, nil, nil))
		if message.Name != "" {
			numTokens += tokensPerName
		}
	}
	numTokens += 3
	return numTokens, nil
}
