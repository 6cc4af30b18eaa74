package kimi

import (
	"strings"
)

const (
	// PromptPreferChinese 要求模型使用中文回答
	PromptPreferChinese = "请始终使用中文回答。"
	// PromptNoMarkdown 要求模型输出纯文本
	PromptNoMarkdown = "请不要使用 Markdown 格式，直接输出纯文本。"
)

// BuildExtraPrompt 按固定顺序拼接额外的系统提示语，未启用任何选项时返回空字符串
func BuildExtraPrompt(preferChinese, noMarkdown bool) string {
	fragments := make([]string, 0, 2)
	if preferChinese {
		fragments = append(fragments, PromptPreferChinese)
	}

	if noMarkdown {
		fragments = append(fragments, PromptNoMarkdown)
	}

	return strings.Join(fragments, "\n")
}
