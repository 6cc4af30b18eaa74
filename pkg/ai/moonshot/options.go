package moonshot

import (
	"github.com/sashabaranov/go-openai"
)

// Options 请求参数，零值表示使用服务端默认值
type Options struct {
	Temperature      float32  `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	TopP             float32  `json:"top_p,omitempty" yaml:"top_p,omitempty"`
	PresencePenalty  float32  `json:"presence_penalty,omitempty" yaml:"presence_penalty,omitempty"`
	FrequencyPenalty float32  `json:"frequency_penalty,omitempty" yaml:"frequency_penalty,omitempty"`
	N                int      `json:"n,omitempty" yaml:"n,omitempty"`
	Stop             []string `json:"stop,omitempty" yaml:"stop,omitempty"`
	// ResponseFormat 可选 text、json_object
	ResponseFormat string `json:"response_format,omitempty" yaml:"response_format,omitempty"`
	User           string `json:"user,omitempty" yaml:"user,omitempty"`

	// Extra 额外的厂商参数，原样合并到请求体中，不会覆盖上面已设置的字段
	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

func (opts Options) clone() Options {
	cloned := opts
	if opts.Stop != nil {
		cloned.Stop = append([]string(nil), opts.Stop...)
	}

	if opts.Extra != nil {
		cloned.Extra = make(map[string]any, len(opts.Extra))
		for k, v := range opts.Extra {
			cloned.Extra[k] = v
		}
	}

	return cloned
}

// extraFields 需要合并到请求体中的字段
func (opts Options) extraFields() map[string]any {
	if opts.ResponseFormat == "" {
		return opts.Extra
	}

	fields := make(map[string]any, len(opts.Extra)+1)
	for k, v := range opts.Extra {
		fields[k] = v
	}
	fields["response_format"] = map[string]string{"type": opts.ResponseFormat}

	return fields
}

func (opts Options) apply(req *openai.ChatCompletionRequest) {
	req.Temperature = opts.Temperature
	req.TopP = opts.TopP
	req.PresencePenalty = opts.PresencePenalty
	req.FrequencyPenalty = opts.FrequencyPenalty
	req.N = opts.N
	req.Stop = opts.Stop
	req.User = opts.User
}

// CallOptions 单次调用的参数
type CallOptions struct {
	Options
	MaxTokens int
}

type CallOption func(*CallOptions)

func WithTemperature(temperature float32) CallOption {
	return func(opts *CallOptions) { opts.Temperature = temperature }
}

func WithTopP(topP float32) CallOption {
	return func(opts *CallOptions) { opts.TopP = topP }
}

func WithStop(stop ...string) CallOption {
	return func(opts *CallOptions) { opts.Stop = stop }
}

func WithMaxTokens(maxTokens int) CallOption {
	return func(opts *CallOptions) { opts.MaxTokens = maxTokens }
}

func WithResponseFormat(format string) CallOption {
	return func(opts *CallOptions) { opts.ResponseFormat = format }
}

// WithExtra 设置额外的厂商参数
func WithExtra(key string, value any) CallOption {
	return func(opts *CallOptions) {
		if opts.Extra == nil {
			opts.Extra = make(map[string]any)
		}
		opts.Extra[key] = value
	}
}
