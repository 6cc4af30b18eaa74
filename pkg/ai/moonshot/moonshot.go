package moonshot

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mylxsw/asteria/log"
	"github.com/mylxsw/go-utils/array"
	oai "github.com/mylxsw/moonshot-kimi/pkg/ai/openai"
	"github.com/mylxsw/moonshot-kimi/pkg/misc"
	"github.com/mylxsw/moonshot-kimi/pkg/proxy"
	"github.com/sashabaranov/go-openai"
	"gopkg.in/resty.v1"
)

const DefaultServer = "https://api.moonshot.cn/v1"

const (
	ModelMoonshotV1_8K   = "moonshot-v1-8k"
	ModelMoonshotV1_32K  = "moonshot-v1-32k"
	ModelMoonshotV1_128K = "moonshot-v1-128k"
	ModelMoonshotV1Auto  = "moonshot-v1-auto"
)

var ErrMissingAPIKey = errors.New("moonshot: api key is required")

// Config 聊天模型配置
type Config struct {
	Model     string
	MaxTokens int
	APIKey    string
	Verbose   bool
	// DefaultSystemPrompt 每次请求都会附加到系统提示语中
	DefaultSystemPrompt string
	Options             Options
}

type ChatModel interface {
	Invoke(ctx context.Context, messages []Message, opts ...CallOption) (*Response, error)
}

// Factory 根据配置创建 ChatModel
type Factory func(conf Config) (ChatModel, error)

type Response struct {
	ID           string `json:"id"`
	Model        string `json:"model"`
	Content      string `json:"content"`
	FinishReason string `json:"finish_reason,omitempty"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

type Moonshot struct {
	client oai.Client
	conf   Config
	server string
	resty  *resty.Client
}

func New(client oai.Client, conf Config) *Moonshot {
	return &Moonshot{
		client: client,
		conf:   conf,
		server: DefaultServer,
		resty:  misc.RestyClient(0).SetTimeout(30 * time.Second),
	}
}

// NewFactory 返回访问 server 的 ChatModel 工厂，pp 不为空时通过代理访问
func NewFactory(server string, pp *proxy.Proxy) Factory {
	if server == "" {
		server = DefaultServer
	}

	return func(conf Config) (ChatModel, error) {
		if conf.APIKey == "" {
			return nil, ErrMissingAPIKey
		}

		m := New(oai.NewOpenAIClient(&oai.Config{
			Servers:   []string{server},
			Keys:      []string{conf.APIKey},
			AutoProxy: pp != nil,
		}, pp), conf)

		m.server = strings.TrimSuffix(server, "/")
		if pp != nil {
			m.resty.SetTransport(pp.BuildTransport())
		}

		return m, nil
	}
}

func (m *Moonshot) Config() Config {
	return m.conf
}

func (m *Moonshot) Invoke(ctx context.Context, messages []Message, opts ...CallOption) (*Response, error) {
	call := CallOptions{Options: m.conf.Options.clone(), MaxTokens: m.conf.MaxTokens}
	for _, opt := range opts {
		opt(&call)
	}

	req := openai.ChatCompletionRequest{
		Model:     m.conf.Model,
		Messages:  toChatCompletionMessages(withSystemPrompt(messages, m.conf.DefaultSystemPrompt)),
		MaxTokens: call.MaxTokens,
	}
	call.apply(&req)

	if m.conf.Verbose {
		m.logRequest(req, call)
	}

	resp, err := m.client.CreateChatCompletion(oai.WithExtraFields(ctx, call.extraFields()), req)
	if err != nil {
		return nil, err
	}

	res := &Response{
		ID:    resp.ID,
		Model: resp.Model,
		Content: strings.Join(array.Map(resp.Choices, func(item openai.ChatCompletionChoice, _ int) string {
			return item.Message.Content
		}), "\n"),
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}

	if len(resp.Choices) > 0 {
		res.FinishReason = string(resp.Choices[0].FinishReason)
	}

	if m.conf.Verbose {
		log.WithFields(log.Fields{
			"id":            res.ID,
			"model":         res.Model,
			"finish_reason": res.FinishReason,
			"input_tokens":  res.InputTokens,
			"output_tokens": res.OutputTokens,
			"content":       misc.WordTruncate(res.Content, 100),
		}).Debugf("moonshot chat response")
	}

	return res, nil
}

func (m *Moonshot) logRequest(req openai.ChatCompletionRequest, call CallOptions) {
	fields := log.Fields{
		"model":      req.Model,
		"messages":   len(req.Messages),
		"max_tokens": req.MaxTokens,
		"extra":      call.extraFields(),
	}

	tokens, err := oai.NumTokensFromMessages(req.Messages, req.Model)
	if err != nil {
		log.With(err).Warningf("estimate token count failed")
	} else {
		fields["estimated_tokens"] = tokens
	}

	log.WithFields(fields).Debugf("moonshot chat request")
}
