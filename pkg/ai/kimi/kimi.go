package kimi

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mylxsw/asteria/log"
	"github.com/mylxsw/go-utils/ternary"
	"github.com/mylxsw/moonshot-kimi/config"
	"github.com/mylxsw/moonshot-kimi/pkg/ai/moonshot"
	"github.com/pkg/errors"
)

// MaxTokens 每次请求最多生成的 token 数
const MaxTokens = 1024

const (
	DefaultSystemPrompt = "你是一个很棒的智能助手"
	DefaultHumanPrompt  = "请给我写一句情人节红玫瑰的中文宣传语"
)

var (
	ErrMissingAPIKey      = config.ErrMissingAPIKey
	ErrBalanceUnsupported = errors.New("kimi: chat model does not support balance query")
)

type Config struct {
	Model string
	// APIKey 为空时从环境变量 MOONSHOT_API_KEY 读取
	APIKey        string
	Verbose       bool
	PreferChinese bool
	NoMarkdown    bool
	Options       moonshot.Options
}

type options struct {
	factory moonshot.Factory
	output  io.Writer
}

type Option func(*options)

// WithChatModelFactory 指定创建底层 ChatModel 的工厂，默认直连 Moonshot 官方服务
func WithChatModelFactory(factory moonshot.Factory) Option {
	return func(o *options) { o.factory = factory }
}

// WithOutput 指定 Demo 输出位置，默认为标准输出
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.output = w }
}

type Kimi struct {
	conf        Config
	extraPrompt string
	llm         moonshot.ChatModel
	output      io.Writer
}

func New(conf Config, opts ...Option) (*Kimi, error) {
	o := options{output: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	if o.factory == nil {
		o.factory = moonshot.NewFactory(moonshot.DefaultServer, nil)
	}

	conf.Model = ternary.If(conf.Model == "", moonshot.ModelMoonshotV1Auto, conf.Model)
	if conf.APIKey == "" {
		conf.APIKey = strings.TrimSpace(os.Getenv(config.EnvMoonshotAPIKey))
	}

	if conf.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	extraPrompt := BuildExtraPrompt(conf.PreferChinese, conf.NoMarkdown)

	log.WithFields(log.Fields{
		"model":        conf.Model,
		"extra_prompt": extraPrompt,
	}).Infof("using moonshot model: %s", conf.Model)

	llm, err := o.factory(moonshot.Config{
		Model:               conf.Model,
		MaxTokens:           MaxTokens,
		APIKey:              conf.APIKey,
		Verbose:             conf.Verbose,
		DefaultSystemPrompt: extraPrompt,
		Options:             conf.Options,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create moonshot chat model failed")
	}

	return &Kimi{conf: conf, extraPrompt: extraPrompt, llm: llm, output: o.output}, nil
}

// ExtraPrompt 根据配置生成的额外系统提示语
func (k *Kimi) ExtraPrompt() string {
	return k.extraPrompt
}

func (k *Kimi) Model() string {
	return k.conf.Model
}

// Demo 发送一组系统提示语和用户输入，并输出模型响应，system/human 为空时使用默认值。
// 调用失败时只记录日志，返回 nil
func (k *Kimi) Demo(ctx context.Context, system, human string) *moonshot.Response {
	messages := []moonshot.Message{
		moonshot.SystemMessage(ternary.If(system == "", DefaultSystemPrompt, system)),
		moonshot.UserMessage(ternary.If(human == "", DefaultHumanPrompt, human)),
	}

	resp, err := k.llm.Invoke(ctx, messages)
	if err != nil {
		log.With(err).Errorf("调用 Kimi API 时出错: %v", err)
		return nil
	}

	_, _ = fmt.Fprintf(k.output, "模型响应: %s\n", resp.Content)
	return resp
}

// Invoke 将消息原样转发给底层模型，错误不做任何处理直接返回
func (k *Kimi) Invoke(ctx context.Context, messages []moonshot.Message, opts ...moonshot.CallOption) (*moonshot.Response, error) {
	resp, err := k.llm.Invoke(ctx, messages, opts...)
	if err != nil {
		if k.conf.Verbose {
			log.WithFields(log.Fields{
				"model":    k.conf.Model,
				"messages": len(messages),
				"error":    err.Error(),
			}).Error("invoke moonshot failed")
		}

		return nil, err
	}

	return resp, nil
}

// Balance 查询账户余额，底层模型不支持时返回 ErrBalanceUnsupported
func (k *Kimi) Balance(ctx context.Context) (*moonshot.Balance, error) {
	querier, ok := k.llm.(moonshot.BalanceQuerier)
	if !ok {
		return nil, ErrBalanceUnsupported
	}

	return querier.Balance(ctx)
}
