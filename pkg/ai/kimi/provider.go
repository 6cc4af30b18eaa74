package kimi

import (
	"github.com/mylxsw/glacier/infra"
	"github.com/mylxsw/moonshot-kimi/config"
	"github.com/mylxsw/moonshot-kimi/pkg/ai/moonshot"
	"github.com/mylxsw/moonshot-kimi/pkg/proxy"
)

type Provider struct{}

func (Provider) Register(binder infra.Binder) {
	binder.MustSingleton(func(conf *config.Config, resolver infra.Resolver) (*Kimi, error) {
		var pp *proxy.Proxy
		if conf.MoonshotAutoProxy && conf.SupportProxy() {
			resolver.MustResolve(func(p *proxy.Proxy) {
				pp = p
			})
		}

		return New(
			ConfigFromGlobal(conf),
			WithChatModelFactory(moonshot.NewFactory(conf.MoonshotServer, pp)),
		)
	})
}

// ConfigFromGlobal 从全局配置中提取 Kimi 配置
func ConfigFromGlobal(conf *config.Config) Config {
	return Config{
		Model:         conf.MoonshotModel,
		APIKey:        conf.MoonshotAPIKey,
		Verbose:       conf.Verbose,
		PreferChinese: conf.PreferChinese,
		NoMarkdown:    conf.NoMarkdown,
		Options: moonshot.Options{
			Temperature: conf.Temperature,
			TopP:        conf.TopP,
			Extra:       conf.MoonshotOptions,
		},
	}
}
