package openai

import (
	"net"
	"net/http"
	"time"

	"github.com/mylxsw/go-utils/ternary"
	"github.com/mylxsw/moonshot-kimi/pkg/proxy"
	"github.com/sashabaranov/go-openai"
)

// NewOpenAIClient 创建 OpenAI 兼容客户端，Servers 和 Keys 取笛卡尔积，请求时随机选择
func NewOpenAIClient(conf *Config, pp *proxy.Proxy) Client {
	clients := make([]*openai.Client, 0, len(conf.Servers)*len(conf.Keys))
	for _, server := range conf.Servers {
		for _, key := range conf.Keys {
			clients = append(clients, createOpenAIClient(
				server,
				key,
				conf.Header,
				ternary.If(conf.AutoProxy, pp, nil),
			))
		}
	}

	return New(clients)
}

func createOpenAIClient(server, key string, header http.Header, pp *proxy.Proxy) *openai.Client {
	openaiConf := openai.DefaultConfig(key)
	openaiConf.BaseURL = server
	openaiConf.HTTPClient.Timeout = 180 * time.Second

	var transport http.RoundTripper
	if pp != nil {
		transport = pp.BuildTransport()
	} else {
		transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: 120 * time.Second,
			}).DialContext,
		}
	}

	openaiConf.HTTPClient.Transport = NewCustomRequestTransport(transport, header)

	return openai.NewClientWithConfig(openaiConf)
}
