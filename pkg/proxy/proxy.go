package proxy

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/mylxsw/asteria/log"
	"github.com/mylxsw/glacier/infra"
	"github.com/mylxsw/go-utils/ternary"
	"github.com/mylxsw/moonshot-kimi/config"
	"github.com/pkg/errors"
	"golang.org/x/net/proxy"
)

type Proxy struct {
	Socks5    proxy.Dialer
	HttpProxy func(*http.Request) (*url.URL, error)
}

// New 创建代理，proxyURL 优先，支持 http、https、socks5，scheme 为空时默认为 http
func New(proxyURL string, socks5 string) (*Proxy, error) {
	pp := &Proxy{}
	if proxyURL == "" {
		if socks5 == "" {
			return nil, errors.New("neither proxy url nor socks5 proxy is configured")
		}

		var err error
		pp.Socks5, err = proxy.SOCKS5("tcp", socks5, nil, proxy.Direct)
		if err != nil {
			log.Errorf("invalid socks5 proxy url: %s", socks5)
			return nil, errors.Wrap(err, "invalid socks5 proxy")
		}

		return pp, nil
	}

	if !strings.Contains(proxyURL, "://") {
		proxyURL = "http://" + proxyURL
	}

	p, err := url.Parse(proxyURL)
	if err != nil {
		log.Errorf("invalid proxy url: %s", proxyURL)
		return nil, errors.Wrap(err, "invalid proxy url")
	}

	pp.HttpProxy = http.ProxyURL(p)

	return pp, nil
}

func (pp *Proxy) BuildTransport() *http.Transport {
	return ternary.IfLazy(
		pp.HttpProxy != nil,
		func() *http.Transport {
			return &http.Transport{Proxy: pp.HttpProxy}
		},
		func() *http.Transport {
			return &http.Transport{Dial: pp.Socks5.Dial}
		},
	)
}

type Provider struct{}

func (Provider) Register(binder infra.Binder) {
	binder.MustSingleton(func(conf *config.Config) (*Proxy, error) {
		return New(conf.ProxyURL, conf.Socks5Proxy)
	})
}

func (Provider) ShouldLoad(conf *config.Config) bool {
	return conf.SupportProxy()
}
