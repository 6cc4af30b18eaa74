package config

import (
	"github.com/mylxsw/glacier/starter/app"
)

func initCmdFlags(ins *app.App) {
	ins.AddStringFlag("moonshot-server", "https://api.moonshot.cn/v1", "Moonshot 服务地址，不要忘记在 URL 后面添加 /v1")
	ins.AddFlags(app.StringEnvFlag("moonshot-apikey", "", "Moonshot API Key", EnvMoonshotAPIKey))
	ins.AddStringFlag("moonshot-model", "moonshot-v1-auto", "Moonshot 模型名称，支持 moonshot-v1-8k、moonshot-v1-32k、moonshot-v1-128k、moonshot-v1-auto")
	ins.AddBoolFlag("moonshot-autoproxy", "使用代理访问 Moonshot 服务，需要指定 proxy-url 或 socks5-proxy")
	ins.AddStringSliceFlag("moonshot-option", []string{}, "透传给 Moonshot 的额外请求参数，格式为 key=value，value 支持 JSON，可指定多个")

	ins.AddBoolFlag("verbose", "输出请求详情")
	ins.AddBoolFlag("prefer-chinese", "要求模型使用中文回答")
	ins.AddBoolFlag("no-markdown", "要求模型不要使用 Markdown 格式输出")
	ins.AddStringFlag("temperature", "", "采样温度，取值范围 [0, 1]，留空则使用服务端默认值")
	ins.AddStringFlag("top-p", "", "核采样概率，取值范围 [0, 1]，留空则使用服务端默认值")

	ins.AddStringFlag("socks5-proxy", "", "socks5 proxy")
	ins.AddStringFlag("proxy-url", "", "HTTP 代理地址，支持 http、https、socks5，代理类型由 URL schema 决定，如果 scheme 为空，则默认为 http")

	ins.AddBoolFlag("check-balance", "查询 Moonshot 账户余额")
	ins.AddBoolFlag("print-config", "输出当前配置（API Key 会被隐藏）")

	ins.AddStringFlag("log-path", "", "日志文件存储目录，留空则写入到标准输出")
}
