package config

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/mylxsw/glacier/infra"
	"github.com/mylxsw/glacier/starter/app"
	"github.com/mylxsw/moonshot-kimi/pkg/misc"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvMoonshotAPIKey 读取 Moonshot API Key 的环境变量
const EnvMoonshotAPIKey = "MOONSHOT_API_KEY"

var ErrMissingAPIKey = errors.New("moonshot api key is required, set --moonshot-apikey or " + EnvMoonshotAPIKey)

type Config struct {
	// Moonshot 服务地址，需要包含 /v1
	MoonshotServer string `json:"moonshot_server" yaml:"moonshot_server"`
	// Moonshot API Key
	MoonshotAPIKey string `json:"-" yaml:"moonshot_api_key"`
	// MoonshotModel 使用的模型名称
	MoonshotModel string `json:"moonshot_model" yaml:"moonshot_model"`
	// MoonshotAutoProxy 是否通过代理访问 Moonshot
	MoonshotAutoProxy bool `json:"moonshot_auto_proxy" yaml:"moonshot_auto_proxy"`
	// MoonshotOptions 透传给 Moonshot 的额外请求参数
	MoonshotOptions map[string]any `json:"moonshot_options,omitempty" yaml:"moonshot_options,omitempty"`

	// Verbose 输出请求详情
	Verbose bool `json:"verbose" yaml:"verbose"`
	// PreferChinese 要求模型使用中文回答
	PreferChinese bool `json:"prefer_chinese" yaml:"prefer_chinese"`
	// NoMarkdown 要求模型不要使用 Markdown 格式
	NoMarkdown bool `json:"no_markdown" yaml:"no_markdown"`

	// 采样参数，0 表示使用服务端默认值
	Temperature float32 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	TopP        float32 `json:"top_p,omitempty" yaml:"top_p,omitempty"`

	// Proxy
	Socks5Proxy string `json:"socks5_proxy" yaml:"socks5_proxy"`
	ProxyURL    string `json:"proxy_url" yaml:"proxy_url"`

	// CheckBalance 启动时查询账户余额
	CheckBalance bool `json:"check_balance" yaml:"check_balance"`
	// PrintConfig 启动时输出当前配置
	PrintConfig bool `json:"print_config" yaml:"print_config"`

	// LogPath 日志文件存储目录，留空则写入到标准输出
	LogPath string `json:"log_path" yaml:"log_path"`
}

func (conf *Config) SupportProxy() bool {
	return conf.ProxyURL != "" || conf.Socks5Proxy != ""
}

// Validate 检查配置是否完整，缺少 API Key 时直接失败
func (conf *Config) Validate() error {
	if strings.TrimSpace(conf.MoonshotAPIKey) == "" {
		return ErrMissingAPIKey
	}

	if conf.MoonshotServer == "" {
		return errors.New("moonshot server is required")
	}

	if conf.Temperature < 0 || conf.Temperature > 1 {
		return errors.Errorf("temperature must be in [0, 1], got %v", conf.Temperature)
	}

	if conf.TopP < 0 || conf.TopP > 1 {
		return errors.Errorf("top_p must be in [0, 1], got %v", conf.TopP)
	}

	return nil
}

// String 以 YAML 格式输出配置，API Key 会被隐藏
func (conf *Config) String() string {
	masked := *conf
	masked.MoonshotAPIKey = misc.MaskStr(conf.MoonshotAPIKey, 4)

	data, err := yaml.Marshal(masked)
	if err != nil {
		return err.Error()
	}

	return string(data)
}

// ParseOptions 解析 key=value 形式的额外请求参数，value 能按 JSON 解析时使用解析后的值，否则作为字符串
func ParseOptions(kvs []string) (map[string]any, error) {
	if len(kvs) == 0 {
		return nil, nil
	}

	options := make(map[string]any, len(kvs))
	for _, kv := range kvs {
		key, value, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.Errorf("invalid moonshot option %q, expect key=value", kv)
		}

		var decoded any
		if err := json.Unmarshal([]byte(value), &decoded); err != nil {
			options[key] = value
		} else {
			options[key] = decoded
		}
	}

	return options, nil
}

func parseFloat(name, value string) (float32, error) {
	if value == "" {
		return 0, nil
	}

	v, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", name)
	}

	return float32(v), nil
}

func Register(ins *app.App) {
	initCmdFlags(ins)

	ins.Singleton(func(ctx infra.FlagContext) (*Config, error) {
		options, err := ParseOptions(ctx.StringSlice("moonshot-option"))
		if err != nil {
			return nil, err
		}

		temperature, err := parseFloat("temperature", ctx.String("temperature"))
		if err != nil {
			return nil, err
		}

		topP, err := parseFloat("top-p", ctx.String("top-p"))
		if err != nil {
			return nil, err
		}

		conf := &Config{
			MoonshotServer:    strings.TrimSuffix(ctx.String("moonshot-server"), "/"),
			MoonshotAPIKey:    strings.TrimSpace(ctx.String("moonshot-apikey")),
			MoonshotModel:     ctx.String("moonshot-model"),
			MoonshotAutoProxy: ctx.Bool("moonshot-autoproxy"),
			MoonshotOptions:   options,

			Verbose:       ctx.Bool("verbose"),
			PreferChinese: ctx.Bool("prefer-chinese"),
			NoMarkdown:    ctx.Bool("no-markdown"),

			Temperature: temperature,
			TopP:        topP,

			Socks5Proxy: ctx.String("socks5-proxy"),
			ProxyURL:    ctx.String("proxy-url"),

			CheckBalance: ctx.Bool("check-balance"),
			PrintConfig:  ctx.Bool("print-config"),
			LogPath:      ctx.String("log-path"),
		}

		if err := conf.Validate(); err != nil {
			return nil, err
		}

		return conf, nil
	})
}
