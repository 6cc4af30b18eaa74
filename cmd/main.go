package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mylxsw/asteria/formatter"
	"github.com/mylxsw/asteria/level"
	"github.com/mylxsw/asteria/log"
	"github.com/mylxsw/asteria/writer"
	"github.com/mylxsw/glacier/infra"
	"github.com/mylxsw/glacier/starter/app"
	"github.com/mylxsw/moonshot-kimi/config"
	"github.com/mylxsw/moonshot-kimi/pkg/ai/kimi"
	"github.com/mylxsw/moonshot-kimi/pkg/ai/moonshot"
	"github.com/mylxsw/moonshot-kimi/pkg/proxy"
)

var GitCommit string
var Version string

func main() {
	ins := app.Create(fmt.Sprintf("%s(%s)", Version, GitCommit), 3).WithYAMLFlag("conf")

	// 命令行选项（使用配置文件的话，只需要指定 `--conf 配置文件地址`，格式为 YAML）
	config.Register(ins)

	// 日志配置
	ins.Init(func(f infra.FlagContext) error {
		log.All().LogFormatter(formatter.NewJSONFormatter())
		if f.String("log-path") != "" {
			log.All().LogWriter(writer.NewDefaultRotatingFileWriter(context.TODO(), func(le level.Level, module string) string {
				return filepath.Join(f.String("log-path"), fmt.Sprintf("%s.%s.log", le.GetLevelName(), time.Now().Format("20060102")))
			}))
		}

		return nil
	})

	ins.Provider(
		proxy.Provider{},
		kimi.Provider{},
	)

	ins.Main(func(conf *config.Config, k *kimi.Kimi) {
		ctx := context.Background()

		if conf.PrintConfig {
			fmt.Println(conf.String())
		}

		if conf.CheckBalance {
			balance, err := k.Balance(ctx)
			if err != nil {
				log.With(err).Errorf("查询 Moonshot 账户余额失败")
			} else {
				fmt.Printf("账户余额: %.2f（代金券 %.2f，现金 %.2f）\n", balance.AvailableBalance, balance.VoucherBalance, balance.CashBalance)
			}
		}

		resp, err := k.Invoke(ctx, []moonshot.Message{
			moonshot.SystemMessage(kimi.DefaultSystemPrompt),
			moonshot.UserMessage(kimi.DefaultHumanPrompt),
		})
		if err != nil {
			log.With(err).Errorf("调用 Kimi API 失败")
			return
		}

		fmt.Println(resp.Content)

		k.Demo(ctx, "", "")
	})

	app.MustRun(ins)
}
