// Package cmd 提供 gocod 的命令行入口与子命令编排。
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"gocod/internal/config"
	"gocod/internal/languages"
	"gocod/internal/log"
	"gocod/internal/matcher"
)

// exitInterrupted 是收到中断信号后的退出码。
const exitInterrupted = 130

// Execute 执行根命令并返回进程退出码，错误信息写到标准错误。
func Execute(version string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd, app := newRootCmd(version)
	err := runRoot(ctx, rootCmd, app)
	if err == nil {
		return 0
	}

	fmt.Fprintf(rootCmd.ErrOrStderr(), "gocod error: %v\n", err)
	if ctx.Err() != nil {
		return exitInterrupted
	}
	return 1
}

// runRoot 执行命令，无论成功与否都释放 appContext 持有的匹配器。
func runRoot(ctx context.Context, rootCmd *cobra.Command, app *appContext) error {
	defer app.close()
	return rootCmd.ExecuteContext(ctx)
}

// globalOptions 是所有子命令共享的参数。
type globalOptions struct {
	configPath string
	debug      bool
	verbose    bool
	quiet      bool
}

// appContext 持有一次命令执行期间共享的依赖，在 PersistentPreRunE 中初始化。
type appContext struct {
	config   *config.Config
	logger   zerolog.Logger
	matcher  *matcher.TreeSitter
	registry *languages.Registry
}

// init 加载配置并构造日志、匹配器与语言注册表。
// 命令行开关只在显式给出时覆盖配置文件。
func (a *appContext) init(cmd *cobra.Command, options *globalOptions) error {
	cfg, err := config.Load(options.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.App.Debug = options.debug
	}
	if flags.Changed("verbose") {
		cfg.App.Verbose = options.verbose
	}
	if flags.Changed("quiet") {
		cfg.App.Quiet = options.quiet
	}

	a.config = cfg
	a.logger = log.New(cfg.Log, cfg.App, cmd.ErrOrStderr())

	extra, err := cfg.ExtraLanguages()
	if err != nil {
		return err
	}

	m := matcher.NewTreeSitter()
	registry, err := languages.NewRegistry(m, extra...)
	if err != nil {
		m.Close()
		return fmt.Errorf("build language registry: %w", err)
	}

	a.matcher = m
	a.registry = registry
	a.logger.Debug().
		Int("languages", len(registry.Languages())).
		Int("extra", len(extra)).
		Msg("language registry ready")
	return nil
}

// close 释放匹配器持有的查询。
func (a *appContext) close() {
	if a.matcher != nil {
		a.matcher.Close()
		a.matcher = nil
	}
}

// newRootCmd 创建根命令并注册全部子命令，返回的 appContext 由调用方关闭。
func newRootCmd(version string) (*cobra.Command, *appContext) {
	app := &appContext{}
	options := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "gocod",
		Short: "基于语法树的代码度量统计工具",
		Long: "gocod 使用 tree-sitter 解析源码，按语言统计文件数、总行数、空白行数，\n" +
			"以及函数、变量、循环等结构的数量，支持并发扫描与 json/yaml/toml 导出。",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.init(cmd, options)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&options.configPath, "config", "", "配置文件路径（默认按 ./.gocod.yaml、~/.config/gocod 等位置查找）")
	flags.BoolVar(&options.debug, "debug", false, "输出调试日志")
	flags.BoolVarP(&options.verbose, "verbose", "v", false, "输出详细日志")
	flags.BoolVarP(&options.quiet, "quiet", "q", false, "关闭全部日志")

	rootCmd.AddCommand(newVersionCmd(version))
	rootCmd.AddCommand(newLanguageCmd(app))
	rootCmd.AddCommand(newScanCmd(app))
	rootCmd.AddCommand(newNodesCmd(app))

	return rootCmd, app
}
