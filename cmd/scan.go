package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"gocod/internal/analyzer"
	"gocod/internal/ignore"
	"gocod/internal/report"
	"gocod/internal/scanner"
)

// scanOptions 存放 scan 命令的可配置参数。
type scanOptions struct {
	ignore    []string
	languages []string
	noSummary bool
	jobs      int
	format    string
	output    string
}

// newScanCmd 创建 scan 子命令。
// 示例：
//
//	gocod scan
//	gocod scan ./src ./include -j 4 -l rust -l other
//	gocod scan . -i vendor -i '*.min.js' --format json --output result.json
func newScanCmd(app *appContext) *cobra.Command {
	options := scanOptions{}

	scanCmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "扫描目录或文件并输出代码度量信息",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, app, options, args)
		},
	}

	flags := scanCmd.Flags()
	flags.StringArrayVarP(&options.ignore, "ignore", "i", nil, "忽略匹配该 glob 的文件，可重复")
	flags.StringArrayVarP(&options.languages, "language", "l", nil, "输出该语言的详细统计（大小写不敏感），可重复")
	flags.BoolVar(&options.noSummary, "no-summary", false, "不输出汇总表，常与 -l 一起使用")
	flags.IntVarP(&options.jobs, "jobs", "j", 1, "并发 worker 数量，0 表示使用 CPU 核数")
	flags.StringVar(&options.format, "format", "table", "输出格式: table, json, yaml 或 toml")
	flags.StringVar(&options.output, "output", "", "导出文件路径，格式由扩展名决定（.json/.yaml/.toml）")

	return scanCmd
}

// runScan 执行发现、分析与输出。
// 未显式给出的参数取配置文件中的 scan 段。
func runScan(cmd *cobra.Command, app *appContext, options scanOptions, args []string) error {
	flags := cmd.Flags()
	settings := app.config.Scan

	if flags.Changed("jobs") {
		settings.Jobs = options.jobs
	}
	if flags.Changed("format") {
		settings.Format = options.format
	}
	if flags.Changed("output") {
		settings.Output = options.output
	}
	if settings.Jobs < 0 {
		return errors.New("jobs must not be negative")
	}

	format, err := report.ParseFormat(settings.Format)
	if err != nil {
		return err
	}

	patterns, err := ignore.CompileAll(append(append([]string(nil), settings.Ignore...), options.ignore...))
	if err != nil {
		return err
	}

	for _, name := range options.languages {
		if _, ok := app.registry.Lookup(name); !ok {
			app.logger.Warn().Str("language", name).Msg("unknown language selected for details")
		}
	}

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}

	ctx := cmd.Context()
	files, err := scanner.Scan(ctx, roots, scanner.ScanOptions{Ignore: patterns, Logger: app.logger})
	if err != nil {
		return err
	}

	service := scanner.NewService(analyzer.New(app.registry, app.matcher), settings.Jobs, app.logger)
	app.logger.Info().
		Strs("roots", roots).
		Int("files", len(files)).
		Int("jobs", service.Jobs()).
		Msg("scan started")

	aggregate, err := service.Run(ctx, files)
	if err != nil {
		return err
	}

	summary := report.NewSummary(aggregate, app.registry.OtherExtensions(files))
	out := cmd.OutOrStdout()

	switch format {
	case report.FormatTable:
		if !options.noSummary {
			if err := report.PrintTable(out, summary, 0); err != nil {
				return err
			}
		}
		if err := report.PrintDetails(out, summary, options.languages); err != nil {
			return err
		}
	default:
		if err := report.PrintStructured(out, format, summary); err != nil {
			return err
		}
	}

	if settings.Output != "" {
		if err := report.WriteFile(settings.Output, summary); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "exported to %s\n", settings.Output)
	}
	return nil
}
