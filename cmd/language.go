package cmd

import (
	"github.com/spf13/cobra"

	"gocod/internal/report"
)

// newLanguageCmd 创建 language 子命令。
// 按分类优先级展示已注册语言、语法、匹配规则与统计分类，包含配置中的额外语言。
func newLanguageCmd(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "language",
		Short: "展示已注册语言及匹配规则",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return report.PrintLanguages(cmd.OutOrStdout(), app.registry.Languages(), 0)
		},
	}
}
