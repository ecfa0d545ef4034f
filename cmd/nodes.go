package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"gocod/internal/matcher"
)

// nodesOptions 存放 nodes 命令的参数。
type nodesOptions struct {
	grammar  string
	maxDepth int
}

// newNodesCmd 创建 nodes 子命令。
// 按深度缩进打印文件语法树的节点类型，用于编写统计查询。
// 示例：
//
//	gocod nodes main.rs
//	gocod nodes script.bzl --grammar python --depth 2
func newNodesCmd(app *appContext) *cobra.Command {
	options := nodesOptions{maxDepth: -1}

	nodesCmd := &cobra.Command{
		Use:   "nodes <file>",
		Short: "打印文件语法树的节点类型",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			grammar := matcher.Grammar(strings.ToLower(strings.TrimSpace(options.grammar)))
			if grammar == "" {
				language := app.registry.Classify(path)
				grammar = language.Grammar()
				if grammar == "" {
					return fmt.Errorf("language %s has no grammar, use --grammar", language.Name())
				}
			}

			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			tree, err := app.matcher.Parse(grammar, content)
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}
			defer tree.Close()

			var builder strings.Builder
			tree.Kinds(func(kind string, depth int) {
				if options.maxDepth >= 0 && depth > options.maxDepth {
					return
				}
				builder.WriteString(strings.Repeat("  ", depth))
				builder.WriteString(kind)
				builder.WriteByte('\n')
			})

			_, err = fmt.Fprint(cmd.OutOrStdout(), builder.String())
			return err
		},
	}

	nodesCmd.Flags().StringVar(&options.grammar, "grammar", "", "指定语法（默认按文件名推断）")
	nodesCmd.Flags().IntVar(&options.maxDepth, "depth", options.maxDepth, "最大打印深度，负数表示不限制")

	return nodesCmd
}
