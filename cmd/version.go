package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// newVersionCmd 创建 version 子命令。
// 默认输出版本号、编译用的 Go 版本与目标平台，--short 只输出版本号。
func newVersionCmd(version string) *cobra.Command {
	var short bool

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "打印版本与构建信息",
		Args:  cobra.NoArgs,
		// 不加载配置，配置文件损坏时也能查看版本
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if short {
				_, err := fmt.Fprintln(out, version)
				return err
			}
			_, err := fmt.Fprintf(out, "gocod %s (%s %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return err
		},
	}

	versionCmd.Flags().BoolVar(&short, "short", false, "只打印版本号")
	return versionCmd
}
