// gocod 按语言统计源码的行数与函数、变量、循环等语法结构的数量。
package main

import (
	"os"
	"runtime/debug"

	"gocod/cmd"
)

// version 可以通过 -ldflags "-X main.version=vX.Y.Z" 注入。
var version string

func main() {
	os.Exit(cmd.Execute(resolveVersion()))
}

// resolveVersion 优先使用注入的版本，其次是 go install 记录的模块版本。
func resolveVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return "dev"
}
