// Package log 根据配置构造 zerolog 日志记录器。
// 支持控制台、文件（lumberjack 轮转）或两者同时输出；控制台输出走 stderr，不与报告混在一起。
package log

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	xterm "github.com/charmbracelet/x/term"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"gocod/internal/config"
)

// New 创建日志记录器。
// 级别优先级：quiet > debug > verbose > 配置中的 level。
func New(cfg config.LogConfig, app config.AppConfig, console io.Writer) zerolog.Logger {
	if app.Quiet {
		return zerolog.Nop()
	}

	level := ParseLevel(cfg.Level)
	switch {
	case app.Debug:
		level = zerolog.DebugLevel
	case app.Verbose:
		level = zerolog.InfoLevel
	}

	var writers []io.Writer
	switch strings.ToLower(cfg.Mode) {
	case "file":
		writers = append(writers, createFileWriter(cfg, console))
	case "both":
		writers = append(writers, createConsoleWriter(cfg.JSON, console), createFileWriter(cfg, console))
	default:
		writers = append(writers, createConsoleWriter(cfg.JSON, console))
	}

	output := writers[0]
	if len(writers) > 1 {
		output = zerolog.MultiLevelWriter(writers...)
	}

	logCtx := zerolog.New(output).Level(level).With().Timestamp()
	if app.Debug {
		logCtx = logCtx.Caller().Str("app", app.Name)
	}
	return logCtx.Logger()
}

// createConsoleWriter 创建控制台输出写入器。
func createConsoleWriter(useJSON bool, out io.Writer) io.Writer {
	if useJSON {
		return out
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    !isTerminal(out),
		TimeFormat: "2006-01-02 15:04:05",
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && xterm.IsTerminal(f.Fd())
}

// createFileWriter 创建带轮转的文件写入器，目录无法创建时退回控制台。
func createFileWriter(cfg config.LogConfig, fallback io.Writer) io.Writer {
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return fallback
	}
	return &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   true,
	}
}

// ParseLevel 解析日志级别，无法识别时返回 warn。
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.WarnLevel
	}
}
