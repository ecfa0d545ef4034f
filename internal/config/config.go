// Package config 加载 gocod 的配置文件、环境变量与默认值。
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"gocod/internal/languages"
	"gocod/internal/model"
)

// ErrInvalidConfig 表示配置内容不合法。
var ErrInvalidConfig = errors.New("invalid config")

// EnvPrefix 是环境变量前缀，例如 GOCOD_SCAN_JOBS。
const EnvPrefix = "GOCOD"

// Config 应用配置结构。
type Config struct {
	Log       LogConfig        `mapstructure:"log"`
	App       AppConfig        `mapstructure:"app"`
	Scan      ScanConfig       `mapstructure:"scan"`
	Languages []LanguageConfig `mapstructure:"languages"`
}

// LogConfig 日志配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`       // trace, debug, info, warn, error
	JSON       bool   `mapstructure:"json"`        // 控制台是否输出 JSON
	Mode       string `mapstructure:"mode"`        // console, file, both
	FilePath   string `mapstructure:"file_path"`   // mode 为 file 或 both 时使用
	MaxSize    int    `mapstructure:"max_size"`    // MB
	MaxBackups int    `mapstructure:"max_backups"` // 保留的备份文件数量
	MaxAge     int    `mapstructure:"max_age"`     // 天
}

// AppConfig 应用配置。
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Debug   bool   `mapstructure:"debug"`
	Verbose bool   `mapstructure:"verbose"`
	Quiet   bool   `mapstructure:"quiet"`
}

// ScanConfig 是 scan 命令的默认参数，命令行参数优先。
type ScanConfig struct {
	Jobs   int      `mapstructure:"jobs"`
	Ignore []string `mapstructure:"ignore"`
	Format string   `mapstructure:"format"`
	Output string   `mapstructure:"output"`
}

// LanguageConfig 描述一个额外语言，注册在内置语言之后、兜底语言之前。
type LanguageConfig struct {
	Name      string          `mapstructure:"name"`
	Suffixes  []string        `mapstructure:"suffixes"`
	Filenames []string        `mapstructure:"filenames"`
	Grammar   string          `mapstructure:"grammar"`
	Patterns  []PatternConfig `mapstructure:"patterns"`
}

// PatternConfig 是额外语言的一条统计模式。
type PatternConfig struct {
	Category string `mapstructure:"category"`
	Query    string `mapstructure:"query"`
}

// reservedNames 是内置桶与汇总行占用的名称，额外语言不能使用。
var reservedNames = []string{languages.OtherName, model.BinaryName, model.TotalName}

// setDefaults 设置默认配置值。
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.json", false)
	v.SetDefault("log.mode", "console")
	v.SetDefault("log.file_path", ".gocod/gocod.log")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
	v.SetDefault("app.name", "gocod")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.verbose", false)
	v.SetDefault("app.quiet", false)
	v.SetDefault("scan.jobs", 1)
	v.SetDefault("scan.ignore", []string{})
	v.SetDefault("scan.format", "table")
	v.SetDefault("scan.output", "")
}

// searchPaths 返回配置文件的搜索目录。
func searchPaths() []string {
	return []string{
		".",
		"./configs",
		"$HOME/.config/gocod",
		"$HOME",
	}
}

// findConfigFile 按目录、文件名、扩展名组合查找第一个存在的配置文件。
func findConfigFile() string {
	names := []string{".gocod", "gocod"}
	extensions := []string{"yaml", "yml", "json", "toml"}

	for _, dir := range searchPaths() {
		for _, name := range names {
			for _, ext := range extensions {
				candidate := os.ExpandEnv(filepath.Join(dir, name+"."+ext))
				if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
					return candidate
				}
			}
		}
	}
	return ""
}

// Load 加载配置。path 为空时按搜索路径查找，找不到配置文件时使用默认值。
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 检查与具体组件无关的配置约束。
func (c *Config) Validate() error {
	if c.Scan.Jobs < 0 {
		return fmt.Errorf("%w: scan.jobs must not be negative, got %d", ErrInvalidConfig, c.Scan.Jobs)
	}

	switch strings.ToLower(c.Log.Mode) {
	case "", "console", "file", "both":
	default:
		return fmt.Errorf("%w: log.mode must be console, file or both, got %q", ErrInvalidConfig, c.Log.Mode)
	}

	for i, language := range c.Languages {
		name := strings.TrimSpace(language.Name)
		if name == "" {
			return fmt.Errorf("%w: languages[%d] has no name", ErrInvalidConfig, i)
		}
		for _, reserved := range reservedNames {
			if strings.EqualFold(name, reserved) {
				return fmt.Errorf("%w: language name %s is reserved", ErrInvalidConfig, name)
			}
		}
		if len(language.Suffixes) == 0 && len(language.Filenames) == 0 {
			return fmt.Errorf("%w: language %s matches no files", ErrInvalidConfig, language.Name)
		}
		// 空后缀会匹配所有文件，相当于第二个兜底语言
		for _, suffix := range language.Suffixes {
			if strings.TrimSpace(suffix) == "" {
				return fmt.Errorf("%w: language %s has an empty suffix", ErrInvalidConfig, name)
			}
		}
		for _, filename := range language.Filenames {
			if strings.TrimSpace(filename) == "" {
				return fmt.Errorf("%w: language %s has an empty filename", ErrInvalidConfig, name)
			}
		}
		if language.Grammar == "" && len(language.Patterns) > 0 {
			return fmt.Errorf("%w: language %s declares patterns without a grammar", ErrInvalidConfig, language.Name)
		}
		if language.Grammar != "" && len(language.Patterns) == 0 {
			return fmt.Errorf("%w: language %s declares a grammar without patterns", ErrInvalidConfig, language.Name)
		}
	}
	return nil
}
