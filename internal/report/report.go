// Package report 提供 gocod 的输出能力。
// 支持 table 控制台格式，以及 json、yaml、toml 三种结构化格式（含文件导出）。
package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"gocod/internal/model"
)

// ErrUnknownFormat 表示不支持的输出格式。
var ErrUnknownFormat = errors.New("unknown output format")

// Format 是输出格式。
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTOML  Format = "toml"
)

// ParseFormat 解析格式名称，大小写不敏感，yml 视为 yaml。
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "table":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w %q, allowed values: table, json, yaml, toml", ErrUnknownFormat, name)
	}
}

// FormatForPath 根据导出文件扩展名推断格式，无法识别时返回 json。
func FormatForPath(path string) Format {
	format, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil || format == FormatTable {
		return FormatJSON
	}
	return format
}

// Summary 是一次运行的全部输出数据。
type Summary struct {
	Languages       []*model.Stats
	Total           *model.Stats
	OtherExtensions []string
}

// NewSummary 按语言名称排序并计算 Total。
func NewSummary(aggregate model.Aggregate, otherExtensions []string) Summary {
	return Summary{
		Languages:       aggregate.Sorted(),
		Total:           model.Total(aggregate),
		OtherExtensions: otherExtensions,
	}
}

// LanguageView 是单个语言的可序列化视图，分类以名称为键。
type LanguageView struct {
	Name       string           `json:"name" yaml:"name" toml:"name"`
	Files      int64            `json:"files" yaml:"files" toml:"files"`
	TotalLines int64            `json:"total_lines" yaml:"total_lines" toml:"total_lines"`
	BlankLines int64            `json:"blank_lines" yaml:"blank_lines" toml:"blank_lines"`
	Categories map[string]int64 `json:"categories,omitempty" yaml:"categories,omitempty" toml:"categories,omitempty"`
}

// View 是结构化输出的顶层对象。
type View struct {
	Languages       []LanguageView `json:"languages" yaml:"languages" toml:"languages"`
	Total           LanguageView   `json:"total" yaml:"total" toml:"total"`
	OtherExtensions []string       `json:"other_extensions,omitempty" yaml:"other_extensions,omitempty" toml:"other_extensions,omitempty"`
}

// NewView 把 Summary 转换为可序列化视图。
func NewView(summary Summary) View {
	view := View{
		Languages:       make([]LanguageView, 0, len(summary.Languages)),
		OtherExtensions: summary.OtherExtensions,
	}
	for _, stats := range summary.Languages {
		view.Languages = append(view.Languages, newLanguageView(stats))
	}
	if summary.Total != nil {
		view.Total = newLanguageView(summary.Total)
	}
	return view
}

func newLanguageView(stats *model.Stats) LanguageView {
	view := LanguageView{
		Name:       stats.Name,
		Files:      stats.Files,
		TotalLines: stats.TotalLines,
		BlankLines: stats.BlankLines,
	}
	if stats.Categories != nil {
		view.Categories = make(map[string]int64, len(stats.Categories))
		for category, n := range stats.Categories {
			view.Categories[category.String()] = n
		}
	}
	return view
}

// Marshal 把视图编码为指定结构化格式。
func Marshal(format Format, view View) ([]byte, error) {
	switch format {
	case FormatJSON:
		content, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal json: %w", err)
		}
		return append(content, '\n'), nil
	case FormatYAML:
		var buffer bytes.Buffer
		encoder := yaml.NewEncoder(&buffer)
		encoder.SetIndent(2)
		if err := encoder.Encode(view); err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		return buffer.Bytes(), nil
	case FormatTOML:
		content, err := toml.Marshal(view)
		if err != nil {
			return nil, fmt.Errorf("marshal toml: %w", err)
		}
		return content, nil
	default:
		return nil, fmt.Errorf("%w %q for structured output", ErrUnknownFormat, format)
	}
}

// PrintStructured 把汇总结果按结构化格式输出到任意 writer。
func PrintStructured(writer io.Writer, format Format, summary Summary) error {
	content, err := Marshal(format, NewView(summary))
	if err != nil {
		return err
	}
	if _, err := writer.Write(content); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}

// WriteFile 将结构化结果导出到指定路径，格式由扩展名决定。
// 如果目录不存在会自动创建。
func WriteFile(path string, summary Summary) error {
	content, err := Marshal(FormatForPath(path), NewView(summary))
	if err != nil {
		return err
	}

	directory := filepath.Dir(path)
	if directory != "." && directory != "" {
		if mkErr := os.MkdirAll(directory, 0o755); mkErr != nil {
			return fmt.Errorf("create output directory: %w", mkErr)
		}
	}

	if writeErr := os.WriteFile(path, content, 0o644); writeErr != nil {
		return fmt.Errorf("write output file: %w", writeErr)
	}
	return nil
}
