// Package analyzer 负责单文件分析：行统计与结构化分类计数。
package analyzer

import (
	"bytes"
	"fmt"
	"os"
	"unicode/utf8"

	"gocod/internal/languages"
	"gocod/internal/matcher"
	"gocod/internal/model"
)

// Analyzer 是单文件分析器，只持有只读依赖，可被多个 goroutine 共享。
type Analyzer struct {
	registry *languages.Registry
	matcher  matcher.Matcher
}

// New 创建分析器。
func New(registry *languages.Registry, m matcher.Matcher) *Analyzer {
	return &Analyzer{registry: registry, matcher: m}
}

// LineStats 是一段内容的行统计。
type LineStats struct {
	Total int64
	Blank int64
}

// CountLines 按换行切分内容并统计总行数与空白行数。
//
// 约束说明：
// - 行尾的 \r 被去掉，适配 Windows 换行
// - 以换行结尾的内容不会多出一个空行
// - 去掉首尾空白后为空的行计为空白行
func CountLines(content []byte) LineStats {
	var stats LineStats
	for len(content) > 0 {
		line := content
		if i := bytes.IndexByte(content, '\n'); i >= 0 {
			line = content[:i]
			content = content[i+1:]
		} else {
			content = nil
		}
		line = bytes.TrimSuffix(line, []byte{'\r'})

		stats.Total++
		if len(bytes.TrimSpace(line)) == 0 {
			stats.Blank++
		}
	}
	return stats
}

// Analyze 对已解码的文本内容执行分析。
// 语言没有语法时分类 map 为 nil（展示为“不适用”），否则每个声明的分类都会出现，即使为 0。
func (a *Analyzer) Analyze(content []byte, language languages.Language) (*model.Stats, error) {
	lines := CountLines(content)
	stats := &model.Stats{
		Name:       language.Name(),
		Files:      1,
		TotalLines: lines.Total,
		BlankLines: lines.Blank,
	}

	grammar := language.Grammar()
	if grammar == "" {
		return stats, nil
	}

	tree, err := a.matcher.Parse(grammar, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", language.Name(), err)
	}
	defer tree.Close()

	stats.Categories = make(map[model.Category]int64)
	for _, pattern := range language.Patterns() {
		count, err := tree.Count(pattern.Query)
		if err != nil {
			return nil, fmt.Errorf("count %s %s: %w", language.Name(), pattern.Category, err)
		}
		stats.Categories[pattern.Category] += int64(count)
	}
	return stats, nil
}

// AnalyzeFile 分类并分析一个文件。
// 读取失败或内容不是合法 UTF-8 时，文件归入 Binary 桶，只计文件数。
func (a *Analyzer) AnalyzeFile(path string) (*model.Stats, error) {
	language := a.registry.Classify(path)

	content, err := os.ReadFile(path)
	if err != nil || !utf8.Valid(content) {
		binary := model.NewStats(model.BinaryName)
		binary.Files = 1
		return binary, nil
	}

	stats, err := a.Analyze(content, language)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return stats, nil
}
