// Package languages 维护语言描述与注册表。
// 每个语言描述声明“哪些文件属于我”“用哪种语法解析”“统计哪些结构”，
// 注册表按优先级顺序做首个匹配分类。
package languages

import (
	"path/filepath"
	"strings"

	"gocod/internal/matcher"
	"gocod/internal/model"
)

// Pattern 是一条分类统计声明，Query 只由匹配器解释。
type Pattern struct {
	Category model.Category
	Query    string
}

// Language 定义语言描述接口。
type Language interface {
	// Name 返回语言名称（例如 Rust、C++），同时作为聚合键。
	Name() string
	// Matches 判断文件名是否属于该语言，不做任何 I/O。
	Matches(filename string) bool
	// Grammar 返回语法标识，空字符串表示不做结构化分析。
	Grammar() matcher.Grammar
	// Patterns 返回按顺序声明的统计模式。
	Patterns() []Pattern
}

// Descriptor 是表驱动的语言描述实现。
type Descriptor struct {
	name      string
	grammar   matcher.Grammar
	suffixes  []string
	filenames []string
	patterns  []Pattern
}

// NewDescriptor 创建语言描述。
// suffixes 按文件名后缀匹配（如 .rs），filenames 按文件基础名精确匹配（如 Makefile）。
func NewDescriptor(name string, grammar matcher.Grammar, suffixes []string, filenames []string, patterns ...Pattern) *Descriptor {
	return &Descriptor{
		name:      name,
		grammar:   grammar,
		suffixes:  append([]string(nil), suffixes...),
		filenames: append([]string(nil), filenames...),
		patterns:  append([]Pattern(nil), patterns...),
	}
}

// Name 返回语言名称。
func (d *Descriptor) Name() string {
	return d.name
}

// Matches 按后缀或精确文件名匹配。
func (d *Descriptor) Matches(filename string) bool {
	for _, suffix := range d.suffixes {
		if strings.HasSuffix(filename, suffix) {
			return true
		}
	}
	base := filepath.Base(filename)
	for _, name := range d.filenames {
		if base == name {
			return true
		}
	}
	return false
}

// Grammar 返回语法标识。
func (d *Descriptor) Grammar() matcher.Grammar {
	return d.grammar
}

// Patterns 返回统计模式的副本。
func (d *Descriptor) Patterns() []Pattern {
	return append([]Pattern(nil), d.patterns...)
}

// Suffixes 返回后缀列表。
func (d *Descriptor) Suffixes() []string {
	return append([]string(nil), d.suffixes...)
}

// Filenames 返回精确文件名列表。
func (d *Descriptor) Filenames() []string {
	return append([]string(nil), d.filenames...)
}

// OtherName 是兜底语言的名称。
const OtherName = "Other"

// Other 是兜底语言：匹配任意文件，不做结构化分析。
type Other struct{}

// Name 返回 Other。
func (Other) Name() string { return OtherName }

// Matches 永远返回 true。
func (Other) Matches(string) bool { return true }

// Grammar 返回空语法。
func (Other) Grammar() matcher.Grammar { return "" }

// Patterns 返回 nil。
func (Other) Patterns() []Pattern { return nil }

var (
	_ Language = (*Descriptor)(nil)
	_ Language = Other{}
)
