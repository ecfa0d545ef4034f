package languages

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"gocod/internal/matcher"
)

// Registry 管理语言描述的有序列表。
// 分类按顺序取首个匹配项，兜底语言 Other 永远在最后，保证分类是全函数。
type Registry struct {
	languages []Language
	byName    map[string]Language
}

// NewRegistry 创建注册表：内置语言、extra（插在兜底语言之前）、Other。
// 所有模式会通过 m 预编译，任何一个查询无效都视为语言表缺陷并返回错误。
func NewRegistry(m matcher.Matcher, extra ...Language) (*Registry, error) {
	ordered := make([]Language, 0, len(extra)+20)
	ordered = append(ordered, builtinLanguages()...)
	ordered = append(ordered, extra...)
	ordered = append(ordered, Other{})

	registry := &Registry{
		languages: ordered,
		byName:    make(map[string]Language, len(ordered)),
	}

	for _, language := range ordered {
		key := strings.ToLower(language.Name())
		if key == "" {
			return nil, fmt.Errorf("language with empty name")
		}
		if _, exists := registry.byName[key]; exists {
			return nil, fmt.Errorf("duplicate language %q", language.Name())
		}
		registry.byName[key] = language

		if err := compilePatterns(m, language); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// compilePatterns 预编译某个语言的全部模式。
func compilePatterns(m matcher.Matcher, language Language) error {
	grammar := language.Grammar()
	patterns := language.Patterns()
	if grammar == "" {
		if len(patterns) > 0 {
			return fmt.Errorf("language %s declares patterns without a grammar", language.Name())
		}
		return nil
	}
	for _, pattern := range patterns {
		if err := m.Compile(grammar, pattern.Query); err != nil {
			return fmt.Errorf("language %s, category %s: %w", language.Name(), pattern.Category, err)
		}
	}
	return nil
}

// Classify 返回拥有该文件名的语言。
func (r *Registry) Classify(filename string) Language {
	for _, language := range r.languages {
		if language.Matches(filename) {
			return language
		}
	}
	// 不可达：Other 匹配任意文件名
	return r.languages[len(r.languages)-1]
}

// Lookup 按名称查找语言，大小写不敏感。
func (r *Registry) Lookup(name string) (Language, bool) {
	language, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return language, ok
}

// Languages 按优先级顺序返回全部语言。
func (r *Registry) Languages() []Language {
	return append([]Language(nil), r.languages...)
}

// IsCatchAll 报告语言是否为兜底语言。
func (r *Registry) IsCatchAll(language Language) bool {
	return language.Name() == OtherName
}

// OtherExtensions 返回落入兜底语言的文件所出现的全部扩展名（去重、排序，不含点号）。
func (r *Registry) OtherExtensions(files []string) []string {
	seen := make(map[string]struct{})
	for _, file := range files {
		if !r.IsCatchAll(r.Classify(file)) {
			continue
		}
		ext := strings.TrimPrefix(filepath.Ext(file), ".")
		if ext == "" {
			continue
		}
		seen[ext] = struct{}{}
	}

	result := make([]string, 0, len(seen))
	for ext := range seen {
		result = append(result, ext)
	}
	sort.Strings(result)
	return result
}
