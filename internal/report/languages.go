package report

import (
	"io"
	"strings"

	"gocod/internal/languages"
)

var languageHeaders = []string{"Language", "Grammar", "Matches", "Categories"}

// fileMatcher 是按后缀与文件名匹配的语言描述。
type fileMatcher interface {
	Suffixes() []string
	Filenames() []string
}

// PrintLanguages 按分类优先级列出语言、语法、匹配规则与统计分类。
func PrintLanguages(writer io.Writer, items []languages.Language, width int) error {
	rows := make([][]string, 0, len(items))
	for _, language := range items {
		rows = append(rows, []string{
			language.Name(),
			orNotTracked(string(language.Grammar())),
			orNotTracked(matchRule(language)),
			orNotTracked(categoryList(language)),
		})
	}
	return renderTable(writer, languageHeaders, rows, width, -1)
}

func matchRule(language languages.Language) string {
	if language.Name() == languages.OtherName {
		return "*"
	}
	described, ok := language.(fileMatcher)
	if !ok {
		return ""
	}
	rules := append(append([]string(nil), described.Suffixes()...), described.Filenames()...)
	return strings.Join(rules, ", ")
}

func categoryList(language languages.Language) string {
	patterns := language.Patterns()
	names := make([]string, 0, len(patterns))
	seen := make(map[string]bool, len(patterns))
	for _, pattern := range patterns {
		name := pattern.Category.String()
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

func orNotTracked(value string) string {
	if value == "" {
		return NotTracked
	}
	return value
}
