package config

import (
	"fmt"
	"strings"

	"gocod/internal/languages"
	"gocod/internal/matcher"
	"gocod/internal/model"
)

// ExtraLanguages 把配置中的额外语言转换为语言描述。
// 查询本身在注册表构造时校验。
func (c *Config) ExtraLanguages() ([]languages.Language, error) {
	result := make([]languages.Language, 0, len(c.Languages))
	for _, item := range c.Languages {
		patterns := make([]languages.Pattern, 0, len(item.Patterns))
		for _, pattern := range item.Patterns {
			category, err := model.ParseCategory(pattern.Category)
			if err != nil {
				return nil, fmt.Errorf("%w: language %s: %w", ErrInvalidConfig, item.Name, err)
			}
			if strings.TrimSpace(pattern.Query) == "" {
				return nil, fmt.Errorf("%w: language %s, category %s has an empty query", ErrInvalidConfig, item.Name, category)
			}
			patterns = append(patterns, languages.Pattern{Category: category, Query: pattern.Query})
		}

		result = append(result, languages.NewDescriptor(
			strings.TrimSpace(item.Name),
			matcher.Grammar(strings.ToLower(strings.TrimSpace(item.Grammar))),
			item.Suffixes,
			item.Filenames,
			patterns...,
		))
	}
	return result, nil
}
