// Package model 定义 gocod 的核心数据模型。
// 这些结构会被分析器、扫描器、输出层和命令层共同使用。
package model

import (
	"fmt"
	"strings"
)

// Category 表示一类结构化统计项（循环、函数、变量等）。
//
// 分类集合集中定义在这里，语言描述只声明自己支持的分类，
// 没有声明的分类在统计结果中读取为 0。
type Category int

const (
	// Loops 循环结构（for/while/loop 等）。
	Loops Category = iota
	// Functions 函数/方法定义。
	Functions
	// Variables 变量与常量声明。
	Variables
	// Templates 模板声明（C++）。
	Templates
	// Defines 预处理宏定义（C/C++）。
	Defines
)

var categoryNames = [...]string{
	Loops:     "Loops",
	Functions: "Functions",
	Variables: "Variables",
	Templates: "Templates",
	Defines:   "Defines",
}

// SummaryCategories 是汇总表与 Total 行固定展示的分类。
var SummaryCategories = []Category{Functions, Variables, Loops}

// String 返回分类名称。
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// AllCategories 按定义顺序返回全部分类。
func AllCategories() []Category {
	result := make([]Category, 0, len(categoryNames))
	for i := range categoryNames {
		result = append(result, Category(i))
	}
	return result
}

// ParseCategory 按名称解析分类，大小写不敏感。
func ParseCategory(name string) (Category, error) {
	trimmed := strings.TrimSpace(name)
	for i, item := range categoryNames {
		if strings.EqualFold(item, trimmed) {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", name)
}

// MarshalText 让分类在 JSON/YAML 中以名称输出。
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText 从名称解析分类。
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
