// Package matcher 定义结构化模式匹配能力。
// 调用方只关心“按语法解析内容，再统计某个查询的匹配次数”，
// 具体实现（tree-sitter）被隔离在这个包里。
package matcher

import (
	"errors"
	"fmt"
)

// Grammar 标识一种语法解析器。
type Grammar string

// 内置语法标识。
const (
	GrammarRust       Grammar = "rust"
	GrammarCPP        Grammar = "cpp"
	GrammarC          Grammar = "c"
	GrammarZig        Grammar = "zig"
	GrammarGo         Grammar = "go"
	GrammarPython     Grammar = "python"
	GrammarJava       Grammar = "java"
	GrammarJavaScript Grammar = "javascript"
	GrammarTypeScript Grammar = "typescript"
	GrammarTSX        Grammar = "tsx"
	GrammarCSharp     Grammar = "c_sharp"
	GrammarPHP        Grammar = "php"
)

var (
	// ErrUnknownGrammar 表示请求了未注册的语法。
	ErrUnknownGrammar = errors.New("unknown grammar")
	// ErrParse 表示解析器没有产出语法树。
	ErrParse = errors.New("parse failed")
)

// Matcher 是模式匹配器接口。
// 对相同输入必须是确定且无副作用的，允许多个 goroutine 并发调用。
type Matcher interface {
	// Compile 预编译并校验查询，错误说明语言表本身有缺陷。
	Compile(grammar Grammar, query string) error
	// Parse 按语法解析内容。
	Parse(grammar Grammar, content []byte) (Tree, error)
}

// Tree 是一次解析的结果，只能在创建它的 goroutine 中使用。
type Tree interface {
	// Count 返回查询在整棵树上的匹配次数。
	Count(query string) (int, error)
	// Kinds 按深度优先顺序访问每个节点的类型名。
	Kinds(visit func(kind string, depth int))
	// Close 释放底层资源。
	Close()
}

// QueryError 描述一个无法编译的查询。
type QueryError struct {
	Grammar Grammar
	Query   string
	Offset  uint
	Message string
}

// Error 实现 error 接口。
func (e *QueryError) Error() string {
	return fmt.Sprintf("invalid %s query at offset %d: %s", e.Grammar, e.Offset, e.Message)
}
