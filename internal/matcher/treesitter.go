package matcher

import (
	"fmt"
	"sort"
	"sync"

	tree_sitter_zig "github.com/tree-sitter-grammars/tree-sitter-zig/bindings/go"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// TreeSitter 是基于 tree-sitter 的 Matcher 实现。
//
// 解析器不是并发安全的，因此每次 Parse 都创建新的解析器；
// 编译后的查询只读，可以在 goroutine 之间共享。
type TreeSitter struct {
	languages map[Grammar]*tree_sitter.Language

	mu      sync.RWMutex
	queries map[queryKey]*tree_sitter.Query
}

type queryKey struct {
	grammar Grammar
	source  string
}

// NewTreeSitter 创建匹配器并注册全部内置语法。
func NewTreeSitter() *TreeSitter {
	cpp := tree_sitter.NewLanguage(tree_sitter_cpp.Language())

	return &TreeSitter{
		languages: map[Grammar]*tree_sitter.Language{
			GrammarRust: tree_sitter.NewLanguage(tree_sitter_rust.Language()),
			GrammarCPP:  cpp,
			// C 源码使用 C++ 语法解析，C 的结构节点在 C++ 语法中同名
			GrammarC:          cpp,
			GrammarZig:        tree_sitter.NewLanguage(tree_sitter_zig.Language()),
			GrammarGo:         tree_sitter.NewLanguage(tree_sitter_go.Language()),
			GrammarPython:     tree_sitter.NewLanguage(tree_sitter_python.Language()),
			GrammarJava:       tree_sitter.NewLanguage(tree_sitter_java.Language()),
			GrammarJavaScript: tree_sitter.NewLanguage(tree_sitter_javascript.Language()),
			GrammarTypeScript: tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
			GrammarTSX:        tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()),
			GrammarCSharp:     tree_sitter.NewLanguage(tree_sitter_csharp.Language()),
			GrammarPHP:        tree_sitter.NewLanguage(tree_sitter_php.LanguagePHP()),
		},
		queries: make(map[queryKey]*tree_sitter.Query),
	}
}

// Grammars 返回已注册语法，按名称排序。
func (m *TreeSitter) Grammars() []Grammar {
	result := make([]Grammar, 0, len(m.languages))
	for grammar := range m.languages {
		result = append(result, grammar)
	}
	sort.Slice(result, func(i int, j int) bool {
		return result[i] < result[j]
	})
	return result
}

// Supports 报告语法是否已注册。
func (m *TreeSitter) Supports(grammar Grammar) bool {
	_, ok := m.languages[grammar]
	return ok
}

// Compile 编译查询并放入缓存。
func (m *TreeSitter) Compile(grammar Grammar, query string) error {
	_, err := m.query(grammar, query)
	return err
}

// Parse 使用指定语法解析内容。
func (m *TreeSitter) Parse(grammar Grammar, content []byte) (Tree, error) {
	language, ok := m.languages[grammar]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGrammar, grammar)
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("set language %s: %w", grammar, err)
	}

	// tree-sitter 通过 CGO 持有输入缓冲区，这里复制一份，避免调用方后续修改
	buffer := make([]byte, len(content))
	copy(buffer, content)

	tree := parser.Parse(buffer, nil)
	if tree == nil {
		return nil, fmt.Errorf("%w: %s", ErrParse, grammar)
	}

	return &treeSitterTree{
		matcher: m,
		grammar: grammar,
		tree:    tree,
		content: buffer,
	}, nil
}

// Close 释放缓存的查询。
func (m *TreeSitter) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, query := range m.queries {
		query.Close()
		delete(m.queries, key)
	}
}

// query 返回编译好的查询，未命中时编译并缓存。
func (m *TreeSitter) query(grammar Grammar, source string) (*tree_sitter.Query, error) {
	key := queryKey{grammar: grammar, source: source}

	m.mu.RLock()
	cached, ok := m.queries[key]
	m.mu.RUnlock()
	if ok {
		return cached, nil
	}

	language, ok := m.languages[grammar]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGrammar, grammar)
	}

	// NewQuery 返回的是 *QueryError，必须先判空再转换成 error
	compiled, queryErr := tree_sitter.NewQuery(language, source)
	if queryErr != nil {
		return nil, &QueryError{
			Grammar: grammar,
			Query:   source,
			Offset:  queryErr.Offset,
			Message: queryErr.Message,
		}
	}
	if compiled == nil {
		return nil, &QueryError{Grammar: grammar, Query: source, Message: "query not created"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.queries[key]; ok {
		compiled.Close()
		return existing, nil
	}
	m.queries[key] = compiled
	return compiled, nil
}

// treeSitterTree 包装一次解析得到的语法树。
type treeSitterTree struct {
	matcher *TreeSitter
	grammar Grammar
	tree    *tree_sitter.Tree
	content []byte
}

// Count 统计查询匹配次数。
func (t *treeSitterTree) Count(source string) (int, error) {
	query, err := t.matcher.query(t.grammar, source)
	if err != nil {
		return 0, err
	}

	cursor := tree_sitter.NewQueryCursor()
	defer cursor.Close()

	matches := cursor.Matches(query, t.tree.RootNode(), t.content)
	count := 0
	for matches.Next() != nil {
		count++
	}
	return count, nil
}

// Kinds 深度优先遍历全部节点。
func (t *treeSitterTree) Kinds(visit func(kind string, depth int)) {
	walkNode(t.tree.RootNode(), 0, visit)
}

func walkNode(node *tree_sitter.Node, depth int, visit func(kind string, depth int)) {
	if node == nil {
		return
	}
	visit(node.Kind(), depth)
	for i := uint(0); i < node.ChildCount(); i++ {
		walkNode(node.Child(i), depth+1, visit)
	}
}

// Close 释放语法树。
func (t *treeSitterTree) Close() {
	t.tree.Close()
}

var _ Matcher = (*TreeSitter)(nil)
