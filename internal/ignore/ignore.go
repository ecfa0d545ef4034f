// Package ignore 提供忽略规则：命令行/配置给出的 glob，以及从 .gitignore 读取并锚定到所在目录的规则。
package ignore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrBadPattern 表示 glob 语法无效，属于配置错误。
var ErrBadPattern = errors.New("bad ignore pattern")

// Pattern 是一条编译后的忽略规则。
// 规则命中某个路径本身或它的任一上级目录时，该路径被忽略。
type Pattern struct {
	source string
	glob   string
}

// Compile 编译一条外部给出的 glob。
// 不含 / 的模式可以匹配任意层级（*.json 会命中 a/b.json）。
func Compile(expr string) (Pattern, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return Pattern{}, fmt.Errorf("%w: empty pattern", ErrBadPattern)
	}

	glob := filepath.ToSlash(trimmed)
	if after, ok := strings.CutPrefix(glob, "./"); ok {
		glob = after
	}
	if !strings.Contains(glob, "/") {
		glob = "**/" + glob
	}
	return newPattern(expr, glob)
}

// Anchored 把 .gitignore 中的一行锚定到 .gitignore 所在目录。
// 行尾没有 * 时自动追加，因此 build 会变成 <dir>/build*，
// 只作用于 dir 的直接子项（以及经由上级目录匹配的整棵子树）。
func Anchored(dir string, line string) (Pattern, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return Pattern{}, fmt.Errorf("%w: %q is not a pattern line", ErrBadPattern, line)
	}

	body := trimmed
	if !strings.HasSuffix(body, "*") {
		body += "*"
	}

	base := escapeMeta(filepath.ToSlash(filepath.Clean(dir)))
	rel := strings.TrimPrefix(filepath.ToSlash(body), "/")

	glob := rel
	if base != "." {
		glob = strings.TrimSuffix(base, "/") + "/" + rel
	}
	return newPattern(line, glob)
}

func newPattern(source string, glob string) (Pattern, error) {
	if !doublestar.ValidatePattern(glob) {
		return Pattern{}, fmt.Errorf("%w: %q", ErrBadPattern, source)
	}
	return Pattern{source: source, glob: glob}, nil
}

// String 返回实际用于匹配的 glob。
func (p Pattern) String() string {
	return p.glob
}

// Source 返回原始输入。
func (p Pattern) Source() string {
	return p.source
}

// Match 判断路径或其任一上级目录是否命中该规则。
func (p Pattern) Match(path string) bool {
	normalized := filepath.ToSlash(filepath.Clean(path))
	if p.matchOne(normalized) {
		return true
	}
	for i := len(normalized) - 1; i > 0; i-- {
		if normalized[i] == '/' && p.matchOne(normalized[:i]) {
			return true
		}
	}
	return false
}

func (p Pattern) matchOne(path string) bool {
	// 模式在构造时已经校验过，这里忽略错误
	matched, _ := doublestar.Match(p.glob, path)
	return matched
}

// Set 是一组忽略规则，命中任意一条即忽略。
type Set []Pattern

// CompileAll 编译一组外部 glob，任何一条无效都返回错误。
func CompileAll(exprs []string) (Set, error) {
	set := make(Set, 0, len(exprs))
	for _, expr := range exprs {
		pattern, err := Compile(expr)
		if err != nil {
			return nil, err
		}
		set = append(set, pattern)
	}
	return set, nil
}

// ParseGitignore 读取 .gitignore 内容，跳过空行与 # 注释，每行锚定到 dir。
func ParseGitignore(dir string, reader io.Reader) (Set, error) {
	var set Set
	scanner := bufio.NewScanner(reader)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		pattern, err := Anchored(dir, line)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", filepath.Join(dir, ".gitignore"), lineNo, err)
		}
		set = append(set, pattern)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Join(dir, ".gitignore"), err)
	}
	return set, nil
}

// Match 判断路径是否命中任意规则。
func (s Set) Match(path string) bool {
	for _, pattern := range s {
		if pattern.Match(path) {
			return true
		}
	}
	return false
}

// Filter 返回未被忽略的文件，保持原有顺序。
func (s Set) Filter(files []string) []string {
	result := make([]string, 0, len(files))
	for _, file := range files {
		if !s.Match(file) {
			result = append(result, file)
		}
	}
	return result
}

// escapeMeta 转义目录名中的 glob 元字符，使其按字面匹配。
func escapeMeta(path string) string {
	var builder strings.Builder
	for _, r := range path {
		switch r {
		case '*', '?', '[', ']', '{', '}', '\\':
			builder.WriteRune('\\')
		}
		builder.WriteRune(r)
	}
	return builder.String()
}
