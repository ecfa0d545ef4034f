package analyzer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocod/internal/languages"
	"gocod/internal/matcher"
	"gocod/internal/model"
)

// newTestAnalyzer 使用真实 tree-sitter 匹配器构造分析器。
func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()

	m := matcher.NewTreeSitter()
	t.Cleanup(m.Close)

	registry, err := languages.NewRegistry(m)
	require.NoError(t, err)
	return New(registry, m)
}

func TestCountLines(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    LineStats
	}{
		{"empty", "", LineStats{}},
		{"single without newline", "abc", LineStats{Total: 1}},
		{"trailing newline", "abc\n", LineStats{Total: 1}},
		{"only newline", "\n", LineStats{Total: 1, Blank: 1}},
		{"blank in middle", "a\n\n  \t\nb\n", LineStats{Total: 4, Blank: 2}},
		{"crlf", "a\r\n\r\nb\r\n", LineStats{Total: 3, Blank: 1}},
		{"trailing blank lines", "a\n\n\n", LineStats{Total: 3, Blank: 2}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CountLines([]byte(tc.content))
			assert.Equal(t, tc.want, got)
			assert.LessOrEqual(t, got.Blank, got.Total)
		})
	}
}

func TestAnalyzeRustFixture(t *testing.T) {
	a := newTestAnalyzer(t)

	stats, err := a.AnalyzeFile(filepath.Join("testdata", "test.rs"))
	require.NoError(t, err)

	assert.Equal(t, "Rust", stats.Name)
	assert.Equal(t, int64(1), stats.Files)
	assert.Equal(t, int64(25), stats.TotalLines)
	assert.Equal(t, int64(2), stats.BlankLines)
	assert.Equal(t, int64(2), stats.Count(model.Functions))
	assert.Equal(t, int64(4), stats.Count(model.Variables))
	assert.Equal(t, int64(3), stats.Count(model.Loops))
}

func TestAnalyzeCppFixture(t *testing.T) {
	a := newTestAnalyzer(t)

	stats, err := a.AnalyzeFile(filepath.Join("testdata", "test.cpp"))
	require.NoError(t, err)

	assert.Equal(t, "C++", stats.Name)
	assert.Equal(t, int64(29), stats.TotalLines)
	assert.Equal(t, int64(8), stats.BlankLines)
	assert.Equal(t, int64(2), stats.Count(model.Functions))
	assert.Equal(t, int64(4), stats.Count(model.Variables))
	assert.Equal(t, int64(4), stats.Count(model.Loops))
	assert.Equal(t, int64(1), stats.Count(model.Templates))
	assert.Equal(t, int64(1), stats.Count(model.Defines))
}

func TestAnalyzeCFixture(t *testing.T) {
	a := newTestAnalyzer(t)

	stats, err := a.AnalyzeFile(filepath.Join("testdata", "test.c"))
	require.NoError(t, err)

	assert.Equal(t, "C", stats.Name)
	assert.Equal(t, int64(22), stats.TotalLines)
	assert.Equal(t, int64(6), stats.BlankLines)
	assert.Equal(t, int64(2), stats.Count(model.Functions))
	assert.Equal(t, int64(4), stats.Count(model.Variables))
	assert.Equal(t, int64(3), stats.Count(model.Loops))
	assert.True(t, stats.Tracks(model.Defines))
	assert.Zero(t, stats.Count(model.Defines))
}

// TestAnalyzeBuiltinGrammarFixtures 固定每个内置语法语言的统计结果，
// 查询中的节点名写错时对应分类会变成 0。
func TestAnalyzeBuiltinGrammarFixtures(t *testing.T) {
	a := newTestAnalyzer(t)

	cases := []struct {
		file      string
		language  string
		total     int64
		blank     int64
		functions int64
		variables int64
		loops     int64
	}{
		{"test.zig", "Zig", 17, 2, 2, 4, 2},
		{"test.go", "Go", 17, 4, 3, 4, 1},
		{"test.py", "Python", 13, 4, 2, 2, 2},
		{"Test.java", "Java", 21, 2, 2, 2, 3},
		{"test.js", "JavaScript", 19, 3, 3, 3, 2},
		{"test.ts", "TypeScript", 19, 3, 3, 3, 2},
		{"test.tsx", "TSX", 9, 1, 2, 2, 1},
		{"test.cs", "C#", 24, 2, 3, 2, 2},
		{"test.php", "PHP", 17, 2, 2, 2, 2},
	}

	for _, tc := range cases {
		t.Run(tc.language, func(t *testing.T) {
			stats, err := a.AnalyzeFile(filepath.Join("testdata", tc.file))
			require.NoError(t, err)

			assert.Equal(t, tc.language, stats.Name)
			assert.Equal(t, tc.total, stats.TotalLines)
			assert.Equal(t, tc.blank, stats.BlankLines)
			assert.Equal(t, tc.functions, stats.Count(model.Functions), "functions")
			assert.Equal(t, tc.variables, stats.Count(model.Variables), "variables")
			assert.Equal(t, tc.loops, stats.Count(model.Loops), "loops")
		})
	}
}

func TestAnalyzePlainFormatHasNoCategories(t *testing.T) {
	a := newTestAnalyzer(t)
	json, ok := a.registry.Lookup("json")
	require.True(t, ok)

	stats, err := a.Analyze([]byte("{\n\n  \"a\": 1\n}\n"), json)
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalLines)
	assert.Equal(t, int64(1), stats.BlankLines)
	assert.Nil(t, stats.Categories)
}

func TestAnalyzeDeclaredCategoriesPresentWhenZero(t *testing.T) {
	a := newTestAnalyzer(t)
	rust, ok := a.registry.Lookup("rust")
	require.True(t, ok)

	stats, err := a.Analyze([]byte("// nothing here\n"), rust)
	require.NoError(t, err)

	for _, category := range []model.Category{model.Functions, model.Variables, model.Loops} {
		assert.True(t, stats.Tracks(category), category.String())
		assert.Zero(t, stats.Count(category))
	}
}

func TestAnalyzeFileBinaryContent(t *testing.T) {
	a := newTestAnalyzer(t)
	path := filepath.Join(t.TempDir(), "blob.rs")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x80}, 0o644))

	stats, err := a.AnalyzeFile(path)
	require.NoError(t, err)

	assert.Equal(t, &model.Stats{Name: model.BinaryName, Files: 1}, stats)
}

func TestAnalyzeFileMissingFileIsBinary(t *testing.T) {
	a := newTestAnalyzer(t)

	stats, err := a.AnalyzeFile(filepath.Join(t.TempDir(), "missing.c"))
	require.NoError(t, err)

	assert.Equal(t, model.BinaryName, stats.Name)
	assert.Equal(t, int64(1), stats.Files)
}

// failingMatcher 让 Parse 或 Count 失败，用于验证错误不会被吞掉。
type failingMatcher struct {
	parseErr error
	countErr error
}

func (f failingMatcher) Compile(matcher.Grammar, string) error { return nil }

func (f failingMatcher) Parse(matcher.Grammar, []byte) (matcher.Tree, error) {
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	return failingTree{err: f.countErr}, nil
}

type failingTree struct{ err error }

func (t failingTree) Count(string) (int, error) { return 0, t.err }
func (t failingTree) Kinds(func(kind string, depth int)) {}
func (t failingTree) Close() {}

func TestAnalyzePropagatesMatcherErrors(t *testing.T) {
	boom := errors.New("boom")
	rust := languages.NewDescriptor("Rust", matcher.GrammarRust, []string{".rs"}, nil,
		languages.Pattern{Category: model.Loops, Query: "(loop_expression)"})

	_, err := New(nil, failingMatcher{parseErr: boom}).Analyze([]byte("fn main() {}"), rust)
	require.ErrorIs(t, err, boom)

	_, err = New(nil, failingMatcher{countErr: boom}).Analyze([]byte("fn main() {}"), rust)
	require.ErrorIs(t, err, boom)
}
