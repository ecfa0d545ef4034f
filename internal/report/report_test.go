package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocod/internal/languages"
	"gocod/internal/matcher"
	"gocod/internal/model"
)

func sampleSummary() Summary {
	aggregate := model.Aggregate{
		"Rust": {
			Name: "Rust", Files: 2, TotalLines: 40, BlankLines: 5,
			Categories: map[model.Category]int64{model.Functions: 3, model.Variables: 7, model.Loops: 2},
		},
		"C++": {
			Name: "C++", Files: 1, TotalLines: 29, BlankLines: 8,
			Categories: map[model.Category]int64{
				model.Functions: 2, model.Variables: 4, model.Loops: 4, model.Templates: 1, model.Defines: 1,
			},
		},
		"Json":  {Name: "Json", Files: 1, TotalLines: 3},
		"Other": {Name: "Other", Files: 3, TotalLines: 10, BlankLines: 1},
	}
	return NewSummary(aggregate, []string{"lock", "png"})
}

func TestNewSummarySortsAndTotals(t *testing.T) {
	summary := sampleSummary()

	names := make([]string, 0, len(summary.Languages))
	for _, stats := range summary.Languages {
		names = append(names, stats.Name)
	}
	assert.Equal(t, []string{"C++", "Json", "Other", "Rust"}, names)

	assert.Equal(t, model.TotalName, summary.Total.Name)
	assert.Equal(t, int64(7), summary.Total.Files)
	assert.Equal(t, int64(82), summary.Total.TotalLines)
	assert.Equal(t, int64(5), summary.Total.Count(model.Functions))
	assert.False(t, summary.Total.Tracks(model.Templates))
}

func TestPrintTable(t *testing.T) {
	t.Setenv("COLUMNS", "")
	var buffer bytes.Buffer
	require.NoError(t, PrintTable(&buffer, sampleSummary(), 0))

	output := buffer.String()
	for _, want := range []string{"Language", "Blank lines", "Loops", "C++", "Rust", "Total", "82"} {
		assert.Contains(t, output, want)
	}

	var jsonLine string
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, "Json") {
			jsonLine = line
		}
	}
	require.NotEmpty(t, jsonLine)
	assert.Equal(t, 3, strings.Count(jsonLine, " "+NotTracked+" "), jsonLine)
}

func TestSummaryRowMarksUntrackedCategories(t *testing.T) {
	row := summaryRow(&model.Stats{
		Name: "C", Files: 1, TotalLines: 22, BlankLines: 6,
		Categories: map[model.Category]int64{model.Functions: 2, model.Loops: 0},
	})

	assert.Equal(t, []string{"C", "1", "22", "6", "2", NotTracked, "0"}, row)
}

func TestPrintDetails(t *testing.T) {
	var buffer bytes.Buffer
	require.NoError(t, PrintDetails(&buffer, sampleSummary(), []string{"c++", "OTHER", "cobol"}))

	output := buffer.String()
	assert.Contains(t, output, "*** C++ ***")
	assert.Contains(t, output, "Number of files: 1\n")
	assert.Contains(t, output, "Total lines: 29\n")
	assert.Contains(t, output, "Blank lines: 8\n")
	assert.Contains(t, output, "Loops: 4\nFunctions: 2\nVariables: 4\nTemplates: 1\nDefines: 1\n")
	assert.Contains(t, output, "*** Other ***")
	assert.Contains(t, output, "Other file endings:\n  lock\n  png\n")
	assert.NotContains(t, output, "Rust")
}

func TestPrintDetailsNothingSelected(t *testing.T) {
	var buffer bytes.Buffer
	require.NoError(t, PrintDetails(&buffer, sampleSummary(), nil))
	assert.Empty(t, buffer.String())
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"":      FormatTable,
		"TABLE": FormatTable,
		"json":  FormatJSON,
		" yml ": FormatYAML,
		"yaml":  FormatYAML,
		"toml":  FormatTOML,
	}
	for input, want := range cases {
		got, err := ParseFormat(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseFormat("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatForPath("out/result.json"))
	assert.Equal(t, FormatYAML, FormatForPath("result.yml"))
	assert.Equal(t, FormatTOML, FormatForPath("result.toml"))
	assert.Equal(t, FormatJSON, FormatForPath("result"))
	assert.Equal(t, FormatJSON, FormatForPath("result.table"))
}

func TestNewViewUsesCategoryNames(t *testing.T) {
	view := NewView(sampleSummary())

	require.Len(t, view.Languages, 4)
	assert.Equal(t, map[string]int64{
		"Functions": 2, "Variables": 4, "Loops": 4, "Templates": 1, "Defines": 1,
	}, view.Languages[0].Categories)
	assert.Nil(t, view.Languages[1].Categories, "Json has no structural categories")
	assert.Equal(t, int64(5), view.Total.Categories["Functions"])
	assert.Equal(t, []string{"lock", "png"}, view.OtherExtensions)
}

func TestMarshalFormats(t *testing.T) {
	view := NewView(sampleSummary())

	content, err := Marshal(FormatJSON, view)
	require.NoError(t, err)
	var decoded View
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.Equal(t, view, decoded)

	content, err = Marshal(FormatYAML, view)
	require.NoError(t, err)
	assert.Contains(t, string(content), "total_lines: 29")
	assert.Contains(t, string(content), "other_extensions:")

	content, err = Marshal(FormatTOML, view)
	require.NoError(t, err)
	assert.Contains(t, string(content), "total_lines = 29")
	assert.Contains(t, string(content), "[[languages]]")

	_, err = Marshal(FormatTable, view)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestPrintStructured(t *testing.T) {
	var buffer bytes.Buffer
	require.NoError(t, PrintStructured(&buffer, FormatJSON, sampleSummary()))
	assert.Contains(t, buffer.String(), `"name": "Total"`)
}

func TestWriteFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "result.yaml")

	require.NoError(t, WriteFile(path, sampleSummary()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "name: Rust")
}

func TestPrintLanguages(t *testing.T) {
	items := []languages.Language{
		languages.NewDescriptor("C", matcher.GrammarC, []string{".c", ".h"}, nil,
			languages.Pattern{Category: model.Loops, Query: "(for_statement)"},
			languages.Pattern{Category: model.Loops, Query: "(while_statement)"},
			languages.Pattern{Category: model.Defines, Query: "(preproc_def)"}),
		languages.NewDescriptor("Makefile", "", []string{".mk"}, []string{"Makefile"}),
		languages.Other{},
	}

	t.Setenv("COLUMNS", "")
	var buffer bytes.Buffer
	require.NoError(t, PrintLanguages(&buffer, items, 0))

	output := buffer.String()
	assert.Contains(t, output, ".c, .h")
	assert.Contains(t, output, "Loops, Defines")
	assert.Contains(t, output, ".mk, Makefile")
	assert.Contains(t, output, "Other")
}

func TestMatchRule(t *testing.T) {
	assert.Equal(t, "*", matchRule(languages.Other{}))
	assert.Equal(t, ".rs", matchRule(languages.NewDescriptor("Rust", "", []string{".rs"}, nil)))
}
