package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	xterm "github.com/charmbracelet/x/term"

	"gocod/internal/languages"
	"gocod/internal/model"
)

// NotTracked 是语言未声明某分类时的展示值。
const NotTracked = "-"

// summaryHeaders 是汇总表的列。
var summaryHeaders = []string{"Language", "Files", "Total lines", "Blank lines", "Functions", "Variables", "Loops"}

// PrintTable 使用表格展示每个语言与 Total 行。
// width<=0 时尝试探测终端宽度，探测失败则使用表格自然宽度。
func PrintTable(writer io.Writer, summary Summary, width int) error {
	rows := make([][]string, 0, len(summary.Languages)+1)
	for _, stats := range summary.Languages {
		rows = append(rows, summaryRow(stats))
	}
	emphasized := -1
	if summary.Total != nil {
		rows = append(rows, summaryRow(summary.Total))
		emphasized = len(rows) - 1
	}
	return renderTable(writer, summaryHeaders, rows, width, emphasized)
}

// renderTable 渲染 lipgloss 表格，emphasized 行加粗（小于 0 表示不加粗）。
func renderTable(writer io.Writer, headers []string, rows [][]string, width int, emphasized int) error {
	if width <= 0 {
		width = detectTerminalWidth(writer)
	}

	re := lipgloss.NewRenderer(writer)
	baseStyle := re.NewStyle().Padding(0, 1)
	headerStyle := baseStyle.Foreground(lipgloss.Color("252")).Bold(true)
	emphasizedStyle := baseStyle.Bold(true)

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(re.NewStyle().Foreground(lipgloss.Color("238"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case emphasized >= 0 && row == emphasized:
				return emphasizedStyle
			default:
				return baseStyle
			}
		})
	if width > 0 {
		tbl = tbl.Width(width)
	}

	_, err := fmt.Fprintln(writer, tbl)
	return err
}

// summaryRow 生成一行，未声明的分类显示为 "-"。
func summaryRow(stats *model.Stats) []string {
	row := []string{
		stats.Name,
		strconv.FormatInt(stats.Files, 10),
		strconv.FormatInt(stats.TotalLines, 10),
		strconv.FormatInt(stats.BlankLines, 10),
	}
	for _, category := range model.SummaryCategories {
		row = append(row, categoryCell(stats, category))
	}
	return row
}

func categoryCell(stats *model.Stats, category model.Category) string {
	if !stats.Tracks(category) {
		return NotTracked
	}
	return strconv.FormatInt(stats.Count(category), 10)
}

// PrintDetails 输出所选语言的详细统计。
// selected 中的名称大小写不敏感；选中 Other 时附带兜底语言出现过的扩展名。
func PrintDetails(writer io.Writer, summary Summary, selected []string) error {
	wanted := make(map[string]bool, len(selected))
	for _, name := range selected {
		wanted[strings.ToLower(strings.TrimSpace(name))] = true
	}

	re := lipgloss.NewRenderer(writer)
	titleStyle := re.NewStyle().Bold(true)

	var builder strings.Builder
	for _, stats := range summary.Languages {
		if !wanted[strings.ToLower(stats.Name)] {
			continue
		}

		builder.WriteString(titleStyle.Render("*** " + stats.Name + " ***"))
		builder.WriteByte('\n')
		fmt.Fprintf(&builder, "Number of files: %d\n", stats.Files)
		fmt.Fprintf(&builder, "Total lines: %d\n", stats.TotalLines)
		fmt.Fprintf(&builder, "Blank lines: %d\n", stats.BlankLines)
		for _, category := range model.AllCategories() {
			if stats.Tracks(category) {
				fmt.Fprintf(&builder, "%s: %d\n", category, stats.Count(category))
			}
		}

		if strings.EqualFold(stats.Name, languages.OtherName) {
			builder.WriteString("Other file endings:\n")
			for _, ext := range summary.OtherExtensions {
				fmt.Fprintf(&builder, "  %s\n", ext)
			}
		}
		builder.WriteByte('\n')
	}

	_, err := io.WriteString(writer, builder.String())
	return err
}

// detectTerminalWidth 尝试从 writer 获取终端宽度，失败则返回 0。
func detectTerminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if cols, _, err := xterm.GetSize(f.Fd()); err == nil && cols > 0 {
			return cols
		}
	}
	if v := os.Getenv("COLUMNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 0
}
