// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/cavakil/backoffice/internal/permission"
)

// Theme colors for terminal UI rendering.
var (
	Purple    = lipgloss.Color("99")
	Gray      = lipgloss.Color("245")
	LightGray = lipgloss.Color("241")
	White     = lipgloss.Color("15")
	Teal      = lipgloss.Color("#06ffa5")
)

// Reusable inline styles for compact key-value output.
var (
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	valueStyle = lipgloss.NewStyle().Foreground(Teal)

	// DimStyle is a muted style for secondary text.
	DimStyle = lipgloss.NewStyle().Foreground(Gray)
)

// Table is a titled block of rows rendered by PrintTable.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// maxCellWidth caps a column; longer cells are cut with an ellipsis.
const maxCellWidth = 50

var (
	tableTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	tableRowStyles   = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(Teal),
		lipgloss.NewStyle().Foreground(White),
	}
)

// PrintTable writes each table as two-space indented, aligned columns with
// uppercase headers. Whitespace inside a cell collapses to single spaces.
func PrintTable(
	w io.Writer,
	tables ...Table,
) {
	for _, t := range tables {
		fmt.Fprintln(w)
		if t.Title != "" {
			fmt.Fprintf(w, "  %s:\n", tableTitleStyle.Render(t.Title))
		}

		headers := make([]string, len(t.Headers))
		for i, h := range t.Headers {
			headers[i] = strings.ToUpper(h)
		}
		rows := make([][]string, len(t.Rows))
		for i, row := range t.Rows {
			rows[i] = normalizeRow(row, len(headers))
		}

		widths := tableWidths(headers, rows)
		fmt.Fprintln(w, renderTableLine(headers, widths, tableHeaderStyle))
		for i, row := range rows {
			fmt.Fprintln(w, renderTableLine(row, widths, tableRowStyles[i%2]))
		}
	}
}

// normalizeRow pads or trims row to n cells and flattens each cell.
func normalizeRow(
	row []string,
	n int,
) []string {
	out := make([]string, n)
	for i := range out {
		if i < len(row) {
			out[i] = strings.Join(strings.Fields(row[i]), " ")
		}
	}
	return out
}

func tableWidths(
	headers []string,
	rows [][]string,
) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}
	for i := range widths {
		widths[i] = min(widths[i], maxCellWidth)
	}
	return widths
}

func renderTableLine(
	cells []string,
	widths []int,
	style lipgloss.Style,
) string {
	var line strings.Builder
	line.WriteString("  ")
	for i, cell := range cells {
		if r := []rune(cell); len(r) > widths[i] {
			cell = string(r[:widths[i]-1]) + "…"
		}
		if i < len(cells)-1 {
			cell += strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell)+2)
		}
		line.WriteString(style.Render(cell))
	}
	return line.String()
}

// KVMinColWidth is the minimum visual width for each key-value column.
// A consistent minimum ensures columns align across consecutive PrintKV calls.
const KVMinColWidth = 20

// PrintKV prints labeled key-value pairs on a single indented line.
// Pairs are padded to equal column widths for alignment.
// Arguments alternate between labels and values: label1, val1, label2, val2, ...
func PrintKV(
	pairs ...string,
) {
	if len(pairs)%2 != 0 || len(pairs) == 0 {
		return
	}

	rendered := make([]string, 0, len(pairs)/2)
	maxWidth := KVMinColWidth
	for i := 0; i < len(pairs); i += 2 {
		pair := labelStyle.Render(pairs[i]+":") + " " + valueStyle.Render(pairs[i+1])
		rendered = append(rendered, pair)
		if w := lipgloss.Width(pair); w > maxWidth {
			maxWidth = w
		}
	}

	var line strings.Builder
	line.WriteString("  ")
	for i, pair := range rendered {
		line.WriteString(pair)
		if i < len(rendered)-1 {
			pad := maxWidth - lipgloss.Width(pair) + 4
			line.WriteString(strings.Repeat(" ", pad))
		}
	}
	fmt.Println(line.String())
}

// FormatAge formats a duration as a human-readable age string.
// Returns "3d 4h", "12h 30m", "45m", "30s" etc.
func FormatAge(
	d time.Duration,
) string {
	if d <= 0 {
		return ""
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	default:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
}

// FormatPermissions renders a permission map as "resource:action,action"
// groups sorted by resource. Resources with no granted action are omitted.
func FormatPermissions(
	m permission.Map,
) string {
	resources := make([]string, 0, len(m))
	for res := range m {
		resources = append(resources, string(res))
	}
	sort.Strings(resources)

	groups := make([]string, 0, len(resources))
	for _, res := range resources {
		flags := m[permission.Resource(res)]
		var acts []string
		for _, act := range permission.AllActions {
			if flags.Has(act) {
				acts = append(acts, string(act))
			}
		}
		if len(acts) == 0 {
			continue
		}
		groups = append(groups, res+":"+strings.Join(acts, ","))
	}

	if len(groups) == 0 {
		return "None"
	}
	return strings.Join(groups, " ")
}
