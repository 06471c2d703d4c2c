// Copyright (c) 2024 John Dewey

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

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/cavakil/backoffice/internal/cli"
)

// section represents a header with its corresponding rows.
type section struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// logFatal logs through the command logger and exits.
func logFatal(
	msg string,
	err error,
	kvPairs ...any,
) {
	cli.LogFatal(logger, msg, err, kvPairs...)
}

// printJSON writes v as indented JSON on stdout.
func printJSON(
	v any,
) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logFatal("failed to marshal output", err)
	}
	fmt.Println(string(out))
}

// printStyledTable renders a styled table with dynamic column widths.
func printStyledTable(
	sections []section,
) {
	re := lipgloss.NewRenderer(os.Stdout)

	termWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		termWidth = 120
	}

	for _, section := range sections {
		columnWidths := fitColumnWidths(
			calculateColumnWidths(section.Headers, section.Rows, 1),
			termWidth-4,
		)

		var (
			headerStyle  = re.NewStyle().Foreground(cli.White).Bold(true).Align(lipgloss.Center)
			cellStyle    = re.NewStyle().PaddingLeft(1)
			oddRowStyle  = cellStyle.Foreground(cli.Gray)
			evenRowStyle = cellStyle.Foreground(cli.LightGray)
			borderStyle  = re.NewStyle().Foreground(cli.Purple)
			paddingStyle = re.NewStyle().Padding(0, 2)
			titleStyle   = re.NewStyle().Bold(true).Foreground(cli.Purple).PaddingLeft(2).PaddingTop(1)
		)

		if section.Title != "" {
			fmt.Println(titleStyle.Render(section.Title) + ":")
		} else {
			fmt.Println()
		}

		t := table.New().
			Border(lipgloss.ThickBorder()).
			BorderStyle(borderStyle).
			StyleFunc(func(
				row int,
				col int,
			) lipgloss.Style {
				baseStyle := evenRowStyle
				if row%2 != 0 {
					baseStyle = oddRowStyle
				}
				if col < len(columnWidths) {
					baseStyle = baseStyle.Width(columnWidths[col])
				}
				return baseStyle
			})

		styledHeaders := make([]string, len(section.Headers))
		for i, header := range section.Headers {
			styledHeaders[i] = headerStyle.Render(header)
		}
		t.Headers(styledHeaders...)
		t.Rows(section.Rows...)

		fmt.Println(paddingStyle.Render(t.String()))
	}
}

// minColumnWidth is the narrowest a column is squeezed to.
const minColumnWidth = 8

// fitColumnWidths scales widths down proportionally when the table,
// including border overhead, would exceed maxWidth.
func fitColumnWidths(
	widths []int,
	maxWidth int,
) []int {
	total := len(widths) * 3
	for _, w := range widths {
		total += w
	}
	if total <= maxWidth || total == 0 {
		return widths
	}

	scale := float64(maxWidth) / float64(total)
	fitted := make([]int, len(widths))
	for i, w := range widths {
		fitted[i] = max(int(float64(w)*scale), minColumnWidth)
	}
	return fitted
}

// calculateColumnWidths calculates the optimal width for each column based on content.
func calculateColumnWidths(
	headers []string,
	rows [][]string,
	minPadding int,
) []int {
	if len(headers) == 0 {
		return []int{}
	}

	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = len(header)
	}

	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				if w := getMaxLineWidth(cell); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	for i := range widths {
		widths[i] += minPadding * 2
	}

	return widths
}

// getMaxLineWidth returns the width of the longest line in a multi-line string.
func getMaxLineWidth(
	text string,
) int {
	maxWidth := 0
	for _, line := range strings.Split(text, "\n") {
		if len(line) > maxWidth {
			maxWidth = len(line)
		}
	}
	return maxWidth
}
