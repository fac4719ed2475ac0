package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mesh-intelligence/watchlist/internal/query"
	"github.com/mesh-intelligence/watchlist/pkg/types"
)

const barWidth = 40

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	barStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// bar is one row of a horizontal bar chart.
type bar struct {
	label string
	value int
}

// renderBars draws bars scaled so the longest fills barWidth cells.
func renderBars(bars []bar) string {
	if len(bars) == 0 {
		return ""
	}
	labelWidth, top := 0, 0
	for _, b := range bars {
		labelWidth = max(labelWidth, lipgloss.Width(b.label))
		top = max(top, b.value)
	}

	var sb strings.Builder
	for _, b := range bars {
		n := 0
		if top > 0 {
			n = b.value * barWidth / top
		}
		if b.value > 0 && n == 0 {
			n = 1
		}
		label := b.label + strings.Repeat(" ", labelWidth-lipgloss.Width(b.label))
		fmt.Fprintf(&sb, "%s │ %s %d\n", label, barStyle.Render(strings.Repeat("█", n)), b.value)
	}
	return sb.String()
}

func countBars(counts []query.Count) []bar {
	bars := make([]bar, len(counts))
	for i, c := range counts {
		bars[i] = bar{label: c.Value, value: c.Count}
	}
	return bars
}

func bucketBars(buckets []query.Bucket) []bar {
	bars := make([]bar, len(buckets))
	for i, b := range buckets {
		bars[i] = bar{label: strconv.Itoa(b.Rating), value: b.Count}
	}
	return bars
}

func characterBars(chars []types.Character) []bar {
	bars := make([]bar, len(chars))
	for i, c := range chars {
		bars[i] = bar{label: c.Name, value: c.Votes}
	}
	return bars
}

// renderEntries draws entries as a bordered table.
func renderEntries(entries []types.Entry) string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = e.Record()
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(subtleStyle).
		Headers(types.Header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError("encode json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
