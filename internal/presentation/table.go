package presentation

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// table renders aligned columns. Widths are measured in terminal cells so
// symbols such as Θ or √ line up.
type table struct {
	headers []string
	rows    [][]string
	header  lipgloss.Style
	muted   lipgloss.Style
}

func newTable(r *lipgloss.Renderer, headers ...string) *table {
	return &table{
		headers: headers,
		header:  r.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}),
		muted:   r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}),
	}
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) widths() []int {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}
	return widths
}

func (t *table) render(w io.Writer) error {
	widths := t.widths()
	var b strings.Builder

	line := func(cells []string, style *lipgloss.Style) {
		for i, cell := range cells {
			if i >= len(widths) {
				break
			}
			text := cell
			if i < len(cells)-1 {
				text = runewidth.FillRight(cell, widths[i])
			}
			if style != nil {
				text = style.Render(text)
			}
			b.WriteString(text)
			if i < len(cells)-1 {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}

	line(t.headers, &t.header)
	for _, row := range t.rows {
		line(row, nil)
	}
	if len(t.rows) == 0 {
		b.WriteString(t.muted.Render("(none)"))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
