package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Formatter writes command output as a table or as JSON.
type Formatter struct {
	writer   io.Writer
	format   string
	renderer *lipgloss.Renderer
}

// NewFormatter creates a formatter. An empty format means table.
// Colors are emitted only when writer is a terminal.
func NewFormatter(writer io.Writer, format string) *Formatter {
	if format == "" {
		format = FormatTable
	}
	return &Formatter{
		writer:   writer,
		format:   format,
		renderer: lipgloss.NewRenderer(writer),
	}
}

// JSON reports whether the formatter emits JSON.
func (f *Formatter) JSON() bool {
	return f.format == FormatJSON
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// FormatRegistry lists base and derived dimensions. With derivedOnly the
// base section is skipped.
func (f *Formatter) FormatRegistry(dto RegistryDTO, derivedOnly bool) error {
	if f.JSON() {
		if derivedOnly {
			return f.encode(dto.Derived)
		}
		return f.encode(dto)
	}

	if !derivedOnly {
		t := newTable(f.renderer, "KEY", "NAME", "SYMBOL")
		for _, d := range dto.Base {
			t.add(d.Key, d.Name, d.Symbol)
		}
		if err := t.render(f.writer); err != nil {
			return err
		}
		if _, err := io.WriteString(f.writer, "\n"); err != nil {
			return err
		}
	}

	t := newTable(f.renderer, "KEY", "NAME", "SYMBOL", "DEFINITION", "RESOLVED")
	for _, d := range dto.Derived {
		resolved := d.Resolved
		if d.Shadowed {
			resolved = "(shadowed by base)"
		}
		t.add(d.Key, d.Name, d.Symbol, componentsText(d.Components), resolved)
	}
	return t.render(f.writer)
}

// FormatDimension prints one entry in detail.
func (f *Formatter) FormatDimension(dto DimensionDTO) error {
	if f.JSON() {
		return f.encode(dto)
	}

	label := f.renderer.NewStyle().Bold(true)
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", label.Render("Key:     "), dto.Key)
	fmt.Fprintf(&b, "%s %s\n", label.Render("Kind:    "), dto.Kind)
	fmt.Fprintf(&b, "%s %s\n", label.Render("Name:    "), dto.Name)
	fmt.Fprintf(&b, "%s %s\n", label.Render("Symbol:  "), dto.Symbol)
	if len(dto.Components) > 0 {
		fmt.Fprintf(&b, "%s %s\n", label.Render("Defined: "), componentsText(dto.Components))
	}
	if dto.Resolved != "" {
		fmt.Fprintf(&b, "%s %s\n", label.Render("Resolved:"), dto.Resolved)
	}
	if dto.Shadowed {
		fmt.Fprintf(&b, "%s %s\n", label.Render("Note:    "), "shadowed by a base dimension with the same key")
	}
	_, err := io.WriteString(f.writer, b.String())
	return err
}

// FormatSnapshots lists stored snapshots.
func (f *Formatter) FormatSnapshots(dtos []SnapshotDTO) error {
	if f.JSON() {
		return f.encode(dtos)
	}
	t := newTable(f.renderer, "GUID", "CREATED", "GENERATION", "BASE", "DERIVED", "LABEL")
	for _, s := range dtos {
		t.add(
			shortGUID(s.GUID),
			s.CreatedAt.Local().Format(time.DateTime),
			fmt.Sprint(s.Generation),
			fmt.Sprint(s.Base),
			fmt.Sprint(s.Derived),
			s.Label,
		)
	}
	return t.render(f.writer)
}

// FormatDiff prints a diff. Unchanged lines are shown only with context.
func (f *Formatter) FormatDiff(d Diff, context bool) error {
	if f.JSON() {
		type line struct {
			Op   string `json:"op"`
			Text string `json:"text"`
		}
		lines := make([]line, 0, len(d))
		for _, l := range d {
			if l.Op == DiffEqual && !context {
				continue
			}
			lines = append(lines, line{Op: [...]string{"equal", "insert", "delete"}[l.Op], Text: l.Text})
		}
		return f.encode(lines)
	}
	_, err := io.WriteString(f.writer, f.renderDiff(d, context))
	return err
}

// FormatResult writes any value as JSON, or as a single line in table mode.
func (f *Formatter) FormatResult(message string, result any) error {
	if f.JSON() {
		return f.encode(result)
	}
	_, err := fmt.Fprintln(f.writer, message)
	return err
}

func componentsText(components []ComponentDTO) string {
	parts := make([]string, len(components))
	for i, c := range components {
		parts[i] = c.Dimension + "^" + c.Exponent
	}
	return strings.Join(parts, " · ")
}

func shortGUID(guid string) string {
	if len(guid) > 8 {
		return guid[:8]
	}
	return guid
}
