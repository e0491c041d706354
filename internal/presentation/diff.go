package presentation

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/inchworm-units/inchworm/internal/dimensions"
)

// DiffOp marks a line of a Diff.
type DiffOp int

const (
	DiffEqual DiffOp = iota
	DiffInsert
	DiffDelete
)

// DiffLine is one line of a line-level diff.
type DiffLine struct {
	Op   DiffOp
	Text string
}

// Diff is a line-level diff between two texts.
type Diff []DiffLine

// HasChanges reports whether any line was inserted or deleted.
func (d Diff) HasChanges() bool {
	for _, l := range d {
		if l.Op != DiffEqual {
			return true
		}
	}
	return false
}

// Stats counts inserted and deleted lines.
func (d Diff) Stats() (inserted, deleted int) {
	for _, l := range d {
		switch l.Op {
		case DiffInsert:
			inserted++
		case DiffDelete:
			deleted++
		}
	}
	return inserted, deleted
}

// DiffText computes a line diff of before and after.
func DiffText(before, after string) Diff {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out Diff
	for _, d := range diffs {
		op := DiffEqual
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = DiffInsert
		case diffmatchpatch.DiffDelete:
			op = DiffDelete
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out = append(out, DiffLine{Op: op, Text: strings.TrimSuffix(line, "\n")})
		}
	}
	return out
}

// DiffSnapshots diffs the one-line-per-entry rendering of two snapshots.
func DiffSnapshots(before, after dimensions.Snapshot) Diff {
	return DiffText(SnapshotText(before), SnapshotText(after))
}

// SnapshotText renders one line per entry: base entries, then derived
// entries, in registry order.
func SnapshotText(s dimensions.Snapshot) string {
	var b strings.Builder
	for _, e := range s.Base {
		fmt.Fprintf(&b, "base    %s: %s\n", e.Key, e.Def)
	}
	for _, e := range s.Derived {
		fmt.Fprintf(&b, "derived %s: %s\n", e.Key, e.Def)
	}
	return b.String()
}

func (f *Formatter) renderDiff(d Diff, context bool) string {
	added := f.renderer.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"})
	removed := f.renderer.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"})

	var b strings.Builder
	for _, l := range d {
		switch l.Op {
		case DiffInsert:
			b.WriteString(added.Render("+ " + l.Text))
		case DiffDelete:
			b.WriteString(removed.Render("- " + l.Text))
		default:
			if !context {
				continue
			}
			b.WriteString("  " + l.Text)
		}
		b.WriteString("\n")
	}
	return b.String()
}
