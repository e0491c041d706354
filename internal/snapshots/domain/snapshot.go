// Package domain holds the snapshot entity and the repository interface the
// storage layer implements. It depends only on the dimensions package.
package domain

import (
	"fmt"
	"time"

	"github.com/inchworm-units/inchworm/internal/dimensions"
)

// Snapshot is a labelled, persisted copy of a registry's contents.
// All fields are unexported; use NewSnapshot and the getters.
type Snapshot struct {
	id        int64
	guid      string
	label     string
	contents  dimensions.Snapshot
	createdAt time.Time

	// set when entries were not loaded
	baseCount, derivedCount int
	summary                 bool
}

// NewSnapshot creates an unsaved snapshot. The ID is assigned by the
// repository on first save.
func NewSnapshot(guid, label string, contents dimensions.Snapshot, createdAt time.Time) *Snapshot {
	return &Snapshot{
		guid:      guid,
		label:     label,
		contents:  contents,
		createdAt: createdAt,
	}
}

// ReconstituteSnapshot rebuilds a stored snapshot.
func ReconstituteSnapshot(id int64, guid, label string, contents dimensions.Snapshot, createdAt time.Time) *Snapshot {
	s := NewSnapshot(guid, label, contents, createdAt)
	s.id = id
	return s
}

func (s *Snapshot) ID() int64                     { return s.id }
func (s *Snapshot) GUID() string                  { return s.guid }
func (s *Snapshot) Label() string                 { return s.label }
func (s *Snapshot) Contents() dimensions.Snapshot { return s.contents }
func (s *Snapshot) CreatedAt() time.Time          { return s.createdAt }

// Generation is the registry generation the snapshot was taken at.
func (s *Snapshot) Generation() uint64 { return s.contents.Generation }

// WithCounts marks the snapshot as a summary whose entries were not loaded.
func (s *Snapshot) WithCounts(base, derived int) *Snapshot {
	s.baseCount, s.derivedCount, s.summary = base, derived, true
	return s
}

// Counts returns the number of base and derived entries.
func (s *Snapshot) Counts() (base, derived int) {
	if s.summary {
		return s.baseCount, s.derivedCount
	}
	return len(s.contents.Base), len(s.contents.Derived)
}

// IsSummary reports whether the entries were left unloaded.
func (s *Snapshot) IsSummary() bool { return s.summary }

// SetID records the database ID after insertion.
func (s *Snapshot) SetID(id int64) { s.id = id }

// RestoreInto re-applies the snapshot to reg with the replace discipline.
func (s *Snapshot) RestoreInto(reg *dimensions.Registry) (int, error) {
	if s.summary {
		return 0, fmt.Errorf("snapshot %s was listed without its entries", s.guid)
	}
	return reg.Restore(s.contents)
}
