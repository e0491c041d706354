package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/inchworm-units/inchworm/internal/dimensions"
	"github.com/inchworm-units/inchworm/internal/snapshots/domain"
)

// SnapshotModel is a row of the snapshots table.
type SnapshotModel struct {
	ID         int64
	GUID       string
	Label      *string // nullable
	Generation int64
	CreatedAt  int64 // Unix milliseconds
}

// EntryModel is a row of the snapshot_entries table.
type EntryModel struct {
	SnapshotID int64
	Kind       string
	Position   int
	Key        string
	Name       string
	Symbol     string
	Components *string // nullable, JSON encoded; set for derived entries only
}

type componentModel struct {
	Dimension string `json:"dimension"`
	Exponent  string `json:"exponent"`
}

func toSnapshotModel(s *domain.Snapshot) *SnapshotModel {
	m := &SnapshotModel{
		ID:         s.ID(),
		GUID:       s.GUID(),
		Generation: int64(s.Generation()), //nolint:gosec // G115: generations stay far below MaxInt64
		CreatedAt:  s.CreatedAt().UnixMilli(),
	}
	if s.Label() != "" {
		label := s.Label()
		m.Label = &label
	}
	return m
}

func toEntryModels(snap dimensions.Snapshot) ([]EntryModel, error) {
	entries := make([]EntryModel, 0, snap.Len())
	for i, e := range snap.Base {
		entries = append(entries, EntryModel{
			Kind:     dimensions.KindBase.String(),
			Position: i,
			Key:      e.Key,
			Name:     e.Def.Name(),
			Symbol:   e.Def.Symbol(),
		})
	}
	for i, e := range snap.Derived {
		components := make([]componentModel, 0, len(e.Def.Components()))
		for _, c := range e.Def.Components() {
			components = append(components, componentModel{Dimension: c.Dimension(), Exponent: c.Exponent().String()})
		}
		data, err := json.Marshal(components)
		if err != nil {
			return nil, fmt.Errorf("encoding components of %q: %w", e.Key, err)
		}
		encoded := string(data)
		entries = append(entries, EntryModel{
			Kind:       dimensions.KindDerived.String(),
			Position:   i,
			Key:        e.Key,
			Name:       e.Def.Name(),
			Symbol:     e.Def.Symbol(),
			Components: &encoded,
		})
	}
	return entries, nil
}

// toDomain rebuilds the snapshot. entries must be ordered by kind, then position.
func (m *SnapshotModel) toDomain(entries []EntryModel) (*domain.Snapshot, error) {
	contents := dimensions.Snapshot{Generation: uint64(m.Generation)} //nolint:gosec // G115: stored from a uint64
	for _, e := range entries {
		switch e.Kind {
		case dimensions.KindBase.String():
			def, err := dimensions.NewBaseDimensionDef(e.Name, e.Symbol)
			if err != nil {
				return nil, fmt.Errorf("snapshot %s base entry %q: %w", m.GUID, e.Key, err)
			}
			contents.Base = append(contents.Base, dimensions.Entry[dimensions.BaseDimensionDef]{Key: e.Key, Def: def})
		case dimensions.KindDerived.String():
			def, err := e.derivedDef()
			if err != nil {
				return nil, fmt.Errorf("snapshot %s derived entry %q: %w", m.GUID, e.Key, err)
			}
			contents.Derived = append(contents.Derived, dimensions.Entry[dimensions.DerivedDimensionDef]{Key: e.Key, Def: def})
		default:
			return nil, fmt.Errorf("snapshot %s entry %q: unknown kind %q", m.GUID, e.Key, e.Kind)
		}
	}
	return domain.ReconstituteSnapshot(m.ID, m.GUID, m.label(), contents, m.createdAt()), nil
}

// toSummary rebuilds the snapshot without its entries.
func (m *SnapshotModel) toSummary(baseCount, derivedCount int) *domain.Snapshot {
	contents := dimensions.Snapshot{Generation: uint64(m.Generation)} //nolint:gosec // G115: stored from a uint64
	return domain.ReconstituteSnapshot(m.ID, m.GUID, m.label(), contents, m.createdAt()).
		WithCounts(baseCount, derivedCount)
}

func (e EntryModel) derivedDef() (dimensions.DerivedDimensionDef, error) {
	if e.Components == nil {
		return dimensions.DerivedDimensionDef{}, fmt.Errorf("missing components")
	}
	var models []componentModel
	if err := json.Unmarshal([]byte(*e.Components), &models); err != nil {
		return dimensions.DerivedDimensionDef{}, fmt.Errorf("decoding components: %w", err)
	}
	components := make([]dimensions.DimensionComponent, 0, len(models))
	for _, c := range models {
		exp, err := dimensions.ParseExponent(c.Exponent)
		if err != nil {
			return dimensions.DerivedDimensionDef{}, err
		}
		component, err := dimensions.NewDimensionComponent(c.Dimension, exp)
		if err != nil {
			return dimensions.DerivedDimensionDef{}, err
		}
		components = append(components, component)
	}
	return dimensions.NewDerivedDimensionDef(e.Name, e.Symbol, components)
}

func (m *SnapshotModel) label() string {
	if m.Label == nil {
		return ""
	}
	return *m.Label
}

func (m *SnapshotModel) createdAt() time.Time {
	return time.UnixMilli(m.CreatedAt).UTC()
}
