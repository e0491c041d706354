package presentation

import (
	"time"

	"github.com/inchworm-units/inchworm/internal/dimensions"
	"github.com/inchworm-units/inchworm/internal/snapshots/domain"
)

// DimensionDTO represents one registry entry for presentation.
type DimensionDTO struct {
	Key        string         `json:"key"`
	Kind       string         `json:"kind"`
	Name       string         `json:"name"`
	Symbol     string         `json:"symbol"`
	Components []ComponentDTO `json:"components,omitempty"`
	Resolved   string         `json:"resolved,omitempty"` // base exponents, derived only
	Shadowed   bool           `json:"shadowed,omitempty"` // a base entry with the same key wins
}

// ComponentDTO is one factor of a derived dimension.
type ComponentDTO struct {
	Dimension string `json:"dimension"`
	Exponent  string `json:"exponent"`
}

// RegistryDTO is the full listing of a registry.
type RegistryDTO struct {
	Generation uint64         `json:"generation"`
	Base       []DimensionDTO `json:"base"`
	Derived    []DimensionDTO `json:"derived"`
}

// SnapshotDTO summarizes a stored snapshot.
type SnapshotDTO struct {
	GUID       string    `json:"guid"`
	Label      string    `json:"label,omitempty"`
	Generation uint64    `json:"generation"`
	Base       int       `json:"base"`
	Derived    int       `json:"derived"`
	CreatedAt  time.Time `json:"created_at"`
}

// FromBase converts a base entry.
func FromBase(key string, def dimensions.BaseDimensionDef) DimensionDTO {
	return DimensionDTO{
		Key:    key,
		Kind:   dimensions.KindBase.String(),
		Name:   def.Name(),
		Symbol: def.Symbol(),
	}
}

// FromDerived converts a derived entry, resolving it against reg.
func FromDerived(reg *dimensions.Registry, key string, def dimensions.DerivedDimensionDef) DimensionDTO {
	dto := DimensionDTO{
		Key:      key,
		Kind:     dimensions.KindDerived.String(),
		Name:     def.Name(),
		Symbol:   def.Symbol(),
		Shadowed: reg.BaseDimensions().Contains(key),
	}
	for _, c := range def.Components() {
		dto.Components = append(dto.Components, ComponentDTO{
			Dimension: c.Dimension(),
			Exponent:  c.Exponent().String(),
		})
	}
	if !dto.Shadowed {
		if d, err := reg.Resolve(key); err == nil {
			dto.Resolved = reg.Format(d)
		}
	}
	return dto
}

// FromRegistry converts every entry of reg, in registry order.
func FromRegistry(reg *dimensions.Registry) RegistryDTO {
	dto := RegistryDTO{
		Generation: reg.Generation(),
		Base:       []DimensionDTO{},
		Derived:    []DimensionDTO{},
	}
	for key, def := range reg.BaseDimensions().All() {
		dto.Base = append(dto.Base, FromBase(key, def))
	}
	for key, def := range reg.DerivedDimensions().All() {
		dto.Derived = append(dto.Derived, FromDerived(reg, key, def))
	}
	return dto
}

// FromSnapshot converts a stored snapshot summary.
func FromSnapshot(s *domain.Snapshot) SnapshotDTO {
	base, derived := s.Counts()
	return SnapshotDTO{
		GUID:       s.GUID(),
		Label:      s.Label(),
		Generation: s.Generation(),
		Base:       base,
		Derived:    derived,
		CreatedAt:  s.CreatedAt(),
	}
}

// FromSnapshots converts a slice of snapshots.
func FromSnapshots(snapshots []*domain.Snapshot) []SnapshotDTO {
	dtos := make([]SnapshotDTO, len(snapshots))
	for i, s := range snapshots {
		dtos[i] = FromSnapshot(s)
	}
	return dtos
}
