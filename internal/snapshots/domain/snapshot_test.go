package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inchworm-units/inchworm/internal/dimensions"
)

func TestNewSnapshot(t *testing.T) {
	reg := dimensions.NewRegistry()
	require.NoError(t, reg.TryInsertNewBaseDimension("length", dimensions.MustBaseDimensionDef("length", "L")))
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s := NewSnapshot("guid-1", "before refactor", reg.Snapshot(), created)

	require.Zero(t, s.ID())
	require.Equal(t, "guid-1", s.GUID())
	require.Equal(t, "before refactor", s.Label())
	require.Equal(t, uint64(1), s.Generation())
	require.Equal(t, created, s.CreatedAt())
	require.Len(t, s.Contents().Base, 1)

	s.SetID(42)
	require.Equal(t, int64(42), s.ID())
}

func TestSnapshot_RestoreInto(t *testing.T) {
	source := dimensions.NewRegistry()
	source.ReplaceBaseDimension("length", dimensions.MustBaseDimensionDef("length", "L"))
	source.ReplaceBaseDimension("time", dimensions.MustBaseDimensionDef("time", "T"))
	s := ReconstituteSnapshot(7, "guid-7", "", source.Snapshot(), time.Now())

	target := dimensions.NewRegistry()
	n, err := s.RestoreInto(target)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, []string{"length", "time"}, target.BaseDimensions().Keys())
}

func TestSnapshotNotFoundError(t *testing.T) {
	var err error = &SnapshotNotFoundError{GUID: "abc"}
	require.Equal(t, "snapshot not found: abc", err.Error())
	require.Equal(t, "no snapshots saved", (&SnapshotNotFoundError{}).Error())

	var notFound *SnapshotNotFoundError
	require.True(t, errors.As(err, &notFound))
	require.Equal(t, "abc", notFound.GUID)
}

func TestSnapshot_Summary(t *testing.T) {
	s := ReconstituteSnapshot(1, "guid-1", "", dimensions.Snapshot{Generation: 9}, time.Now()).WithCounts(7, 11)

	base, derived := s.Counts()
	require.Equal(t, 7, base)
	require.Equal(t, 11, derived)
	require.True(t, s.IsSummary())

	_, err := s.RestoreInto(dimensions.NewRegistry())
	require.Error(t, err)
}
