package domain

import (
	"context"
	"fmt"
)

// SnapshotRepository persists registry snapshots.
type SnapshotRepository interface {
	// Save inserts a new snapshot and assigns its ID.
	Save(ctx context.Context, snapshot *Snapshot) error

	// FindByGUID returns SnapshotNotFoundError if no snapshot has guid.
	// A unique GUID prefix is accepted.
	FindByGUID(ctx context.Context, guid string) (*Snapshot, error)

	// Latest returns the most recently saved snapshot, or
	// SnapshotNotFoundError if the store is empty.
	Latest(ctx context.Context) (*Snapshot, error)

	// List returns snapshots newest first. A limit of 0 means no limit.
	// Entries are not loaded; Contents() carries only the generation.
	List(ctx context.Context, limit int) ([]*Snapshot, error)

	// Delete removes a snapshot and its entries.
	Delete(ctx context.Context, guid string) error
}

// SnapshotNotFoundError is returned when a lookup matches no snapshot.
type SnapshotNotFoundError struct {
	GUID string
}

func (e *SnapshotNotFoundError) Error() string {
	if e.GUID == "" {
		return "no snapshots saved"
	}
	return fmt.Sprintf("snapshot not found: %s", e.GUID)
}

// AmbiguousGUIDError is returned when a GUID prefix matches more than one snapshot.
type AmbiguousGUIDError struct {
	Prefix  string
	Matches int
}

func (e *AmbiguousGUIDError) Error() string {
	return fmt.Sprintf("snapshot prefix %q matches %d snapshots", e.Prefix, e.Matches)
}
