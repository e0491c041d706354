package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/inchworm-units/inchworm/internal/log"
	"github.com/inchworm-units/inchworm/internal/snapshots/domain"
	"github.com/inchworm-units/inchworm/internal/tracing"
)

const snapshotColumns = `id, guid, label, generation, created_at`

// snapshotRepository implements domain.SnapshotRepository using SQLite.
type snapshotRepository struct {
	db     *sql.DB
	tracer trace.Tracer
}

func newSnapshotRepository(db *sql.DB) *snapshotRepository {
	return &snapshotRepository{db: db, tracer: otel.Tracer(tracing.TracerName)}
}

var _ domain.SnapshotRepository = (*snapshotRepository)(nil)

func scanSnapshot(scanner interface{ Scan(...any) error }) (*SnapshotModel, error) {
	var model SnapshotModel
	err := scanner.Scan(&model.ID, &model.GUID, &model.Label, &model.Generation, &model.CreatedAt)
	return &model, err
}

func (r *snapshotRepository) start(ctx context.Context, op string) (context.Context, trace.Span) {
	return r.tracer.Start(ctx, tracing.SpanPrefixStore+op)
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// Save inserts the snapshot row and its entries in one transaction.
func (r *snapshotRepository) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	ctx, span := r.start(ctx, "save")
	defer span.End()

	model := toSnapshotModel(snapshot)
	entries, err := toEntryModels(snapshot.Contents())
	if err != nil {
		return fail(span, err)
	}
	span.SetAttributes(
		attribute.String(tracing.AttrSnapshotGUID, model.GUID),
		attribute.Int64(tracing.AttrSnapshotGeneration, model.Generation),
		attribute.Int(tracing.AttrSnapshotBase, len(snapshot.Contents().Base)),
		attribute.Int(tracing.AttrSnapshotDerived, len(snapshot.Contents().Derived)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fail(span, fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (guid, label, generation, created_at) VALUES (?, ?, ?, ?)`,
		model.GUID, model.Label, model.Generation, model.CreatedAt,
	)
	if err != nil {
		return fail(span, fmt.Errorf("failed to insert snapshot: %w", err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fail(span, fmt.Errorf("failed to get last insert id: %w", err))
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO snapshot_entries (snapshot_id, kind, position, key, name, symbol, components)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fail(span, fmt.Errorf("failed to prepare entry insert: %w", err))
	}
	defer func() { _ = stmt.Close() }()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, id, e.Kind, e.Position, e.Key, e.Name, e.Symbol, e.Components); err != nil {
			return fail(span, fmt.Errorf("failed to insert entry %q: %w", e.Key, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fail(span, fmt.Errorf("failed to commit snapshot: %w", err))
	}
	snapshot.SetID(id)
	log.Info(log.CatStore, "snapshot saved", "guid", model.GUID, "entries", len(entries))
	return nil
}

// FindByGUID accepts a full GUID or a unique prefix of one.
func (r *snapshotRepository) FindByGUID(ctx context.Context, guid string) (*domain.Snapshot, error) {
	ctx, span := r.start(ctx, "find")
	defer span.End()
	span.SetAttributes(attribute.String(tracing.AttrSnapshotGUID, guid))

	if guid == "" {
		return nil, fail(span, &domain.SnapshotNotFoundError{GUID: guid})
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots WHERE substr(guid, 1, ?) = ? LIMIT 2`,
		len(guid), guid,
	)
	if err != nil {
		return nil, fail(span, fmt.Errorf("failed to find snapshot by guid: %w", err))
	}
	var matches []*SnapshotModel
	for rows.Next() {
		model, err := scanSnapshot(rows)
		if err != nil {
			_ = rows.Close()
			return nil, fail(span, fmt.Errorf("failed to scan snapshot: %w", err))
		}
		matches = append(matches, model)
	}
	if err := rows.Close(); err != nil {
		return nil, fail(span, err)
	}
	if err := rows.Err(); err != nil {
		return nil, fail(span, fmt.Errorf("failed to iterate snapshots: %w", err))
	}

	switch len(matches) {
	case 0:
		return nil, fail(span, &domain.SnapshotNotFoundError{GUID: guid})
	case 1:
		return r.load(ctx, matches[0])
	default:
		var count int
		if err := r.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM snapshots WHERE substr(guid, 1, ?) = ?`, len(guid), guid,
		).Scan(&count); err != nil {
			return nil, fail(span, fmt.Errorf("failed to count snapshots: %w", err))
		}
		return nil, fail(span, &domain.AmbiguousGUIDError{Prefix: guid, Matches: count})
	}
}

// Latest returns the newest snapshot by creation time.
func (r *snapshotRepository) Latest(ctx context.Context) (*domain.Snapshot, error) {
	ctx, span := r.start(ctx, "latest")
	defer span.End()

	row := r.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots ORDER BY created_at DESC, id DESC LIMIT 1`)
	model, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fail(span, &domain.SnapshotNotFoundError{})
	}
	if err != nil {
		return nil, fail(span, fmt.Errorf("failed to find latest snapshot: %w", err))
	}
	return r.load(ctx, model)
}

// List returns snapshot summaries newest first.
func (r *snapshotRepository) List(ctx context.Context, limit int) ([]*domain.Snapshot, error) {
	ctx, span := r.start(ctx, "list")
	defer span.End()

	query := `SELECT s.id, s.guid, s.label, s.generation, s.created_at,
		(SELECT COUNT(*) FROM snapshot_entries e WHERE e.snapshot_id = s.id AND e.kind = 'base'),
		(SELECT COUNT(*) FROM snapshot_entries e WHERE e.snapshot_id = s.id AND e.kind = 'derived')
		FROM snapshots s ORDER BY s.created_at DESC, s.id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fail(span, fmt.Errorf("failed to list snapshots: %w", err))
	}
	defer func() { _ = rows.Close() }()

	var snapshots []*domain.Snapshot
	for rows.Next() {
		var model SnapshotModel
		var baseCount, derivedCount int
		if err := rows.Scan(&model.ID, &model.GUID, &model.Label, &model.Generation, &model.CreatedAt,
			&baseCount, &derivedCount); err != nil {
			return nil, fail(span, fmt.Errorf("failed to scan snapshot: %w", err))
		}
		snapshots = append(snapshots, model.toSummary(baseCount, derivedCount))
	}
	if err := rows.Err(); err != nil {
		return nil, fail(span, fmt.Errorf("failed to iterate snapshots: %w", err))
	}
	return snapshots, nil
}

// Delete removes the snapshot; its entries go with it through ON DELETE CASCADE.
func (r *snapshotRepository) Delete(ctx context.Context, guid string) error {
	ctx, span := r.start(ctx, "delete")
	defer span.End()
	span.SetAttributes(attribute.String(tracing.AttrSnapshotGUID, guid))

	result, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE guid = ?`, guid)
	if err != nil {
		return fail(span, fmt.Errorf("failed to delete snapshot: %w", err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fail(span, fmt.Errorf("failed to get rows affected: %w", err))
	}
	if n == 0 {
		return fail(span, &domain.SnapshotNotFoundError{GUID: guid})
	}
	log.Info(log.CatStore, "snapshot deleted", "guid", guid)
	return nil
}

func (r *snapshotRepository) load(ctx context.Context, model *SnapshotModel) (*domain.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT kind, position, key, name, symbol, components FROM snapshot_entries
		WHERE snapshot_id = ? ORDER BY kind = 'derived', position`,
		model.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []EntryModel
	for rows.Next() {
		e := EntryModel{SnapshotID: model.ID}
		if err := rows.Scan(&e.Kind, &e.Position, &e.Key, &e.Name, &e.Symbol, &e.Components); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshot entries: %w", err)
	}
	return model.toDomain(entries)
}
