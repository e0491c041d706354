// Package sqlite stores registry snapshots in a SQLite database.
//
// Migrations are read through golang-migrate's iofs source but applied by
// migrate below rather than migrate.NewWithInstance: golang-migrate's sqlite
// database drivers are bound to the mattn (cgo) and modernc drivers, and
// this package opens connections with the ncruces driver.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/inchworm-units/inchworm/internal/log"
	"github.com/inchworm-units/inchworm/internal/snapshots/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationTable = "schema_migrations"

// DB owns the SQLite connection and hands out repositories.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens (creating if needed) the database at path, backs up an
// existing file to path+".bak" and applies pending migrations.
func NewDB(path string) (*DB, error) {
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	if info, err := os.Stat(cleanPath); err == nil && info.Mode().IsRegular() && info.Size() > 0 {
		if err := copyFile(cleanPath, cleanPath+".bak"); err != nil {
			log.Warn(log.CatStore, "pre-migration backup failed", "path", cleanPath, "error", err)
		}
	}

	dsn := "file:" + cleanPath +
		"?_pragma=journal_mode(wal)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	applied, err := migrate(conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	log.Info(log.CatStore, "database ready", "path", cleanPath, "migrations_applied", applied)

	return &DB{conn: conn, path: cleanPath}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Connection returns the underlying *sql.DB.
func (db *DB) Connection() *sql.DB {
	return db.conn
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// SnapshotRepository returns a repository backed by this database.
func (db *DB) SnapshotRepository() domain.SnapshotRepository {
	return newSnapshotRepository(db.conn)
}

// Version returns the highest applied migration version, or 0.
func (db *DB) Version() (uint, error) {
	var version sql.NullInt64
	err := db.conn.QueryRow("SELECT MAX(version) FROM " + migrationTable).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return uint(version.Int64), nil
}

// migrate applies every embedded up migration not yet recorded in
// schema_migrations, in version order, each in its own transaction.
func migrate(conn *sql.DB) (int, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return 0, fmt.Errorf("loading migrations: %w", err)
	}
	defer func() { _ = src.Close() }()

	if _, err := conn.Exec(`CREATE TABLE IF NOT EXISTS ` + migrationTable + ` (
		version INTEGER PRIMARY KEY,
		identifier TEXT NOT NULL,
		applied_at INTEGER NOT NULL
	)`); err != nil {
		return 0, fmt.Errorf("creating migration table: %w", err)
	}

	applied := 0
	version, err := src.First()
	for err == nil {
		ran, applyErr := applyMigration(conn, src, version)
		if applyErr != nil {
			return applied, applyErr
		}
		if ran {
			applied++
		}
		version, err = src.Next(version)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return applied, fmt.Errorf("reading migrations: %w", err)
	}
	return applied, nil
}

func applyMigration(conn *sql.DB, src source.Driver, version uint) (bool, error) {
	var exists int
	err := conn.QueryRow("SELECT 1 FROM "+migrationTable+" WHERE version = ?", version).Scan(&exists)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("checking migration %d: %w", version, err)
	}

	r, identifier, err := src.ReadUp(version)
	if err != nil {
		return false, fmt.Errorf("reading migration %d: %w", version, err)
	}
	body, err := io.ReadAll(r)
	_ = r.Close()
	if err != nil {
		return false, fmt.Errorf("reading migration %d: %w", version, err)
	}

	tx, err := conn.BeginTx(context.Background(), nil)
	if err != nil {
		return false, fmt.Errorf("beginning migration %d: %w", version, err)
	}
	if _, err := tx.Exec(string(body)); err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("applying migration %d (%s): %w", version, identifier, err)
	}
	if _, err := tx.Exec(
		"INSERT INTO "+migrationTable+" (version, identifier, applied_at) VALUES (?, ?, ?)",
		version, identifier, time.Now().UTC().UnixMilli(),
	); err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("recording migration %d: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing migration %d: %w", version, err)
	}

	log.Debug(log.CatStore, "applied migration", "version", version, "identifier", identifier)
	return true, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // G304: src is the cleaned database path
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600) //nolint:gosec // G304: dst is derived from the database path
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
