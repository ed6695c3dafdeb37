package platform

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/georgemunganga/platform-service/internal/modules/platform/migrations"
	"github.com/georgemunganga/platform-service/internal/storage/sqlitemigrate"
	_ "modernc.org/sqlite"
)

// SQLiteRepository persists platforms in an embedded SQLite file.
type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLiteRepository opens (or creates) the database at path and applies
// embedded migrations.
func OpenSQLiteRepository(ctx context.Context, path string) (*SQLiteRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection serializes writers.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Close closes the SQLite handle.
func (r *SQLiteRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *SQLiteRepository) Begin(ctx context.Context) (Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	return &sqliteTx{tx: tx}, nil
}

func (r *SQLiteRepository) GetPlatformByID(ctx context.Context, id int) (*Platform, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, publisher, cost FROM platforms WHERE id = ?`, id)
	p, err := scanPlatform(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get platform %d: %w", id, err)
	}
	return p, nil
}

func (r *SQLiteRepository) ListPlatforms(ctx context.Context) ([]*Platform, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, publisher, cost FROM platforms ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list platforms: %w", err)
	}
	defer rows.Close()

	platforms := []*Platform{}
	for rows.Next() {
		p, err := scanPlatform(rows.Scan)
		if err != nil {
			return nil, err
		}
		platforms = append(platforms, p)
	}
	return platforms, rows.Err()
}

type sqliteTx struct{ tx *sql.Tx }

func (t *sqliteTx) CreatePlatform(ctx context.Context, p *Platform) error {
	if p == nil {
		return &ValidationError{Reason: "platform is required"}
	}
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO platforms (name, publisher, cost) VALUES (?, ?, ?)`,
		p.Name, p.Publisher, p.Cost)
	if err != nil {
		return fmt.Errorf("insert platform: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read platform id: %w", err)
	}
	p.ID = int(id)
	return nil
}

func (t *sqliteTx) Commit() error { return t.tx.Commit() }

func (t *sqliteTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}
