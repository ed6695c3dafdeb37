package platform

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository expects the platforms table from db/postgres/001_create_platforms.sql.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Begin(ctx context.Context) (Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	return &postgresTx{tx: tx}, nil
}

func scanPlatform(scan func(...interface{}) error) (*Platform, error) {
	p := &Platform{}
	if err := scan(&p.ID, &p.Name, &p.Publisher, &p.Cost); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) GetPlatformByID(ctx context.Context, id int) (*Platform, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id,name,publisher,cost
		FROM platforms WHERE id=$1`, id)
	p, err := scanPlatform(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *postgresRepo) ListPlatforms(ctx context.Context) ([]*Platform, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id,name,publisher,cost
		FROM platforms ORDER BY id ASC`)
	if err != nil {
		return nil, err
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

type postgresTx struct{ tx *sql.Tx }

func (t *postgresTx) CreatePlatform(ctx context.Context, p *Platform) error {
	if p == nil {
		return &ValidationError{Reason: "platform is required"}
	}
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO platforms (name, publisher, cost)
		VALUES ($1,$2,$3)
		RETURNING id`,
		p.Name, p.Publisher, p.Cost).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert platform: %w", err)
	}
	return nil
}

func (t *postgresTx) Commit() error { return t.tx.Commit() }

func (t *postgresTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}
