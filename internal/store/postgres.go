package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/openpharm/medscheck-forms/internal/forms"
)

// DB is the subset of pgxpool.Pool the repository uses; pgxmock satisfies
// it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores records as jsonb documents. The form payload
// is schema-versioned JSON; only identity and timestamps get columns.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository initializes a repository backed by the given pool.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("store: database pool required")
	}
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, record forms.Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("store: marshal record: %w", err)
	}

	query := `
		INSERT INTO records (id, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.Exec(ctx, query, record.ID, payload, record.CreatedAt, record.UpdatedAt); err != nil {
		return fmt.Errorf("store: insert record: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (forms.Record, error) {
	query := `SELECT payload FROM records WHERE id = $1`

	var payload []byte
	if err := r.db.QueryRow(ctx, query, id).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return forms.Record{}, ErrRecordNotFound
		}
		return forms.Record{}, fmt.Errorf("store: select record: %w", err)
	}

	var record forms.Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return forms.Record{}, fmt.Errorf("store: unmarshal record %s: %w", id, err)
	}
	return record, nil
}

func (r *PostgresRepository) Update(ctx context.Context, record forms.Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("store: marshal record: %w", err)
	}

	query := `
		UPDATE records
		SET payload = $2, updated_at = $3
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, record.ID, payload, record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("store: update record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("store: delete record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]forms.Record, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT payload FROM records
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("store: list records: %w", err)
	}
	defer rows.Close()

	records := make([]forms.Record, 0, limit)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("store: scan record: %w", err)
		}
		var record forms.Record
		if err := json.Unmarshal(payload, &record); err != nil {
			return nil, fmt.Errorf("store: unmarshal record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list records: %w", err)
	}
	return records, nil
}
