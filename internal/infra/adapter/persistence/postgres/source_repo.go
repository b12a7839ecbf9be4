package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Nike1016/selfoss/internal/domain/entity"
	"github.com/Nike1016/selfoss/internal/repository"
)

type SourceRepo struct{ db *sqlx.DB }

func NewSourceRepo(db *sqlx.DB) repository.SourceRepository {
	return &SourceRepo{db: db}
}

// sourceRow mirrors one row of the sources table.
type sourceRow struct {
	ID     int64          `db:"id"`
	Title  string         `db:"title"`
	Spout  string         `db:"spout"`
	Params string         `db:"params"`
	Error  sql.NullString `db:"error"`
}

func (r sourceRow) toEntity() (*entity.Source, error) {
	params, err := entity.DecodeParams(r.Params)
	if err != nil {
		return nil, fmt.Errorf("source %d: %w", r.ID, err)
	}
	return &entity.Source{
		ID:     r.ID,
		Title:  r.Title,
		Spout:  r.Spout,
		Params: params,
		Error:  r.Error.String,
	}, nil
}

func (repo *SourceRepo) Get(ctx context.Context, id int64) (*entity.Source, error) {
	const query = `
SELECT id, title, spout, params, error
FROM sources
WHERE id = $1
LIMIT 1`
	var row sourceRow
	err := repo.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, entity.NewStorageError("Get: GetContext", err)
	}
	source, err := row.toEntity()
	if err != nil {
		return nil, entity.NewStorageError("Get: decode", err)
	}
	return source, nil
}

func (repo *SourceRepo) List(ctx context.Context) ([]*entity.Source, error) {
	const query = `
SELECT
    id,
    title,
    spout,
    params,
    error
FROM sources
ORDER BY title ASC
`
	var rows []sourceRow
	if err := repo.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, entity.NewStorageError("List: SelectContext", err)
	}

	sources := make([]*entity.Source, 0, len(rows))
	for _, row := range rows {
		source, err := row.toEntity()
		if err != nil {
			return nil, entity.NewStorageError("List: decode", err)
		}
		sources = append(sources, source)
	}
	return sources, nil
}

func (repo *SourceRepo) Add(ctx context.Context, title, spout string, params entity.Params) (int64, error) {
	encoded, err := entity.EncodeParams(params)
	if err != nil {
		return 0, fmt.Errorf("Add: %w", err)
	}

	const query = `
INSERT INTO sources
(title, spout, params, error)
VALUES ($1, $2, $3, '')
RETURNING id
`
	var id int64
	if err := repo.db.QueryRowxContext(ctx, query, title, spout, encoded).Scan(&id); err != nil {
		return 0, entity.NewStorageError("Add: QueryRowxContext", err)
	}
	return id, nil
}

func (repo *SourceRepo) Edit(ctx context.Context, id int64, title, spout string, params entity.Params) error {
	encoded, err := entity.EncodeParams(params)
	if err != nil {
		return fmt.Errorf("Edit: %w", err)
	}

	const query = `
UPDATE sources SET
    title  = $1,
    spout  = $2,
    params = $3
WHERE id = $4
`
	res, err := repo.db.ExecContext(ctx, query, title, spout, encoded, id)
	if err != nil {
		return entity.NewStorageError("Edit: ExecContext", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return entity.NewStorageError("Edit: RowsAffected", err)
	}
	if n == 0 {
		return fmt.Errorf("Edit: source %d: %w", id, entity.ErrNotFound)
	}
	return nil
}

// Delete removes the items of the source and then the source itself in one
// transaction, so no item can outlive its source.
func (repo *SourceRepo) Delete(ctx context.Context, id int64) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return entity.NewStorageError("Delete: BeginTxx", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE source = $1`, id); err != nil {
		return entity.NewStorageError("Delete: items", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sources WHERE id = $1`, id); err != nil {
		return entity.NewStorageError("Delete: sources", err)
	}
	if err := tx.Commit(); err != nil {
		return entity.NewStorageError("Delete: Commit", err)
	}
	return nil
}

func (repo *SourceRepo) SetError(ctx context.Context, id int64, message string) error {
	const query = `UPDATE sources SET error = $1 WHERE id = $2`
	if _, err := repo.db.ExecContext(ctx, query, message, id); err != nil {
		return entity.NewStorageError("SetError: ExecContext", err)
	}
	return nil
}
