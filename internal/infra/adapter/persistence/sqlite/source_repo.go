package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Nike1016/selfoss/internal/domain/entity"
	"github.com/Nike1016/selfoss/internal/repository"
)

type SourceRepo struct{ db *sql.DB }

func NewSourceRepo(db *sql.DB) repository.SourceRepository {
	return &SourceRepo{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSource(row scanner) (*entity.Source, error) {
	var (
		source    entity.Source
		rawParams string
		lastError sql.NullString
	)
	if err := row.Scan(&source.ID, &source.Title, &source.Spout, &rawParams, &lastError); err != nil {
		return nil, err
	}
	params, err := entity.DecodeParams(rawParams)
	if err != nil {
		return nil, fmt.Errorf("source %d: %w", source.ID, err)
	}
	source.Params = params
	source.Error = lastError.String
	return &source, nil
}

func (repo *SourceRepo) Get(ctx context.Context, id int64) (*entity.Source, error) {
	const query = `
SELECT id, title, spout, params, error
FROM sources
WHERE id = ?
LIMIT 1`
	source, err := scanSource(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, entity.NewStorageError("Get: QueryRowContext", err)
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
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, entity.NewStorageError("List: QueryContext", err)
	}
	defer func() { _ = rows.Close() }()

	sources := make([]*entity.Source, 0, 50)
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, entity.NewStorageError("List: Scan", err)
		}
		sources = append(sources, source)
	}

	if err := rows.Err(); err != nil {
		return nil, entity.NewStorageError("List: rows.Err", err)
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
VALUES (?, ?, ?, '')
`
	res, err := repo.db.ExecContext(ctx, query, title, spout, encoded)
	if err != nil {
		return 0, entity.NewStorageError("Add: ExecContext", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, entity.NewStorageError("Add: LastInsertId", err)
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
    title  = ?,
    spout  = ?,
    params = ?
WHERE id = ?
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
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return entity.NewStorageError("Delete: BeginTx", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE source = ?`, id); err != nil {
		return entity.NewStorageError("Delete: items", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sources WHERE id = ?`, id); err != nil {
		return entity.NewStorageError("Delete: sources", err)
	}
	if err := tx.Commit(); err != nil {
		return entity.NewStorageError("Delete: Commit", err)
	}
	return nil
}

func (repo *SourceRepo) SetError(ctx context.Context, id int64, message string) error {
	const query = `UPDATE sources SET error = ? WHERE id = ?`
	if _, err := repo.db.ExecContext(ctx, query, message, id); err != nil {
		return entity.NewStorageError("SetError: ExecContext", err)
	}
	return nil
}
