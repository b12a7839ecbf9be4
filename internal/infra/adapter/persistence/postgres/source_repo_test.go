package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/jmoiron/sqlx"

	"github.com/Nike1016/selfoss/internal/domain/entity"
	"github.com/Nike1016/selfoss/internal/infra/adapter/persistence/postgres"
)

/* ──────────────────────────────── helpers ──────────────────────────────── */

var sourceColumns = []string{"id", "title", "spout", "params", "error"}

func newRepo(t *testing.T) (*postgres.SourceRepo, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	db := sqlx.NewDb(conn, "sqlmock")
	t.Cleanup(func() { _ = db.Close() })
	return postgres.NewSourceRepo(db).(*postgres.SourceRepo), mock
}

/* ──────────────────────────────── 1. Get ──────────────────────────────── */

func TestSourceRepo_Get(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, title, spout, params, error`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(sourceColumns).
			AddRow(int64(1), "Mastodon", "mastodon",
				`{&quot;instance&quot;:&quot;mastodon.social&quot;,&quot;limit&quot;:&quot;20&quot;}`, ""))

	got, err := repo.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	want := &entity.Source{
		ID: 1, Title: "Mastodon", Spout: "mastodon",
		Params: entity.NewParams("instance", "mastodon.social", "limit", "20"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSourceRepo_Get_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`FROM sources`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(sourceColumns))

	got, err := repo.Get(context.Background(), 2)
	if err != nil || got != nil {
		t.Fatalf("want nil,nil got %+v,%v", got, err)
	}
}

/* ──────────────────────────────── 2. List ──────────────────────────────── */

func TestSourceRepo_List(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`ORDER BY title ASC`).
		WillReturnRows(sqlmock.NewRows(sourceColumns).
			AddRow(int64(3), "A", "rss", `{"url":"https://a.example"}`, nil).
			AddRow(int64(1), "B", "rss", `{"url":"https://b.example"}`, "timeout"))

	got, err := repo.List(context.Background())
	if err != nil || len(got) != 2 {
		t.Fatalf("List err=%v len=%d", err, len(got))
	}
	if got[0].ID != 3 || got[0].HasError() || got[1].Error != "timeout" {
		t.Fatalf("unexpected rows %+v %+v", got[0], got[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSourceRepo_List_Empty(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`FROM sources`).
		WillReturnRows(sqlmock.NewRows(sourceColumns))

	got, err := repo.List(context.Background())
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got %v err=%v", got, err)
	}
}

func TestSourceRepo_List_DriverError(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`FROM sources`).
		WillReturnError(errors.New("conn closed"))

	_, err := repo.List(context.Background())
	if !errors.Is(err, entity.ErrStorage) {
		t.Fatalf("want ErrStorage, got %v", err)
	}
}

/* ──────────────────────────────── 3. Add ──────────────────────────────── */

func TestSourceRepo_Add(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO sources`)).
		WithArgs("Go Blog", "rss", `{&quot;url&quot;:&quot;https://go.dev/blog/feed.atom&quot;}`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	id, err := repo.Add(context.Background(), "Go Blog", "rss",
		entity.NewParams("url", "https://go.dev/blog/feed.atom"))
	if err != nil {
		t.Fatalf("Add err=%v", err)
	}
	if id != 42 {
		t.Fatalf("want id 42, got %d", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSourceRepo_Add_DriverError(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`INSERT INTO sources`).
		WillReturnError(errors.New("duplicate key"))

	if _, err := repo.Add(context.Background(), "x", "rss", nil); !errors.Is(err, entity.ErrStorage) {
		t.Fatalf("want ErrStorage, got %v", err)
	}
}

/* ──────────────────────────────── 4. Edit ──────────────────────────────── */

func TestSourceRepo_Edit(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE sources SET`)).
		WithArgs("Renamed", "rss", `{}`, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Edit(context.Background(), 1, "Renamed", "rss", entity.Params{}); err != nil {
		t.Fatalf("Edit err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSourceRepo_Edit_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(`UPDATE sources SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Edit(context.Background(), 99, "x", "rss", nil)
	if !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

/* ──────────────────────────────── 5. Delete ──────────────────────────────── */

func TestSourceRepo_Delete(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM items WHERE source = $1`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sources WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSourceRepo_Delete_ItemsFailureRollsBack(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM items`).
		WithArgs(int64(1)).
		WillReturnError(errors.New("lock timeout"))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 1)
	if !errors.Is(err, entity.ErrStorage) {
		t.Fatalf("want ErrStorage, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

/* ──────────────────────────────── 6. SetError ──────────────────────────────── */

func TestSourceRepo_SetError(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE sources SET error = $1 WHERE id = $2`)).
		WithArgs("", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetError(context.Background(), 1, ""); err != nil {
		t.Fatalf("SetError err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
