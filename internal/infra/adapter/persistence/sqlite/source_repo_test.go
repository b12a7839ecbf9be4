package sqlite_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	_ "modernc.org/sqlite"

	"github.com/Nike1016/selfoss/internal/domain/entity"
	"github.com/Nike1016/selfoss/internal/infra/adapter/persistence/sqlite"
	"github.com/Nike1016/selfoss/internal/infra/db"
	"github.com/Nike1016/selfoss/internal/repository"
)

// ─────────────────────────────────────────────
// helpers
// ─────────────────────────────────────────────
var sourceColumns = []string{"id", "title", "spout", "params", "error"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn, mock
}

// openSQLite returns a migrated on-disk database private to the test.
func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(context.Background(), db.Config{
		Dialect: db.DialectSQLite,
		DSN:     filepath.Join(t.TempDir(), "selfoss.db"),
		Pool:    db.DefaultConnectionConfig(),
	})
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := db.MigrateUp(context.Background(), conn, db.DialectSQLite); err != nil {
		t.Fatalf("MigrateUp: %v", err)
	}
	return conn
}

func insertItem(t *testing.T, conn *sql.DB, source int64, title string) {
	t.Helper()
	_, err := conn.Exec(`INSERT INTO items (source, title, link, content) VALUES (?, ?, ?, '')`,
		source, title, "https://example.com/"+title)
	if err != nil {
		t.Fatalf("insert item: %v", err)
	}
}

func countItems(t *testing.T, conn *sql.DB, source int64) int {
	t.Helper()
	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM items WHERE source = ?`, source).Scan(&n); err != nil {
		t.Fatalf("count items: %v", err)
	}
	return n
}

// ─────────────────────────────────────────────
// 1. Get
// ─────────────────────────────────────────────
func TestSourceRepo_Get(t *testing.T) {
	conn, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, spout, params, error")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(sourceColumns).
			AddRow(int64(1), "Heise", "heise", `{&quot;section&quot;:&quot;main&quot;}`, "timeout"))

	var repo repository.SourceRepository = sqlite.NewSourceRepo(conn)
	got, err := repo.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}

	want := &entity.Source{
		ID: 1, Title: "Heise", Spout: "heise",
		Params: entity.NewParams("section", "main"), Error: "timeout",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSourceRepo_Get_NotFound(t *testing.T) {
	conn, mock := newMock(t)

	mock.ExpectQuery("FROM sources").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(sourceColumns))

	got, err := sqlite.NewSourceRepo(conn).Get(context.Background(), 9)
	if err != nil || got != nil {
		t.Fatalf("want nil,nil got %+v,%v", got, err)
	}
}

func TestSourceRepo_Get_NullError(t *testing.T) {
	conn, mock := newMock(t)

	mock.ExpectQuery("FROM sources").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(sourceColumns).
			AddRow(int64(2), "Feed", "rss", "", nil))

	got, err := sqlite.NewSourceRepo(conn).Get(context.Background(), 2)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	if got.Error != "" || len(got.Params) != 0 {
		t.Fatalf("unexpected source %+v", got)
	}
}

func TestSourceRepo_Get_DriverError(t *testing.T) {
	conn, mock := newMock(t)

	mock.ExpectQuery("FROM sources").
		WithArgs(int64(1)).
		WillReturnError(errors.New("disk I/O error"))

	_, err := sqlite.NewSourceRepo(conn).Get(context.Background(), 1)
	if !errors.Is(err, entity.ErrStorage) {
		t.Fatalf("want ErrStorage, got %v", err)
	}
}

// ─────────────────────────────────────────────
// 2. List
// ─────────────────────────────────────────────
func TestSourceRepo_List(t *testing.T) {
	conn, mock := newMock(t)

	mock.ExpectQuery("ORDER BY title ASC").
		WillReturnRows(sqlmock.NewRows(sourceColumns).
			AddRow(int64(2), "Alpha", "rss", `{&quot;url&quot;:&quot;https://a.example&quot;}`, "").
			AddRow(int64(1), "Beta", "bookmarks", `[]`, ""))

	got, err := sqlite.NewSourceRepo(conn).List(context.Background())
	if err != nil || len(got) != 2 {
		t.Fatalf("List err=%v len=%d", err, len(got))
	}
	if got[0].Title != "Alpha" || got[0].Params.Text("url") != "https://a.example" {
		t.Fatalf("unexpected first row %+v", got[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSourceRepo_List_BadParams(t *testing.T) {
	conn, mock := newMock(t)

	mock.ExpectQuery("FROM sources").
		WillReturnRows(sqlmock.NewRows(sourceColumns).
			AddRow(int64(1), "Broken", "rss", `{not json`, ""))

	_, err := sqlite.NewSourceRepo(conn).List(context.Background())
	if !errors.Is(err, entity.ErrStorage) {
		t.Fatalf("want ErrStorage, got %v", err)
	}
}

// ─────────────────────────────────────────────
// 3. Add
// ─────────────────────────────────────────────
func TestSourceRepo_Add(t *testing.T) {
	conn, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sources")).
		WithArgs("Blog", "rss", `{&quot;url&quot;:&quot;https://blog.example/feed&quot;}`).
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := sqlite.NewSourceRepo(conn).Add(context.Background(), "Blog", "rss",
		entity.NewParams("url", "https://blog.example/feed"))
	if err != nil {
		t.Fatalf("Add err=%v", err)
	}
	if id != 7 {
		t.Fatalf("want id 7, got %d", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

// ─────────────────────────────────────────────
// 4. Edit
// ─────────────────────────────────────────────
func TestSourceRepo_Edit(t *testing.T) {
	conn, mock := newMock(t)

	mock.ExpectExec("UPDATE sources SET").
		WithArgs("Renamed", "heise", `{&quot;section&quot;:&quot;security&quot;}`, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := sqlite.NewSourceRepo(conn).Edit(context.Background(), 3, "Renamed", "heise",
		entity.NewParams("section", "security"))
	if err != nil {
		t.Fatalf("Edit err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSourceRepo_Edit_NotFound(t *testing.T) {
	conn, mock := newMock(t)

	mock.ExpectExec("UPDATE sources SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := sqlite.NewSourceRepo(conn).Edit(context.Background(), 404, "x", "rss", nil)
	if !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

// ─────────────────────────────────────────────
// 5. Delete
// ─────────────────────────────────────────────
func TestSourceRepo_Delete(t *testing.T) {
	conn, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM items WHERE source = ?")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 12))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sources WHERE id = ?")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := sqlite.NewSourceRepo(conn).Delete(context.Background(), 5); err != nil {
		t.Fatalf("Delete err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSourceRepo_Delete_RollsBack(t *testing.T) {
	conn, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM items").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM sources").
		WithArgs(int64(5)).
		WillReturnError(errors.New("database is locked"))
	mock.ExpectRollback()

	err := sqlite.NewSourceRepo(conn).Delete(context.Background(), 5)
	if !errors.Is(err, entity.ErrStorage) {
		t.Fatalf("want ErrStorage, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

// ─────────────────────────────────────────────
// 6. SetError
// ─────────────────────────────────────────────
func TestSourceRepo_SetError(t *testing.T) {
	conn, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE sources SET error = ?")).
		WithArgs("404 Not Found", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := sqlite.NewSourceRepo(conn).SetError(context.Background(), 1, "404 Not Found"); err != nil {
		t.Fatalf("SetError err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

// ─────────────────────────────────────────────
// 7. Real database
// ─────────────────────────────────────────────
func TestSourceRepo_SQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := sqlite.NewSourceRepo(openSQLite(t))

	params := entity.NewParams("url", `https://example.com/feed?a=1&b="2"`, "note", "<b>bold</b>").
		Set("limit", json.RawMessage(`5`)).
		Set("tags", json.RawMessage(`["a","b"]`)).
		Set("archived", json.RawMessage(`null`))
	id, err := repo.Add(ctx, "Zeta", "rss", params)
	if err != nil {
		t.Fatalf("Add err=%v", err)
	}
	if _, err := repo.Add(ctx, "Alpha", "bookmarks", nil); err != nil {
		t.Fatalf("Add err=%v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List err=%v", err)
	}
	if len(list) != 2 || list[0].Title != "Alpha" || list[1].Title != "Zeta" {
		t.Fatalf("unexpected order %+v", list)
	}

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	want := &entity.Source{ID: id, Title: "Zeta", Spout: "rss", Params: params}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSourceRepo_SQLite_EditAndSetError(t *testing.T) {
	ctx := context.Background()
	repo := sqlite.NewSourceRepo(openSQLite(t))

	id, err := repo.Add(ctx, "Heise", "heise", entity.NewParams("section", "main"))
	if err != nil {
		t.Fatalf("Add err=%v", err)
	}
	if err := repo.SetError(ctx, id, "connection refused"); err != nil {
		t.Fatalf("SetError err=%v", err)
	}
	if err := repo.Edit(ctx, id, "Heise Security", "heise", entity.NewParams("section", "security")); err != nil {
		t.Fatalf("Edit err=%v", err)
	}

	got, _ := repo.Get(ctx, id)
	if got.Title != "Heise Security" || got.Params.Text("section") != "security" {
		t.Fatalf("edit not applied: %+v", got)
	}
	// Editing leaves the recorded error alone.
	if got.Error != "connection refused" {
		t.Fatalf("error changed by edit: %q", got.Error)
	}

	if err := repo.SetError(ctx, id, ""); err != nil {
		t.Fatalf("SetError err=%v", err)
	}
	got, _ = repo.Get(ctx, id)
	if got.HasError() {
		t.Fatalf("error not cleared: %q", got.Error)
	}

	if err := repo.Edit(ctx, id+100, "x", "rss", nil); !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestSourceRepo_SQLite_DeleteCascadesItems(t *testing.T) {
	ctx := context.Background()
	conn := openSQLite(t)
	repo := sqlite.NewSourceRepo(conn)

	keep, _ := repo.Add(ctx, "Keep", "rss", entity.NewParams("url", "https://keep.example"))
	drop, _ := repo.Add(ctx, "Drop", "rss", entity.NewParams("url", "https://drop.example"))
	insertItem(t, conn, keep, "k1")
	insertItem(t, conn, drop, "d1")
	insertItem(t, conn, drop, "d2")

	if err := repo.Delete(ctx, drop); err != nil {
		t.Fatalf("Delete err=%v", err)
	}
	if n := countItems(t, conn, drop); n != 0 {
		t.Fatalf("want 0 items for deleted source, got %d", n)
	}
	if n := countItems(t, conn, keep); n != 1 {
		t.Fatalf("want 1 item for kept source, got %d", n)
	}
	if got, _ := repo.Get(ctx, drop); got != nil {
		t.Fatalf("source still present: %+v", got)
	}

	// Deleting an id that is already gone is not an error.
	if err := repo.Delete(ctx, drop); err != nil {
		t.Fatalf("second Delete err=%v", err)
	}
}
