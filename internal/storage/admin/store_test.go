package admin

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"
)

type fakeBackend struct {
	users      map[uuid.UUID]bool
	rows       map[string][]Record
	existsErr  error
	replaceErr error
	replaced   int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{users: map[uuid.UUID]bool{}, rows: map[string][]Record{}}
}

func (f *fakeBackend) userExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.users[id], f.existsErr
}

func (f *fakeBackend) replace(ctx context.Context, table, idField string, id uuid.UUID, records []Record) error {
	f.replaced++
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.rows[table] = records
	return nil
}

func (f *fakeBackend) load(ctx context.Context, table, idField string, id uuid.UUID) ([]Record, error) {
	return f.rows[table], nil
}

func newTestStore(b backend) *Store {
	s := NewStore(nil, nil)
	s.db = b
	return s
}

func TestDisabledStore(t *testing.T) {
	s := NewStore(nil, nil)
	if s.Available() {
		t.Fatal("store without pool should be unavailable")
	}
	if s.Save(context.Background(), "cv_assets", []Record{{"title": "x"}}, uuid.New(), "") {
		t.Fatal("disabled Save should report false")
	}
	if rows, ok := s.Load(context.Background(), "cv_assets", uuid.New(), ""); ok || rows != nil {
		t.Fatalf("disabled Load = %v, %v", rows, ok)
	}
}

func TestSaveMissingUserWritesNothing(t *testing.T) {
	b := newFakeBackend()
	s := newTestStore(b)

	if s.Save(context.Background(), "cv_assets", []Record{{"title": "x"}}, uuid.New(), "") {
		t.Fatal("Save for unknown user should fail")
	}
	if b.replaced != 0 {
		t.Fatal("no write expected for unknown user")
	}
}

func TestSaveStampsOwner(t *testing.T) {
	b := newFakeBackend()
	s := newTestStore(b)
	id := uuid.New()
	b.users[id] = true

	in := []Record{{"title": "CV", "user_id": "someone-else"}}
	if !s.Save(context.Background(), "cv_assets", in, id, "") {
		t.Fatal("Save failed")
	}

	got := b.rows["cv_assets"]
	if len(got) != 1 || got[0]["user_id"] != id || got[0]["title"] != "CV" {
		t.Fatalf("stored %v", got)
	}
	if in[0]["user_id"] != "someone-else" {
		t.Fatal("caller records must not be mutated")
	}
}

func TestSaveEmptyRecordsClears(t *testing.T) {
	b := newFakeBackend()
	s := newTestStore(b)
	id := uuid.New()
	b.users[id] = true
	b.rows["cv_assets"] = []Record{{"title": "old"}}

	if !s.Save(context.Background(), "cv_assets", nil, id, "") {
		t.Fatal("Save failed")
	}
	if len(b.rows["cv_assets"]) != 0 {
		t.Fatalf("expected rows cleared, got %v", b.rows["cv_assets"])
	}
}

func TestSaveSwallowsErrors(t *testing.T) {
	b := newFakeBackend()
	s := newTestStore(b)
	id := uuid.New()
	b.users[id] = true

	b.replaceErr = errors.New("tx aborted")
	if s.Save(context.Background(), "cv_assets", []Record{{"title": "x"}}, id, "") {
		t.Fatal("Save should report false on write error")
	}

	b.replaceErr = nil
	b.existsErr = errors.New("timeout")
	if s.Save(context.Background(), "cv_assets", nil, id, "") {
		t.Fatal("Save should report false on lookup error")
	}
}

func TestRejectsUnknownTableAndColumn(t *testing.T) {
	b := newFakeBackend()
	s := newTestStore(b)
	id := uuid.New()
	b.users[id] = true

	if s.Save(context.Background(), "pg_authid", nil, id, "") {
		t.Fatal("unknown table accepted")
	}
	if _, ok := s.Load(context.Background(), "cv_assets", id, "user_id; drop table users"); ok {
		t.Fatal("bad id field accepted")
	}
}

func TestSaveRefusesUsersTable(t *testing.T) {
	b := newFakeBackend()
	s := newTestStore(b)
	id := uuid.New()
	b.users[id] = true

	if s.Save(context.Background(), "users", nil, id, "id") {
		t.Fatal("users table should not be writable")
	}
	if b.replaced != 0 {
		t.Fatalf("replace called %d times", b.replaced)
	}

	b.rows["users"] = []Record{{"id": id.String()}}
	if rows, ok := s.Load(context.Background(), "users", id, "id"); !ok || len(rows) != 1 {
		t.Fatalf("users Load = %v, %v", rows, ok)
	}
}

func TestLoad(t *testing.T) {
	b := newFakeBackend()
	s := newTestStore(b)
	b.rows["user_preferences"] = []Record{{"skills": []string{"go"}}}

	rows, ok := s.Load(context.Background(), "user_preferences", uuid.New(), "")
	if !ok || len(rows) != 1 {
		t.Fatalf("Load = %v, %v", rows, ok)
	}
}

func TestInsertStatement(t *testing.T) {
	sql, args, err := insertStatement("cv_assets", Record{"title": "CV", "tags": []string{"a"}})
	if err != nil {
		t.Fatalf("insertStatement: %v", err)
	}
	want := `INSERT INTO "cv_assets" ("tags", "title") VALUES ($1, $2)`
	if sql != want {
		t.Fatalf("sql = %s\nwant %s", sql, want)
	}
	if !reflect.DeepEqual(args, []any{[]string{"a"}, "CV"}) {
		t.Fatalf("args = %v", args)
	}

	if _, _, err := insertStatement("cv_assets", Record{"Bad-Col": 1}); err == nil {
		t.Fatal("invalid column accepted")
	}
}
