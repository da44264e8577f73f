package input

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func TestSQLiteReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE recs (a TEXT, x INTEGER)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO recs VALUES ('pan', 1), ('eks', 2)`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	db.Close()

	r, err := NewSQLiteReader(path, "recs")
	if err != nil {
		t.Fatalf("NewSQLiteReader: %v", err)
	}
	got := drain(t, r)
	if len(got) != 2 || got[0] != "a=pan,x=1" || got[1] != "a=eks,x=2" {
		t.Errorf("got %v", got)
	}
}

func TestSQLiteReaderBadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, _ := sql.Open("sqlite", path)
	db.Exec(`CREATE TABLE recs (a TEXT)`)
	db.Close()

	if _, err := NewSQLiteReader(path, "no such; table"); err == nil {
		t.Error("injection-shaped table name accepted")
	}
	if _, err := NewSQLiteReader(path, "missing"); err == nil {
		t.Error("missing table accepted")
	}
}
