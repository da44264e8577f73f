package input

import (
	"database/sql"
	"io"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/funvibe/sift/internal/record"
)

// SQLiteReader streams the rows of one table as records, columns in table
// order. Values arrive as their textual form; the DSL's on-demand scanning
// types them the same way it types any other input.
type SQLiteReader struct {
	db      *sql.DB
	rows    *sql.Rows
	columns []string
}

func NewSQLiteReader(path, table string) (*SQLiteReader, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	if !validTableName(table) {
		db.Close()
		return nil, errors.Errorf("invalid table name %q", table)
	}
	rows, err := db.Query(`SELECT * FROM "` + table + `"`)
	if err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "querying table %s", table)
	}
	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		db.Close()
		return nil, errors.Wrap(err, "reading columns")
	}
	return &SQLiteReader{db: db, rows: rows, columns: columns}, nil
}

func validTableName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		ok := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !ok {
			return false
		}
	}
	return true
}

func (s *SQLiteReader) Next() (*record.Record, error) {
	if !s.rows.Next() {
		err := s.rows.Err()
		s.rows.Close()
		s.db.Close()
		if err != nil {
			return nil, errors.Wrap(err, "scanning rows")
		}
		return nil, io.EOF
	}
	raw := make([]sql.NullString, len(s.columns))
	dest := make([]interface{}, len(s.columns))
	for i := range raw {
		dest[i] = &raw[i]
	}
	if err := s.rows.Scan(dest...); err != nil {
		return nil, errors.Wrap(err, "scanning row")
	}
	rec := record.New()
	for i, col := range s.columns {
		rec.Put(col, raw[i].String)
	}
	return rec, nil
}
