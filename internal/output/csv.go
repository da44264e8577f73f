package output

import (
	"encoding/csv"
	"io"

	"github.com/funvibe/sift/internal/record"
)

// CSVWriter writes header-first CSV. A schema change mid-stream emits a
// blank line and a fresh header.
type CSVWriter struct {
	w      *csv.Writer
	raw    io.Writer
	header []string
}

func NewCSVWriter(w io.Writer, comma rune) *CSVWriter {
	cw := csv.NewWriter(w)
	if comma != 0 {
		cw.Comma = comma
	}
	return &CSVWriter{w: cw, raw: w}
}

func (c *CSVWriter) Write(rec *record.Record) error {
	keys := rec.Keys()
	if c.header == nil || !sameSchema(c.header, keys) {
		if c.header != nil {
			c.w.Flush()
			if _, err := io.WriteString(c.raw, "\n"); err != nil {
				return err
			}
		}
		c.header = append([]string(nil), keys...)
		if err := c.w.Write(c.header); err != nil {
			return err
		}
	}
	row := make([]string, 0, len(keys))
	rec.ForEach(func(k, v string) {
		row = append(row, v)
	})
	return c.w.Write(row)
}

func sameSchema(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (c *CSVWriter) Close() error {
	c.w.Flush()
	return c.w.Error()
}
