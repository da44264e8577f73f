package input

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"

	"github.com/funvibe/sift/internal/record"
)

// CSVReader reads header-first CSV; each data row becomes a record keyed by
// the header fields.
type CSVReader struct {
	r      *csv.Reader
	header []string
}

func NewCSVReader(r io.Reader, comma rune) *CSVReader {
	cr := csv.NewReader(r)
	if comma != 0 {
		cr.Comma = comma
	}
	cr.FieldsPerRecord = -1
	return &CSVReader{r: cr}
}

func (c *CSVReader) Next() (*record.Record, error) {
	if c.header == nil {
		header, err := c.r.Read()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading csv header")
		}
		c.header = header
	}
	row, err := c.r.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading csv row")
	}
	rec := record.New()
	for i, name := range c.header {
		if i < len(row) {
			rec.Put(name, row[i])
		} else {
			rec.Put(name, "")
		}
	}
	return rec, nil
}
