package input

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/funvibe/sift/internal/record"
)

// JSONReader reads a stream of objects (or one top-level array of objects).
// Nested structure flattens into colon-joined field names on ingest; the
// JSON writer reinflates them on emission.
type JSONReader struct {
	dec     *json.Decoder
	started bool
	inArray bool
}

func NewJSONReader(r io.Reader) *JSONReader {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &JSONReader{dec: dec}
}

func (j *JSONReader) Next() (*record.Record, error) {
	if !j.started {
		j.started = true
		tok, err := j.dec.Token()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading json")
		}
		if delim, ok := tok.(json.Delim); ok && delim == '[' {
			j.inArray = true
		} else if delim, ok := tok.(json.Delim); ok && delim == '{' {
			return j.readObjectBody()
		} else {
			return nil, errors.Errorf("json input must be an object or array of objects, got %v", tok)
		}
	}
	if j.inArray && !j.dec.More() {
		return nil, io.EOF
	}
	tok, err := j.dec.Token()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading json")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		if delim == ']' {
			return nil, io.EOF
		}
		return nil, errors.Errorf("expected json object, got %v", tok)
	}
	return j.readObjectBody()
}

// readObjectBody consumes the remainder of an object whose '{' has already
// been read, flattening nested containers.
func (j *JSONReader) readObjectBody() (*record.Record, error) {
	rec := record.New()
	if err := j.flattenObject(rec, ""); err != nil {
		return nil, err
	}
	return rec, nil
}

func (j *JSONReader) flattenObject(rec *record.Record, prefix string) error {
	for j.dec.More() {
		keyTok, err := j.dec.Token()
		if err != nil {
			return errors.Wrap(err, "reading json key")
		}
		key, ok := keyTok.(string)
		if !ok {
			return errors.Errorf("bad json key %v", keyTok)
		}
		if prefix != "" {
			key = prefix + ":" + key
		}
		if err := j.flattenValue(rec, key); err != nil {
			return err
		}
	}
	_, err := j.dec.Token() // consume '}'
	return err
}

func (j *JSONReader) flattenValue(rec *record.Record, key string) error {
	tok, err := j.dec.Token()
	if err != nil {
		return errors.Wrap(err, "reading json value")
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return j.flattenObject(rec, key)
		case '[':
			idx := 1
			for j.dec.More() {
				if err := j.flattenValue(rec, key+":"+strconv.Itoa(idx)); err != nil {
					return err
				}
				idx++
			}
			_, err := j.dec.Token() // consume ']'
			return err
		}
		return errors.Errorf("unexpected json delimiter %v", v)
	case string:
		rec.Put(key, v)
	case json.Number:
		rec.Put(key, v.String())
	case bool:
		rec.Put(key, fmt.Sprintf("%t", v))
	case nil:
		rec.Put(key, "")
	}
	return nil
}
