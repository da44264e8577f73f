package input

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/funvibe/sift/internal/record"
)

// Reader yields one insertion-ordered record per call, io.EOF at end of
// stream.
type Reader interface {
	Next() (*record.Record, error)
}

// DKVPReader reads key=value pairs, one record per line.
type DKVPReader struct {
	scanner *bufio.Scanner
	ifs     string
	ips     string
}

func NewDKVPReader(r io.Reader, ifs, ips string) *DKVPReader {
	if ifs == "" {
		ifs = ","
	}
	if ips == "" {
		ips = "="
	}
	return &DKVPReader{scanner: bufio.NewScanner(r), ifs: ifs, ips: ips}
}

func (d *DKVPReader) Next() (*record.Record, error) {
	for d.scanner.Scan() {
		line := d.scanner.Text()
		if line == "" {
			continue
		}
		rec := record.New()
		for i, pair := range strings.Split(line, d.ifs) {
			if k, v, ok := strings.Cut(pair, d.ips); ok {
				rec.Put(k, v)
			} else {
				// Positional fallback for pairless fields.
				rec.Put(strconv.Itoa(i+1), pair)
			}
		}
		return rec, nil
	}
	if err := d.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// NIDXReader reads whitespace-split lines; keys are 1..n.
type NIDXReader struct {
	scanner *bufio.Scanner
}

func NewNIDXReader(r io.Reader) *NIDXReader {
	return &NIDXReader{scanner: bufio.NewScanner(r)}
}

func (n *NIDXReader) Next() (*record.Record, error) {
	for n.scanner.Scan() {
		line := n.scanner.Text()
		if line == "" {
			continue
		}
		rec := record.New()
		for i, field := range strings.Fields(line) {
			rec.Put(strconv.Itoa(i+1), field)
		}
		return rec, nil
	}
	if err := n.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}
