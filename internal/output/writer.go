package output

import (
	"bufio"
	"io"
	"strings"

	"github.com/funvibe/sift/internal/record"
)

// Writer consumes records. Close flushes anything buffered; writers that
// need the whole stream (pprint) render there.
type Writer interface {
	Write(rec *record.Record) error
	Close() error
}

// DKVPWriter writes key=value pairs joined by the output field separator.
type DKVPWriter struct {
	w   *bufio.Writer
	ofs string
	ops string
}

func NewDKVPWriter(w io.Writer, ofs, ops string) *DKVPWriter {
	if ofs == "" {
		ofs = ","
	}
	if ops == "" {
		ops = "="
	}
	return &DKVPWriter{w: bufio.NewWriter(w), ofs: ofs, ops: ops}
}

func (d *DKVPWriter) Write(rec *record.Record) error {
	var fields []string
	rec.ForEach(func(k, v string) {
		fields = append(fields, k+d.ops+v)
	})
	_, err := d.w.WriteString(strings.Join(fields, d.ofs) + "\n")
	return err
}

func (d *DKVPWriter) Close() error { return d.w.Flush() }

// XTABWriter writes one key-value pair per line with the value column
// aligned, records separated by blank lines.
type XTABWriter struct {
	w     *bufio.Writer
	first bool
}

func NewXTABWriter(w io.Writer) *XTABWriter {
	return &XTABWriter{w: bufio.NewWriter(w), first: true}
}

func (x *XTABWriter) Write(rec *record.Record) error {
	if !x.first {
		if _, err := x.w.WriteString("\n"); err != nil {
			return err
		}
	}
	x.first = false
	width := 0
	rec.ForEach(func(k, v string) {
		if len(k) > width {
			width = len(k)
		}
	})
	var err error
	rec.ForEach(func(k, v string) {
		if err != nil {
			return
		}
		pad := strings.Repeat(" ", width-len(k)+1)
		_, err = x.w.WriteString(k + pad + v + "\n")
	})
	return err
}

func (x *XTABWriter) Close() error { return x.w.Flush() }
