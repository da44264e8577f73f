package output

import (
	"bytes"
	"testing"

	"github.com/funvibe/sift/internal/record"
)

func rec(pairs ...string) *record.Record {
	r := record.New()
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Put(pairs[i], pairs[i+1])
	}
	return r
}

func TestDKVPWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewDKVPWriter(&buf, ",", "=")
	w.Write(rec("a", "1", "b", "2"))
	w.Write(rec("x", "y"))
	w.Close()
	want := "a=1,b=2\nx=y\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestCSVWriterHeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf, 0)
	w.Write(rec("a", "1", "b", "2"))
	w.Write(rec("a", "3", "b", "4"))
	w.Close()
	want := "a,b\n1,2\n3,4\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestCSVWriterSchemaChange(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf, 0)
	w.Write(rec("a", "1"))
	w.Write(rec("b", "2"))
	w.Close()
	want := "a\n1\n\nb\n2\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestJSONWriterReinflates(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(&buf)
	w.Write(rec("a", "1", "b:c", "x", "b:d", "2.5"))
	w.Close()
	want := `{
  "a": 1,
  "b": {
    "c": "x",
    "d": 2.5
  }
}
`
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestXTABWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewXTABWriter(&buf)
	w.Write(rec("name", "pan", "x", "1"))
	w.Write(rec("name", "eks"))
	w.Close()
	want := "name pan\nx    1\n\nname eks\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestPPRINTWriterAligns(t *testing.T) {
	var buf bytes.Buffer
	w := NewPPRINTWriter(&buf)
	w.Write(rec("a", "1", "bbb", "2"))
	w.Write(rec("a", "1000", "bbb", ""))
	w.Close()
	want := "a    bbb\n1    2\n1000 -\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
