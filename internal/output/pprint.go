package output

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/sift/internal/record"
)

// PPRINTWriter buffers the stream and renders aligned columns at close.
// When stdout is a terminal the header row is underlined.
type PPRINTWriter struct {
	w    *bufio.Writer
	tty  bool
	recs []*record.Record
}

func NewPPRINTWriter(w io.Writer) *PPRINTWriter {
	tty := false
	if f, ok := w.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd())
	}
	return &PPRINTWriter{w: bufio.NewWriter(w), tty: tty}
}

func (p *PPRINTWriter) Write(rec *record.Record) error {
	p.recs = append(p.recs, rec)
	return nil
}

func (p *PPRINTWriter) Close() error {
	for start := 0; start < len(p.recs); {
		end := start
		keys := p.recs[start].Keys()
		for end < len(p.recs) && sameSchema(keys, p.recs[end].Keys()) {
			end++
		}
		if start > 0 {
			p.w.WriteString("\n")
		}
		p.renderGroup(p.recs[start:end])
		start = end
	}
	return p.w.Flush()
}

// renderGroup prints one same-schema run of records as an aligned table.
func (p *PPRINTWriter) renderGroup(recs []*record.Record) {
	keys := recs[0].Keys()
	widths := make([]int, len(keys))
	for i, k := range keys {
		widths[i] = len(k)
	}
	for _, rec := range recs {
		i := 0
		rec.ForEach(func(k, v string) {
			if v == "" {
				v = "-"
			}
			if len(v) > widths[i] {
				widths[i] = len(v)
			}
			i++
		})
	}

	if p.tty {
		p.writeRow(keys, widths, "\x1b[4m", "\x1b[0m")
	} else {
		p.writeRow(keys, widths, "", "")
	}
	for _, rec := range recs {
		var row []string
		rec.ForEach(func(k, v string) {
			if v == "" {
				v = "-"
			}
			row = append(row, v)
		})
		p.writeRow(row, widths, "", "")
	}
}

func (p *PPRINTWriter) writeRow(cells []string, widths []int, pre, post string) {
	var parts []string
	for i, c := range cells {
		if i < len(cells)-1 {
			c = c + strings.Repeat(" ", widths[i]-len(c))
		}
		parts = append(parts, c)
	}
	p.w.WriteString(pre + strings.Join(parts, " ") + post + "\n")
}
