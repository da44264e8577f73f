package pipeline

import (
	"io"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/funvibe/sift/internal/input"
	"github.com/funvibe/sift/internal/output"
	"github.com/funvibe/sift/internal/record"
)

// Context carries the stream position exposed to verbs (and through them to
// the DSL's NR/FNR/FILENAME pseudo-variables).
type Context struct {
	NR       int64
	FNR      int64
	Filename string
}

// Verb is one stage of the processing chain. Process maps one input record
// to zero or more output records; Finish runs once after end-of-stream and
// may flush buffered or accumulated records.
type Verb interface {
	Process(rec *record.Record, ctx *Context) []*record.Record
	Finish(ctx *Context) []*record.Record
}

// Source is one named record source feeding the chain.
type Source struct {
	Name   string
	Reader input.Reader
}

// Pipeline pushes records from sources through the verb chain into a writer.
// Scheduling is single-threaded and cooperative: exactly one record is live
// at a time, and each verb runs to completion on it before the next record
// is read.
type Pipeline struct {
	verbs   []Verb
	stopped atomic.Bool
}

func New(verbs ...Verb) *Pipeline {
	return &Pipeline{verbs: verbs}
}

// Stop requests cancellation; the run loop notices at the next record
// boundary, flushes the writer, and returns without running Finish.
func (p *Pipeline) Stop() { p.stopped.Store(true) }

func (p *Pipeline) Run(sources []Source, writer output.Writer) error {
	ctx := &Context{}
	for _, src := range sources {
		ctx.Filename = src.Name
		ctx.FNR = 0
		for {
			if p.stopped.Load() {
				return errors.Wrap(writer.Close(), "flushing output")
			}
			rec, err := src.Reader.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return errors.Wrapf(err, "reading %s", src.Name)
			}
			ctx.NR++
			ctx.FNR++
			recs := []*record.Record{rec}
			for _, v := range p.verbs {
				recs = processAll(v, recs, ctx)
			}
			for _, out := range recs {
				if err := writer.Write(out); err != nil {
					return errors.Wrap(err, "writing record")
				}
			}
		}
	}

	// End-of-stream: each verb's Finish output flows through the rest of
	// the chain, in chain order.
	for i, v := range p.verbs {
		recs := v.Finish(ctx)
		for _, downstream := range p.verbs[i+1:] {
			recs = processAll(downstream, recs, ctx)
		}
		for _, out := range recs {
			if err := writer.Write(out); err != nil {
				return errors.Wrap(err, "writing record")
			}
		}
	}

	return errors.Wrap(writer.Close(), "flushing output")
}

func processAll(v Verb, recs []*record.Record, ctx *Context) []*record.Record {
	var out []*record.Record
	for _, rec := range recs {
		out = append(out, v.Process(rec, ctx)...)
	}
	return out
}
