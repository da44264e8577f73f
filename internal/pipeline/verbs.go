package pipeline

import (
	"github.com/funvibe/sift/internal/ast"
	"github.com/funvibe/sift/internal/evaluator"
	"github.com/funvibe/sift/internal/record"
	"github.com/funvibe/sift/internal/value"
)

// PutVerb runs a DSL program over each record: assignments rewrite the
// record, emit statements inject extra records, filter statements drop.
type PutVerb struct {
	eval *evaluator.Evaluator
}

func NewPut(prog *ast.Program, ofmt string) *PutVerb {
	e := evaluator.New(prog, ofmt)
	e.BeginStream()
	return &PutVerb{eval: e}
}

func (v *PutVerb) Process(rec *record.Record, ctx *Context) []*record.Record {
	return v.eval.ProcessRecord(rec, ctx.NR, ctx.FNR, ctx.Filename)
}

func (v *PutVerb) Finish(ctx *Context) []*record.Record {
	return v.eval.EndStream()
}

// FilterVerb is put's sibling: the program's final bare expression is the
// keep/drop verdict. Assignments in the program are not undone: a kept record
// carries whatever the program wrote into it, and records emitted while
// processing it pass along with it.
type FilterVerb struct {
	eval *evaluator.Evaluator
}

func NewFilter(prog *ast.Program, ofmt string) *FilterVerb {
	e := evaluator.New(prog, ofmt)
	e.BeginStream()
	return &FilterVerb{eval: e}
}

func (v *FilterVerb) Process(rec *record.Record, ctx *Context) []*record.Record {
	out := v.eval.ProcessRecord(rec, ctx.NR, ctx.FNR, ctx.Filename)
	if !v.eval.FilterResult() {
		return nil
	}
	verdict := v.eval.LastValue()
	if verdict.Type() == value.BOOL && !verdict.BoolVal() {
		return nil
	}
	return out
}

func (v *FilterVerb) Finish(ctx *Context) []*record.Record {
	return v.eval.EndStream()
}

// CatVerb passes records through unchanged.
type CatVerb struct{}

func (CatVerb) Process(rec *record.Record, ctx *Context) []*record.Record {
	return []*record.Record{rec}
}

func (CatVerb) Finish(ctx *Context) []*record.Record { return nil }

// HeadVerb keeps the first N records.
type HeadVerb struct {
	N    int64
	seen int64
}

func (v *HeadVerb) Process(rec *record.Record, ctx *Context) []*record.Record {
	if v.seen >= v.N {
		return nil
	}
	v.seen++
	return []*record.Record{rec}
}

func (v *HeadVerb) Finish(ctx *Context) []*record.Record { return nil }

// TacVerb buffers the stream and replays it in reverse at end-of-stream.
type TacVerb struct {
	recs []*record.Record
}

func (v *TacVerb) Process(rec *record.Record, ctx *Context) []*record.Record {
	v.recs = append(v.recs, rec)
	return nil
}

func (v *TacVerb) Finish(ctx *Context) []*record.Record {
	out := make([]*record.Record, len(v.recs))
	for i, rec := range v.recs {
		out[len(v.recs)-1-i] = rec
	}
	return out
}
