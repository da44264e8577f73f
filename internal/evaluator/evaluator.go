package evaluator

import (
	"github.com/funvibe/sift/internal/ast"
	"github.com/funvibe/sift/internal/deepmap"
	"github.com/funvibe/sift/internal/record"
	"github.com/funvibe/sift/internal/value"
)

// Evaluator runs a parsed DSL program over a record stream. It is built once
// per program and invoked per record; exactly one record is live at a time.
type Evaluator struct {
	Ofmt    string
	Oosvars *deepmap.Node

	prog     *ast.Program
	frames   *frameStack
	builtins map[string]*Builtin

	// Per-record stream context.
	rec      *record.Record
	ov       *record.Overlay
	nr       int64
	fnr      int64
	filename string

	filterResult bool
	lastValue    value.Val
	emitted      []*record.Record
}

func New(prog *ast.Program, ofmt string) *Evaluator {
	e := &Evaluator{
		Ofmt:    ofmt,
		Oosvars: deepmap.New(),
		prog:    prog,
		frames:  newFrameStack(),
	}
	e.builtins = builtinTable()
	return e
}

// BeginStream runs the begin blocks once, against accumulators only.
func (e *Evaluator) BeginStream() {
	e.rec = nil
	e.ov = nil
	e.runBlock(e.prog.Begin)
}

// ProcessRecord runs the main statement list over one record. It returns the
// records to pass downstream: anything emitted during the statements, then
// the (possibly rewritten) input record itself unless a filter dropped it.
func (e *Evaluator) ProcessRecord(rec *record.Record, nr, fnr int64, filename string) []*record.Record {
	e.rec = rec
	e.ov = record.NewOverlay()
	e.nr = nr
	e.fnr = fnr
	e.filename = filename
	e.filterResult = true
	e.lastValue = value.Null()
	e.emitted = nil

	e.runBlock(e.prog.Main)

	out := e.emitted
	if e.filterResult {
		record.Materialize(rec, e.ov, e.Ofmt)
		out = append(out, rec)
	}
	e.rec = nil
	e.ov = nil
	return out
}

// EndStream runs the end blocks after end-of-stream, against accumulators
// only, and returns whatever they emit.
func (e *Evaluator) EndStream() []*record.Record {
	e.rec = nil
	e.ov = nil
	e.emitted = nil
	e.runBlock(e.prog.End)
	return e.emitted
}

// FilterResult reports the most recent record's filter verdict; true when no
// filter statement ran.
func (e *Evaluator) FilterResult() bool { return e.filterResult }

// LastValue is the value of the most recent bare expression statement. The
// filter verb reads it as the record's keep/drop verdict.
func (e *Evaluator) LastValue() value.Val { return e.lastValue }

func (e *Evaluator) runBlock(stmts []ast.Statement) {
	if len(stmts) == 0 {
		return
	}
	e.frames.Push(e.prog.FrameSize)
	defer e.frames.Pop()
	for _, stmt := range stmts {
		e.execStatement(stmt)
	}
}

// ----------------------------------------------------------------
// Scalar evaluation: expressions producing a single typed value.

func (e *Evaluator) EvalScalar(expr ast.Expression) value.Val {
	switch n := expr.(type) {
	case *ast.IntegerLiteral:
		return value.FromInt(n.Value)
	case *ast.FloatLiteral:
		return value.FromDouble(n.Value)
	case *ast.StringLiteral:
		return value.FromString(n.Value)
	case *ast.BooleanLiteral:
		return value.FromBool(n.Value)

	case *ast.FieldExpr:
		if e.rec == nil {
			return value.Null()
		}
		v, ok := record.ReadField(e.rec, e.ov, n.Name)
		if !ok {
			return value.Null()
		}
		return v

	case *ast.FullSrecExpr:
		return value.Err() // the full record has no scalar reading

	case *ast.OosvarExpr:
		path, ok := e.evalPath(n.Name, n.Keys)
		if !ok {
			return value.Err()
		}
		return scalarFromLookup(e.Oosvars.GetTerminal(path))

	case *ast.LocalExpr:
		return e.evalLocalScalar(n)

	case *ast.PrefixExpr:
		right := e.EvalScalar(n.Right)
		switch n.Operator {
		case "-":
			return value.Neg(&right)
		case "!":
			return value.Not(&right)
		default:
			return value.Err()
		}

	case *ast.InfixExpr:
		left := e.EvalScalar(n.Left)
		right := e.EvalScalar(n.Right)
		fn, ok := value.BinaryOps[n.Operator]
		if !ok {
			return value.Err()
		}
		return fn(&left, &right, e.Ofmt)

	case *ast.TernaryExpr:
		cond := e.EvalScalar(n.Cond)
		switch cond.Type() {
		case value.BOOL:
			if cond.BoolVal() {
				return e.EvalScalar(n.Then)
			}
			return e.EvalScalar(n.Else)
		case value.NULL:
			return value.Null()
		default:
			return value.Err()
		}

	case *ast.CallExpr:
		return e.evalCall(n)

	case *ast.MapLiteralExpr:
		return value.Err() // map literals have no scalar reading

	default:
		return value.Err()
	}
}

func scalarFromLookup(v value.Val, status deepmap.GetStatus) value.Val {
	switch status {
	case deepmap.Found:
		return v
	case deepmap.NotFound:
		return value.Null()
	default:
		// Indexing past a terminal, or reading a map where a scalar is
		// wanted, is a data error that propagates.
		return value.Err()
	}
}

func (e *Evaluator) evalLocalScalar(n *ast.LocalExpr) value.Val {
	if n.Slot == ast.SlotUnset {
		return e.pseudoVariable(n.Name)
	}
	if len(n.Keys) == 0 {
		if e.frames.ReadNode(n.Slot) != nil {
			return value.Err()
		}
		return e.frames.ReadScalar(n.Slot)
	}
	node := e.frames.ReadNode(n.Slot)
	if node == nil {
		return value.Null()
	}
	path, ok := e.evalKeys(n.Keys)
	if !ok {
		return value.Err()
	}
	return scalarFromLookup(node.GetTerminal(path))
}

// pseudoVariable resolves the stream-context names; any other unbound name
// reads as null.
func (e *Evaluator) pseudoVariable(name string) value.Val {
	switch name {
	case "NF":
		if e.rec == nil {
			return value.Null()
		}
		return value.FromInt(int64(e.rec.Len()))
	case "NR":
		return value.FromInt(e.nr)
	case "FNR":
		return value.FromInt(e.fnr)
	case "FILENAME":
		if e.filename == "" {
			return value.Null()
		}
		return value.FromString(e.filename)
	default:
		return value.Null()
	}
}

// evalPath builds an accumulator path: the variable name followed by the
// evaluated index keys.
func (e *Evaluator) evalPath(name string, keys []ast.Expression) ([]value.Val, bool) {
	path := make([]value.Val, 0, len(keys)+1)
	path = append(path, value.FromString(name))
	rest, ok := e.evalKeys(keys)
	if !ok {
		return nil, false
	}
	return append(path, rest...), true
}

func (e *Evaluator) evalKeys(keys []ast.Expression) ([]value.Val, bool) {
	out := make([]value.Val, 0, len(keys))
	for _, k := range keys {
		v := e.EvalScalar(k)
		if v.IsError() || v.IsNull() {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

// ----------------------------------------------------------------
// Extended evaluation: expressions producing a map subtree. The ephemeral
// flag says whether the caller owns the result or is borrowing a view into
// the accumulator store or a local frame; Owned() is the deep-clone boundary
// that keeps borrowed subtrees from outliving their source.

type Boxed struct {
	Node      *deepmap.Node
	Ephemeral bool
}

// Owned returns a subtree safe to store: the node itself when ephemeral, a
// deep clone when borrowed.
func (b Boxed) Owned() *deepmap.Node {
	if b.Node == nil {
		return nil
	}
	if b.Ephemeral {
		return b.Node
	}
	return b.Node.Copy()
}

// EvalExtended evaluates expr as a subtree. A nil Node means the expression
// has no extended value (absent oosvar, scalar-only local).
func (e *Evaluator) EvalExtended(expr ast.Expression) Boxed {
	switch n := expr.(type) {
	case *ast.MapLiteralExpr:
		out := deepmap.New()
		for i, kexpr := range n.Keys {
			k := e.EvalScalar(kexpr)
			if k.IsError() || k.IsNull() {
				continue
			}
			v := e.EvalScalar(n.Values[i])
			out.Put([]value.Val{k}, v)
		}
		return Boxed{Node: out, Ephemeral: true}

	case *ast.FullSrecExpr:
		if e.rec == nil {
			return Boxed{}
		}
		return Boxed{Node: deepmap.FromRecord(e.rec, e.ov), Ephemeral: true}

	case *ast.OosvarExpr:
		path, ok := e.evalPath(n.Name, n.Keys)
		if !ok {
			return Boxed{}
		}
		node, status := e.Oosvars.Get(path)
		if status == deepmap.NotFound || status == deepmap.TooDeep {
			return Boxed{}
		}
		return Boxed{Node: node, Ephemeral: false}

	case *ast.LocalExpr:
		if n.Slot == ast.SlotUnset {
			return Boxed{}
		}
		node := e.frames.ReadNode(n.Slot)
		if node == nil {
			return Boxed{}
		}
		if len(n.Keys) == 0 {
			return Boxed{Node: node, Ephemeral: false}
		}
		path, ok := e.evalKeys(n.Keys)
		if !ok {
			return Boxed{}
		}
		sub, status := node.Get(path)
		if status == deepmap.NotFound || status == deepmap.TooDeep {
			return Boxed{}
		}
		return Boxed{Node: sub, Ephemeral: false}

	default:
		// Scalar expressions box as a terminal the caller owns.
		v := e.EvalScalar(expr)
		if v.IsNull() {
			return Boxed{}
		}
		return Boxed{Node: deepmap.Terminal(v), Ephemeral: true}
	}
}

// isExtendedExpr reports whether an expression can produce a subtree, which
// drives the LHS×RHS dispatch in the assignment taxonomy.
func (e *Evaluator) isExtendedExpr(expr ast.Expression) bool {
	switch n := expr.(type) {
	case *ast.MapLiteralExpr, *ast.FullSrecExpr:
		return true
	case *ast.OosvarExpr:
		path, ok := e.evalPath(n.Name, n.Keys)
		if !ok {
			return false
		}
		_, status := e.Oosvars.Get(path)
		return status == deepmap.TooShallow
	case *ast.LocalExpr:
		if n.Slot == ast.SlotUnset {
			return false
		}
		node := e.frames.ReadNode(n.Slot)
		if node == nil {
			return false
		}
		if len(n.Keys) == 0 {
			return true
		}
		path, ok := e.evalKeys(n.Keys)
		if !ok {
			return false
		}
		_, status := node.Get(path)
		return status == deepmap.TooShallow
	default:
		return false
	}
}
