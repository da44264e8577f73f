package evaluator

import (
	"github.com/funvibe/sift/internal/ast"
	"github.com/funvibe/sift/internal/deepmap"
	"github.com/funvibe/sift/internal/record"
	"github.com/funvibe/sift/internal/value"
)

// Statement execution. The assignment taxonomy is the cross-product of LHS
// and RHS shapes; each case below is one row of that table. Null RHS scalar
// assignments are silent no-ops everywhere: the LHS keeps its prior value.
func (e *Evaluator) execStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.AssignFieldStatement:
		e.execAssignField(s)
	case *ast.AssignFullRecordStatement:
		e.execAssignFullRecord(s)
	case *ast.AssignOosvarStatement:
		e.execAssignOosvar(s)
	case *ast.LocalDeclStatement:
		e.execLocalDecl(s)
	case *ast.AssignLocalStatement:
		e.execAssignLocal(s)
	case *ast.FilterStatement:
		e.execFilter(s)
	case *ast.EmitStatement:
		e.execEmit(s)
	case *ast.UnsetStatement:
		e.execUnset(s)
	case *ast.ExpressionStatement:
		e.lastValue = e.EvalScalar(s.Expr)
	}
}

// $k = scalar: overlay gets the typed value, record gets a placeholder.
func (e *Evaluator) execAssignField(s *ast.AssignFieldStatement) {
	if e.rec == nil {
		return
	}
	v := e.EvalScalar(s.RHS)
	if !v.IsPresent() {
		return
	}
	record.WriteField(e.rec, e.ov, s.Name, v)
}

// $* = ...: full-record writes.
func (e *Evaluator) execAssignFullRecord(s *ast.AssignFullRecordStatement) {
	if e.rec == nil {
		return
	}
	// $* = $* is a no-op.
	if _, ok := s.RHS.(*ast.FullSrecExpr); ok {
		return
	}
	if !e.isExtendedExpr(s.RHS) {
		return // a scalar has no record shape: data error, record unchanged
	}
	b := e.EvalExtended(s.RHS)
	if b.Node == nil || b.Node.IsTerminal() {
		return
	}
	// Writing the source record from a view into it must not observe its
	// own clearing.
	src := b.Node
	if !b.Ephemeral {
		src = b.Node.Copy()
	}
	e.rec.Clear()
	e.ov.Clear()
	src.ForEach(func(k value.Val, child *deepmap.Node) {
		if child.IsTerminal() {
			record.WriteField(e.rec, e.ov, k.Format(e.Ofmt), child.Leaf())
		}
	})
}

// @name[path] = ...: accumulator writes.
func (e *Evaluator) execAssignOosvar(s *ast.AssignOosvarStatement) {
	path, ok := e.evalPath(s.Name, s.Keys)
	if !ok {
		return
	}

	// @v[path] = $*: clear the target subtree and copy the record in,
	// preferring typed overlay entries over raw strings.
	if _, isSrec := s.RHS.(*ast.FullSrecExpr); isSrec {
		if e.rec == nil {
			return
		}
		e.Oosvars.PutSubtree(path, deepmap.FromRecord(e.rec, e.ov))
		return
	}

	if e.isExtendedExpr(s.RHS) {
		b := e.EvalExtended(s.RHS)
		if b.Node == nil {
			return
		}
		e.Oosvars.PutSubtree(path, b.Owned())
		return
	}

	v := e.EvalScalar(s.RHS)
	if !v.IsPresent() {
		return
	}
	e.Oosvars.Put(path, v)
}

// var x = ..., int n = ...: initial bind with the declared type mask.
func (e *Evaluator) execLocalDecl(s *ast.LocalDeclStatement) {
	e.frames.Define(s.Slot, s.TypeMask)
	if e.isExtendedExpr(s.RHS) {
		b := e.EvalExtended(s.RHS)
		if b.Node == nil {
			return
		}
		e.frames.AssignNode(s.Slot, b.Owned())
		return
	}
	v := e.EvalScalar(s.RHS)
	if !v.IsPresent() {
		return
	}
	e.frames.AssignScalar(s.Slot, v)
}

// x = ... / x[path] = ...: local writes through the frame stack.
func (e *Evaluator) execAssignLocal(s *ast.AssignLocalStatement) {
	if s.Slot == ast.SlotUnset {
		return
	}
	if len(s.Keys) == 0 {
		if e.isExtendedExpr(s.RHS) {
			b := e.EvalExtended(s.RHS)
			if b.Node == nil {
				return
			}
			e.frames.AssignNode(s.Slot, b.Owned())
			return
		}
		v := e.EvalScalar(s.RHS)
		if !v.IsPresent() {
			return
		}
		e.frames.AssignScalar(s.Slot, v)
		return
	}

	// Indexed: the slot is a map root; put at the key path.
	node := e.frames.NodeFor(s.Slot)
	if node == nil {
		return // mask forbids maps
	}
	path, ok := e.evalKeys(s.Keys)
	if !ok {
		return
	}
	if e.isExtendedExpr(s.RHS) {
		b := e.EvalExtended(s.RHS)
		if b.Node == nil {
			return
		}
		node.PutSubtree(path, b.Owned())
		return
	}
	v := e.EvalScalar(s.RHS)
	if !v.IsPresent() {
		return
	}
	node.Put(path, v)
}

// filter expr: a false or non-boolean verdict drops the record.
func (e *Evaluator) execFilter(s *ast.FilterStatement) {
	v := e.EvalScalar(s.Cond)
	e.filterResult = v.Type() == value.BOOL && v.BoolVal()
}

// emit @name, "k1", ...: flatten an accumulator subtree to output records.
func (e *Evaluator) execEmit(s *ast.EmitStatement) {
	path, ok := e.evalPath(s.Name, s.Keys)
	if !ok {
		return
	}
	node, status := e.Oosvars.Get(path)
	switch status {
	case deepmap.Found:
		rec := record.New()
		rec.Put(s.Name, node.Leaf().Format(e.Ofmt))
		e.emitted = append(e.emitted, rec)
	case deepmap.TooShallow:
		keyNames := make([]string, 0, len(s.KeyNames))
		for _, kn := range s.KeyNames {
			v := e.EvalScalar(kn)
			if v.IsError() || v.IsNull() {
				return
			}
			keyNames = append(keyNames, v.Format(e.Ofmt))
		}
		e.emitted = append(e.emitted, node.ToRecords(s.Name, keyNames, e.Ofmt)...)
	}
}

// unset $f, @v[path], x, $*.
func (e *Evaluator) execUnset(s *ast.UnsetStatement) {
	for _, target := range s.Targets {
		switch t := target.(type) {
		case *ast.FieldExpr:
			if e.rec == nil {
				continue
			}
			e.rec.Remove(t.Name)
			e.ov.Delete(t.Name)
		case *ast.FullSrecExpr:
			if e.rec == nil {
				continue
			}
			e.rec.Clear()
			e.ov.Clear()
		case *ast.OosvarExpr:
			path, ok := e.evalPath(t.Name, t.Keys)
			if !ok {
				continue
			}
			e.Oosvars.Remove(path)
		case *ast.LocalExpr:
			if t.Slot == ast.SlotUnset {
				continue
			}
			if len(t.Keys) == 0 {
				e.frames.Unset(t.Slot)
				continue
			}
			if node := e.frames.ReadNode(t.Slot); node != nil {
				if path, ok := e.evalKeys(t.Keys); ok {
					node.Remove(path)
				}
			}
		}
	}
}
