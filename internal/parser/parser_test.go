package parser

import (
	"testing"

	"github.com/funvibe/sift/internal/ast"
)

func parseNoErrors(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, errs := Parse(src)
	if len(errs) > 0 {
		t.Fatalf("parse errors for %q: %v", src, errs[0])
	}
	return prog
}

func TestFieldAssignment(t *testing.T) {
	prog := parseNoErrors(t, `$c = $a + $b`)
	if len(prog.Main) != 1 {
		t.Fatalf("got %d statements", len(prog.Main))
	}
	stmt, ok := prog.Main[0].(*ast.AssignFieldStatement)
	if !ok {
		t.Fatalf("statement is %T", prog.Main[0])
	}
	if stmt.Name != "c" {
		t.Errorf("lhs = %q", stmt.Name)
	}
	infix, ok := stmt.RHS.(*ast.InfixExpr)
	if !ok || infix.Operator != "+" {
		t.Fatalf("rhs = %T", stmt.RHS)
	}
	if f, ok := infix.Left.(*ast.FieldExpr); !ok || f.Name != "a" {
		t.Errorf("lhs of + = %T", infix.Left)
	}
}

func TestCompoundAssignmentDesugars(t *testing.T) {
	prog := parseNoErrors(t, `@s[$a] += $x`)
	stmt, ok := prog.Main[0].(*ast.AssignOosvarStatement)
	if !ok {
		t.Fatalf("statement is %T", prog.Main[0])
	}
	if stmt.Name != "s" || len(stmt.Keys) != 1 {
		t.Fatalf("target = %s with %d keys", stmt.Name, len(stmt.Keys))
	}
	infix, ok := stmt.RHS.(*ast.InfixExpr)
	if !ok || infix.Operator != "+" {
		t.Fatalf("rhs not desugared: %T", stmt.RHS)
	}
	if ov, ok := infix.Left.(*ast.OosvarExpr); !ok || ov.Name != "s" {
		t.Errorf("desugared lhs = %T", infix.Left)
	}
}

func TestPrecedence(t *testing.T) {
	prog := parseNoErrors(t, `$r = $a + $b * $c`)
	stmt := prog.Main[0].(*ast.AssignFieldStatement)
	top := stmt.RHS.(*ast.InfixExpr)
	if top.Operator != "+" {
		t.Fatalf("top operator = %s", top.Operator)
	}
	right := top.Right.(*ast.InfixExpr)
	if right.Operator != "*" {
		t.Errorf("right operator = %s", right.Operator)
	}
}

func TestPowRightAssociative(t *testing.T) {
	prog := parseNoErrors(t, `$r = 2 ** 3 ** 2`)
	stmt := prog.Main[0].(*ast.AssignFieldStatement)
	top := stmt.RHS.(*ast.InfixExpr)
	if _, ok := top.Right.(*ast.InfixExpr); !ok {
		t.Error("** should nest to the right")
	}
}

func TestTernary(t *testing.T) {
	prog := parseNoErrors(t, `$r = ($x > "9") ? "yes" : "no"`)
	stmt := prog.Main[0].(*ast.AssignFieldStatement)
	tern, ok := stmt.RHS.(*ast.TernaryExpr)
	if !ok {
		t.Fatalf("rhs = %T", stmt.RHS)
	}
	if _, ok := tern.Cond.(*ast.InfixExpr); !ok {
		t.Errorf("cond = %T", tern.Cond)
	}
}

func TestBeginEndBlocks(t *testing.T) {
	prog := parseNoErrors(t, `
begin { @count = 0 }
@count += 1
end { emit @count }
`)
	if len(prog.Begin) != 1 || len(prog.Main) != 1 || len(prog.End) != 1 {
		t.Fatalf("begin/main/end = %d/%d/%d", len(prog.Begin), len(prog.Main), len(prog.End))
	}
	emit, ok := prog.End[0].(*ast.EmitStatement)
	if !ok || emit.Name != "count" {
		t.Errorf("end stmt = %T", prog.End[0])
	}
}

func TestEmitKeyNames(t *testing.T) {
	prog := parseNoErrors(t, `end { emit @s, "a", "b" }`)
	emit := prog.End[0].(*ast.EmitStatement)
	if len(emit.KeyNames) != 2 {
		t.Fatalf("got %d key names", len(emit.KeyNames))
	}
	if s, ok := emit.KeyNames[0].(*ast.StringLiteral); !ok || s.Value != "a" {
		t.Errorf("first key name = %T", emit.KeyNames[0])
	}
}

func TestLocalSlotAllocation(t *testing.T) {
	prog := parseNoErrors(t, `var x = 1; var y = 2; $r = x + y`)
	if prog.FrameSize != 2 {
		t.Fatalf("frame size = %d, want 2", prog.FrameSize)
	}
	declX := prog.Main[0].(*ast.LocalDeclStatement)
	declY := prog.Main[1].(*ast.LocalDeclStatement)
	if declX.Slot == declY.Slot {
		t.Error("x and y share a slot")
	}
	rhs := prog.Main[2].(*ast.AssignFieldStatement).RHS.(*ast.InfixExpr)
	if lv, ok := rhs.Left.(*ast.LocalExpr); !ok || lv.Slot != declX.Slot {
		t.Errorf("read of x resolved to slot %v", rhs.Left)
	}
}

func TestUnboundLocalReadKeepsSentinel(t *testing.T) {
	prog := parseNoErrors(t, `$r = nosuch`)
	rhs := prog.Main[0].(*ast.AssignFieldStatement).RHS
	lv, ok := rhs.(*ast.LocalExpr)
	if !ok {
		t.Fatalf("rhs = %T", rhs)
	}
	if lv.Slot != ast.SlotUnset {
		t.Errorf("unbound local has slot %d", lv.Slot)
	}
}

func TestIndexedLocal(t *testing.T) {
	prog := parseNoErrors(t, `map m = {}; m[1][2] = 3`)
	assign := prog.Main[1].(*ast.AssignLocalStatement)
	if len(assign.Keys) != 2 {
		t.Fatalf("keys = %d", len(assign.Keys))
	}
	if assign.Slot == ast.SlotUnset {
		t.Error("indexed local not resolved to declared slot")
	}
}

func TestMapLiteral(t *testing.T) {
	prog := parseNoErrors(t, `@r = { "a": 1, "b": "x" }`)
	stmt := prog.Main[0].(*ast.AssignOosvarStatement)
	ml, ok := stmt.RHS.(*ast.MapLiteralExpr)
	if !ok {
		t.Fatalf("rhs = %T", stmt.RHS)
	}
	if len(ml.Keys) != 2 || len(ml.Values) != 2 {
		t.Errorf("map literal arity = %d/%d", len(ml.Keys), len(ml.Values))
	}
}

func TestCallExpr(t *testing.T) {
	prog := parseNoErrors(t, `$r = sub($a, "x", "y")`)
	call, ok := prog.Main[0].(*ast.AssignFieldStatement).RHS.(*ast.CallExpr)
	if !ok {
		t.Fatal("rhs is not a call")
	}
	if call.Function != "sub" || len(call.Args) != 3 {
		t.Errorf("call = %s/%d", call.Function, len(call.Args))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"dangling operator", `$a = +`},
		{"unterminated block", `begin { $a = 1`},
		{"unset of literal", `unset 3`},
		{"missing bracket", `@s[1 = 2`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := Parse(tt.src)
			if len(errs) == 0 {
				t.Errorf("no error for %q", tt.src)
			}
		})
	}
}

func TestFilterStatement(t *testing.T) {
	prog := parseNoErrors(t, `filter $x > 1`)
	if _, ok := prog.Main[0].(*ast.FilterStatement); !ok {
		t.Fatalf("statement = %T", prog.Main[0])
	}
}
