package evaluator

import (
	"strings"
	"testing"

	"github.com/funvibe/sift/internal/parser"
	"github.com/funvibe/sift/internal/record"
	"github.com/funvibe/sift/internal/value"
)

func mustParse(t *testing.T, src string) *Evaluator {
	t.Helper()
	prog, errs := parser.Parse(src)
	if len(errs) > 0 {
		t.Fatalf("parse error: %v", errs[0])
	}
	return New(prog, value.DefaultOfmt)
}

func recFrom(pairs ...string) *record.Record {
	r := record.New()
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Put(pairs[i], pairs[i+1])
	}
	return r
}

func dkvp(r *record.Record) string {
	var fields []string
	r.ForEach(func(k, v string) { fields = append(fields, k+"="+v) })
	return strings.Join(fields, ",")
}

// runStream pushes records through the program and returns the output as
// dkvp strings, end-block emissions included.
func runStream(t *testing.T, src string, inputs ...*record.Record) []string {
	t.Helper()
	e := mustParse(t, src)
	e.BeginStream()
	var out []string
	for i, rec := range inputs {
		for _, r := range e.ProcessRecord(rec, int64(i+1), int64(i+1), "test") {
			out = append(out, dkvp(r))
		}
	}
	for _, r := range e.EndStream() {
		out = append(out, dkvp(r))
	}
	return out
}

func TestScalarArithmeticTyping(t *testing.T) {
	// S1: int plus int stays int.
	out := runStream(t, `$c = $a + $b`, recFrom("a", "1", "b", "2"))
	if len(out) != 1 || out[0] != "a=1,b=2,c=3" {
		t.Errorf("out = %v", out)
	}
}

func TestNumericPromotion(t *testing.T) {
	// S2: int plus double promotes to double, formatted via ofmt.
	e := mustParse(t, `$c = $a + $b`)
	e.Ofmt = "%g"
	e.BeginStream()
	out := e.ProcessRecord(recFrom("a", "1", "b", "2.5"), 1, 1, "")
	if got := dkvp(out[0]); got != "a=1,b=2.5,c=3.5" {
		t.Errorf("out = %s", got)
	}
}

func TestStringComparisonCoercion(t *testing.T) {
	// S3: number formatted against string, compared lexically.
	out := runStream(t, `$r = ($x > "9") ? "yes" : "no"`, recFrom("x", "10"))
	if out[0] != "x=10,r=no" {
		t.Errorf("out = %v", out)
	}
}

func TestOosvarAccumulator(t *testing.T) {
	// S4: accumulate across records, emit at end-of-stream.
	out := runStream(t, `@s[$a] += $x; filter false; end { emit @s, "a" }`,
		recFrom("a", "pan", "x", "1"),
		recFrom("a", "pan", "x", "2"),
		recFrom("a", "eks", "x", "3"),
	)
	want := []string{"a=pan,s=3", "a=eks,s=3"}
	if len(out) != 2 || out[0] != want[0] || out[1] != want[1] {
		t.Errorf("out = %v, want %v", out, want)
	}
}

func TestFullRecordFromOosvar(t *testing.T) {
	// S5: $* = @r replaces the record with the map's entries in insertion
	// order, typed values formatted via ofmt on emit.
	out := runStream(t, `begin { @r["a"] = 1; @r["b"] = "x" } $* = @r`,
		recFrom("z", "9"))
	if out[0] != "a=1,b=x" {
		t.Errorf("out = %v", out)
	}
}

func TestDepthErrorPropagates(t *testing.T) {
	// S6: indexing past a terminal yields error in scalar context, and the
	// error absorbs through arithmetic.
	out := runStream(t, `@t[1][2][3] = 4; $e = @t[1][2][3][4] + 1`,
		recFrom("a", "1"))
	if out[0] != "a=1,e=(error)" {
		t.Errorf("out = %v", out)
	}
}

func TestNullRHSAssignmentIsNoOp(t *testing.T) {
	out := runStream(t, `$a = $nosuch`, recFrom("a", "7"))
	if out[0] != "a=7" {
		t.Errorf("out = %v, want untouched record", out)
	}
}

func TestErrorRHSIsStored(t *testing.T) {
	out := runStream(t, `$e = $a + $b`, recFrom("a", "pan", "b", "1"))
	if out[0] != "a=pan,b=1,e=(error)" {
		t.Errorf("out = %v", out)
	}
}

func TestFullRecordFromScalarIsNoOp(t *testing.T) {
	out := runStream(t, `$* = 3`, recFrom("a", "1"))
	if out[0] != "a=1" {
		t.Errorf("out = %v", out)
	}
}

func TestFullRecordFromSelfIsNoOp(t *testing.T) {
	out := runStream(t, `$* = $*`, recFrom("a", "1", "b", "2"))
	if out[0] != "a=1,b=2" {
		t.Errorf("out = %v", out)
	}
}

func TestFullRecordFromMapLiteral(t *testing.T) {
	out := runStream(t, `$* = { "x": 1, "y": $a }`, recFrom("a", "5"))
	if out[0] != "x=1,y=5" {
		t.Errorf("out = %v", out)
	}
}

func TestOosvarFromFullRecordPrefersTyped(t *testing.T) {
	// $c is assigned typed int before @r = $* captures the record.
	out := runStream(t, `$c = $a + 1; @r = $*; $d = @r["c"] + 1`,
		recFrom("a", "1"))
	if out[0] != "a=1,c=2,d=3" {
		t.Errorf("out = %v", out)
	}
}

func TestLocalScalars(t *testing.T) {
	out := runStream(t, `var x = $a + 1; $b = x * 2`, recFrom("a", "3"))
	if out[0] != "a=3,b=8" {
		t.Errorf("out = %v", out)
	}
}

func TestLocalTypeMaskEnforced(t *testing.T) {
	// Assigning a string to an int-masked local must not mutate the slot.
	out := runStream(t, `int n = 5; n = "pan"; $r = n`, recFrom("a", "1"))
	if out[0] != "a=1,r=5" {
		t.Errorf("out = %v", out)
	}
}

func TestIndexedLocals(t *testing.T) {
	out := runStream(t, `map m = {}; m[$a][2] = 10; $r = m[$a][2]`,
		recFrom("a", "k"))
	if out[0] != "a=k,r=10" {
		t.Errorf("out = %v", out)
	}
}

func TestLocalMapDeepCopiesFromOosvar(t *testing.T) {
	// A local bound from a non-ephemeral oosvar view clones: mutating the
	// local must not touch the accumulator.
	out := runStream(t, `
@r["k"] = 1
var m = @r
m["k"] = 99
$check = @r["k"]
`, recFrom("a", "1"))
	if out[0] != "a=1,check=1" {
		t.Errorf("out = %v", out)
	}
}

func TestLocalsResetPerRecord(t *testing.T) {
	out := runStream(t, `var n = 0; n = n + 1; $r = n`,
		recFrom("a", "1"), recFrom("a", "2"))
	if out[0] != "a=1,r=1" || out[1] != "a=2,r=1" {
		t.Errorf("locals leaked across records: %v", out)
	}
}

func TestOosvarsPersistAcrossRecords(t *testing.T) {
	out := runStream(t, `@n += 1; $r = @n`,
		recFrom("a", "1"), recFrom("a", "2"))
	if out[0] != "a=1,r=1" || out[1] != "a=2,r=2" {
		t.Errorf("out = %v", out)
	}
}

func TestFilterStatementDrops(t *testing.T) {
	out := runStream(t, `filter $x > 1`,
		recFrom("x", "1"), recFrom("x", "2"))
	if len(out) != 1 || out[0] != "x=2" {
		t.Errorf("out = %v", out)
	}
}

func TestEmitScalarOosvar(t *testing.T) {
	out := runStream(t, `@count += 1; filter false; end { emit @count }`,
		recFrom("a", "1"), recFrom("a", "2"))
	if len(out) != 1 || out[0] != "count=2" {
		t.Errorf("out = %v", out)
	}
}

func TestEmitCompositeKeys(t *testing.T) {
	out := runStream(t, `@s[$a][$b] = $x; filter false; end { emit @s }`,
		recFrom("a", "pan", "b", "wye", "x", "7"))
	if len(out) != 1 || out[0] != "s:pan:wye=7" {
		t.Errorf("out = %v", out)
	}
}

func TestUnset(t *testing.T) {
	out := runStream(t, `unset $b`, recFrom("a", "1", "b", "2", "c", "3"))
	if out[0] != "a=1,c=3" {
		t.Errorf("out = %v", out)
	}

	out = runStream(t, `@v["x"] = 1; @v["y"] = 2; unset @v["x"]; filter false; end { emit @v }`,
		recFrom("a", "1"))
	if len(out) != 1 || out[0] != "v:y=2" {
		t.Errorf("out = %v", out)
	}
}

func TestNFStaysCorrectAfterAssignment(t *testing.T) {
	out := runStream(t, `$c = 3; $n = NF`, recFrom("a", "1", "b", "2"))
	// NF is read after $c was added (3 fields) and before $n lands.
	if out[0] != "a=1,b=2,c=3,n=3" {
		t.Errorf("out = %v", out)
	}
}

func TestPseudoVariables(t *testing.T) {
	out := runStream(t, `$nr = NR`, recFrom("a", "1"), recFrom("a", "2"))
	if out[0] != "a=1,nr=1" || out[1] != "a=2,nr=2" {
		t.Errorf("out = %v", out)
	}
}

func TestBuiltins(t *testing.T) {
	tests := []struct {
		name string
		src  string
		in   *record.Record
		want string
	}{
		{"strlen", `$n = strlen($a)`, recFrom("a", "hello"), "a=hello,n=5"},
		{"sub", `$r = sub($a, "l", "L")`, recFrom("a", "hello"), "a=hello,r=heLlo"},
		{"toupper", `$r = toupper($a)`, recFrom("a", "pan"), "a=pan,r=PAN"},
		{"int coercion", `$r = int("3.7")`, recFrom("a", "1"), "a=1,r=4"},
		{"min", `$r = min($a, $b)`, recFrom("a", "3", "b", "2"), "a=3,b=2,r=2"},
		{"sec2gmt", `$r = sec2gmt(0)`, recFrom("a", "1"), "a=1,r=1970-01-01T00:00:00Z"},
		{"gmt2sec", `$r = gmt2sec("1970-01-01T00:00:10Z")`, recFrom("a", "1"), "a=1,r=10"},
		{"unknown function errors", `$r = nope(1)`, recFrom("a", "1"), "a=1,r=(error)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := runStream(t, tt.src, tt.in)
			if out[0] != tt.want {
				t.Errorf("out = %v, want %s", out, tt.want)
			}
		})
	}
}

func TestUUIDBuiltin(t *testing.T) {
	out := runStream(t, `$id = uuid()`, recFrom("a", "1"))
	rec := out[0]
	if !strings.HasPrefix(rec, "a=1,id=") {
		t.Fatalf("out = %v", out)
	}
	id := strings.TrimPrefix(rec, "a=1,id=")
	if len(id) != 36 || strings.Count(id, "-") != 4 {
		t.Errorf("id = %q does not look like a uuid", id)
	}
}

func TestBeginRunsBeforeStream(t *testing.T) {
	out := runStream(t, `begin { @base = 100 } $r = @base + NR`, recFrom("a", "1"))
	if out[0] != "a=1,r=101" {
		t.Errorf("out = %v", out)
	}
}

func TestEmitDuringMainBlock(t *testing.T) {
	// emit inside the main block produces extra records ahead of the
	// current one.
	out := runStream(t, `@last = $x; emit @last`, recFrom("x", "5"))
	if len(out) != 2 || out[0] != "last=5" || out[1] != "x=5" {
		t.Errorf("out = %v", out)
	}
}
