package value

import (
	"testing"
)

func TestScan(t *testing.T) {
	tests := []struct {
		input string
		typ   Type
	}{
		{"1", INT},
		{"-17", INT},
		{"0xff", INT},
		{"2.5", DOUBLE},
		{"1e3", DOUBLE},
		{"pan", STRING},
		{"", STRING},
		{"3abc", STRING},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Scan(tt.input).Type(); got != tt.typ {
				t.Errorf("Scan(%q).Type() = %v, want %v", tt.input, got, tt.typ)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		v    Val
		ofmt string
		want string
	}{
		{"null", Null(), "%f", ""},
		{"error", Err(), "%f", "(error)"},
		{"true", True(), "%f", "true"},
		{"false", False(), "%f", "false"},
		{"int", FromInt(42), "%f", "42"},
		{"double default", FromDouble(3.5), "%f", "3.500000"},
		{"double lf", FromDouble(3.5), "%lf", "3.500000"},
		{"double precision", FromDouble(3.14159), "%.2lf", "3.14"},
		{"double g", FromDouble(2.5), "%g", "2.5"},
		{"string", FromString("abc"), "%f", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Format(tt.ofmt); got != tt.want {
				t.Errorf("Format(%s) = %q, want %q", tt.ofmt, got, tt.want)
			}
		})
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name string
		op   string
		a, b Val
		want Val
	}{
		{"int plus int", "+", FromInt(1), FromInt(2), FromInt(3)},
		{"int plus double promotes", "+", FromInt(1), FromDouble(2.5), FromDouble(3.5)},
		{"double plus int promotes", "+", FromDouble(2.5), FromInt(1), FromDouble(3.5)},
		{"string scans to int", "+", FromString("1"), FromInt(2), FromInt(3)},
		{"both strings scan", "+", FromString("1"), FromString("2"), FromInt(3)},
		{"unparseable string errors", "+", FromString("pan"), FromInt(2), Err()},
		{"empty string scans to null identity", "+", FromString(""), FromInt(2), FromInt(2)},
		{"null plus int is identity", "+", Null(), FromInt(2), FromInt(2)},
		{"int plus null is identity", "+", FromInt(2), Null(), FromInt(2)},
		{"null plus null is null", "+", Null(), Null(), Null()},
		{"null plus error is error", "+", Null(), Err(), Err()},
		{"error dominates", "+", Err(), FromInt(1), Err()},
		{"bool arithmetic errors", "+", True(), FromInt(1), Err()},
		{"int minus int", "-", FromInt(5), FromInt(3), FromInt(2)},
		{"int times int", "*", FromInt(4), FromInt(3), FromInt(12)},
		{"exact division stays int", "/", FromInt(6), FromInt(3), FromInt(2)},
		{"inexact division goes double", "/", FromInt(7), FromInt(2), FromDouble(3.5)},
		{"division by zero errors", "/", FromInt(7), FromInt(0), Err()},
		{"int div floors", "//", FromInt(-7), FromInt(2), FromInt(-4)},
		{"modulo", "%", FromInt(7), FromInt(3), FromInt(1)},
		{"modulo sign follows divisor", "%", FromInt(-7), FromInt(3), FromInt(2)},
		{"pow int", "**", FromInt(2), FromInt(10), FromInt(1024)},
		{"pow negative exponent", "**", FromInt(2), FromInt(-1), FromDouble(0.5)},
		{"dot concatenates", ".", FromString("ab"), FromString("cd"), FromString("abcd")},
		{"dot formats ints", ".", FromInt(1), FromString("x"), FromString("1x")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := BinaryOps[tt.op]
			got := fn(&tt.a, &tt.b, DefaultOfmt)
			if !got.Equals(tt.want) {
				t.Errorf("%s %s %s = %s, want %s",
					tt.a.Describe(), tt.op, tt.b.Describe(), got.Describe(), tt.want.Describe())
			}
		})
	}
}

func TestComparisons(t *testing.T) {
	tests := []struct {
		name string
		op   string
		a, b Val
		want Val
	}{
		{"int lt int", "<", FromInt(1), FromInt(2), True()},
		{"int gt double", ">", FromInt(3), FromDouble(2.5), True()},
		{"string compare is lexical", ">", FromString("10"), FromString("9"), False()},
		{"number formats against string", ">", FromInt(10), FromString("9"), False()},
		{"string eq string", "==", FromString("pan"), FromString("pan"), True()},
		{"int eq double", "==", FromInt(2), FromDouble(2.0), True()},
		{"bool eq bool allowed", "==", True(), True(), True()},
		{"bool ne bool allowed", "!=", True(), False(), True()},
		{"bool ordering disallowed", "<", True(), False(), Err()},
		{"bool vs int errors", "==", True(), FromInt(1), Err()},
		{"null vs int is null", "<", Null(), FromInt(1), Null()},
		{"null vs error is error", "<", Null(), Err(), Err()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := BinaryOps[tt.op]
			got := fn(&tt.a, &tt.b, DefaultOfmt)
			if !got.Equals(tt.want) {
				t.Errorf("%s %s %s = %s, want %s",
					tt.a.Describe(), tt.op, tt.b.Describe(), got.Describe(), tt.want.Describe())
			}
		})
	}
}

// Every operator table must have a defined entry for every tag pair.
func TestDispatchTotality(t *testing.T) {
	tables := map[string][NumTypes][NumTypes]binaryFunc{
		"plus":   plusDispositions,
		"minus":  minusDispositions,
		"times":  timesDispositions,
		"divide": divideDispositions,
		"intdiv": intDivDispositions,
		"mod":    modDispositions,
		"pow":    powDispositions,
		"dot":    dotDispositions,
		"eq":     eqDispositions,
		"ne":     neDispositions,
		"gt":     gtDispositions,
		"ge":     geDispositions,
		"lt":     ltDispositions,
		"le":     leDispositions,
		"and":    andDispositions,
		"or":     orDispositions,
	}
	for name, table := range tables {
		for i := Type(0); i < NumTypes; i++ {
			for j := Type(0); j < NumTypes; j++ {
				if table[i][j] == nil {
					t.Errorf("%s dispositions: nil cell at (%v, %v)", name, i, j)
				}
			}
		}
	}
	for i := Type(0); i < NumTypes; i++ {
		if negDispositions[i] == nil {
			t.Errorf("neg dispositions: nil cell at %v", i)
		}
		if notDispositions[i] == nil {
			t.Errorf("not dispositions: nil cell at %v", i)
		}
		if intDispositions[i] == nil || floatDispositions[i] == nil || booleanDispositions[i] == nil {
			t.Errorf("coercion dispositions: nil cell at %v", i)
		}
	}
}

func TestCoercions(t *testing.T) {
	tests := []struct {
		name string
		fn   func(*Val) Val
		in   Val
		want Val
	}{
		{"int from string", ToInt, FromString("42"), FromInt(42)},
		{"int from empty string", ToInt, FromString(""), Null()},
		{"int from junk", ToInt, FromString("pan"), Err()},
		{"int from double rounds", ToInt, FromDouble(2.6), FromInt(3)},
		{"int from bool", ToInt, True(), FromInt(1)},
		{"int from null", ToInt, Null(), Null()},
		{"float from string", ToFloat, FromString("2.5"), FromDouble(2.5)},
		{"float from int", ToFloat, FromInt(2), FromDouble(2.0)},
		{"bool from TRUE", ToBoolean, FromString("TRUE"), True()},
		{"bool from other string", ToBoolean, FromString("yes"), Err()},
		{"bool from nonzero int", ToBoolean, FromInt(7), True()},
		{"neg int", Neg, FromInt(3), FromInt(-3)},
		{"neg string scans", Neg, FromString("3"), FromInt(-3)},
		{"not bool", Not, True(), False()},
		{"not int errors", Not, FromInt(1), Err()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(&tt.in)
			if !got.Equals(tt.want) {
				t.Errorf("got %s, want %s", got.Describe(), tt.want.Describe())
			}
		})
	}
}

func TestStringFunctions(t *testing.T) {
	hay := FromString("hello world")
	needle := FromString("world")
	repl := FromString("there")
	if got := Sub(&hay, &needle, &repl, DefaultOfmt); got.StringVal() != "hello there" {
		t.Errorf("Sub = %q, want %q", got.StringVal(), "hello there")
	}

	absent := FromString("zzz")
	if got := Sub(&hay, &absent, &repl, DefaultOfmt); got.StringVal() != "hello world" {
		t.Errorf("Sub with absent needle = %q, want haystack unchanged", got.StringVal())
	}

	twice := FromString("aXbXc")
	x := FromString("X")
	y := FromString("Y")
	if got := Sub(&twice, &x, &y, DefaultOfmt); got.StringVal() != "aYbXc" {
		t.Errorf("Sub must replace first match only, got %q", got.StringVal())
	}

	s := FromString("abc")
	if got := StrLen(&s); got.IntVal() != 3 {
		t.Errorf("StrLen = %d, want 3", got.IntVal())
	}
	up := ToUpper(&s)
	if up.StringVal() != "ABC" {
		t.Errorf("ToUpper = %q", up.StringVal())
	}
}

func TestDateConversions(t *testing.T) {
	sec := FromInt(0)
	got := Sec2GMT(&sec)
	if got.StringVal() != "1970-01-01T00:00:00Z" {
		t.Errorf("Sec2GMT(0) = %q", got.StringVal())
	}

	s := FromString("1970-01-01T00:00:01Z")
	back := GMT2Sec(&s)
	if back.IntVal() != 1 {
		t.Errorf("GMT2Sec = %d, want 1", back.IntVal())
	}

	empty := FromString("")
	if !GMT2Sec(&empty).IsNull() {
		t.Error("GMT2Sec of empty string must be null")
	}
	junk := FromString("not-a-date")
	if !GMT2Sec(&junk).IsError() {
		t.Error("GMT2Sec of junk must be error")
	}

	roundTrip := FromInt(1500000000)
	g := Sec2GMT(&roundTrip)
	if b := GMT2Sec(&g); b.IntVal() != 1500000000 {
		t.Errorf("round trip = %d, want 1500000000", b.IntVal())
	}
}

func TestHashStability(t *testing.T) {
	a := FromString("pan")
	b := FromString("pan")
	if a.Hash() != b.Hash() {
		t.Error("equal strings must hash equal")
	}
	i1 := FromInt(17)
	i2 := FromInt(17)
	if i1.Hash() != i2.Hash() {
		t.Error("equal ints must hash equal")
	}
}
