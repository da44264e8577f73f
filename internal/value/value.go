package value

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// Type is the tag of a Val.
type Type uint8

const (
	NULL Type = iota
	ERROR
	BOOL
	DOUBLE
	INT
	STRING

	NumTypes
)

func (t Type) String() string {
	switch t {
	case NULL:
		return "T_NULL"
	case ERROR:
		return "T_ERROR"
	case BOOL:
		return "T_BOOL"
	case DOUBLE:
		return "T_DOUBLE"
	case INT:
		return "T_INT"
	case STRING:
		return "T_STRING"
	default:
		return "???"
	}
}

// Val is a tagged scalar: one of null, error, bool, int, double, string.
// The zero Val is null. Vals are immutable once constructed; every operator
// and coercion returns a fresh Val and never writes through its operands.
type Val struct {
	typ Type
	b   bool
	i   int64
	d   float64
	s   string
}

func Null() Val  { return Val{typ: NULL} }
func Err() Val   { return Val{typ: ERROR} }
func True() Val  { return Val{typ: BOOL, b: true} }
func False() Val { return Val{typ: BOOL, b: false} }

func FromBool(b bool) Val      { return Val{typ: BOOL, b: b} }
func FromInt(i int64) Val      { return Val{typ: INT, i: i} }
func FromDouble(d float64) Val { return Val{typ: DOUBLE, d: d} }
func FromString(s string) Val  { return Val{typ: STRING, s: s} }

// Scan converts a record field string to its most specific type: int if it
// parses as one, double if it parses as one, string otherwise. The empty
// string stays a string here; only the coercions map it to null.
func Scan(s string) Val {
	if i, ok := tryIntFromString(s); ok {
		return FromInt(i)
	}
	if d, ok := tryDoubleFromString(s); ok {
		return FromDouble(d)
	}
	return FromString(s)
}

func (v Val) Type() Type    { return v.typ }
func (v Val) IsNull() bool  { return v.typ == NULL }
func (v Val) IsError() bool { return v.typ == ERROR }

// IsPresent reports whether an assignment of v should take effect. Null RHS
// assignments are silent no-ops; errors do get stored.
func (v Val) IsPresent() bool { return v.typ != NULL }

func (v Val) BoolVal() bool      { return v.b }
func (v Val) IntVal() int64      { return v.i }
func (v Val) DoubleVal() float64 { return v.d }
func (v Val) StringVal() string  { return v.s }

// Format renders v for output. Nulls print as the empty string and errors as
// "(error)"; doubles go through ofmt.
func (v Val) Format(ofmt string) string {
	switch v.typ {
	case NULL:
		return ""
	case ERROR:
		return "(error)"
	case BOOL:
		if v.b {
			return "true"
		}
		return "false"
	case DOUBLE:
		return FormatDouble(v.d, ofmt)
	case INT:
		return strconv.FormatInt(v.i, 10)
	case STRING:
		return v.s
	default:
		return "???"
	}
}

// Describe renders v with its type tag, for debugging.
func (v Val) Describe() string {
	return "[" + v.typ.String() + "] " + v.Format(DefaultOfmt)
}

// Hash returns a key hash suitable for bucketing typed map keys.
func (v Val) Hash() uint32 {
	switch v.typ {
	case BOOL:
		if v.b {
			return 1
		}
		return 0
	case INT:
		return uint32(uint64(v.i) ^ (uint64(v.i) >> 32))
	case DOUBLE:
		return hashString(strconv.FormatFloat(v.d, 'g', -1, 64))
	case STRING:
		return hashString(v.s)
	default:
		return uint32(v.typ)
	}
}

func hashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// DefaultOfmt is the numeric output format applied to doubles when no
// --ofmt override is given. C-style length modifiers are accepted (see
// FormatDouble) so "%lf" works the way it reads.
const DefaultOfmt = "%f"

// FormatDouble formats d using a C-style printf format for doubles. Length
// modifiers ("l", "ll", "L") carry no meaning in Go verbs and are stripped.
func FormatDouble(d float64, ofmt string) string {
	return fmt.Sprintf(normalizeOfmt(ofmt), d)
}

func normalizeOfmt(ofmt string) string {
	if !strings.ContainsAny(ofmt, "lL") {
		return ofmt
	}
	var sb strings.Builder
	inVerb := false
	for _, r := range ofmt {
		if r == '%' {
			inVerb = !inVerb // "%%" toggles back off
			sb.WriteRune(r)
			continue
		}
		if inVerb && (r == 'l' || r == 'L') {
			continue
		}
		if inVerb && (r < '0' || r > '9') && r != '.' && r != '-' && r != '+' && r != ' ' && r != '#' {
			inVerb = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func tryIntFromString(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	i, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}

func tryDoubleFromString(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	d, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return d, true
}

// Equals is deep equality on tag and payload. Int and double payloads do not
// compare equal across tags here; use the Eq operator for coercing compares.
func (v Val) Equals(w Val) bool {
	if v.typ != w.typ {
		return false
	}
	switch v.typ {
	case BOOL:
		return v.b == w.b
	case INT:
		return v.i == w.i
	case DOUBLE:
		return v.d == w.d
	case STRING:
		return v.s == w.s
	default:
		return true
	}
}
