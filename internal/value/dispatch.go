package value

import "math"

// Binary operators are driven by 2-D dispatch tables indexed by the operand
// tags. Every cell is populated; disallowed combinations resolve to the null
// or error cell. Tie-breaking lives in the table literals, not in scattered
// conditionals. Tables are immutable after package init and safe to share.

type binaryFunc func(a, b *Val, ofmt string) Val
type unaryFunc func(a *Val) Val

func binNull(a, b *Val, ofmt string) Val { return Null() }
func binErr(a, b *Val, ofmt string) Val  { return Err() }

// For the arithmetic operators a null operand acts as the identity: the
// result is the other operand. This is what makes
// "@sum = @sum + $x" accumulate from an absent start.
func binFirst(a, b *Val, ofmt string) Val  { return *a }
func binSecond(a, b *Val, ofmt string) Val { return *b }

// scanNumber coerces a string operand for arithmetic: empty string to null,
// unparseable to error. Non-string tags pass through unchanged.
func (v *Val) scanNumber() Val {
	if v.typ != STRING {
		return *v
	}
	if v.s == "" {
		return Null()
	}
	if i, ok := tryIntFromString(v.s); ok {
		return FromInt(i)
	}
	if d, ok := tryDoubleFromString(v.s); ok {
		return FromDouble(d)
	}
	return Err()
}

// ----------------------------------------------------------------
// Arithmetic

func plusII(a, b *Val, ofmt string) Val { return FromInt(a.i + b.i) }
func plusFF(a, b *Val, ofmt string) Val { return FromDouble(a.d + b.d) }
func plusFI(a, b *Val, ofmt string) Val { return FromDouble(a.d + float64(b.i)) }
func plusIF(a, b *Val, ofmt string) Val { return FromDouble(float64(a.i) + b.d) }
func plusSX(a, b *Val, ofmt string) Val { as := a.scanNumber(); return Plus(&as, b, ofmt) }
func plusXS(a, b *Val, ofmt string) Val { bs := b.scanNumber(); return Plus(a, &bs, ofmt) }

var plusDispositions [NumTypes][NumTypes]binaryFunc

func init() {
	plusDispositions = [NumTypes][NumTypes]binaryFunc{
		//         NULL     ERROR   BOOL    DOUBLE  INT     STRING
		/*NULL*/ {binNull, binErr, binErr, binSecond, binSecond, plusXS},
		/*ERROR*/ {binErr, binErr, binErr, binErr, binErr, binErr},
		/*BOOL*/ {binErr, binErr, binErr, binErr, binErr, binErr},
		/*DOUBLE*/ {binFirst, binErr, binErr, plusFF, plusFI, plusXS},
		/*INT*/ {binFirst, binErr, binErr, plusIF, plusII, plusXS},
		/*STRING*/ {plusSX, binErr, binErr, plusSX, plusSX, plusSX},
	}
}

func Plus(a, b *Val, ofmt string) Val { return plusDispositions[a.typ][b.typ](a, b, ofmt) }

func minusII(a, b *Val, ofmt string) Val { return FromInt(a.i - b.i) }
func minusFF(a, b *Val, ofmt string) Val { return FromDouble(a.d - b.d) }
func minusFI(a, b *Val, ofmt string) Val { return FromDouble(a.d - float64(b.i)) }
func minusIF(a, b *Val, ofmt string) Val { return FromDouble(float64(a.i) - b.d) }
func minusSX(a, b *Val, ofmt string) Val { as := a.scanNumber(); return Minus(&as, b, ofmt) }
func minusXS(a, b *Val, ofmt string) Val { bs := b.scanNumber(); return Minus(a, &bs, ofmt) }

var minusDispositions [NumTypes][NumTypes]binaryFunc

func init() {
	minusDispositions = [NumTypes][NumTypes]binaryFunc{
		//         NULL     ERROR   BOOL    DOUBLE   INT      STRING
		/*NULL*/ {binNull, binErr, binErr, binSecond, binSecond, minusXS},
		/*ERROR*/ {binErr, binErr, binErr, binErr, binErr, binErr},
		/*BOOL*/ {binErr, binErr, binErr, binErr, binErr, binErr},
		/*DOUBLE*/ {binFirst, binErr, binErr, minusFF, minusFI, minusXS},
		/*INT*/ {binFirst, binErr, binErr, minusIF, minusII, minusXS},
		/*STRING*/ {minusSX, binErr, binErr, minusSX, minusSX, minusSX},
	}
}

func Minus(a, b *Val, ofmt string) Val { return minusDispositions[a.typ][b.typ](a, b, ofmt) }

func timesII(a, b *Val, ofmt string) Val { return FromInt(a.i * b.i) }
func timesFF(a, b *Val, ofmt string) Val { return FromDouble(a.d * b.d) }
func timesFI(a, b *Val, ofmt string) Val { return FromDouble(a.d * float64(b.i)) }
func timesIF(a, b *Val, ofmt string) Val { return FromDouble(float64(a.i) * b.d) }
func timesSX(a, b *Val, ofmt string) Val { as := a.scanNumber(); return Times(&as, b, ofmt) }
func timesXS(a, b *Val, ofmt string) Val { bs := b.scanNumber(); return Times(a, &bs, ofmt) }

var timesDispositions [NumTypes][NumTypes]binaryFunc

func init() {
	timesDispositions = [NumTypes][NumTypes]binaryFunc{
		//         NULL     ERROR   BOOL    DOUBLE   INT      STRING
		/*NULL*/ {binNull, binErr, binErr, binSecond, binSecond, timesXS},
		/*ERROR*/ {binErr, binErr, binErr, binErr, binErr, binErr},
		/*BOOL*/ {binErr, binErr, binErr, binErr, binErr, binErr},
		/*DOUBLE*/ {binFirst, binErr, binErr, timesFF, timesFI, timesXS},
		/*INT*/ {binFirst, binErr, binErr, timesIF, timesII, timesXS},
		/*STRING*/ {timesSX, binErr, binErr, timesSX, timesSX, timesSX},
	}
}

func Times(a, b *Val, ofmt string) Val { return timesDispositions[a.typ][b.typ](a, b, ofmt) }

// Integer division producing an integer quotient when exact, a double
// quotient otherwise.
func divideII(a, b *Val, ofmt string) Val {
	if b.i == 0 {
		return Err()
	}
	if a.i%b.i == 0 {
		return FromInt(a.i / b.i)
	}
	return FromDouble(float64(a.i) / float64(b.i))
}
func divideFF(a, b *Val, ofmt string) Val { return FromDouble(a.d / b.d) }
func divideFI(a, b *Val, ofmt string) Val { return FromDouble(a.d / float64(b.i)) }
func divideIF(a, b *Val, ofmt string) Val { return FromDouble(float64(a.i) / b.d) }
func divideSX(a, b *Val, ofmt string) Val { as := a.scanNumber(); return Divide(&as, b, ofmt) }
func divideXS(a, b *Val, ofmt string) Val { bs := b.scanNumber(); return Divide(a, &bs, ofmt) }

var divideDispositions [NumTypes][NumTypes]binaryFunc

func init() {
	divideDispositions = [NumTypes][NumTypes]binaryFunc{
		//         NULL     ERROR   BOOL    DOUBLE    INT       STRING
		/*NULL*/ {binNull, binErr, binErr, binSecond, binSecond, divideXS},
		/*ERROR*/ {binErr, binErr, binErr, binErr, binErr, binErr},
		/*BOOL*/ {binErr, binErr, binErr, binErr, binErr, binErr},
		/*DOUBLE*/ {binFirst, binErr, binErr, divideFF, divideFI, divideXS},
		/*INT*/ {binFirst, binErr, binErr, divideIF, divideII, divideXS},
		/*STRING*/ {divideSX, binErr, binErr, divideSX, divideSX, divideSX},
	}
}

func Divide(a, b *Val, ofmt string) Val { return divideDispositions[a.typ][b.typ](a, b, ofmt) }

func intDivII(a, b *Val, ofmt string) Val {
	if b.i == 0 {
		return Err()
	}
	q := a.i / b.i
	if (a.i%b.i != 0) && ((a.i < 0) != (b.i < 0)) {
		q-- // floor, not truncate
	}
	return FromInt(q)
}
func intDivFF(a, b *Val, ofmt string) Val { return FromDouble(math.Floor(a.d / b.d)) }
func intDivFI(a, b *Val, ofmt string) Val { return FromDouble(math.Floor(a.d / float64(b.i))) }
func intDivIF(a, b *Val, ofmt string) Val { return FromDouble(math.Floor(float64(a.i) / b.d)) }
func intDivSX(a, b *Val, ofmt string) Val { as := a.scanNumber(); return IntDivide(&as, b, ofmt) }
func intDivXS(a, b *Val, ofmt string) Val { bs := b.scanNumber(); return IntDivide(a, &bs, ofmt) }

var intDivDispositions [NumTypes][NumTypes]binaryFunc

func init() {
	intDivDispositions = [NumTypes][NumTypes]binaryFunc{
		//         NULL     ERROR   BOOL    DOUBLE    INT       STRING
		/*NULL*/ {binNull, binErr, binErr, binSecond, binSecond, intDivXS},
		/*ERROR*/ {binErr, binErr, binErr, binErr, binErr, binErr},
		/*BOOL*/ {binErr, binErr, binErr, binErr, binErr, binErr},
		/*DOUBLE*/ {binFirst, binErr, binErr, intDivFF, intDivFI, intDivXS},
		/*INT*/ {binFirst, binErr, binErr, intDivIF, intDivII, intDivXS},
		/*STRING*/ {intDivSX, binErr, binErr, intDivSX, intDivSX, intDivSX},
	}
}

func IntDivide(a, b *Val, ofmt string) Val { return intDivDispositions[a.typ][b.typ](a, b, ofmt) }

func modII(a, b *Val, ofmt string) Val {
	if b.i == 0 {
		return Err()
	}
	m := a.i % b.i
	if m != 0 && ((m < 0) != (b.i < 0)) {
		m += b.i
	}
	return FromInt(m)
}
func modFF(a, b *Val, ofmt string) Val { return FromDouble(math.Mod(a.d, b.d)) }
func modFI(a, b *Val, ofmt string) Val { return FromDouble(math.Mod(a.d, float64(b.i))) }
func modIF(a, b *Val, ofmt string) Val { return FromDouble(math.Mod(float64(a.i), b.d)) }
func modSX(a, b *Val, ofmt string) Val { as := a.scanNumber(); return Modulo(&as, b, ofmt) }
func modXS(a, b *Val, ofmt string) Val { bs := b.scanNumber(); return Modulo(a, &bs, ofmt) }

var modDispositions [NumTypes][NumTypes]binaryFunc

func init() {
	modDispositions = [NumTypes][NumTypes]binaryFunc{
		//         NULL     ERROR   BOOL    DOUBLE  INT     STRING
		/*NULL*/ {binNull, binErr, binErr, binSecond, binSecond, modXS},
		/*ERROR*/ {binErr, binErr, binErr, binErr, binErr, binErr},
		/*BOOL*/ {binErr, binErr, binErr, binErr, binErr, binErr},
		/*DOUBLE*/ {binFirst, binErr, binErr, modFF, modFI, modXS},
		/*INT*/ {binFirst, binErr, binErr, modIF, modII, modXS},
		/*STRING*/ {modSX, binErr, binErr, modSX, modSX, modSX},
	}
}

func Modulo(a, b *Val, ofmt string) Val { return modDispositions[a.typ][b.typ](a, b, ofmt) }

func powII(a, b *Val, ofmt string) Val {
	if b.i >= 0 {
		result := int64(1)
		base := a.i
		for n := b.i; n > 0; n >>= 1 {
			if n&1 == 1 {
				result *= base
			}
			base *= base
		}
		return FromInt(result)
	}
	return FromDouble(math.Pow(float64(a.i), float64(b.i)))
}
func powFF(a, b *Val, ofmt string) Val { return FromDouble(math.Pow(a.d, b.d)) }
func powFI(a, b *Val, ofmt string) Val { return FromDouble(math.Pow(a.d, float64(b.i))) }
func powIF(a, b *Val, ofmt string) Val { return FromDouble(math.Pow(float64(a.i), b.d)) }
func powSX(a, b *Val, ofmt string) Val { as := a.scanNumber(); return Pow(&as, b, ofmt) }
func powXS(a, b *Val, ofmt string) Val { bs := b.scanNumber(); return Pow(a, &bs, ofmt) }

var powDispositions [NumTypes][NumTypes]binaryFunc

func init() {
	powDispositions = [NumTypes][NumTypes]binaryFunc{
		//         NULL     ERROR   BOOL    DOUBLE  INT     STRING
		/*NULL*/ {binNull, binErr, binErr, binSecond, binSecond, powXS},
		/*ERROR*/ {binErr, binErr, binErr, binErr, binErr, binErr},
		/*BOOL*/ {binErr, binErr, binErr, binErr, binErr, binErr},
		/*DOUBLE*/ {binFirst, binErr, binErr, powFF, powFI, powXS},
		/*INT*/ {binFirst, binErr, binErr, powIF, powII, powXS},
		/*STRING*/ {powSX, binErr, binErr, powSX, powSX, powSX},
	}
}

func Pow(a, b *Val, ofmt string) Val { return powDispositions[a.typ][b.typ](a, b, ofmt) }

// ----------------------------------------------------------------
// Dot-concatenation. Non-string operands are formatted with ofmt first; each
// operand contributes its own length.

func dotAny(a, b *Val, ofmt string) Val { return FromString(a.Format(ofmt) + b.Format(ofmt)) }

var dotDispositions = [NumTypes][NumTypes]binaryFunc{
	//         NULL     ERROR   BOOL    DOUBLE  INT     STRING
	/*NULL*/ {binNull, binErr, dotAny, dotAny, dotAny, dotAny},
	/*ERROR*/ {binErr, binErr, binErr, binErr, binErr, binErr},
	/*BOOL*/ {dotAny, binErr, dotAny, dotAny, dotAny, dotAny},
	/*DOUBLE*/ {dotAny, binErr, dotAny, dotAny, dotAny, dotAny},
	/*INT*/ {dotAny, binErr, dotAny, dotAny, dotAny, dotAny},
	/*STRING*/ {dotAny, binErr, dotAny, dotAny, dotAny, dotAny},
}

func Dot(a, b *Val, ofmt string) Val { return dotDispositions[a.typ][b.typ](a, b, ofmt) }

// ----------------------------------------------------------------
// Comparisons. Any comparison with a string operand formats the non-string
// side with ofmt and compares lexically; string/string is a byte compare.
// Booleans order-compare to error but equality-compare to each other.

type cmpRelation func(c int) bool

func cmpEQ(c int) bool { return c == 0 }
func cmpNE(c int) bool { return c != 0 }
func cmpGT(c int) bool { return c > 0 }
func cmpGE(c int) bool { return c >= 0 }
func cmpLT(c int) bool { return c < 0 }
func cmpLE(c int) bool { return c <= 0 }

func cmpInts(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpDoubles(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func makeCompareTable(rel cmpRelation, boolEquality bool) [NumTypes][NumTypes]binaryFunc {
	ii := func(a, b *Val, ofmt string) Val { return FromBool(rel(cmpInts(a.i, b.i))) }
	ff := func(a, b *Val, ofmt string) Val { return FromBool(rel(cmpDoubles(a.d, b.d))) }
	fi := func(a, b *Val, ofmt string) Val { return FromBool(rel(cmpDoubles(a.d, float64(b.i)))) }
	if_ := func(a, b *Val, ofmt string) Val { return FromBool(rel(cmpDoubles(float64(a.i), b.d))) }
	xs := func(a, b *Val, ofmt string) Val { return FromBool(rel(cmpStrings(a.Format(ofmt), b.s))) }
	sx := func(a, b *Val, ofmt string) Val { return FromBool(rel(cmpStrings(a.s, b.Format(ofmt)))) }
	ss := func(a, b *Val, ofmt string) Val { return FromBool(rel(cmpStrings(a.s, b.s))) }

	bb := binErr
	if boolEquality {
		bb = func(a, b *Val, ofmt string) Val {
			c := 0
			if a.b != b.b {
				c = 1
			}
			return FromBool(rel(c))
		}
	}

	return [NumTypes][NumTypes]binaryFunc{
		//         NULL     ERROR   BOOL    DOUBLE  INT     STRING
		/*NULL*/ {binNull, binErr, binErr, binNull, binNull, binNull},
		/*ERROR*/ {binErr, binErr, binErr, binErr, binErr, binErr},
		/*BOOL*/ {binErr, binErr, bb, binErr, binErr, binErr},
		/*DOUBLE*/ {binNull, binErr, binErr, ff, fi, xs},
		/*INT*/ {binNull, binErr, binErr, if_, ii, xs},
		/*STRING*/ {binNull, binErr, binErr, sx, sx, ss},
	}
}

var (
	eqDispositions = makeCompareTable(cmpEQ, true)
	neDispositions = makeCompareTable(cmpNE, true)
	gtDispositions = makeCompareTable(cmpGT, false)
	geDispositions = makeCompareTable(cmpGE, false)
	ltDispositions = makeCompareTable(cmpLT, false)
	leDispositions = makeCompareTable(cmpLE, false)
)

func Eq(a, b *Val, ofmt string) Val { return eqDispositions[a.typ][b.typ](a, b, ofmt) }
func Ne(a, b *Val, ofmt string) Val { return neDispositions[a.typ][b.typ](a, b, ofmt) }
func Gt(a, b *Val, ofmt string) Val { return gtDispositions[a.typ][b.typ](a, b, ofmt) }
func Ge(a, b *Val, ofmt string) Val { return geDispositions[a.typ][b.typ](a, b, ofmt) }
func Lt(a, b *Val, ofmt string) Val { return ltDispositions[a.typ][b.typ](a, b, ofmt) }
func Le(a, b *Val, ofmt string) Val { return leDispositions[a.typ][b.typ](a, b, ofmt) }

// ----------------------------------------------------------------
// Logical connectives. Strictly boolean; null absorbs, error dominates.

func andBB(a, b *Val, ofmt string) Val { return FromBool(a.b && b.b) }
func orBB(a, b *Val, ofmt string) Val  { return FromBool(a.b || b.b) }

var andDispositions = [NumTypes][NumTypes]binaryFunc{
	//         NULL     ERROR   BOOL     DOUBLE  INT     STRING
	/*NULL*/ {binNull, binErr, binNull, binErr, binErr, binErr},
	/*ERROR*/ {binErr, binErr, binErr, binErr, binErr, binErr},
	/*BOOL*/ {binNull, binErr, andBB, binErr, binErr, binErr},
	/*DOUBLE*/ {binErr, binErr, binErr, binErr, binErr, binErr},
	/*INT*/ {binErr, binErr, binErr, binErr, binErr, binErr},
	/*STRING*/ {binErr, binErr, binErr, binErr, binErr, binErr},
}

var orDispositions = [NumTypes][NumTypes]binaryFunc{
	//         NULL     ERROR   BOOL     DOUBLE  INT     STRING
	/*NULL*/ {binNull, binErr, binNull, binErr, binErr, binErr},
	/*ERROR*/ {binErr, binErr, binErr, binErr, binErr, binErr},
	/*BOOL*/ {binNull, binErr, orBB, binErr, binErr, binErr},
	/*DOUBLE*/ {binErr, binErr, binErr, binErr, binErr, binErr},
	/*INT*/ {binErr, binErr, binErr, binErr, binErr, binErr},
	/*STRING*/ {binErr, binErr, binErr, binErr, binErr, binErr},
}

func And(a, b *Val, ofmt string) Val { return andDispositions[a.typ][b.typ](a, b, ofmt) }
func Or(a, b *Val, ofmt string) Val  { return orDispositions[a.typ][b.typ](a, b, ofmt) }

// ----------------------------------------------------------------
// Unary operators.

func unNull(a *Val) Val { return Null() }
func unErr(a *Val) Val  { return Err() }

func negD(a *Val) Val { return FromDouble(-a.d) }
func negI(a *Val) Val { return FromInt(-a.i) }
func negS(a *Val) Val {
	as := a.scanNumber()
	return Neg(&as)
}

var negDispositions [NumTypes]unaryFunc

func init() {
	negDispositions = [NumTypes]unaryFunc{
		/*NULL*/ unNull,
		/*ERROR*/ unErr,
		/*BOOL*/ unErr,
		/*DOUBLE*/ negD,
		/*INT*/ negI,
		/*STRING*/ negS,
	}
}

func Neg(a *Val) Val { return negDispositions[a.typ](a) }

func notB(a *Val) Val { return FromBool(!a.b) }

var notDispositions = [NumTypes]unaryFunc{
	/*NULL*/ unNull,
	/*ERROR*/ unErr,
	/*BOOL*/ notB,
	/*DOUBLE*/ unErr,
	/*INT*/ unErr,
	/*STRING*/ unErr,
}

func Not(a *Val) Val { return notDispositions[a.typ](a) }

// BinaryOps maps operator lexemes to their dispatch entry points. The
// evaluator looks the operator up here each time it evaluates an infix
// expression.
var BinaryOps = map[string]func(a, b *Val, ofmt string) Val{
	"+":  Plus,
	"-":  Minus,
	"*":  Times,
	"/":  Divide,
	"//": IntDivide,
	"%":  Modulo,
	"**": Pow,
	".":  Dot,
	"==": Eq,
	"!=": Ne,
	">":  Gt,
	">=": Ge,
	"<":  Lt,
	"<=": Le,
	"&&": And,
	"||": Or,
}
