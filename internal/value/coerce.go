package value

import (
	"math"
	"strings"
	"time"
)

// Coercions are pure: each returns a fresh Val and leaves its operand alone.
// Per-tag rows mirror the operator tables; empty string coerces to null,
// unparseable strings to error.

func intFromB(a *Val) Val {
	if a.b {
		return FromInt(1)
	}
	return FromInt(0)
}
func intFromD(a *Val) Val { return FromInt(int64(math.Round(a.d))) }
func intFromI(a *Val) Val { return FromInt(a.i) }
func intFromS(a *Val) Val {
	if a.s == "" {
		return Null()
	}
	if i, ok := tryIntFromString(a.s); ok {
		return FromInt(i)
	}
	if d, ok := tryDoubleFromString(a.s); ok {
		return FromInt(int64(math.Round(d)))
	}
	return Err()
}

var intDispositions = [NumTypes]unaryFunc{
	/*NULL*/ unNull,
	/*ERROR*/ unErr,
	/*BOOL*/ intFromB,
	/*DOUBLE*/ intFromD,
	/*INT*/ intFromI,
	/*STRING*/ intFromS,
}

func ToInt(a *Val) Val { return intDispositions[a.typ](a) }

func floatFromB(a *Val) Val {
	if a.b {
		return FromDouble(1.0)
	}
	return FromDouble(0.0)
}
func floatFromD(a *Val) Val { return FromDouble(a.d) }
func floatFromI(a *Val) Val { return FromDouble(float64(a.i)) }
func floatFromS(a *Val) Val {
	if a.s == "" {
		return Null()
	}
	if d, ok := tryDoubleFromString(a.s); ok {
		return FromDouble(d)
	}
	return Err()
}

var floatDispositions = [NumTypes]unaryFunc{
	/*NULL*/ unNull,
	/*ERROR*/ unErr,
	/*BOOL*/ floatFromB,
	/*DOUBLE*/ floatFromD,
	/*INT*/ floatFromI,
	/*STRING*/ floatFromS,
}

func ToFloat(a *Val) Val { return floatDispositions[a.typ](a) }

func boolFromB(a *Val) Val { return FromBool(a.b) }
func boolFromD(a *Val) Val { return FromBool(a.d != 0.0) }
func boolFromI(a *Val) Val { return FromBool(a.i != 0) }
func boolFromS(a *Val) Val {
	switch a.s {
	case "":
		return Null()
	case "true", "TRUE":
		return True()
	case "false", "FALSE":
		return False()
	default:
		return Err()
	}
}

var booleanDispositions = [NumTypes]unaryFunc{
	/*NULL*/ unNull,
	/*ERROR*/ unErr,
	/*BOOL*/ boolFromB,
	/*DOUBLE*/ boolFromD,
	/*INT*/ boolFromI,
	/*STRING*/ boolFromS,
}

func ToBoolean(a *Val) Val { return booleanDispositions[a.typ](a) }

// ToString formats through ofmt for doubles, so it cannot live in the 1-D
// disposition array shape; nulls and errors still pass through as themselves,
// and the empty string goes to null.
func ToString(a *Val, ofmt string) Val {
	switch a.typ {
	case NULL:
		return Null()
	case ERROR:
		return Err()
	case STRING:
		if a.s == "" {
			return Null()
		}
		return FromString(a.s)
	default:
		return FromString(a.Format(ofmt))
	}
}

// ----------------------------------------------------------------
// String functions.

func StrLen(a *Val) Val {
	if a.typ == NULL {
		return Null()
	}
	if a.typ == ERROR {
		return Err()
	}
	return FromInt(int64(len(a.Format(DefaultOfmt))))
}

// Sub replaces the first occurrence of needle in haystack. An absent needle
// returns the haystack unchanged.
func Sub(haystack, needle, replacement *Val, ofmt string) Val {
	if haystack.typ == ERROR || needle.typ == ERROR || replacement.typ == ERROR {
		return Err()
	}
	if haystack.typ == NULL {
		return Null()
	}
	h := haystack.Format(ofmt)
	n := needle.Format(ofmt)
	idx := strings.Index(h, n)
	if idx < 0 || n == "" {
		return FromString(h)
	}
	return FromString(h[:idx] + replacement.Format(ofmt) + h[idx+len(n):])
}

func ToUpper(a *Val) Val {
	if a.typ != STRING {
		return *a
	}
	return FromString(strings.ToUpper(a.s))
}

func ToLower(a *Val) Val {
	if a.typ != STRING {
		return *a
	}
	return FromString(strings.ToLower(a.s))
}

// ----------------------------------------------------------------
// Date conversions. The wire form is %Y-%m-%dT%H:%M:%SZ in UTC.

const gmtLayout = "2006-01-02T15:04:05Z"

func Sec2GMT(a *Val) Val {
	if a.typ == ERROR {
		return Err()
	}
	f := ToFloat(a)
	if f.typ == NULL {
		return Null()
	}
	if f.typ != DOUBLE {
		return Err()
	}
	t := time.Unix(int64(f.d), 0).UTC()
	return FromString(t.Format(gmtLayout))
}

func GMT2Sec(a *Val) Val {
	if a.typ == ERROR {
		return Err()
	}
	if a.typ != STRING {
		return Err()
	}
	if a.s == "" {
		return Null()
	}
	t, err := time.ParseInLocation(gmtLayout, a.s, time.UTC)
	if err != nil {
		return Err()
	}
	return FromInt(t.Unix())
}

// ----------------------------------------------------------------
// Math functions, numeric-nullable: string operands are scanned, empty goes
// to null, unparseable to error, booleans to error.

func mathUnary(a *Val, f func(float64) float64) Val {
	v := a.scanNumber()
	switch v.typ {
	case NULL:
		return Null()
	case ERROR, BOOL, STRING:
		return Err()
	case INT:
		return FromDouble(f(float64(v.i)))
	default:
		return FromDouble(f(v.d))
	}
}

func Abs(a *Val) Val {
	v := a.scanNumber()
	if v.typ == INT {
		if v.i < 0 {
			return FromInt(-v.i)
		}
		return FromInt(v.i)
	}
	return mathUnary(a, math.Abs)
}

func Ceiling(a *Val) Val {
	if v := a.scanNumber(); v.typ == INT {
		return v
	}
	return mathUnary(a, math.Ceil)
}

func Floor(a *Val) Val {
	if v := a.scanNumber(); v.typ == INT {
		return v
	}
	return mathUnary(a, math.Floor)
}

func Round(a *Val) Val {
	if v := a.scanNumber(); v.typ == INT {
		return v
	}
	return mathUnary(a, math.Round)
}

func Exp(a *Val) Val  { return mathUnary(a, math.Exp) }
func Log(a *Val) Val  { return mathUnary(a, math.Log) }
func Sqrt(a *Val) Val { return mathUnary(a, math.Sqrt) }

// Min and Max compare numerically with int preserved when both sides are int.
func Min(a, b *Val, ofmt string) Val { return minMax(a, b, ofmt, true) }
func Max(a, b *Val, ofmt string) Val { return minMax(a, b, ofmt, false) }

func minMax(a, b *Val, ofmt string, wantMin bool) Val {
	av := a.scanNumber()
	bv := b.scanNumber()
	if av.typ == ERROR || bv.typ == ERROR {
		return Err()
	}
	if av.typ == NULL {
		return bv
	}
	if bv.typ == NULL {
		return av
	}
	less := Lt(&av, &bv, ofmt)
	if less.typ != BOOL {
		return Err()
	}
	if less.b == wantMin {
		return av
	}
	return bv
}

// SysTime returns the wall clock as float seconds since the epoch.
func SysTime() Val {
	now := time.Now()
	return FromDouble(float64(now.UnixNano()) / 1e9)
}
