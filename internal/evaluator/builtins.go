package evaluator

import (
	"github.com/google/uuid"

	"github.com/funvibe/sift/internal/ast"
	"github.com/funvibe/sift/internal/value"
)

// Builtin is one DSL function. Arity is checked at call time; a mismatched
// call is a data error, not a crash.
type Builtin struct {
	Name  string
	Arity int
	Fn    func(e *Evaluator, args []value.Val) value.Val
}

func (e *Evaluator) evalCall(n *ast.CallExpr) value.Val {
	b, ok := e.builtins[n.Function]
	if !ok {
		return value.Err()
	}
	if len(n.Args) != b.Arity {
		return value.Err()
	}
	args := make([]value.Val, len(n.Args))
	for i, a := range n.Args {
		args[i] = e.EvalScalar(a)
	}
	return b.Fn(e, args)
}

func unaryBuiltin(name string, fn func(*value.Val) value.Val) *Builtin {
	return &Builtin{Name: name, Arity: 1, Fn: func(e *Evaluator, args []value.Val) value.Val {
		return fn(&args[0])
	}}
}

func builtinTable() map[string]*Builtin {
	table := map[string]*Builtin{}
	add := func(b *Builtin) { table[b.Name] = b }

	add(unaryBuiltin("strlen", value.StrLen))
	add(unaryBuiltin("toupper", value.ToUpper))
	add(unaryBuiltin("tolower", value.ToLower))
	add(unaryBuiltin("int", value.ToInt))
	add(unaryBuiltin("float", value.ToFloat))
	add(unaryBuiltin("boolean", value.ToBoolean))
	table["bool"] = table["boolean"]
	add(unaryBuiltin("abs", value.Abs))
	add(unaryBuiltin("ceiling", value.Ceiling))
	add(unaryBuiltin("floor", value.Floor))
	add(unaryBuiltin("round", value.Round))
	add(unaryBuiltin("exp", value.Exp))
	add(unaryBuiltin("log", value.Log))
	add(unaryBuiltin("sqrt", value.Sqrt))
	add(unaryBuiltin("sec2gmt", value.Sec2GMT))
	add(unaryBuiltin("gmt2sec", value.GMT2Sec))

	add(&Builtin{Name: "string", Arity: 1, Fn: func(e *Evaluator, args []value.Val) value.Val {
		return value.ToString(&args[0], e.Ofmt)
	}})
	add(&Builtin{Name: "sub", Arity: 3, Fn: func(e *Evaluator, args []value.Val) value.Val {
		return value.Sub(&args[0], &args[1], &args[2], e.Ofmt)
	}})
	add(&Builtin{Name: "min", Arity: 2, Fn: func(e *Evaluator, args []value.Val) value.Val {
		return value.Min(&args[0], &args[1], e.Ofmt)
	}})
	add(&Builtin{Name: "max", Arity: 2, Fn: func(e *Evaluator, args []value.Val) value.Val {
		return value.Max(&args[0], &args[1], e.Ofmt)
	}})
	add(&Builtin{Name: "systime", Arity: 0, Fn: func(e *Evaluator, args []value.Val) value.Val {
		return value.SysTime()
	}})
	add(&Builtin{Name: "uuid", Arity: 0, Fn: func(e *Evaluator, args []value.Val) value.Val {
		return value.FromString(uuid.NewString())
	}})

	// Stream-context pseudo-variables, callable as zero-arity functions.
	add(&Builtin{Name: "nf", Arity: 0, Fn: func(e *Evaluator, args []value.Val) value.Val {
		if e.rec == nil {
			return value.Null()
		}
		return value.FromInt(int64(e.rec.Len()))
	}})
	add(&Builtin{Name: "nr", Arity: 0, Fn: func(e *Evaluator, args []value.Val) value.Val {
		return value.FromInt(e.nr)
	}})
	add(&Builtin{Name: "fnr", Arity: 0, Fn: func(e *Evaluator, args []value.Val) value.Val {
		return value.FromInt(e.fnr)
	}})
	add(&Builtin{Name: "filename", Arity: 0, Fn: func(e *Evaluator, args []value.Val) value.Val {
		if e.filename == "" {
			return value.Null()
		}
		return value.FromString(e.filename)
	}})

	return table
}
