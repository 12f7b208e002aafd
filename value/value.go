// Package value implements the treescript runtime value model: a tagged
// variant over five primitive kinds (None, Int, Float, Str, Bool) plus two
// reference kinds (function and array). Function and Array values are shared handles — copying a Value
// copies the handle, not the referent; primitive kinds are copied by value.
package value

import (
	"fmt"
	"strconv"

	"github.com/dogukanakkaya/treescript/ast"
)

type Kind int

const (
	KindNone Kind = iota
	KindInt
	KindFloat
	KindStr
	KindBool
	KindFunction
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindStr:
		return "Str"
	case KindBool:
		return "Bool"
	case KindFunction:
		return "Function"
	case KindArray:
		return "Array"
	default:
		return "None"
	}
}

// Value is the tagged union of every runtime value a treescript program can
// hold. The zero Value is None.
type Value struct {
	kind     Kind
	intVal   int64
	floatVal float64
	strVal   string
	boolVal  bool
	fn       *Callable
	arr      *Array
}

func None() Value                 { return Value{kind: KindNone} }
func Int(i int64) Value           { return Value{kind: KindInt, intVal: i} }
func Float(f float64) Value       { return Value{kind: KindFloat, floatVal: f} }
func Str(s string) Value          { return Value{kind: KindStr, strVal: s} }
func Bool(b bool) Value           { return Value{kind: KindBool, boolVal: b} }
func Function(c *Callable) Value  { return Value{kind: KindFunction, fn: c} }
func FromArray(a *Array) Value    { return Value{kind: KindArray, arr: a} }

func (v Value) Kind() Kind { return v.kind }

// AsInt returns v's integer payload and whether v is an Int.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.intVal, true
}

// AsFloat returns v's float payload and whether v is a Float.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.floatVal, true
}

// AsStr returns v's string payload and whether v is a Str.
func (v Value) AsStr() (string, bool) {
	if v.kind != KindStr {
		return "", false
	}
	return v.strVal, true
}

// AsBool returns v's bool payload and whether v is a Bool.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.boolVal, true
}

// AsFunction returns v's callable and whether v is a Function.
func (v Value) AsFunction() (*Callable, bool) {
	if v.kind != KindFunction {
		return nil, false
	}
	return v.fn, true
}

// AsArray returns v's array handle and whether v is an Array.
func (v Value) AsArray() (*Array, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.arr, true
}

// ToString renders v per the §4.1 to_string contract.
func (v Value) ToString() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.intVal, 10)
	case KindFloat:
		return strconv.FormatFloat(v.floatVal, 'g', -1, 64)
	case KindStr:
		return v.strVal
	case KindBool:
		if v.boolVal {
			return "true"
		}
		return "false"
	case KindFunction:
		return "Function"
	case KindArray:
		return "Array"
	default:
		return "None"
	}
}

// TypeError is a fatal kind-mismatch error raised by an operator or builtin.
type TypeError struct {
	Op   string
	Lhs  Kind
	Rhs  Kind // KindNone (unused) for unary operators
	Note string
}

func (e *TypeError) Error() string {
	if e.Note != "" {
		return fmt.Sprintf("type error: %s", e.Note)
	}
	return fmt.Sprintf("type error: operator %q not defined for %s and %s", e.Op, e.Lhs, e.Rhs)
}

func typeErr(op string, l, r Kind) error { return &TypeError{Op: op, Lhs: l, Rhs: r} }

// Add implements binary `+`: Int+Int, Float+Float, Str+Str (concatenation).
func (v Value) Add(o Value) (Value, error) {
	switch {
	case v.kind == KindInt && o.kind == KindInt:
		return Int(v.intVal + o.intVal), nil
	case v.kind == KindFloat && o.kind == KindFloat:
		return Float(v.floatVal + o.floatVal), nil
	case v.kind == KindStr && o.kind == KindStr:
		return Str(v.strVal + o.strVal), nil
	default:
		return None(), typeErr("+", v.kind, o.kind)
	}
}

func (v Value) Sub(o Value) (Value, error) {
	switch {
	case v.kind == KindInt && o.kind == KindInt:
		return Int(v.intVal - o.intVal), nil
	case v.kind == KindFloat && o.kind == KindFloat:
		return Float(v.floatVal - o.floatVal), nil
	default:
		return None(), typeErr("-", v.kind, o.kind)
	}
}

func (v Value) Mul(o Value) (Value, error) {
	switch {
	case v.kind == KindInt && o.kind == KindInt:
		return Int(v.intVal * o.intVal), nil
	case v.kind == KindFloat && o.kind == KindFloat:
		return Float(v.floatVal * o.floatVal), nil
	default:
		return None(), typeErr("*", v.kind, o.kind)
	}
}

// Div implements `/`. Int division truncates toward zero.
func (v Value) Div(o Value) (Value, error) {
	switch {
	case v.kind == KindInt && o.kind == KindInt:
		if o.intVal == 0 {
			return None(), &TypeError{Note: "division by zero"}
		}
		return Int(v.intVal / o.intVal), nil
	case v.kind == KindFloat && o.kind == KindFloat:
		return Float(v.floatVal / o.floatVal), nil
	default:
		return None(), typeErr("/", v.kind, o.kind)
	}
}

// Mod implements `%`, Int only, with the sign rules of truncating division.
func (v Value) Mod(o Value) (Value, error) {
	if v.kind == KindInt && o.kind == KindInt {
		if o.intVal == 0 {
			return None(), &TypeError{Note: "modulo by zero"}
		}
		return Int(v.intVal % o.intVal), nil
	}
	return None(), typeErr("%", v.kind, o.kind)
}

func (v Value) Eq(o Value) (Value, error) {
	switch {
	case v.kind == KindInt && o.kind == KindInt:
		return Bool(v.intVal == o.intVal), nil
	case v.kind == KindFloat && o.kind == KindFloat:
		return Bool(v.floatVal == o.floatVal), nil
	case v.kind == KindStr && o.kind == KindStr:
		return Bool(v.strVal == o.strVal), nil
	case v.kind == KindBool && o.kind == KindBool:
		return Bool(v.boolVal == o.boolVal), nil
	default:
		return None(), typeErr("==", v.kind, o.kind)
	}
}

func (v Value) Neq(o Value) (Value, error) {
	eq, err := v.Eq(o)
	if err != nil {
		return None(), &TypeError{Op: "!=", Lhs: v.kind, Rhs: o.kind}
	}
	b, _ := eq.AsBool()
	return Bool(!b), nil
}

func (v Value) Lt(o Value) (Value, error) {
	switch {
	case v.kind == KindInt && o.kind == KindInt:
		return Bool(v.intVal < o.intVal), nil
	case v.kind == KindFloat && o.kind == KindFloat:
		return Bool(v.floatVal < o.floatVal), nil
	default:
		return None(), typeErr("<", v.kind, o.kind)
	}
}

func (v Value) Lte(o Value) (Value, error) {
	switch {
	case v.kind == KindInt && o.kind == KindInt:
		return Bool(v.intVal <= o.intVal), nil
	case v.kind == KindFloat && o.kind == KindFloat:
		return Bool(v.floatVal <= o.floatVal), nil
	default:
		return None(), typeErr("<=", v.kind, o.kind)
	}
}

func (v Value) Gt(o Value) (Value, error) {
	switch {
	case v.kind == KindInt && o.kind == KindInt:
		return Bool(v.intVal > o.intVal), nil
	case v.kind == KindFloat && o.kind == KindFloat:
		return Bool(v.floatVal > o.floatVal), nil
	default:
		return None(), typeErr(">", v.kind, o.kind)
	}
}

func (v Value) Gte(o Value) (Value, error) {
	switch {
	case v.kind == KindInt && o.kind == KindInt:
		return Bool(v.intVal >= o.intVal), nil
	case v.kind == KindFloat && o.kind == KindFloat:
		return Bool(v.floatVal >= o.floatVal), nil
	default:
		return None(), typeErr(">=", v.kind, o.kind)
	}
}

// Negate implements unary `-` for Int and Float.
func (v Value) Negate() (Value, error) {
	switch v.kind {
	case KindInt:
		return Int(-v.intVal), nil
	case KindFloat:
		return Float(-v.floatVal), nil
	default:
		return None(), &TypeError{Op: "unary -", Lhs: v.kind, Note: fmt.Sprintf("unary - not defined for %s", v.kind)}
	}
}

// Not implements unary `not` for Bool.
func (v Value) Not() (Value, error) {
	if v.kind != KindBool {
		return None(), &TypeError{Op: "not", Lhs: v.kind, Note: fmt.Sprintf("not not defined for %s", v.kind)}
	}
	return Bool(!v.boolVal), nil
}

// Callable is a captured function: a parameter list plus a statement body,
// closed over the environment active at its definition site. Closure is
// opaque here (an *environment.Environment in practice) to avoid a package
// import cycle between value and environment; the evaluator is the only
// reader.
type Callable struct {
	Name    string // empty for a lambda
	Params  []ast.Param
	Body    *ast.BlockStatement // statement-bodied fn
	Expr    ast.Expression      // expression-bodied lambda; nil for fn
	Closure any
}
