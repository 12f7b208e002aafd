package evaluator

import (
	"github.com/dogukanakkaya/treescript/ast"
	"github.com/dogukanakkaya/treescript/environment"
	"github.com/dogukanakkaya/treescript/evalerr"
	"github.com/dogukanakkaya/treescript/value"
)

// EvalExpr evaluates a single expression to a Value.
func EvalExpr(expr ast.Expression, env *environment.Environment) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		return value.Int(e.Value), nil
	case *ast.FloatLiteral:
		return value.Float(e.Value), nil
	case *ast.StringLiteral:
		return value.Str(e.Value), nil
	case *ast.BoolLiteral:
		return value.Bool(e.Value), nil
	case *ast.NoneLiteral:
		return value.None(), nil

	case *ast.Identifier:
		v, ok := env.Get(e.Name)
		if !ok {
			return value.None(), evalerr.New(0, "undefined identifier %q", e.Name)
		}
		return v, nil

	case *ast.ArrayLiteral:
		return evalArrayLiteral(e, env)

	case *ast.ArrayAccess:
		return evalArrayAccess(e, env)

	case *ast.ArrayAssign:
		return evalArrayAssign(e, env)

	case *ast.UnaryExpr:
		return evalUnary(e, env)

	case *ast.BinaryExpr:
		return evalBinary(e, env)

	case *ast.TernaryExpr:
		cond, err := EvalExpr(e.Condition, env)
		if err != nil {
			return value.None(), err
		}
		b, ok := cond.AsBool()
		if !ok {
			return value.None(), evalerr.New(0, "ternary condition must be Bool, got %s", cond.Kind())
		}
		if b {
			return EvalExpr(e.Then, env)
		}
		return EvalExpr(e.Else, env)

	case *ast.AssignExpr:
		if !env.Contains(e.Name) {
			return value.None(), evalerr.New(0, "undefined identifier %q", e.Name)
		}
		v, err := EvalExpr(e.Value, env)
		if err != nil {
			return value.None(), err
		}
		env.Set(e.Name, v)
		return v, nil

	case *ast.CallExpr:
		return evalCall(e, env)

	case *ast.LambdaExpr:
		return value.Function(&value.Callable{
			Params:  e.Params,
			Expr:    e.Body,
			Closure: env,
		}), nil
	}

	return value.None(), evalerr.New(0, "unhandled expression type %T", expr)
}

// evalArrayLiteral evaluates elements in REVERSE source order, per the
// explicit array-construction ordering rule, then stores them reversed
// back to source order.
func evalArrayLiteral(e *ast.ArrayLiteral, env *environment.Environment) (value.Value, error) {
	n := len(e.Elements)
	vals := make([]value.Value, n)
	for i := n - 1; i >= 0; i-- {
		v, err := EvalExpr(e.Elements[i], env)
		if err != nil {
			return value.None(), err
		}
		vals[i] = v
	}
	return value.FromArray(value.NewArray(vals)), nil
}

func evalArrayAccess(e *ast.ArrayAccess, env *environment.Environment) (value.Value, error) {
	container, ok := env.Get(e.Name)
	if !ok {
		return value.None(), evalerr.New(0, "undefined identifier %q", e.Name)
	}
	arr, ok := container.AsArray()
	if !ok {
		return value.None(), evalerr.New(0, "%q is not an Array", e.Name)
	}
	idxVal, err := EvalExpr(e.Index, env)
	if err != nil {
		return value.None(), err
	}
	idx, ok := idxVal.AsInt()
	if !ok {
		return value.None(), evalerr.New(0, "array index must be Int, got %s", idxVal.Kind())
	}
	v, err := arr.Get(idx)
	if err != nil {
		return value.None(), evalerr.Wrap(0, err)
	}
	return v, nil
}

func evalArrayAssign(e *ast.ArrayAssign, env *environment.Environment) (value.Value, error) {
	container, ok := env.Get(e.Name)
	if !ok {
		return value.None(), evalerr.New(0, "undefined identifier %q", e.Name)
	}
	arr, ok := container.AsArray()
	if !ok {
		return value.None(), evalerr.New(0, "%q is not an Array", e.Name)
	}
	idxVal, err := EvalExpr(e.Index, env)
	if err != nil {
		return value.None(), err
	}
	idx, ok := idxVal.AsInt()
	if !ok {
		return value.None(), evalerr.New(0, "array index must be Int, got %s", idxVal.Kind())
	}
	v, err := EvalExpr(e.Value, env)
	if err != nil {
		return value.None(), err
	}
	if err := arr.Set(idx, v); err != nil {
		return value.None(), evalerr.Wrap(0, err)
	}
	return v, nil
}

func evalUnary(e *ast.UnaryExpr, env *environment.Environment) (value.Value, error) {
	r, err := EvalExpr(e.Right, env)
	if err != nil {
		return value.None(), err
	}
	switch e.Operator {
	case "-":
		v, err := r.Negate()
		if err != nil {
			return value.None(), evalerr.Wrap(0, err)
		}
		return v, nil
	case "not":
		v, err := r.Not()
		if err != nil {
			return value.None(), evalerr.Wrap(0, err)
		}
		return v, nil
	}
	return value.None(), evalerr.New(0, "unknown unary operator %q", e.Operator)
}

func evalBinary(e *ast.BinaryExpr, env *environment.Environment) (value.Value, error) {
	l, err := EvalExpr(e.Left, env)
	if err != nil {
		return value.None(), err
	}
	r, err := EvalExpr(e.Right, env)
	if err != nil {
		return value.None(), err
	}
	var v value.Value
	switch e.Operator {
	case "+":
		v, err = l.Add(r)
	case "-":
		v, err = l.Sub(r)
	case "*":
		v, err = l.Mul(r)
	case "/":
		v, err = l.Div(r)
	case "%":
		v, err = l.Mod(r)
	case "==":
		v, err = l.Eq(r)
	case "!=":
		v, err = l.Neq(r)
	case "<":
		v, err = l.Lt(r)
	case "<=":
		v, err = l.Lte(r)
	case ">":
		v, err = l.Gt(r)
	case ">=":
		v, err = l.Gte(r)
	default:
		return value.None(), evalerr.New(0, "unknown binary operator %q", e.Operator)
	}
	if err != nil {
		return value.None(), evalerr.Wrap(0, err)
	}
	return v, nil
}

func evalCall(e *ast.CallExpr, env *environment.Environment) (value.Value, error) {
	if fn, ok := builtins[e.Name]; ok && !env.Contains(e.Name) {
		args := make([]value.Value, len(e.Args))
		for i, a := range e.Args {
			v, err := EvalExpr(a, env)
			if err != nil {
				return value.None(), err
			}
			args[i] = v
		}
		return fn(args)
	}

	callee, ok := env.Get(e.Name)
	if !ok {
		return value.None(), evalerr.New(0, "undefined function %q", e.Name)
	}
	c, ok := callee.AsFunction()
	if !ok {
		return value.None(), evalerr.New(0, "%q is not callable", e.Name)
	}

	args := make([]value.Value, len(e.Args))
	for i, a := range e.Args {
		v, err := EvalExpr(a, env)
		if err != nil {
			return value.None(), err
		}
		args[i] = v
	}
	return CallFunction(c, args)
}
