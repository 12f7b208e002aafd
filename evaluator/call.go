package evaluator

import (
	"github.com/dogukanakkaya/treescript/environment"
	"github.com/dogukanakkaya/treescript/evalerr"
	"github.com/dogukanakkaya/treescript/value"
)

// CallFunction invokes a Callable with an already-evaluated argument list.
// Arity mismatches are a fatal error (the spec's suggested strengthening
// over silently dropping or None-padding extra/missing arguments).
func CallFunction(c *value.Callable, args []value.Value) (value.Value, error) {
	if len(args) != len(c.Params) {
		name := c.Name
		if name == "" {
			name = "<lambda>"
		}
		return value.None(), evalerr.New(0, "%s expects %d argument(s), got %d", name, len(c.Params), len(args))
	}

	closure, _ := c.Closure.(*environment.Environment)
	call := closure.Fork()
	call.Push()
	for i, p := range c.Params {
		call.Declare(p.Name, args[i])
	}

	if c.Expr != nil {
		return EvalExpr(c.Expr, call)
	}

	sig, err := EvalBlock(c.Body, call)
	if err != nil {
		return value.None(), err
	}
	if sig.Kind == SigReturn {
		return sig.Value, nil
	}
	return value.None(), nil
}
