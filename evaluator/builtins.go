package evaluator

import (
	"fmt"

	"github.com/dogukanakkaya/treescript/evalerr"
	"github.com/dogukanakkaya/treescript/value"
)

type builtinFn func(args []value.Value) (value.Value, error)

// builtins holds the two standard-library functions every program gets for
// free: print (diagnostic output) and range (Array construction). Argument
// expressions are evaluated in source order by the caller before reaching
// here.
var builtins = map[string]builtinFn{
	"print": builtinPrint,
	"range": builtinRange,
}

func builtinPrint(args []value.Value) (value.Value, error) {
	for i, a := range args {
		if i > 0 {
			fmt.Print(" ")
		}
		fmt.Print(a.ToString())
	}
	fmt.Println()
	return value.None(), nil
}

// builtinRange builds [0, n) with one argument, or [start, end) with two.
func builtinRange(args []value.Value) (value.Value, error) {
	var start, end int64
	switch len(args) {
	case 1:
		n, ok := args[0].AsInt()
		if !ok {
			return value.None(), evalerr.New(0, "range expects Int argument(s)")
		}
		start, end = 0, n
	case 2:
		s, ok1 := args[0].AsInt()
		e, ok2 := args[1].AsInt()
		if !ok1 || !ok2 {
			return value.None(), evalerr.New(0, "range expects Int argument(s)")
		}
		start, end = s, e
	default:
		return value.None(), evalerr.New(0, "range expects 1 or 2 arguments, got %d", len(args))
	}

	if end < start {
		return value.FromArray(value.NewArray(nil)), nil
	}
	elems := make([]value.Value, 0, end-start)
	for i := start; i < end; i++ {
		elems = append(elems, value.Int(i))
	}
	return value.FromArray(value.NewArray(elems)), nil
}
