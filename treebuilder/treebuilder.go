// Package treebuilder evaluates the tree-construction grammar (And/Or/Then/
// Behavior plus the @if, @if/else, @for, @load meta-nodes) into the
// emitted task.Node forest. Meta-nodes never survive into the output: each
// expands, at build time, into zero or more task.Node roots that are
// spliced into the parent's children in source order. This also drives
// @load, since loading a sub-program and running it to its own forest is
// a tree-construction concern, not a top-level-evaluation one.
package treebuilder

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dogukanakkaya/treescript/ast"
	"github.com/dogukanakkaya/treescript/environment"
	"github.com/dogukanakkaya/treescript/evalerr"
	"github.com/dogukanakkaya/treescript/evaluator"
	"github.com/dogukanakkaya/treescript/lexer"
	"github.com/dogukanakkaya/treescript/parser"
	"github.com/dogukanakkaya/treescript/task"
	"github.com/dogukanakkaya/treescript/value"
	"github.com/google/uuid"
)

// Build expands a single tree-grammar node into zero or more task.Node
// roots: exactly one for And/Or/Then/Behavior, zero or more for a
// meta-node.
func Build(n ast.TreeNode, env *environment.Environment) ([]task.Node, error) {
	switch t := n.(type) {
	case *ast.AndNode:
		children, err := BuildChildren(t.Children, env)
		if err != nil {
			return nil, err
		}
		return []task.Node{task.And(children...)}, nil

	case *ast.OrNode:
		children, err := BuildChildren(t.Children, env)
		if err != nil {
			return nil, err
		}
		return []task.Node{task.Or(children...)}, nil

	case *ast.ThenNode:
		children, err := BuildChildren(t.Children, env)
		if err != nil {
			return nil, err
		}
		return []task.Node{task.Then(children...)}, nil

	case *ast.BehaviorNode:
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			v, err := evaluator.EvalExpr(a, env)
			if err != nil {
				return nil, err
			}
			args[i] = v.ToString()
		}
		return []task.Node{task.Behavior(args...)}, nil

	case *ast.AtIfNode:
		return buildAtIf(t, env)

	case *ast.AtIfElseNode:
		return buildAtIfElse(t, env)

	case *ast.AtForNode:
		return buildAtFor(t, env)

	case *ast.AtLoadNode:
		return buildAtLoad(t, env)
	}

	return nil, evalerr.New(0, "unhandled tree node type %T", n)
}

// BuildChildren expands a list of child tree nodes in source order,
// flattening each child's expansion into the result.
func BuildChildren(children []ast.TreeNode, env *environment.Environment) ([]task.Node, error) {
	var out []task.Node
	for _, c := range children {
		nodes, err := Build(c, env)
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}
	return out, nil
}

func buildAtIf(t *ast.AtIfNode, env *environment.Environment) ([]task.Node, error) {
	cond, err := evaluator.EvalExpr(t.Condition, env)
	if err != nil {
		return nil, err
	}
	b, ok := cond.AsBool()
	if !ok {
		return nil, evalerr.New(0, "@if condition must be Bool, got %s", cond.Kind())
	}
	if !b {
		return nil, nil
	}
	return BuildChildren(t.Children, env)
}

func buildAtIfElse(t *ast.AtIfElseNode, env *environment.Environment) ([]task.Node, error) {
	cond, err := evaluator.EvalExpr(t.Condition, env)
	if err != nil {
		return nil, err
	}
	b, ok := cond.AsBool()
	if !ok {
		return nil, evalerr.New(0, "@if condition must be Bool, got %s", cond.Kind())
	}
	if b {
		return BuildChildren(t.ThenChildren, env)
	}
	return BuildChildren(t.ElseChildren, env)
}

func buildAtFor(t *ast.AtForNode, env *environment.Environment) ([]task.Node, error) {
	iterVal, err := evaluator.EvalExpr(t.Iter, env)
	if err != nil {
		return nil, err
	}
	arr, ok := iterVal.AsArray()
	if !ok {
		return nil, evalerr.New(0, "@for target must be Array, got %s", iterVal.Kind())
	}

	var out []task.Node
	for _, elem := range arr.Elements() {
		env.Push()
		env.Declare(t.Name, elem)
		nodes, err := BuildChildren(t.Children, env)
		env.Pop()
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}
	return out, nil
}

// buildAtLoad evaluates the load path and positional input overrides
// (both in source order), parses and runs the referenced program in a
// fresh environment, and splices its emitted forest in. Apart from the
// internal __load_base__ and __trace__ keys, no bindings cross the @load
// boundary in either direction.
func buildAtLoad(t *ast.AtLoadNode, env *environment.Environment) ([]task.Node, error) {
	if len(t.Args) == 0 {
		return nil, evalerr.New(0, "@load requires a path argument")
	}

	pathVal, err := evaluator.EvalExpr(t.Args[0], env)
	if err != nil {
		return nil, err
	}
	path, ok := pathVal.AsStr()
	if !ok {
		return nil, evalerr.New(0, "@load path must be Str, got %s", pathVal.Kind())
	}

	overrides := make([]value.Value, len(t.Args)-1)
	for i, a := range t.Args[1:] {
		v, err := evaluator.EvalExpr(a, env)
		if err != nil {
			return nil, err
		}
		overrides[i] = v
	}

	if !filepath.IsAbs(path) {
		if base, ok := env.Get("__load_base__"); ok {
			if baseStr, ok := base.AsStr(); ok {
				path = filepath.Join(baseStr, path)
			}
		}
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, evalerr.New(0, "@load: %s", err)
	}

	prog, err := parser.New(lexer.New(string(src))).ParseProgram()
	if err != nil {
		return nil, evalerr.New(0, "@load %s: %s", path, err)
	}

	if traceVal, ok := env.Get("__trace__"); ok {
		if on, _ := traceVal.AsBool(); on {
			fmt.Fprintf(os.Stderr, "[trace] @load %s id=%s\n", path, uuid.New().String())
		}
	}

	sub := environment.New()
	sub.Declare("__load_base__", value.Str(filepath.Dir(path)))
	sub.Declare("__trace__", boolOrFalse(env))

	return RunProgram(prog, sub, overrides)
}

func boolOrFalse(env *environment.Environment) value.Value {
	if v, ok := env.Get("__trace__"); ok {
		return v
	}
	return value.Bool(false)
}

// RunProgram binds a program's inputs (defaults first, positional
// overrides applied on top), executes its top-level statements, and
// builds its tree-construction root into a task.Node forest. Used for
// every @load target; interp.Run binds a top-level program's inputs by
// name with its own loop instead.
func RunProgram(prog *ast.Program, env *environment.Environment, overrides []value.Value) ([]task.Node, error) {
	if len(overrides) > len(prog.Inputs) {
		return nil, evalerr.New(0, "too many @load arguments: program declares %d input(s), got %d", len(prog.Inputs), len(overrides))
	}

	hasValue := make([]bool, len(prog.Inputs))
	for i, in := range prog.Inputs {
		if in.Default != nil {
			v, err := evaluator.EvalExpr(in.Default, env)
			if err != nil {
				return nil, err
			}
			env.Declare(in.Name, v)
			hasValue[i] = true
		} else {
			env.Declare(in.Name, value.None())
		}
	}
	for i, ov := range overrides {
		env.Declare(prog.Inputs[i].Name, ov)
		hasValue[i] = true
	}
	for i, in := range prog.Inputs {
		if !hasValue[i] {
			env.Declare(in.Name, value.None())
		}
	}

	for _, stmt := range prog.Statements {
		if _, err := evaluator.EvalStatement(stmt, env); err != nil {
			return nil, err
		}
	}

	if prog.Tree == nil {
		return nil, nil
	}
	return Build(prog.Tree, env)
}
