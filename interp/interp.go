// Package interp drives end-to-end evaluation of a top-level treescript
// source file: parse, bind declared inputs from the caller (by name,
// since the command line addresses inputs by name rather than position),
// run its statements, and build its tree-construction root into a
// task.Node forest.
package interp

import (
	"fmt"

	"github.com/dogukanakkaya/treescript/ast"
	"github.com/dogukanakkaya/treescript/environment"
	"github.com/dogukanakkaya/treescript/evaluator"
	"github.com/dogukanakkaya/treescript/lexer"
	"github.com/dogukanakkaya/treescript/parser"
	"github.com/dogukanakkaya/treescript/task"
	"github.com/dogukanakkaya/treescript/treebuilder"
	"github.com/dogukanakkaya/treescript/value"
)

// Result is a completed evaluation: the parsed program (useful for
// --dump-ast) and the emitted forest.
type Result struct {
	Program *ast.Program
	Forest  []task.Node
}

// Run parses source (with basePath used to resolve relative @load paths),
// binds the declared top-level inputs from the supplied name->Value map
// (an input with no caller-supplied value falls back to its own default
// expression; a plain input with neither binds to None), executes the
// program's statements, and builds its tree.
func Run(source, basePath string, inputs map[string]value.Value) (*Result, error) {
	prog, err := parser.New(lexer.New(source)).ParseProgram()
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	env := environment.New()
	env.Declare("__load_base__", value.Str(basePath))
	if v, ok := inputs["__trace__"]; ok {
		env.Declare("__trace__", v)
	} else {
		env.Declare("__trace__", value.Bool(false))
	}

	for _, in := range prog.Inputs {
		if v, ok := inputs[in.Name]; ok {
			env.Declare(in.Name, v)
			continue
		}
		if in.Default != nil {
			v, err := evaluator.EvalExpr(in.Default, env)
			if err != nil {
				return nil, err
			}
			env.Declare(in.Name, v)
			continue
		}
		env.Declare(in.Name, value.None())
	}

	for _, stmt := range prog.Statements {
		if _, err := evaluator.EvalStatement(stmt, env); err != nil {
			return nil, err
		}
	}

	var forest []task.Node
	if prog.Tree != nil {
		forest, err = treebuilder.Build(prog.Tree, env)
		if err != nil {
			return nil, err
		}
	}

	return &Result{Program: prog, Forest: forest}, nil
}
