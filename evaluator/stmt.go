package evaluator

import (
	"github.com/dogukanakkaya/treescript/ast"
	"github.com/dogukanakkaya/treescript/environment"
	"github.com/dogukanakkaya/treescript/evalerr"
	"github.com/dogukanakkaya/treescript/value"
)

// EvalBlock evaluates a block's statements in source order inside a fresh
// scope, stopping early on the first non-normal Signal.
func EvalBlock(block *ast.BlockStatement, env *environment.Environment) (Signal, error) {
	env.Push()
	defer env.Pop()

	for _, stmt := range block.Statements {
		sig, err := EvalStatement(stmt, env)
		if err != nil {
			return normal, err
		}
		if sig.Kind != SigNone {
			return sig, nil
		}
	}
	return normal, nil
}

// EvalStatement evaluates a single statement, returning any Signal it
// produced (Return/Break/Continue) for the enclosing block/loop to act on.
func EvalStatement(stmt ast.Statement, env *environment.Environment) (Signal, error) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		v, err := EvalExpr(s.Value, env)
		if err != nil {
			return normal, err
		}
		env.Set(s.Name, v)
		return normal, nil

	case *ast.ExprStmt:
		if _, err := EvalExpr(s.Expr, env); err != nil {
			return normal, err
		}
		return normal, nil

	case *ast.BlockStatement:
		return EvalBlock(s, env)

	case *ast.IfStatement:
		return evalIf(s, env)

	case *ast.WhileStatement:
		return evalWhile(s, env)

	case *ast.ForInStatement:
		return evalForIn(s, env)

	case *ast.FnDecl:
		env.Declare(s.Name, value.Function(&value.Callable{
			Name:    s.Name,
			Params:  s.Params,
			Body:    s.Body,
			Closure: env,
		}))
		return normal, nil

	case *ast.ReturnStatement:
		if s.Value == nil {
			return Signal{Kind: SigReturn, Value: value.None()}, nil
		}
		v, err := EvalExpr(s.Value, env)
		if err != nil {
			return normal, err
		}
		return Signal{Kind: SigReturn, Value: v}, nil

	case *ast.BreakStatement:
		return Signal{Kind: SigBreak}, nil

	case *ast.ContinueStatement:
		return Signal{Kind: SigContinue}, nil
	}

	return normal, evalerr.New(0, "unhandled statement type %T", stmt)
}

func evalIf(s *ast.IfStatement, env *environment.Environment) (Signal, error) {
	cond, err := EvalExpr(s.Condition, env)
	if err != nil {
		return normal, err
	}
	b, ok := cond.AsBool()
	if !ok {
		return normal, evalerr.New(0, "if condition must be Bool, got %s", cond.Kind())
	}
	if b {
		return EvalBlock(s.Consequence, env)
	}
	if s.Alternative != nil {
		return EvalStatement(s.Alternative, env)
	}
	return normal, nil
}

func evalWhile(s *ast.WhileStatement, env *environment.Environment) (Signal, error) {
	for {
		cond, err := EvalExpr(s.Condition, env)
		if err != nil {
			return normal, err
		}
		b, ok := cond.AsBool()
		if !ok {
			return normal, evalerr.New(0, "while condition must be Bool, got %s", cond.Kind())
		}
		if !b {
			return normal, nil
		}
		sig, err := EvalBlock(s.Body, env)
		if err != nil {
			return normal, err
		}
		switch sig.Kind {
		case SigBreak:
			return normal, nil
		case SigReturn:
			return sig, nil
		case SigContinue, SigNone:
			// loop again
		}
	}
}

func evalForIn(s *ast.ForInStatement, env *environment.Environment) (Signal, error) {
	iterVal, err := EvalExpr(s.Iter, env)
	if err != nil {
		return normal, err
	}
	arr, ok := iterVal.AsArray()
	if !ok {
		return normal, evalerr.New(0, "for-in target must be Array, got %s", iterVal.Kind())
	}

	for _, elem := range arr.Elements() {
		env.Push()
		env.Declare(s.Name, elem)
		sig, err := EvalBlock(s.Body, env)
		env.Pop()
		if err != nil {
			return normal, err
		}
		switch sig.Kind {
		case SigBreak:
			return normal, nil
		case SigReturn:
			return sig, nil
		case SigContinue, SigNone:
			// loop again
		}
	}
	return normal, nil
}
