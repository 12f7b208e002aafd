package parser

import (
	"testing"

	"github.com/dogukanakkaya/treescript/ast"
	"github.com/dogukanakkaya/treescript/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := New(lexer.New(src)).ParseProgram()
	require.NoError(t, err)
	return prog
}

func TestParseProgram_InputsAndStatements(t *testing.T) {
	prog := parse(t, `
input target: Int = 3;
input aggressive: Bool;
var total = target + 1;
Behavior("go");
`)
	require.Len(t, prog.Inputs, 2)
	assert.Equal(t, "target", prog.Inputs[0].Name)
	assert.Equal(t, "Int", prog.Inputs[0].Type)
	assert.NotNil(t, prog.Inputs[0].Default)
	assert.Nil(t, prog.Inputs[1].Default)

	require.Len(t, prog.Statements, 1)
	decl, ok := prog.Statements[0].(*ast.VarDecl)
	require.True(t, ok)
	assert.Equal(t, "total", decl.Name)

	behavior, ok := prog.Tree.(*ast.BehaviorNode)
	require.True(t, ok)
	require.Len(t, behavior.Args, 1)
}

func TestParseProgram_NoCommaBetweenTreeChildren(t *testing.T) {
	prog := parse(t, `THEN(@if(true) { Behavior(1) Behavior(2) } Behavior(3))`)
	then, ok := prog.Tree.(*ast.ThenNode)
	require.True(t, ok)
	require.Len(t, then.Children, 2)

	atIf, ok := then.Children[0].(*ast.AtIfNode)
	require.True(t, ok)
	assert.Len(t, atIf.Children, 2)
}

func TestParseFnDecl(t *testing.T) {
	prog := parse(t, `
fn add(a: Int, b: Int) -> Int {
	return a + b;
}
Behavior("done");
`)
	fn, ok := prog.Statements[0].(*ast.FnDecl)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	assert.Equal(t, "Int", fn.ReturnType)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name)
}

func TestParseIfElseChain(t *testing.T) {
	prog := parse(t, `
var x = 0;
if (x == 0) {
	x = 1;
} else if (x == 1) {
	x = 2;
} else {
	x = 3;
}
Behavior("done");
`)
	ifStmt, ok := prog.Statements[1].(*ast.IfStatement)
	require.True(t, ok)
	elseIf, ok := ifStmt.Alternative.(*ast.IfStatement)
	require.True(t, ok)
	_, ok = elseIf.Alternative.(*ast.BlockStatement)
	assert.True(t, ok)
}

func TestParseArrayAndIndexAssign(t *testing.T) {
	prog := parse(t, `
var a = [1, 2, 3];
a[0] = 9;
Behavior("done");
`)
	decl := prog.Statements[0].(*ast.VarDecl)
	lit, ok := decl.Value.(*ast.ArrayLiteral)
	require.True(t, ok)
	assert.Len(t, lit.Elements, 3)

	assignStmt := prog.Statements[1].(*ast.ExprStmt)
	assign, ok := assignStmt.Expr.(*ast.ArrayAssign)
	require.True(t, ok)
	assert.Equal(t, "a", assign.Name)
}

func TestParseLambda(t *testing.T) {
	prog := parse(t, `
var double = fn(x) -> x * 2;
Behavior("done");
`)
	decl := prog.Statements[0].(*ast.VarDecl)
	lambda, ok := decl.Value.(*ast.LambdaExpr)
	require.True(t, ok)
	require.Len(t, lambda.Params, 1)
	assert.Equal(t, "x", lambda.Params[0].Name)
}

func TestParseAtLoad(t *testing.T) {
	prog := parse(t, `THEN(@load("inner.ts", 2))`)
	then := prog.Tree.(*ast.ThenNode)
	load, ok := then.Children[0].(*ast.AtLoadNode)
	require.True(t, ok)
	require.Len(t, load.Args, 2)
}

func TestParseAtFor(t *testing.T) {
	prog := parse(t, `AND(@for(i in range(3)) { Behavior(i) })`)
	and := prog.Tree.(*ast.AndNode)
	atFor, ok := and.Children[0].(*ast.AtForNode)
	require.True(t, ok)
	assert.Equal(t, "i", atFor.Name)
	require.Len(t, atFor.Children, 1)
}

func TestParseTernary(t *testing.T) {
	prog := parse(t, `var x = true ? 1 : 2; Behavior("done");`)
	decl := prog.Statements[0].(*ast.VarDecl)
	_, ok := decl.Value.(*ast.TernaryExpr)
	assert.True(t, ok)
}
