package treebuilder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dogukanakkaya/treescript/environment"
	"github.com/dogukanakkaya/treescript/lexer"
	"github.com/dogukanakkaya/treescript/parser"
	"github.com/dogukanakkaya/treescript/task"
	"github.com/dogukanakkaya/treescript/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Behavior(t *testing.T) {
	prog, err := parser.New(lexer.New(`Behavior("patrol", 3);`)).ParseProgram()
	require.NoError(t, err)
	forest, err := RunProgram(prog, environment.New(), nil)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, task.KindBehavior, forest[0].Kind)
	assert.Equal(t, []string{"patrol", "3"}, forest[0].Args)
}

func TestBuild_AndOrThen(t *testing.T) {
	prog, err := parser.New(lexer.New(`
AND(
	Behavior("a"),
	OR(Behavior("b"), Behavior("c")),
	THEN(Behavior("d"), Behavior("e"))
);`)).ParseProgram()
	require.NoError(t, err)
	forest, err := RunProgram(prog, environment.New(), nil)
	require.NoError(t, err)
	require.Len(t, forest, 1)

	root := forest[0]
	assert.Equal(t, task.KindAnd, root.Kind)
	require.Len(t, root.Children, 3)
	assert.Equal(t, task.KindBehavior, root.Children[0].Kind)
	assert.Equal(t, task.KindOr, root.Children[1].Kind)
	assert.Equal(t, task.KindThen, root.Children[2].Kind)
}

func TestBuild_AtIf_TrueBranchOnly(t *testing.T) {
	prog, err := parser.New(lexer.New(`
var go = true;
AND(@if (go) { Behavior("move") } else { Behavior("idle") }, Behavior("tail"));`)).ParseProgram()
	require.NoError(t, err)
	forest, err := RunProgram(prog, environment.New(), nil)
	require.NoError(t, err)

	root := forest[0]
	require.Len(t, root.Children, 2, "@if/else must expand to exactly one branch's children, never both")
	assert.Equal(t, []string{"move"}, root.Children[0].Args)
	assert.Equal(t, []string{"tail"}, root.Children[1].Args)
}

func TestBuild_AtIf_FalseConditionYieldsNoChildren(t *testing.T) {
	prog, err := parser.New(lexer.New(`
var go = false;
AND(@if (go) { Behavior("move") }, Behavior("tail"));`)).ParseProgram()
	require.NoError(t, err)
	forest, err := RunProgram(prog, environment.New(), nil)
	require.NoError(t, err)

	root := forest[0]
	require.Len(t, root.Children, 1, "a false @if with no else contributes zero children, not a placeholder node")
	assert.Equal(t, []string{"tail"}, root.Children[0].Args)
}

func TestBuild_AtFor_ExpandsPerElementInSourceOrder(t *testing.T) {
	prog, err := parser.New(lexer.New(`
AND(@for (n in [1, 2, 3]) { Behavior(n) });`)).ParseProgram()
	require.NoError(t, err)
	forest, err := RunProgram(prog, environment.New(), nil)
	require.NoError(t, err)

	root := forest[0]
	require.Len(t, root.Children, 3)
	assert.Equal(t, []string{"1"}, root.Children[0].Args)
	assert.Equal(t, []string{"2"}, root.Children[1].Args)
	assert.Equal(t, []string{"3"}, root.Children[2].Args)
}

func TestBuild_AtLoad_IsolatedSubProgram(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub.ts")
	require.NoError(t, os.WriteFile(sub, []byte(`
input mult: Int = 1;
Behavior("sub", mult);
`), 0o644))

	main := filepath.Join(dir, "main.ts")
	src := `@load("` + filepath.Base(sub) + `", 7);`
	require.NoError(t, os.WriteFile(main, []byte(src), 0o644))

	prog, err := parser.New(lexer.New(src)).ParseProgram()
	require.NoError(t, err)

	env := environment.New()
	env.Declare("__load_base__", value.Str(dir))
	forest, err := RunProgram(prog, env, nil)
	require.NoError(t, err)

	require.Len(t, forest, 1)
	assert.Equal(t, []string{"sub", "7"}, forest[0].Args)

	// the sub-program's bindings must not leak into the caller's env
	_, leaked := env.Get("mult")
	assert.False(t, leaked)
}

func TestBuild_PlainInputWithNoOverrideBindsToNone(t *testing.T) {
	prog, err := parser.New(lexer.New(`
input label: Str;
Behavior(label);`)).ParseProgram()
	require.NoError(t, err)
	forest, err := RunProgram(prog, environment.New(), nil)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, []string{"None"}, forest[0].Args)
}
