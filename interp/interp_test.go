package interp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dogukanakkaya/treescript/value"
	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

func forestYAML(t *testing.T, source string) string {
	t.Helper()
	result, err := Run(source, ".", nil)
	require.NoError(t, err)
	out, err := yaml.Marshal(result.Forest)
	require.NoError(t, err)
	return string(out)
}

func TestForest_AtIfTrueSplicesChildren(t *testing.T) {
	src := `input flag: Bool = true;
THEN(@if(flag) { Behavior(1) Behavior(2) } Behavior(3))`
	snaps.MatchSnapshot(t, "at_if_true_splices_children", forestYAML(t, src))
}

func TestForest_AtIfFalseDropsChild(t *testing.T) {
	src := `THEN(@if(false) { Behavior(1) } Behavior(2))`
	snaps.MatchSnapshot(t, "at_if_false_drops_child", forestYAML(t, src))
}

func TestForest_AtForOverRange(t *testing.T) {
	src := `AND(@for(i in range(3)) { Behavior(i) })`
	snaps.MatchSnapshot(t, "at_for_over_range", forestYAML(t, src))
}

func TestForest_AtLoadInlinesSubTree(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "inner.txt"), []byte(`
input k: Int;
AND(Behavior(k))
`), 0o644))

	src := `THEN(@load("inner.txt", 2))`
	result, err := Run(src, dir, nil)
	require.NoError(t, err)
	out, err := yaml.Marshal(result.Forest)
	require.NoError(t, err)
	snaps.MatchSnapshot(t, "at_load_inlines_sub_tree", string(out))
}

func TestForest_InputDefaultFallback(t *testing.T) {
	src := `input target: Int = 5;
Behavior(target)`
	result, err := Run(src, ".", nil)
	require.NoError(t, err)
	require.Len(t, result.Forest, 1)
	require.Equal(t, []string{"5"}, result.Forest[0].Args)
}

func TestForest_InputOverrideFromCaller(t *testing.T) {
	src := `input target: Int = 5;
Behavior(target)`
	result, err := Run(src, ".", map[string]value.Value{"target": value.Int(9)})
	require.NoError(t, err)
	require.Equal(t, []string{"9"}, result.Forest[0].Args)
}

func TestForest_PlainInputWithNoValueBindsToNone(t *testing.T) {
	src := `input target: Int;
Behavior(target)`
	result, err := Run(src, ".", nil)
	require.NoError(t, err)
	require.Equal(t, []string{"None"}, result.Forest[0].Args)
}
