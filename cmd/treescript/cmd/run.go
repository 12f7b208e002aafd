package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dogukanakkaya/treescript/interp"
	"github.com/dogukanakkaya/treescript/task"
	"github.com/dogukanakkaya/treescript/value"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	inputFlags []string
	dumpAST    bool
	dumpForest bool
	trace      bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a treescript file and print its emitted behavior tree",
	Long: `Parse and evaluate a treescript program, printing the resulting
forest of And/Or/Then/Behavior nodes.

Examples:
  treescript run patrol.ts
  treescript run --input target=3 --input aggressive=true patrol.ts
  treescript run --dump-ast --dump-forest patrol.ts`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringArrayVar(&inputFlags, "input", nil, "bind a declared input as name=value (repeatable)")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the parsed AST as YAML after a successful run")
	runCmd.Flags().BoolVar(&dumpForest, "dump-forest", false, "dump the emitted task tree as YAML")
	runCmd.Flags().BoolVar(&trace, "trace", false, "log the run and each @load (with a unique id) to stderr")
}

func runScript(_ *cobra.Command, args []string) error {
	filename := args[0]

	content, err := os.ReadFile(filename)
	if err != nil {
		exitWithError("reading %s: %v", filename, err)
	}

	inputs, err := parseInputFlags(inputFlags)
	if err != nil {
		return err
	}
	if trace {
		fmt.Fprintf(os.Stderr, "[trace] running %s\n", filename)
		inputs["__trace__"] = value.Bool(true)
	}

	result, err := interp.Run(string(content), filepath.Dir(filename), inputs)
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}

	if dumpAST {
		out, err := yaml.Marshal(result.Program)
		if err != nil {
			return fmt.Errorf("dumping AST: %w", err)
		}
		fmt.Println("--- AST ---")
		fmt.Println(string(out))
	}

	if dumpForest {
		out, err := yaml.Marshal(result.Forest)
		if err != nil {
			return fmt.Errorf("dumping forest: %w", err)
		}
		fmt.Println("--- forest ---")
		fmt.Println(string(out))
	}

	printForest(result.Forest, 0)
	return nil
}

// printForest renders the emitted forest as an indented outline, one root
// per top-level node of the tree-construction grammar.
func printForest(nodes []task.Node, depth int) {
	for _, n := range nodes {
		indent := strings.Repeat("  ", depth)
		if n.Kind == task.KindBehavior {
			fmt.Printf("%sBehavior(%s)\n", indent, strings.Join(n.Args, ", "))
			continue
		}
		fmt.Printf("%s%s\n", indent, n.Kind)
		printForest(n.Children, depth+1)
	}
}

// parseInputFlags parses repeated --input name=value flags into a
// name->Value map. Values are type-sniffed: true/false -> Bool, a bare
// integer -> Int, a float -> Float, anything else -> Str.
func parseInputFlags(flags []string) (map[string]value.Value, error) {
	out := make(map[string]value.Value, len(flags))
	for _, f := range flags {
		name, raw, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --input %q: expected name=value", f)
		}
		out[name] = sniffValue(raw)
	}
	return out, nil
}

func sniffValue(raw string) value.Value {
	switch raw {
	case "true":
		return value.Bool(true)
	case "false":
		return value.Bool(false)
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return value.Int(i)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return value.Float(f)
	}
	return value.Str(raw)
}
