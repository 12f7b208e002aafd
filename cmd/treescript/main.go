// Command treescript parses and evaluates treescript source files,
// printing the resulting behavior/task tree.
package main

import (
	"fmt"
	"os"

	"github.com/dogukanakkaya/treescript/cmd/treescript/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
