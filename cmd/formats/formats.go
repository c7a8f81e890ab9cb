// Package formats implements the formats subcommand.
package formats

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tabstream/cmd/root"
)

// Cmd lists the formats the registry can construct adapters for.
var Cmd = &cobra.Command{
	Use:   "formats",
	Short: "List the registered formats",
	Args:  cobra.NoArgs,
	Run:   formatsFunc,
}

func formatsFunc(cmd *cobra.Command, args []string) {
	for _, name := range root.Registry.Formats() {
		a, err := root.Registry.Get(name)
		if err != nil {
			root.Log.Fatalf("Error building adapter for %s: %v", name, err)
		}
		fmt.Printf("%-10s .%s\n", a.FormatName(), strings.Join(a.SupportedExtensions(), " ."))
	}
}
