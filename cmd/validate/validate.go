// Package validate implements the validate subcommand.
package validate

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tabstream/cmd/root"
)

// Cmd runs the pre-flight validation gate on a file.
var Cmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Validate a tabular file before parsing",
	Long: `Validate runs detection-based pre-flight checks on FILE and prints
the result: validity, whether degraded-mode processing can proceed,
warnings, and remediation hints. Exits non-zero when the file cannot be
processed at all.`,
	Args: cobra.ExactArgs(1),
	Run:  validateFunc,
}

func validateFunc(cmd *cobra.Command, args []string) {
	file := args[0]
	a, err := root.ResolveAdapter(file)
	if err != nil {
		root.Log.Fatalf("Error resolving format: %v", err)
	}

	result := a.Validate(file)
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		root.Log.Fatalf("Error rendering validation result: %v", err)
	}
	fmt.Println(string(out))

	if !result.CanProceed {
		os.Exit(1)
	}
}
