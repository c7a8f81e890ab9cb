// Package detect implements the detect subcommand.
package detect

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"tabstream/cmd/root"
	"tabstream/internal/logging"
)

// Cmd samples a file and prints the detection result as JSON.
var Cmd = &cobra.Command{
	Use:   "detect FILE",
	Short: "Detect the format of a tabular file",
	Long: `Detect reads a bounded sample of FILE and prints the normalized
detection result: format tag, confidence score, signal metadata, and the
options suggested for a full parse. Detection never fails destructively;
unreadable input yields confidence 0 with the error in the metadata.`,
	Args: cobra.ExactArgs(1),
	Run:  detectFunc,
}

func detectFunc(cmd *cobra.Command, args []string) {
	file := args[0]
	a, err := root.ResolveAdapter(file)
	if err != nil {
		root.Log.Fatalf("Error resolving format: %v", err)
	}

	result := a.Detect(file)
	root.Log.Debug("Detection finished",
		logging.Field{Key: logging.FieldFile, Value: file},
		logging.Field{Key: logging.FieldConfidence, Value: result.Confidence})

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		root.Log.Fatalf("Error rendering detection result: %v", err)
	}
	fmt.Println(string(out))
}
