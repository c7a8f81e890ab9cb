// Command tabstream is the CLI entry point.
package main

import (
	"fmt"
	"os"

	"tabstream/cmd/convert"
	"tabstream/cmd/detect"
	"tabstream/cmd/formats"
	"tabstream/cmd/root"
	"tabstream/cmd/validate"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(detect.Cmd)
	root.Cmd.AddCommand(validate.Cmd)
	root.Cmd.AddCommand(convert.Cmd)
	root.Cmd.AddCommand(formats.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
