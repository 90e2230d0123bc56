package main

import (
	"github.com/spf13/cobra"

	"github.com/dovetaildata/ldproc/ld"
)

func newExpandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expand [file|url|-]",
		Short: "Expand a JSON-LD document",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var input interface{}
			if remote, isURL := readInputArg(args[0]); isURL {
				input = remote
			} else {
				doc, err := readJSONFile(args[0])
				if err != nil {
					return err
				}
				input = doc
			}

			proc := ld.NewProcessor()
			expanded, err := proc.Expand(input, buildOptions())
			if err != nil {
				return err
			}
			return writeJSON(expanded)
		},
	}
}
