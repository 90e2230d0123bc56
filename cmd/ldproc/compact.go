package main

import (
	"github.com/spf13/cobra"

	"github.com/dovetaildata/ldproc/ld"
)

func newCompactCmd() *cobra.Command {
	var contextFile string

	cmd := &cobra.Command{
		Use:   "compact [file|url|-]",
		Short: "Compact a JSON-LD document against a context",
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

			context, err := readJSONFile(contextFile)
			if err != nil {
				return err
			}

			proc := ld.NewProcessor()
			compacted, err := proc.Compact(input, context, buildOptions())
			if err != nil {
				return err
			}
			return writeJSON(compacted)
		},
	}

	cmd.Flags().StringVar(&contextFile, "context", "", "context file to compact against (required)")
	_ = cmd.MarkFlagRequired("context")

	return cmd
}
