package main

import (
	"github.com/spf13/cobra"

	"github.com/dovetaildata/ldproc/ld"
)

func newFlattenCmd() *cobra.Command {
	var contextFile string

	cmd := &cobra.Command{
		Use:   "flatten [file|url|-]",
		Short: "Flatten a JSON-LD document, optionally compacting the result",
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

			var context interface{}
			if contextFile != "" {
				ctx, err := readJSONFile(contextFile)
				if err != nil {
					return err
				}
				context = ctx
			}

			proc := ld.NewProcessor()
			flattened, err := proc.Flatten(input, context, buildOptions())
			if err != nil {
				return err
			}
			return writeJSON(flattened)
		},
	}

	cmd.Flags().StringVar(&contextFile, "context", "", "context file to compact the flattened result against (optional)")

	return cmd
}
