package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logFormat string

	base              string
	processingMode    string
	compactArrays     bool
	compactToRelative bool
	ordered           bool
	expandContextFile string
)

// NewRootCmd builds the ldproc command tree: expand, compact, flatten and
// prefixes, sharing a set of persistent processing-option flags.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ldproc",
		Short:         "Transform JSON-LD documents between expanded, compacted and flattened form",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return configureLogging(logLevel, logFormat)
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text, json")

	cmd.PersistentFlags().StringVar(&base, "base", "", "base IRI for relative IRI resolution")
	cmd.PersistentFlags().StringVar(&processingMode, "processing-mode", "json-ld-1.1", "json-ld-1.0 or json-ld-1.1")
	cmd.PersistentFlags().BoolVar(&compactArrays, "compact-arrays", true, "collapse single-element arrays during compaction")
	cmd.PersistentFlags().BoolVar(&compactToRelative, "compact-to-relative", true, "compact absolute IRIs to relative ones against --base")
	cmd.PersistentFlags().BoolVar(&ordered, "ordered", false, "sort compacted @type values lexicographically")
	cmd.PersistentFlags().StringVar(&expandContextFile, "expand-context", "", "a context file to apply before the document's own @context")

	cmd.AddCommand(newExpandCmd())
	cmd.AddCommand(newCompactCmd())
	cmd.AddCommand(newFlattenCmd())
	cmd.AddCommand(newPrefixesCmd())

	return cmd
}

func configureLogging(level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	if format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
