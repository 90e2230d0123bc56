// Command ldproc is a command-line front end for the ld package: it reads a
// JSON-LD document and runs it through the Expansion, Compaction or
// Flattening algorithm, printing the result to stdout.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("ldproc failed")
		os.Exit(1)
	}
}
