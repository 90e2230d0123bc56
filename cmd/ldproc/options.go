package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/dovetaildata/ldproc/ld"
)

// buildOptions translates the persistent CLI flags into ld.ProcessingOptions,
// wiring a caching HTTP document loader and a warning handler that logs
// through logrus rather than dropping warnings on the floor.
func buildOptions() *ld.ProcessingOptions {
	opts := ld.NewProcessingOptions(base)
	opts.ProcessingMode = processingMode
	opts.CompactArrays = compactArrays
	opts.CompactToRelative = compactToRelative
	opts.Ordered = ordered
	opts.DocumentLoader = ld.NewRFC7234CachingDocumentLoader(nil)
	opts.Warn = logrusWarningHandler

	if expandContextFile != "" {
		ctx, err := readJSONFile(expandContextFile)
		if err != nil {
			logrus.WithError(err).WithField("file", expandContextFile).Fatal("failed to read --expand-context")
		}
		opts.ExpandContext = ctx
	}

	return opts
}

// logrusWarningHandler is the default ld.WarningHandler for the CLI: the
// ld package never logs on its own, so the CLI is the one caller that
// turns Warning values into log lines.
func logrusWarningHandler(w ld.Warning) {
	entry := logrus.WithField("kind", string(w.Kind))
	if w.Term != "" {
		entry = entry.WithField("term", w.Term)
	}
	if w.Value != nil {
		entry = entry.WithField("value", w.Value)
	}
	entry.Warn(w.String())
}

// readJSONFile reads and parses path as JSON. path == "-" reads stdin.
func readJSONFile(path string) (interface{}, error) {
	var r io.Reader
	if path == "-" || path == "" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	var doc interface{}
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing %s as JSON: %w", path, err)
	}
	return doc, nil
}

// writeJSON prints v to stdout as indented JSON.
func writeJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readInputArg resolves a command's single positional input argument: a
// file path, "-" for stdin, or (if it looks like an absolute IRI) a remote
// document URL handed straight to the Processor, which will dereference it
// through opts.DocumentLoader itself.
func readInputArg(arg string) (interface{}, bool) {
	if ld.IsAbsoluteIri(arg) {
		return arg, true
	}
	return nil, false
}
