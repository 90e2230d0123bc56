package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dovetaildata/ldproc/ld"
)

// nonTermContextKeys lists the @context entries that configure the active
// context itself rather than defining a term.
var nonTermContextKeys = map[string]bool{
	"@base": true, "@vocab": true, "@language": true, "@direction": true,
	"@protected": true, "@version": true, "@import": true,
}

func newPrefixesCmd() *cobra.Command {
	var contextFile string

	cmd := &cobra.Command{
		Use:   "prefixes [file|url|-]",
		Short: "Print the typed term definitions a document's @context resolves to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var rawContext interface{}
			switch {
			case contextFile != "":
				ctx, err := readJSONFile(contextFile)
				if err != nil {
					return err
				}
				rawContext = ctx
			case len(args) == 1:
				doc, err := readJSONFile(args[0])
				if err != nil {
					return err
				}
				docMap, ok := doc.(map[string]interface{})
				if !ok {
					return fmt.Errorf("expected a JSON object document, got %T", doc)
				}
				rawContext = docMap["@context"]
			default:
				return fmt.Errorf("either a document argument or --context is required")
			}

			activeCtx := ld.NewActiveContext(nil, buildOptions())
			activeCtx, err := activeCtx.Parse(rawContext)
			if err != nil {
				return err
			}

			terms := contextTermNames(rawContext)
			sort.Strings(terms)

			for _, term := range terms {
				td, ok := activeCtx.TypedTermDefinition(term)
				if !ok {
					continue
				}
				printTermDefinition(td)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&contextFile, "context", "", "a context file, instead of a document's embedded @context")

	return cmd
}

func printTermDefinition(td *ld.TermDefinition) {
	fmt.Printf("%s", td.Term)
	if td.Value.IsNull() {
		fmt.Println(" -> (undefined)")
		return
	}
	fmt.Printf(" -> %s", td.Value.String())
	if td.Reverse {
		fmt.Print(" [reverse]")
	}
	if td.Protected {
		fmt.Print(" [protected]")
	}
	if kws := td.Container.Keywords(); len(kws) > 0 {
		fmt.Printf(" container=%v", kws)
	}
	if tv, ok := td.Type.Get(); ok {
		fmt.Printf(" type=%s", tv.String())
	}
	if lv, ok := td.Language.Get(); ok {
		fmt.Printf(" language=%s", lv)
	}
	fmt.Println()
}

func contextTermNames(rawContext interface{}) []string {
	seen := map[string]bool{}
	var visit func(interface{})
	visit = func(v interface{}) {
		switch c := v.(type) {
		case []interface{}:
			for _, entry := range c {
				visit(entry)
			}
		case map[string]interface{}:
			for k := range c {
				if !nonTermContextKeys[k] {
					seen[k] = true
				}
			}
		}
	}
	visit(rawContext)

	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	return out
}
