// Copyright 2015-2017 Piprate Limited
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ld

import (
	"sort"
	"strings"
)

// Processor runs the Context Processing, Expansion, Compaction and
// Flattening algorithms over a JSON-LD document. It carries no
// state of its own between calls; every method is safe to call concurrently
// on the same Processor.
//
// Framing, RDF serialization and dataset normalization are out of scope:
// this Processor only ever produces and consumes JSON-LD document trees,
// never an RDF dataset.
type Processor struct{}

// NewProcessor creates a Processor.
func NewProcessor() *Processor {
	return &Processor{}
}

// Compact compacts input using context according to the Compaction
// algorithm.
func (p *Processor) Compact(input interface{}, context interface{}, opts *ProcessingOptions) (map[string]interface{}, error) {
	if opts == nil {
		opts = NewProcessingOptions("")
	}

	expanded, err := p.expand(input, opts)
	if err != nil {
		return nil, err
	}

	if contextMap, isMap := context.(map[string]interface{}); isMap {
		if innerCtx, hasCtx := contextMap["@context"]; hasCtx {
			context = innerCtx
		}
	}
	activeCtx := NewActiveContext(nil, opts)
	activeCtx, err = activeCtx.Parse(context)
	if err != nil {
		return nil, err
	}

	compacted, err := p.compact(activeCtx, "", expanded, opts)
	if err != nil {
		return nil, err
	}

	if compactedList, isList := compacted.([]interface{}); isList {
		if len(compactedList) == 0 {
			compacted = make(map[string]interface{})
		} else {
			compactedIRI, err := activeCtx.CompactIri("@graph", nil, true, false)
			if err != nil {
				return nil, err
			}
			compacted = map[string]interface{}{compactedIRI: compacted}
		}
	}

	contextMap, _ := context.(map[string]interface{})
	contextList, _ := context.([]interface{})
	contextIsNotEmpty := len(contextMap) > 0 || len(contextList) > 0
	if compactedMap, isMap := compacted.(map[string]interface{}); contextIsNotEmpty && isMap {
		compactedMap["@context"] = context
	}

	result, _ := compacted.(map[string]interface{})
	if result == nil {
		result = make(map[string]interface{})
	}
	return result, nil
}

// Expand expands input according to the Expansion algorithm.
func (p *Processor) Expand(input interface{}, opts *ProcessingOptions) ([]interface{}, error) {
	if opts == nil {
		opts = NewProcessingOptions("")
	}
	return p.expand(input, opts)
}

// ExpandTyped expands input exactly as Expand does, then decodes the
// result into the tagged-variant data model rather
// than returning raw map[string]interface{}/[]interface{} trees. If
// opts.Vocabulary is set, every Id it produces is interned through it
// instead of carrying a plain IRI/blank-node string.
func (p *Processor) ExpandTyped(input interface{}, opts *ProcessingOptions) ([]Object, error) {
	if opts == nil {
		opts = NewProcessingOptions("")
	}
	expanded, err := p.expand(input, opts)
	if err != nil {
		return nil, err
	}
	return DecodeExpandedWithVocabulary(expanded, opts.Vocabulary)
}

func (p *Processor) expand(input interface{}, opts *ProcessingOptions) ([]interface{}, error) {
	var remoteContext string

	if iri, isString := input.(string); isString && strings.Contains(iri, ":") {
		rd, err := opts.DocumentLoader.LoadDocument(iri)
		if err != nil {
			return nil, err
		}
		if rd.Document == "" {
			return nil, NewJsonLdError(LoadingDocumentFailed, iri)
		}
		input = rd.Document
		iri = rd.DocumentURL

		// The document's own URL becomes the base only when opts.Base is unset.
		if opts.Base == "" {
			opts.Base = iri
		}

		if rd.ContextURL != "" {
			remoteContext = rd.ContextURL
		}
	}

	activeCtx := NewActiveContext(nil, opts)

	if opts.ExpandContext != nil {
		exCtx := opts.ExpandContext
		if exCtxMap, isMap := exCtx.(map[string]interface{}); isMap {
			if ctx, hasCtx := exCtxMap["@context"]; hasCtx {
				exCtx = ctx
			}
		}

		var err error
		activeCtx, err = activeCtx.Parse(exCtx)
		if err != nil {
			return nil, err
		}
	}

	if remoteContext != "" {
		var err error
		if activeCtx, err = activeCtx.Parse(remoteContext); err != nil {
			return nil, err
		}
	}

	expanded, err := p.expandInternal(activeCtx, "", input)
	if err != nil {
		return nil, err
	}

	expandedMap, isMap := expanded.(map[string]interface{})
	if isMap && len(expandedMap) == 0 {
		expanded = nil
	}

	graph, hasGraph := expandedMap["@graph"]
	if isMap && hasGraph && len(expandedMap) == 1 {
		expanded = graph
	} else if expanded == nil {
		expanded = make([]interface{}, 0)
	}

	if expandedList, isList := expanded.([]interface{}); isList {
		return expandedList, nil
	}
	return []interface{}{expanded}, nil
}

// Flatten flattens input and compacts it against context according to the
// Flattening algorithm.
func (p *Processor) Flatten(input interface{}, context interface{}, opts *ProcessingOptions) (interface{}, error) {
	if opts == nil {
		opts = NewProcessingOptions("")
	}

	issuer := NewIdentifierIssuerWithVocabulary("_:b", opts.Vocabulary)

	expanded, err := p.expand(input, opts)
	if err != nil {
		return nil, err
	}

	if contextMap, isMap := context.(map[string]interface{}); isMap {
		if innerCtx, hasCtx := contextMap["@context"]; hasCtx {
			context = innerCtx
		}
	}

	mapper := newNodeMapper(issuer)
	if err = mapper.visit(expanded, "@default", nil, "", nil); err != nil {
		return nil, err
	}

	defaultGraph := mapper.graph("@default")

	graphNames := make([]string, 0, len(mapper.graphs))
	for name := range mapper.graphs {
		if name != "@default" {
			graphNames = append(graphNames, name)
		}
	}
	sort.Strings(graphNames)

	for _, graphName := range graphNames {
		graph := mapper.graphs[graphName]

		var entry map[string]interface{}
		if _, present := defaultGraph[graphName]; !present {
			entry = make(map[string]interface{})
			entry["@id"] = graphName
			defaultGraph[graphName] = entry
		} else {
			entry = defaultGraph[graphName].(map[string]interface{})
		}
		if _, present := entry["@graph"]; !present {
			entry["@graph"] = make([]interface{}, 0)
		}

		for _, id := range GetOrderedKeys(graph) {
			node := graph[id].(map[string]interface{})
			if _, present := node["@id"]; !(present && len(node) == 1) {
				entry["@graph"] = append(entry["@graph"].([]interface{}), node)
			}
		}
	}

	flattened := make([]interface{}, 0)
	for _, id := range GetOrderedKeys(defaultGraph) {
		node := defaultGraph[id].(map[string]interface{})
		if _, present := node["@id"]; !(present && len(node) == 1) {
			flattened = append(flattened, node)
		}
	}

	if context != nil && len(flattened) > 0 {
		activeCtx := NewActiveContext(nil, opts)
		activeCtx, err = activeCtx.Parse(context)
		if err != nil {
			return nil, err
		}

		compacted, err := p.compact(activeCtx, "", flattened, opts)
		if err != nil {
			return nil, err
		}

		if _, isList := compacted.([]interface{}); !isList {
			compacted = []interface{}{compacted}
		}
		alias, err := activeCtx.CompactIri("@graph", nil, false, false)
		if err != nil {
			return nil, err
		}
		rval, err := activeCtx.Serialize()
		if err != nil {
			return nil, err
		}
		rval[alias] = compacted
		return rval, nil
	}
	return flattened, nil
}
