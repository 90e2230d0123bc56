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

const (
	JsonLd_1_0 = "json-ld-1.0" //nolint:stylecheck
	JsonLd_1_1 = "json-ld-1.1" //nolint:stylecheck
)

// ProcessingOptions controls the ContextProcessor/Expansion/Compaction
// algorithms, as per http://www.w3.org/TR/json-ld-api/#the-jsonldoptions-type,
// trimmed to the fields that remain meaningful once framing, RDF conversion
// and normalization are out of scope.
type ProcessingOptions struct {
	// Base is the base IRI against which relative IRIs in the input
	// document are resolved.
	Base string

	// ProcessingMode is JsonLd_1_0 or JsonLd_1_1; it gates 1.1-only
	// context features (e.g. @direction, scoped contexts, @prefix on
	// non-absolute-IRI terms) and disables them entirely under 1.0.
	ProcessingMode string

	// CompactArrays, when true, collapses single-element arrays to scalars
	// during compaction.
	CompactArrays bool

	// CompactToRelative, when true, compacts absolute IRIs to relative
	// ones against Base wherever compaction would otherwise emit an
	// absolute IRI reachable by relativizing against Base.
	CompactToRelative bool

	// Ordered, when true, sorts the compacted values of @type arrays
	// lexicographically. Object keys are walked in lexicographic order
	// whether or not it is set.
	Ordered bool

	// ExpandContext is a context to be used in addition to (and applied
	// before) any context embedded in the input document itself.
	ExpandContext interface{}

	// DocumentLoader is the Loader collaborator used to
	// dereference remote contexts and remote documents.
	DocumentLoader DocumentLoader

	// Vocabulary, if set, is consulted for IRI/blank-node interning
	// instead of the default plain-string handles. Nil means "use
	// plain strings."
	Vocabulary Vocabulary

	// Warn, if set, is invoked for every non-fatal Warning the algorithms
	// produce. It is never a process-wide sink: the core packages call it
	// synchronously and never log on their own.
	Warn WarningHandler
}

// NewProcessingOptions creates a new ProcessingOptions with the given base
// and JSON-LD 1.1 API defaults (1.1 processing mode, array compaction on).
func NewProcessingOptions(base string) *ProcessingOptions {
	return &ProcessingOptions{
		Base:              base,
		ProcessingMode:    JsonLd_1_1,
		CompactArrays:     true,
		CompactToRelative: true,
		DocumentLoader:    NewHTTPDocumentLoader(nil),
	}
}

// Copy creates a shallow copy of ProcessingOptions. DocumentLoader,
// Vocabulary and Warn are reference fields that the copy shares with
// the original.
func (opt *ProcessingOptions) Copy() *ProcessingOptions {
	cp := *opt
	return &cp
}

func (opt *ProcessingOptions) warn(w Warning) {
	if opt != nil && opt.Warn != nil {
		opt.Warn(w)
	}
}
