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

package ld_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/dovetaildata/ldproc/ld"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseJSON decodes a JSON literal into the interface{} tree the processor
// operates on, so expectations compare with the same value types the
// algorithms produce.
func parseJSON(t *testing.T, s string) interface{} {
	t.Helper()
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestExpandWithTermContext(t *testing.T) {
	doc := parseJSON(t, `{
		"@context": {"name": "http://xmlns.com/foaf/0.1/name"},
		"@id": "http://a/",
		"name": "R"
	}`)

	expanded, err := NewProcessor().Expand(doc, NewProcessingOptions(""))
	require.NoError(t, err)

	assert.Equal(t, parseJSON(t, `[
		{"@id": "http://a/", "http://xmlns.com/foaf/0.1/name": [{"@value": "R"}]}
	]`), interface{}(expanded))
}

func TestCompactRoundTrip(t *testing.T) {
	context := parseJSON(t, `{"name": "http://xmlns.com/foaf/0.1/name"}`)
	doc := map[string]interface{}{
		"@context": context,
		"@id":      "http://a/",
		"name":     "R",
	}

	compacted, err := NewProcessor().Compact(doc, context, NewProcessingOptions(""))
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{
		"@context": context,
		"@id":      "http://a/",
		"name":     "R",
	}, compacted)
}

func TestExpandLanguageContainer(t *testing.T) {
	doc := parseJSON(t, `{
		"@context": {"label": {"@id": "http://ex/label", "@container": "@language"}},
		"label": {"en": "Hi", "fr": "Salut"}
	}`)

	expanded, err := NewProcessor().Expand(doc, NewProcessingOptions(""))
	require.NoError(t, err)

	assert.Equal(t, parseJSON(t, `[
		{"http://ex/label": [
			{"@value": "Hi", "@language": "en"},
			{"@value": "Salut", "@language": "fr"}
		]}
	]`), interface{}(expanded))
}

func TestCompactLanguageContainer(t *testing.T) {
	context := parseJSON(t, `{"label": {"@id": "http://ex/label", "@container": "@language"}}`)
	expanded := parseJSON(t, `[
		{"http://ex/label": [
			{"@value": "Hi", "@language": "en"},
			{"@value": "Salut", "@language": "fr"}
		]}
	]`)

	compacted, err := NewProcessor().Compact(expanded, context, NewProcessingOptions(""))
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{
		"@context": context,
		"label":    map[string]interface{}{"en": "Hi", "fr": "Salut"},
	}, compacted)
}

func TestCompactIriPrefersDefinedTerm(t *testing.T) {
	// a direct definition match must win over compact IRI construction
	opts := NewProcessingOptions("")
	ctx, err := NewActiveContext(nil, opts).Parse(parseJSON(t, `{
		"ex": "http://ex/",
		"exterm": "http://ex/term"
	}`))
	require.NoError(t, err)

	compacted, err := ctx.CompactIri("http://ex/term", nil, true, false)
	require.NoError(t, err)
	assert.Equal(t, "exterm", compacted)

	// an IRI with no dedicated term still compacts through the prefix
	compacted, err = ctx.CompactIri("http://ex/other", nil, true, false)
	require.NoError(t, err)
	assert.Equal(t, "ex:other", compacted)
}

func TestProtectedTermRedefinition(t *testing.T) {
	opts := NewProcessingOptions("")
	base, err := NewActiveContext(nil, opts).Parse(parseJSON(t, `{
		"foo": {"@id": "http://ex/foo", "@protected": true}
	}`))
	require.NoError(t, err)

	_, err = base.Parse(parseJSON(t, `{"foo": "http://ex/bar"}`))
	code, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, ProtectedTermRedefinition, code)

	// the identical definition is accepted
	_, err = base.Parse(parseJSON(t, `{"foo": {"@id": "http://ex/foo", "@protected": true}}`))
	assert.NoError(t, err)
}

func TestProtectedContextNullification(t *testing.T) {
	doc := parseJSON(t, `{
		"@context": [
			{"foo": {"@id": "http://ex/foo", "@protected": true}},
			null
		],
		"foo": "x"
	}`)

	_, err := NewProcessor().Expand(doc, NewProcessingOptions(""))
	code, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, InvalidContextNullification, code)
}

func TestExpandReverseProperty(t *testing.T) {
	doc := parseJSON(t, `{
		"@context": {"children": {"@reverse": "http://ex/parent"}},
		"@id": "http://a/",
		"children": [{"@id": "http://b/"}]
	}`)

	expanded, err := NewProcessor().Expand(doc, NewProcessingOptions(""))
	require.NoError(t, err)

	assert.Equal(t, parseJSON(t, `[
		{"@id": "http://a/", "@reverse": {"http://ex/parent": [{"@id": "http://b/"}]}}
	]`), interface{}(expanded))
}

func TestCompactReverseProperty(t *testing.T) {
	context := parseJSON(t, `{"children": {"@reverse": "http://ex/parent"}}`)
	expanded := parseJSON(t, `[
		{"@id": "http://a/", "@reverse": {"http://ex/parent": [{"@id": "http://b/"}]}}
	]`)

	compacted, err := NewProcessor().Compact(expanded, context, NewProcessingOptions(""))
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{
		"@context": context,
		"@id":      "http://a/",
		"children": map[string]interface{}{"@id": "http://b/"},
	}, compacted)
}

func TestCyclicIriMapping(t *testing.T) {
	opts := NewProcessingOptions("")
	_, err := NewActiveContext(nil, opts).Parse(parseJSON(t, `{
		"a": {"@id": "b:x"},
		"b": {"@id": "a:y"}
	}`))

	code, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, CyclicIRIMapping, code)
}

func TestExpandIdempotent(t *testing.T) {
	docs := []string{
		`{"@context": {"name": "http://xmlns.com/foaf/0.1/name"},
		  "@id": "http://a/", "name": "R"}`,
		`{"@context": {"label": {"@id": "http://ex/label", "@container": "@language"}},
		  "label": {"en": "Hi"}}`,
		`{"@context": {"nums": {"@id": "http://ex/n", "@container": "@list"}},
		  "@id": "http://a/", "nums": [1, 2]}`,
	}

	proc := NewProcessor()
	for _, raw := range docs {
		doc := parseJSON(t, raw)

		once, err := proc.Expand(doc, NewProcessingOptions(""))
		require.NoError(t, err)

		twice, err := proc.Expand(CloneDocument(once), NewProcessingOptions(""))
		require.NoError(t, err)

		assert.Equal(t, once, twice)
	}
}

func TestExpandIdCoercion(t *testing.T) {
	doc := parseJSON(t, `{
		"@context": {"homepage": {"@id": "http://xmlns.com/foaf/0.1/homepage", "@type": "@id"}},
		"@id": "http://a/",
		"homepage": "http://example.com/"
	}`)

	expanded, err := NewProcessor().Expand(doc, NewProcessingOptions(""))
	require.NoError(t, err)

	assert.Equal(t, parseJSON(t, `[
		{"@id": "http://a/", "http://xmlns.com/foaf/0.1/homepage": [{"@id": "http://example.com/"}]}
	]`), interface{}(expanded))
}

func TestExpandJSONLiteral(t *testing.T) {
	doc := parseJSON(t, `{
		"@context": {"data": {"@id": "http://ex/data", "@type": "@json"}},
		"@id": "http://a/",
		"data": {"a": [true, null]}
	}`)

	expanded, err := NewProcessor().Expand(doc, NewProcessingOptions(""))
	require.NoError(t, err)

	assert.Equal(t, parseJSON(t, `[
		{"@id": "http://a/",
		 "http://ex/data": [{"@value": {"a": [true, null]}, "@type": "@json"}]}
	]`), interface{}(expanded))
}

func TestCompactJSONLiteralScalar(t *testing.T) {
	context := parseJSON(t, `{"data": {"@id": "http://ex/data", "@type": "@json"}}`)
	doc := map[string]interface{}{
		"@context": context,
		"@id":      "http://a/",
		"data":     "raw",
	}

	compacted, err := NewProcessor().Compact(doc, context, NewProcessingOptions(""))
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{
		"@context": context,
		"@id":      "http://a/",
		"data":     "raw",
	}, compacted)
}

func TestExpandRejectsLanguageWithType(t *testing.T) {
	doc := parseJSON(t, `{
		"@context": {"v": "http://ex/v"},
		"v": {"@value": "x", "@language": "en", "@type": "http://ex/t"}
	}`)

	_, err := NewProcessor().Expand(doc, NewProcessingOptions(""))
	code, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, InvalidValueObject, code)
}

func TestExpandRejectsNonStringLanguageValue(t *testing.T) {
	doc := parseJSON(t, `{
		"@context": {"v": "http://ex/v"},
		"v": {"@value": 1, "@language": "en"}
	}`)

	_, err := NewProcessor().Expand(doc, NewProcessingOptions(""))
	code, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, InvalidLanguageTaggedValue, code)
}

func TestExpandListContainer(t *testing.T) {
	doc := parseJSON(t, `{
		"@context": {"nums": {"@id": "http://ex/n", "@container": "@list"}},
		"@id": "http://a/",
		"nums": [1, 2]
	}`)

	expanded, err := NewProcessor().Expand(doc, NewProcessingOptions(""))
	require.NoError(t, err)

	assert.Equal(t, parseJSON(t, `[
		{"@id": "http://a/",
		 "http://ex/n": [{"@list": [{"@value": 1}, {"@value": 2}]}]}
	]`), interface{}(expanded))
}

func TestCompactListContainer(t *testing.T) {
	context := parseJSON(t, `{"nums": {"@id": "http://ex/n", "@container": "@list"}}`)
	expanded := parseJSON(t, `[
		{"@id": "http://a/",
		 "http://ex/n": [{"@list": [{"@value": 1}, {"@value": 2}]}]}
	]`)

	compacted, err := NewProcessor().Compact(expanded, context, NewProcessingOptions(""))
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{
		"@context": context,
		"@id":      "http://a/",
		"nums":     parseJSON(t, `[1, 2]`),
	}, compacted)
}

func TestExpandIndexContainer(t *testing.T) {
	doc := parseJSON(t, `{
		"@context": {"athletes": {"@id": "http://ex/athletes", "@container": "@index"}},
		"athletes": {
			"A": {"@id": "http://ex/1"},
			"B": {"@id": "http://ex/2"}
		}
	}`)

	expanded, err := NewProcessor().Expand(doc, NewProcessingOptions(""))
	require.NoError(t, err)

	assert.Equal(t, parseJSON(t, `[
		{"http://ex/athletes": [
			{"@id": "http://ex/1", "@index": "A"},
			{"@id": "http://ex/2", "@index": "B"}
		]}
	]`), interface{}(expanded))
}

func TestExpandNestedProperties(t *testing.T) {
	doc := parseJSON(t, `{
		"@context": {"p": "http://ex/p"},
		"@id": "http://a/",
		"@nest": {"p": "v"}
	}`)

	expanded, err := NewProcessor().Expand(doc, NewProcessingOptions(""))
	require.NoError(t, err)

	assert.Equal(t, parseJSON(t, `[
		{"@id": "http://a/", "http://ex/p": [{"@value": "v"}]}
	]`), interface{}(expanded))
}

func TestExpandUnwrapsTopLevelGraph(t *testing.T) {
	doc := parseJSON(t, `{
		"@graph": [{"@id": "http://a/", "http://ex/p": [{"@value": 1}]}]
	}`)

	expanded, err := NewProcessor().Expand(doc, NewProcessingOptions(""))
	require.NoError(t, err)

	assert.Equal(t, parseJSON(t, `[
		{"@id": "http://a/", "http://ex/p": [{"@value": 1}]}
	]`), interface{}(expanded))
}

func TestExpandDropsFreeFloatingValues(t *testing.T) {
	// a top-level subject reference carries no information and is dropped
	expanded, err := NewProcessor().Expand(parseJSON(t, `{"@id": "http://a/"}`), NewProcessingOptions(""))
	require.NoError(t, err)
	assert.Empty(t, expanded)

	// so is a free-floating scalar
	expanded, err = NewProcessor().Expand(parseJSON(t, `["free floating"]`), NewProcessingOptions(""))
	require.NoError(t, err)
	assert.Empty(t, expanded)
}

func TestFlattenAssignsBlankNodeLabels(t *testing.T) {
	doc := parseJSON(t, `[
		{"@id": "http://ex/alice",
		 "http://ex/knows": [{"http://ex/name": [{"@value": "Bob"}]}]}
	]`)

	flattened, err := NewProcessor().Flatten(doc, nil, NewProcessingOptions(""))
	require.NoError(t, err)

	assert.Equal(t, parseJSON(t, `[
		{"@id": "_:b0", "http://ex/name": [{"@value": "Bob"}]},
		{"@id": "http://ex/alice", "http://ex/knows": [{"@id": "_:b0"}]}
	]`), flattened)
}

func TestFlattenMergesDuplicateSubjects(t *testing.T) {
	doc := parseJSON(t, `[
		{"@id": "http://ex/a", "http://ex/p": [{"@value": 1}]},
		{"@id": "http://ex/a", "http://ex/q": [{"@value": 2}]}
	]`)

	flattened, err := NewProcessor().Flatten(doc, nil, NewProcessingOptions(""))
	require.NoError(t, err)

	assert.Equal(t, parseJSON(t, `[
		{"@id": "http://ex/a",
		 "http://ex/p": [{"@value": 1}],
		 "http://ex/q": [{"@value": 2}]}
	]`), flattened)
}

func TestExpandRemoteContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", ApplicationJSONLDType)
		_, _ = w.Write([]byte(`{"@context": {"name": "http://xmlns.com/foaf/0.1/name"}}`))
	}))
	defer ts.Close()

	doc := map[string]interface{}{
		"@context": ts.URL + "/ctx.jsonld",
		"name":     "R",
	}

	expanded, err := NewProcessor().Expand(doc, NewProcessingOptions(""))
	require.NoError(t, err)

	assert.Equal(t, parseJSON(t, `[
		{"http://xmlns.com/foaf/0.1/name": [{"@value": "R"}]}
	]`), interface{}(expanded))
}

func TestExpandSelfReferentialRemoteContext(t *testing.T) {
	// a remote context naming itself is skipped on the second visit rather
	// than dereferenced forever
	var ts *httptest.Server
	ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", ApplicationJSONLDType)
		_, _ = w.Write([]byte(`{"@context": ["` + ts.URL + `/ctx.jsonld", {"name": "http://xmlns.com/foaf/0.1/name"}]}`))
	}))
	defer ts.Close()

	doc := map[string]interface{}{
		"@context": ts.URL + "/ctx.jsonld",
		"name":     "R",
	}

	expanded, err := NewProcessor().Expand(doc, NewProcessingOptions(""))
	require.NoError(t, err)

	assert.Equal(t, parseJSON(t, `[
		{"http://xmlns.com/foaf/0.1/name": [{"@value": "R"}]}
	]`), interface{}(expanded))
}

func TestExpandContextOption(t *testing.T) {
	opts := NewProcessingOptions("")
	opts.ExpandContext = parseJSON(t, `{"name": "http://xmlns.com/foaf/0.1/name"}`)

	expanded, err := NewProcessor().Expand(parseJSON(t, `{"@id": "http://a/", "name": "R"}`), opts)
	require.NoError(t, err)

	assert.Equal(t, parseJSON(t, `[
		{"@id": "http://a/", "http://xmlns.com/foaf/0.1/name": [{"@value": "R"}]}
	]`), interface{}(expanded))
}

func TestExpandTyped(t *testing.T) {
	doc := parseJSON(t, `{
		"@context": {"name": "http://xmlns.com/foaf/0.1/name"},
		"@id": "http://a/",
		"@type": "http://ex/Person",
		"name": "R"
	}`)

	objs, err := NewProcessor().ExpandTyped(doc, NewProcessingOptions(""))
	require.NoError(t, err)
	require.Len(t, objs, 1)

	node, ok := objs[0].(*NodeObject)
	require.True(t, ok)
	assert.True(t, node.HasId)
	assert.Equal(t, "http://a/", node.Id.String())
	require.Len(t, node.Types, 1)
	assert.Equal(t, "http://ex/Person", node.Types[0].String())

	values := node.Properties["http://xmlns.com/foaf/0.1/name"]
	require.Len(t, values, 1)
	value, ok := values[0].(*ValueObject)
	require.True(t, ok)
	assert.Equal(t, "R", value.Literal)
}

func TestContextProcessingWarnings(t *testing.T) {
	var warnings []Warning
	opts := NewProcessingOptions("")
	opts.Warn = func(w Warning) { warnings = append(warnings, w) }

	_, err := NewActiveContext(nil, opts).Parse(parseJSON(t, `{
		"@language": "not_a_language_tag",
		"foo": "@keywordlike"
	}`))
	require.NoError(t, err)

	kinds := make(map[WarningKind]bool)
	for _, w := range warnings {
		kinds[w.Kind] = true
	}
	assert.True(t, kinds[WarnMalformedLanguageTag])
	assert.True(t, kinds[WarnKeywordLikeValue])
}

func TestIriConfusedWithPrefix(t *testing.T) {
	opts := NewProcessingOptions("")
	ctx, err := NewActiveContext(nil, opts).Parse(parseJSON(t, `{
		"http": {"@id": "http://example.com/", "@prefix": true}
	}`))
	require.NoError(t, err)

	_, err = ctx.CompactIri("http:/no-authority", nil, true, false)
	code, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, IRIConfusedWithPrefix, code)
}

func TestCompactToRelative(t *testing.T) {
	expanded := parseJSON(t, `[{"@id": "http://example.com/api/things/1", "http://ex/p": [{"@value": 1}]}]`)

	opts := NewProcessingOptions("http://example.com/api/")
	compacted, err := NewProcessor().Compact(expanded, nil, opts)
	require.NoError(t, err)
	assert.Equal(t, "things/1", compacted["@id"])

	opts = NewProcessingOptions("http://example.com/api/")
	opts.CompactToRelative = false
	compacted, err = NewProcessor().Compact(expanded, nil, opts)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/api/things/1", compacted["@id"])
}

func TestCompactOrderedTypes(t *testing.T) {
	context := parseJSON(t, `{"a": "http://ex/a", "b": "http://ex/b"}`)
	expanded := parseJSON(t, `[
		{"@id": "http://x/", "@type": ["http://ex/b", "http://ex/a"], "http://ex/p": [{"@value": 1}]}
	]`)

	opts := NewProcessingOptions("")
	opts.Ordered = true
	compacted, err := NewProcessor().Compact(expanded, context, opts)
	require.NoError(t, err)

	assert.Equal(t, []interface{}{"a", "b"}, compacted["@type"])
}

func TestSelectTermLanguagePreference(t *testing.T) {
	opts := NewProcessingOptions("")
	ctx, err := NewActiveContext(nil, opts).Parse(parseJSON(t, `{
		"labelEN": {"@id": "http://ex/label", "@language": "en"},
		"labelDE": {"@id": "http://ex/label", "@language": "de"},
		"label":   {"@id": "http://ex/label"}
	}`))
	require.NoError(t, err)

	term := ctx.SelectTerm("http://ex/label", []Container{ContainerNone}, "@language", []string{"en", "@none", "@any"})
	assert.Equal(t, "labelEN", term)

	term = ctx.SelectTerm("http://ex/label", []Container{ContainerNone}, "@language", []string{"de", "@none", "@any"})
	assert.Equal(t, "labelDE", term)

	term = ctx.SelectTerm("http://ex/label", []Container{ContainerNone}, "@language", []string{"fr", "@none", "@any"})
	assert.Equal(t, "label", term)

	inverse := ctx.GetInverse()
	assert.Equal(t, []string{"label", "labelDE", "labelEN"}, inverse.Terms("http://ex/label"))
}

func TestVersionRequiresProcessingMode(t *testing.T) {
	opts := NewProcessingOptions("")
	opts.ProcessingMode = JsonLd_1_0

	_, err := NewActiveContext(nil, opts).Parse(parseJSON(t, `{"@version": 1.1}`))
	code, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, ProcessingModeConflict, code)
}

func TestScopedContextOnType(t *testing.T) {
	doc := parseJSON(t, `{
		"@context": {
			"Person": {
				"@id": "http://ex/Person",
				"@context": {"name": "http://xmlns.com/foaf/0.1/name"}
			}
		},
		"@type": "Person",
		"name": "R"
	}`)

	expanded, err := NewProcessor().Expand(doc, NewProcessingOptions(""))
	require.NoError(t, err)

	assert.Equal(t, parseJSON(t, `[
		{"@type": ["http://ex/Person"],
		 "http://xmlns.com/foaf/0.1/name": [{"@value": "R"}]}
	]`), interface{}(expanded))
}
