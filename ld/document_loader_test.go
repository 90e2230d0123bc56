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
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	. "github.com/dovetaildata/ldproc/ld"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDocumentFromFile(t *testing.T) {
	path := writeFixture(t, "doc.jsonld", `{"@type": "t1"}`)

	dl := NewHTTPDocumentLoader(nil)
	rd, err := dl.LoadDocument(path)
	require.NoError(t, err)

	assert.Equal(t, "t1", rd.Document.(map[string]interface{})["@type"])
}

func TestLoadDocumentOverHTTP(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", ApplicationJSONLDType)
		_, _ = w.Write([]byte(`{"@context": {"name": "http://xmlns.com/foaf/0.1/name"}}`))
	}))
	defer ts.Close()

	dl := NewHTTPDocumentLoader(nil)
	rd, err := dl.LoadDocument(ts.URL + "/context.jsonld")
	require.NoError(t, err)

	docMap := rd.Document.(map[string]interface{})
	assert.Contains(t, docMap, "@context")
	assert.Empty(t, rd.ContextURL)
}

func TestLoadDocumentContextLinkHeader(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Link", `<ctx.jsonld>; rel="http://www.w3.org/ns/json-ld#context"`)
		_, _ = w.Write([]byte(`{"name": "Ray"}`))
	}))
	defer ts.Close()

	dl := NewHTTPDocumentLoader(nil)
	rd, err := dl.LoadDocument(ts.URL + "/doc.json")
	require.NoError(t, err)

	assert.Equal(t, "ctx.jsonld", rd.ContextURL)
}

func TestParseLinkHeader(t *testing.T) {
	rval := ParseLinkHeader("<remote-doc/0010-context.jsonld>; rel=\"http://www.w3.org/ns/json-ld#context\"")

	assert.Equal(
		t,
		map[string][]map[string]string{
			"http://www.w3.org/ns/json-ld#context": {{
				"target": "remote-doc/0010-context.jsonld",
				"rel":    "http://www.w3.org/ns/json-ld#context",
			}},
		},
		rval,
	)
}

func TestCachingDocumentLoader(t *testing.T) {
	path := writeFixture(t, "doc.jsonld", `{"@type": "t1"}`)

	cl := NewCachingDocumentLoader(NewHTTPDocumentLoader(nil))
	require.NoError(t, cl.PreloadWithMapping(map[string]string{
		"http://www.example.com/doc.jsonld": path,
	}))

	rd, err := cl.LoadDocument("http://www.example.com/doc.jsonld")
	require.NoError(t, err)
	assert.Equal(t, "t1", rd.Document.(map[string]interface{})["@type"])
}

func TestContextLoaderExtraction(t *testing.T) {
	cl := NewCachingDocumentLoader(NewHTTPDocumentLoader(nil))
	cl.AddDocument("http://example.com/has-context", map[string]interface{}{
		"@context": map[string]interface{}{"name": "http://xmlns.com/foaf/0.1/name"},
		"name":     "Ray",
	})
	cl.AddDocument("http://example.com/no-context", map[string]interface{}{
		"name": "Ray",
	})
	cl.AddDocument("http://example.com/two-contexts", []interface{}{
		map[string]interface{}{"@context": map[string]interface{}{}},
		map[string]interface{}{"@context": map[string]interface{}{}},
	})

	loader := NewContextLoader(cl)

	rd, err := loader.LoadDocument("http://example.com/has-context")
	require.NoError(t, err)
	ctx := rd.Document.(map[string]interface{})
	assert.Equal(t, "http://xmlns.com/foaf/0.1/name", ctx["name"])

	_, err = loader.LoadDocument("http://example.com/no-context")
	code, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, NoContext, code)

	_, err = loader.LoadDocument("http://example.com/two-contexts")
	code, ok = CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, DuplicateContext, code)
}

func TestRFC7234CachingDocumentLoader(t *testing.T) {
	hits := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", ApplicationJSONLDType)
		w.Header().Set("Cache-Control", "max-age=3600")
		_, _ = w.Write([]byte(`{"@context": {}}`))
	}))
	defer ts.Close()

	dl := NewRFC7234CachingDocumentLoader(nil)

	_, err := dl.LoadDocument(ts.URL + "/ctx.jsonld")
	require.NoError(t, err)
	_, err = dl.LoadDocument(ts.URL + "/ctx.jsonld")
	require.NoError(t, err)

	assert.Equal(t, 1, hits, "second load should be served from cache")
}
