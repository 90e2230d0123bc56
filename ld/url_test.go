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
	"testing"

	. "github.com/dovetaildata/ldproc/ld"
	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	assert.Equal(t, "http://example.com/b", Resolve("http://example.com/a", "b"))
	assert.Equal(t, "http://example.com/b", Resolve("http://example.com/a/", "../b"))
	assert.Equal(t, "http://other.org/x", Resolve("http://example.com/a", "http://other.org/x"))
	assert.Equal(t, "http://example.com/a?q=1", Resolve("http://example.com/a#frag", "?q=1"))
	assert.Equal(t, "http://example.com/a", Resolve("http://example.com/a", ""))
	assert.Equal(t, "b", Resolve("", "b"))
}

func TestRelativizeIri(t *testing.T) {
	assert.Equal(t, "../parent-node", RelativizeIri(
		"http://json-ld.org/test-suite/tests/compact-0045-in.jsonld",
		"http://json-ld.org/test-suite/parent-node",
	))

	assert.Equal(t, "relative-url", RelativizeIri(
		"http://example.com/",
		"http://example.com/relative-url",
	))

	assert.Equal(t, "../", RelativizeIri(
		"http://json-ld.org/test-suite/tests/compact-0066-in.jsonld",
		"http://json-ld.org/test-suite/",
	))

	assert.Equal(t, "1", RelativizeIri(
		"http://example.com/api/things/1",
		"http://example.com/api/things/1",
	))

	// different authority: left untouched
	assert.Equal(t, "http://other.org/x", RelativizeIri(
		"http://example.com/a",
		"http://other.org/x",
	))

	// query and fragment survive relativization
	assert.Equal(t, "2?page=3", RelativizeIri(
		"http://example.com/api/things/1",
		"http://example.com/api/things/2?page=3",
	))
}
