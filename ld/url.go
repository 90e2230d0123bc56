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
	"net/url"
	"strings"
)

// Resolve resolves the given IRI reference against baseURI and returns the
// resulting absolute IRI. An empty base leaves the reference untouched; an
// empty or blank reference yields the base itself.
func Resolve(baseURI string, ref string) string {
	if baseURI == "" {
		return ref
	}
	if strings.TrimSpace(ref) == "" {
		return baseURI
	}

	base, err := url.Parse(baseURI)
	if err != nil {
		return ref
	}

	// a bare query string replaces the base's query and drops its fragment
	if strings.HasPrefix(ref, "?") {
		base.Fragment = ""
		base.RawQuery = ref[1:]
		return base.String()
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	resolved := base.ResolveReference(refURL)
	// net/url leaves dot segments intact when ref is already absolute
	if resolved.Path != "" {
		resolved.Path = removeDotSegments(resolved.Path)
	}
	return resolved.String()
}

// removeDotSegments collapses "." and ".." segments out of path, in the
// spirit of RFC 3986 section 5.2.4. Interior empty segments ("a//b") are
// dropped as well; a trailing slash survives.
func removeDotSegments(path string) string {
	if path == "" {
		return ""
	}

	segments := strings.Split(path, "/")
	kept := make([]string, 0, len(segments))
	for i, seg := range segments {
		switch {
		case seg == ".":
		case seg == "" && i < len(segments)-1:
		case seg == "..":
			if len(kept) > 0 {
				kept = kept[:len(kept)-1]
			}
		default:
			kept = append(kept, seg)
		}
	}

	joined := strings.Join(kept, "/")
	if strings.HasPrefix(path, "/") && !strings.HasPrefix(joined, "/") {
		joined = "/" + joined
	}
	return joined
}

// RelativizeIri rewrites iri as a reference relative to base, for use when
// compacting document-relative IRIs. If iri does not share base's scheme
// and authority, or either fails to parse, iri is returned unchanged.
func RelativizeIri(base string, iri string) string {
	if base == "" {
		return iri
	}
	baseURL, err := url.Parse(base)
	if err != nil || !baseURL.IsAbs() {
		return iri
	}

	root := baseURL.Scheme + "://" + authorityOf(baseURL)
	if !strings.HasPrefix(iri, root) {
		return iri
	}

	rest, err := url.Parse(iri[len(root):])
	if err != nil {
		return iri
	}

	basePath := removeDotSegments(baseURL.EscapedPath())
	baseSegments := strings.Split(basePath, "/")
	iriSegments := strings.Split(removeDotSegments(rest.EscapedPath()), "/")

	// when the reference carries a query or fragment the whole path may
	// collapse; otherwise its final segment always remains
	keepLast := 1
	if rest.RawQuery != "" || rest.Fragment != "" {
		keepLast = 0
	}
	for len(baseSegments) > 0 && len(iriSegments) > keepLast && baseSegments[0] == iriSegments[0] {
		baseSegments = baseSegments[1:]
		iriSegments = iriSegments[1:]
	}

	var out strings.Builder
	if len(baseSegments) > 0 {
		// the base's final segment is a document, not a directory, unless
		// its path ends in "/"; an empty head means the path began with "/"
		if !strings.HasSuffix(basePath, "/") || baseSegments[0] == "" {
			baseSegments = baseSegments[:len(baseSegments)-1]
		}
		for range baseSegments {
			out.WriteString("../")
		}
	}
	out.WriteString(strings.Join(iriSegments, "/"))
	if rest.RawQuery != "" {
		out.WriteString("?")
		out.WriteString(rest.RawQuery)
	}
	if rest.Fragment != "" {
		out.WriteString("#")
		out.WriteString(rest.EscapedFragment())
	}

	if out.Len() == 0 {
		return "./"
	}
	return out.String()
}

func authorityOf(u *url.URL) string {
	authority := u.Host
	if u.User != nil {
		authority = u.User.String() + "@" + authority
	}
	return authority
}
