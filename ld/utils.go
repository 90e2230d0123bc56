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
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// keywords is the full set of reserved JSON-LD tokens, including the framing
// keywords: they are reserved by the grammar even though framing itself is
// not implemented here.
var keywords = map[string]bool{
	"@base": true, "@container": true, "@context": true, "@default": true,
	"@direction": true, "@embed": true, "@explicit": true, "@first": true,
	"@graph": true, "@id": true, "@import": true, "@included": true,
	"@index": true, "@json": true, "@language": true, "@list": true,
	"@nest": true, "@none": true, "@omitDefault": true, "@prefix": true,
	"@preserve": true, "@propagate": true, "@protected": true,
	"@requireAll": true, "@reverse": true, "@set": true, "@type": true,
	"@value": true, "@version": true, "@vocab": true,
}

// IsKeyword reports whether the given value is a reserved JSON-LD keyword.
func IsKeyword(key interface{}) bool {
	s, isString := key.(string)
	return isString && keywords[s]
}

// IsBlankNodeIdentifier reports whether value is a blank node identifier
// of the form "_:label".
func IsBlankNodeIdentifier(value string) bool {
	return strings.HasPrefix(value, "_:")
}

// IsAbsoluteIri reports whether value is an absolute IRI. Blank node
// identifiers count as absolute for the purposes of context processing.
func IsAbsoluteIri(value string) bool {
	if IsBlankNodeIdentifier(value) {
		return true
	}
	u, err := url.Parse(value)
	return err == nil && u.IsAbs()
}

// IsRelativeIri reports whether value is a relative IRI reference, i.e.
// neither a keyword nor an absolute IRI.
func IsRelativeIri(value string) bool {
	return !(IsKeyword(value) || IsAbsoluteIri(value))
}

// IsValue reports whether v is a value object (a map with @value).
func IsValue(v interface{}) bool {
	vMap, isMap := v.(map[string]interface{})
	_, containsValue := vMap["@value"]
	return isMap && containsValue
}

// IsList reports whether v is a list object (a map with @list).
func IsList(v interface{}) bool {
	vMap, isMap := v.(map[string]interface{})
	_, containsList := vMap["@list"]
	return isMap && containsList
}

// IsGraph reports whether v is a graph object: a map with @graph whose only
// other permitted entries are @id and @index.
func IsGraph(v interface{}) bool {
	vMap, isMap := v.(map[string]interface{})
	if !isMap {
		return false
	}
	if _, containsGraph := vMap["@graph"]; !containsGraph {
		return false
	}
	for k := range vMap {
		if k != "@graph" && k != "@id" && k != "@index" {
			return false
		}
	}
	return true
}

func isEmptyObject(v interface{}) bool {
	vMap, isMap := v.(map[string]interface{})
	return isMap && len(vMap) == 0
}

// Arrayify returns v unchanged if it already is an array, otherwise an
// array with v as its only element.
func Arrayify(v interface{}) []interface{} {
	if av, isArray := v.([]interface{}); isArray {
		return av
	}
	return []interface{}{v}
}

// GetKeys returns the keys of m in map iteration order.
func GetKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}

// GetOrderedKeys returns the keys of m sorted lexicographically.
func GetOrderedKeys(m map[string]interface{}) []string {
	keys := GetKeys(m)
	sort.Strings(keys)
	return keys
}

// CompareShortestLeast reports whether a sorts before b when ordering first
// by length and then lexicographically. This ordering makes shorter terms
// win ties during inverse context construction and compact IRI selection.
func CompareShortestLeast(a string, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// ShortestLeast sorts a string slice by CompareShortestLeast.
type ShortestLeast []string

func (s ShortestLeast) Len() int           { return len(s) }
func (s ShortestLeast) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s ShortestLeast) Less(i, j int) bool { return CompareShortestLeast(s[i], s[j]) }

// DeepCompare reports whether v1 and v2 are structurally equal JSON trees.
// When listOrderMatters is false, arrays compare as multisets.
func DeepCompare(v1 interface{}, v2 interface{}, listOrderMatters bool) bool {
	if v1 == nil || v2 == nil {
		return v1 == nil && v2 == nil
	}

	switch t1 := v1.(type) {
	case map[string]interface{}:
		t2, isMap := v2.(map[string]interface{})
		if !isMap || len(t1) != len(t2) {
			return false
		}
		for key, val1 := range t1 {
			val2, present := t2[key]
			if !present || !DeepCompare(val1, val2, listOrderMatters) {
				return false
			}
		}
		return true
	case []interface{}:
		t2, isList := v2.([]interface{})
		if !isList || len(t1) != len(t2) {
			return false
		}
		if listOrderMatters {
			for i := range t1 {
				if !DeepCompare(t1[i], t2[i], true) {
					return false
				}
			}
			return true
		}
		// multiset match; track claimed members of t2 so duplicates in t1
		// cannot all match the same element
		claimed := make([]bool, len(t2))
	outer:
		for _, item1 := range t1 {
			for j, item2 := range t2 {
				if !claimed[j] && DeepCompare(item1, item2, false) {
					claimed[j] = true
					continue outer
				}
			}
			return false
		}
		return true
	default:
		if v1 == v2 {
			return true
		}
		// decoding with json.Decoder.UseNumber() yields json.Number where
		// a plain decode yields float64; compare through a common rendering
		return numericString(v1) == numericString(v2)
	}
}

func numericString(v interface{}) string {
	if f, isFloat := v.(float64); isFloat {
		return fmt.Sprintf("%f", f)
	}
	if n, isNumber := v.(json.Number); isNumber {
		if f, err := n.Float64(); err == nil {
			return fmt.Sprintf("%f", f)
		}
	}
	return fmt.Sprintf("%v", v)
}

// CompareValues compares two JSON-LD values for equality. Two values are
// equal if they are equal primitives, value objects agreeing on @value,
// @type, @language and @index, or node objects / references with the
// same @id.
func CompareValues(v1 interface{}, v2 interface{}) bool {
	v1Map, isv1Map := v1.(map[string]interface{})
	v2Map, isv2Map := v2.(map[string]interface{})

	if !isv1Map && !isv2Map && v1 == v2 {
		return true
	}

	if IsValue(v1) && IsValue(v2) &&
		v1Map["@value"] == v2Map["@value"] &&
		v1Map["@type"] == v2Map["@type"] &&
		v1Map["@language"] == v2Map["@language"] &&
		v1Map["@index"] == v2Map["@index"] {
		return true
	}

	if isv1Map && isv2Map {
		id1, v1containsID := v1Map["@id"]
		id2, v2containsID := v2Map["@id"]
		return v1containsID && v2containsID && id1 == id2
	}

	return false
}

// HasValue reports whether value already appears among subject's entries
// for property, unwrapping a @list if one is present.
func HasValue(subject interface{}, property string, value interface{}) bool {
	subjMap, isMap := subject.(map[string]interface{})
	if !isMap {
		return false
	}
	val, found := subjMap[property]
	if !found {
		return false
	}

	if IsList(val) {
		val = val.(map[string]interface{})["@list"]
	}
	if valArray, isArray := val.([]interface{}); isArray {
		for _, v := range valArray {
			if CompareValues(value, v) {
				return true
			}
		}
		return false
	}
	if _, isArray := value.([]interface{}); isArray {
		// never match a set of values against a single stored value
		return false
	}
	return CompareValues(value, val)
}

// AddValue adds a value to a subject, expanding array values element by
// element.
//
// propertyIsArray forces the property to hold an array even for a single
// value; valueAsArray stores value as the property's array verbatim;
// allowDuplicate skips the duplicate check; prependValue inserts at the
// front instead of appending.
func AddValue(subject interface{}, property string, value interface{}, propertyIsArray, valueAsArray, allowDuplicate,
	prependValue bool) {

	subjMap, _ := subject.(map[string]interface{})
	propVal, propertyFound := subjMap[property]

	switch {
	case valueAsArray:
		subjMap[property] = value
	default:
		if valueArray, isArray := value.([]interface{}); isArray {
			if prependValue {
				if propertyIsArray {
					valueArray = append(subjMap[property].([]interface{}), valueArray...)
				} else {
					valueArray = append([]interface{}{subjMap[property]}, valueArray...)
				}
				subjMap[property] = make([]interface{}, 0)
			} else if len(valueArray) == 0 && propertyIsArray && !propertyFound {
				subjMap[property] = make([]interface{}, 0)
			}
			for _, v := range valueArray {
				AddValue(subject, property, v, propertyIsArray, valueAsArray, allowDuplicate, prependValue)
			}
			return
		}

		if !propertyFound {
			if propertyIsArray {
				subjMap[property] = []interface{}{value}
			} else {
				subjMap[property] = value
			}
			return
		}

		duplicate := !allowDuplicate && HasValue(subject, property, value)

		valArray, isArray := propVal.([]interface{})
		if !isArray && (!duplicate || propertyIsArray) {
			valArray = []interface{}{subjMap[property]}
			subjMap[property] = valArray
		}

		if !duplicate {
			if prependValue {
				subjMap[property] = append([]interface{}{value}, valArray...)
			} else {
				subjMap[property] = append(valArray, value)
			}
		}
	}
}

// CloneDocument deep-copies a decoded JSON document tree. Scalar leaves are
// shared, which is safe for the immutable values encoding/json produces.
func CloneDocument(value interface{}) interface{} {
	switch t := value.(type) {
	case map[string]interface{}:
		clone := make(map[string]interface{}, len(t))
		for k, v := range t {
			clone[k] = CloneDocument(v)
		}
		return clone
	case []interface{}:
		clone := make([]interface{}, 0, len(t))
		for _, v := range t {
			clone = append(clone, CloneDocument(v))
		}
		return clone
	default:
		return value
	}
}
