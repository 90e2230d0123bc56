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
	"fmt"
	"sort"
	"strings"
)

// termPreferences is one cell of the inverse context: for a given IRI and
// Container, the preferred term per type selector, per language/direction
// selector, and the catch-all slot. Selector keys are the literal type IRI
// or keyword ("@id", "@json", "@reverse", ...) in types, and the language
// tag, "lang_dir", "_dir", "@null" or "@none" forms in languages.
type termPreferences struct {
	types     map[string]string
	languages map[string]string
	any       map[string]string
}

func newTermPreferences(term string) *termPreferences {
	return &termPreferences{
		types:     make(map[string]string),
		languages: make(map[string]string),
		any:       map[string]string{"@none": term},
	}
}

// setPreferred writes term into a cell slot only if the slot is still
// empty: terms are inserted shortest-first, so the first write wins.
func setPreferred(m map[string]string, key, term string) {
	if _, taken := m[key]; !taken {
		m[key] = term
	}
}

// InverseContext is the compaction-time lookup table derived from an
// ActiveContext's term definitions: IRI, then Container, then
// type-or-language selector, down to the preferred term. It is always
// derived from, and cached on, exactly one ActiveContext; see GetInverse.
type InverseContext struct {
	entries map[string]map[Container]*termPreferences
}

// GetInverse returns the inverse context for this active context, building
// and caching it on first use. Terms are processed in shortest-then-least
// order so that shorter terms claim each preference slot first.
// See http://www.w3.org/TR/json-ld-api/#inverse-context-creation for
// further details.
func (c *ActiveContext) GetInverse() *InverseContext {
	if c.inverse != nil {
		return c.inverse
	}

	inv := &InverseContext{entries: make(map[string]map[Container]*termPreferences)}
	c.inverse = inv

	defaultLanguage := "@none"
	if lang, hasLang := c.values["@language"].(string); hasLang {
		defaultLanguage = lang
	}
	defaultDirection, hasDefaultDirection := c.values["@direction"].(string)

	terms := GetKeys(c.termDefinitions)
	sort.Sort(ShortestLeast(terms))

	for _, term := range terms {
		td, defined := c.TypedTermDefinition(term)
		if !defined || td.Value.IsNull() {
			continue
		}

		iri := td.Value.String()
		entry, present := inv.entries[iri]
		if !present {
			entry = make(map[Container]*termPreferences)
			inv.entries[iri] = entry
		}
		cell, present := entry[td.Container]
		if !present {
			cell = newTermPreferences(term)
			entry[td.Container] = cell
		}

		typeVal, hasType := td.Type.Get()
		langVal, langSet := td.Language.Get()
		dirVal, dirSet := td.Direction.Get()

		switch {
		case td.Reverse:
			setPreferred(cell.types, "@reverse", term)

		case hasType && typeVal.Kind == TypeNone:
			// An explicit @type: @none populates the @any cells, distinct
			// from a term with no type mapping at all, which leaves these
			// cells untouched. See DESIGN.md for the rationale.
			setPreferred(cell.types, "@any", term)
			setPreferred(cell.languages, "@any", term)
			setPreferred(cell.any, "@any", term)

		case hasType:
			setPreferred(cell.types, typeVal.String(), term)

		case td.Language.Present && td.Direction.Present:
			key := "@null"
			switch {
			case langSet && dirSet:
				key = langVal + "_" + dirVal
			case langSet:
				key = langVal
			case dirSet:
				key = "_" + dirVal
			}
			setPreferred(cell.languages, key, term)

		case td.Language.Present:
			key := "@null"
			if langSet {
				key = langVal
			}
			setPreferred(cell.languages, key, term)

		case td.Direction.Present:
			key := "@none"
			if dirSet {
				key = "_" + dirVal
			}
			setPreferred(cell.languages, key, term)

		case hasDefaultDirection:
			setPreferred(cell.languages, "_"+defaultDirection, term)
			setPreferred(cell.languages, "@none", term)
			setPreferred(cell.types, "@none", term)

		default:
			setPreferred(cell.languages, defaultLanguage, term)
			setPreferred(cell.languages, "@none", term)
			setPreferred(cell.types, "@none", term)
		}
	}

	return inv
}

// Terms reports every term that has any entry at all for iri in the
// inverse context, across every container and type-or-language cell.
func (ic *InverseContext) Terms(iri string) []string {
	entry, found := ic.entries[iri]
	if !found {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	collect := func(m map[string]string) {
		for _, term := range m {
			if !seen[term] {
				seen[term] = true
				out = append(out, term)
			}
		}
	}
	for _, cell := range entry {
		collect(cell.languages)
		collect(cell.types)
		collect(cell.any)
	}
	sort.Strings(out)
	return out
}

// SelectTerm picks the preferred compaction term for iri: containers are
// tried in order, and within the first matching container the preferred
// type-or-language values are tried in order.
// See http://www.w3.org/TR/json-ld-api/#term-selection
func (c *ActiveContext) SelectTerm(iri string, containers []Container, typeLanguage string,
	preferredValues []string) string {

	entry := c.GetInverse().entries[iri]
	for _, container := range containers {
		cell, hasContainer := entry[container]
		if !hasContainer {
			continue
		}
		var preferences map[string]string
		switch typeLanguage {
		case "@type":
			preferences = cell.types
		case "@language":
			preferences = cell.languages
		default:
			preferences = cell.any
		}
		for _, preferred := range preferredValues {
			if term, found := preferences[preferred]; found {
				return term
			}
		}
	}
	return ""
}

// compactionCandidates derives the ordered Container candidates and the
// type-or-language selection from the value being compacted. This is the
// container candidate computation at the heart of IRI compaction: the most
// specific containers come first, and the trailing entries are the
// progressively weaker fallbacks every value may use.
func (c *ActiveContext) compactionCandidates(value interface{}, reverse bool) ([]Container, string, string) {
	containers := make([]Container, 0, 12)

	valueMap, isObject := value.(map[string]interface{})
	if isObject {
		_, hasIndex := valueMap["@index"]
		_, hasGraph := valueMap["@graph"]
		if hasIndex && !hasGraph {
			containers = append(containers, ContainerIndex, ContainerIndex|ContainerSet)
		}
	}

	if IsGraph(value) {
		_, hasIndex := valueMap["@index"]
		_, hasID := valueMap["@id"]
		if hasIndex {
			containers = append(containers,
				ContainerGraph|ContainerIndex, ContainerGraph|ContainerIndex|ContainerSet,
				ContainerIndex, ContainerIndex|ContainerSet)
		}
		if hasID {
			containers = append(containers,
				ContainerGraph|ContainerID, ContainerGraph|ContainerID|ContainerSet)
		}
		containers = append(containers, ContainerGraph, ContainerGraph|ContainerSet, ContainerSet)
		if !hasIndex {
			containers = append(containers,
				ContainerGraph|ContainerIndex, ContainerGraph|ContainerIndex|ContainerSet,
				ContainerIndex, ContainerIndex|ContainerSet)
		}
		if !hasID {
			containers = append(containers,
				ContainerGraph|ContainerID, ContainerGraph|ContainerID|ContainerSet)
		}
	} else if isObject && !IsValue(value) {
		containers = append(containers,
			ContainerID, ContainerID|ContainerSet, ContainerType, ContainerSet|ContainerType)
	}

	typeLanguage := "@language"
	typeLanguageValue := "@null"

	if reverse {
		typeLanguage = "@type"
		typeLanguageValue = "@reverse"
		containers = append(containers, ContainerSet)
	} else if listVal, hasList := valueMap["@list"]; hasList {
		if _, hasIndex := valueMap["@index"]; !hasIndex {
			containers = append(containers, ContainerList)
		}

		list, _ := listVal.([]interface{})
		commonType := ""
		commonLanguage := ""
		if len(list) == 0 {
			commonLanguage = c.defaultLanguageSelector()
			commonType = "@id"
		}

		for _, item := range list {
			itemLanguage, itemType := listEntrySelectors(item)

			if commonLanguage == "" {
				commonLanguage = itemLanguage
			} else if commonLanguage != itemLanguage && IsValue(item) {
				commonLanguage = "@none"
			}
			if commonType == "" {
				commonType = itemType
			} else if commonType != itemType {
				commonType = "@none"
			}
			if commonLanguage == "@none" && commonType == "@none" {
				break
			}
		}

		if commonLanguage == "" {
			commonLanguage = "@none"
		}
		if commonType == "" {
			commonType = "@none"
		}
		if commonType != "@none" {
			typeLanguage = "@type"
			typeLanguageValue = commonType
		} else {
			typeLanguageValue = commonLanguage
		}
	} else {
		if IsValue(value) {
			langVal, hasLang := valueMap["@language"]
			dirVal, hasDir := valueMap["@direction"]
			_, hasIndex := valueMap["@index"]
			if hasLang && !hasIndex {
				containers = append(containers, ContainerLanguage, ContainerLanguage|ContainerSet)
				if hasDir {
					typeLanguageValue = fmt.Sprintf("%s_%s", langVal, dirVal)
				} else {
					typeLanguageValue, _ = langVal.(string)
				}
			} else if hasDir && !hasIndex {
				typeLanguageValue = fmt.Sprintf("_%s", dirVal)
			} else if typeVal, hasType := valueMap["@type"]; hasType {
				typeLanguage = "@type"
				typeLanguageValue, _ = typeVal.(string)
			}
		} else {
			typeLanguage = "@type"
			typeLanguageValue = "@id"
		}
		containers = append(containers, ContainerSet)
	}

	containers = append(containers, ContainerNone)

	// an index map can hold values under @none, so it works as a weak
	// fallback for any un-indexed value
	if isObject {
		if _, hasIndex := valueMap["@index"]; !hasIndex {
			containers = append(containers, ContainerIndex, ContainerIndex|ContainerSet)
		}
	}
	// a bare value with nothing but @value can fall back to a language map
	if IsValue(value) && len(valueMap) == 1 {
		containers = append(containers, ContainerLanguage, ContainerLanguage|ContainerSet)
	}

	return containers, typeLanguage, typeLanguageValue
}

// listEntrySelectors derives the language and type selector a single @list
// entry contributes to the common-selector computation.
func listEntrySelectors(item interface{}) (string, string) {
	if !IsValue(item) {
		return "@none", "@id"
	}
	itemMap := item.(map[string]interface{})
	langVal, hasLang := itemMap["@language"]
	dirVal, hasDir := itemMap["@direction"]
	switch {
	case hasDir && hasLang:
		return fmt.Sprintf("%s_%s", langVal, dirVal), "@none"
	case hasDir:
		return fmt.Sprintf("_%s", dirVal), "@none"
	case hasLang:
		lang, _ := langVal.(string)
		return lang, "@none"
	default:
		if typeVal, hasType := itemMap["@type"]; hasType {
			typeStr, _ := typeVal.(string)
			return "@none", typeStr
		}
		return "@null", "@none"
	}
}

// defaultLanguageSelector renders the context's default language and base
// direction as a language-map selector key.
func (c *ActiveContext) defaultLanguageSelector() string {
	lang, hasLang := c.values["@language"].(string)
	if dir, hasDir := c.values["@direction"].(string); hasDir {
		if hasLang {
			return lang + "_" + dir
		}
		return "_" + dir
	}
	if hasLang {
		return lang
	}
	return "@none"
}

// CompactIri compacts an IRI or keyword into a term, compact IRI, keyword
// alias or relative IRI. When relativeToVocab is set the inverse context is
// consulted first, using the value under compaction to rank container and
// type-or-language candidates; otherwise only prefix construction and
// base-relative rendering apply.
func (c *ActiveContext) CompactIri(iri string, value interface{}, relativeToVocab bool, reverse bool) (string, error) {
	if iri == "" {
		return "", nil
	}

	inv := c.GetInverse()

	if IsKeyword(iri) {
		// keyword aliases live in the no-container cell
		if entry, found := inv.entries[iri]; found {
			if cell, found := entry[ContainerNone]; found {
				if alias, found := cell.types["@none"]; found {
					return alias, nil
				}
			}
		}
		relativeToVocab = true
	}

	if relativeToVocab {
		if _, hasEntry := inv.entries[iri]; hasEntry {
			containers, typeLanguage, typeLanguageValue := c.compactionCandidates(value, reverse)

			if typeLanguageValue == "" {
				typeLanguageValue = "@null"
			}

			valueMap, isObject := value.(map[string]interface{})
			idVal, hasID := valueMap["@id"].(string)

			preferred := make([]string, 0, 5)
			if (typeLanguageValue == "@reverse" || typeLanguageValue == "@id") && isObject && hasID {
				if typeLanguageValue == "@reverse" {
					preferred = append(preferred, "@reverse")
				}
				// prefer @vocab when the id under compaction round-trips
				// through a term of its own
				compactedID, err := c.CompactIri(idVal, nil, true, false)
				if err != nil {
					return "", err
				}
				td, defined := c.TypedTermDefinition(compactedID)
				if defined && td != nil && !td.Value.IsNull() && td.Value.String() == idVal {
					preferred = append(preferred, "@vocab", "@id", "@none")
				} else {
					preferred = append(preferred, "@id", "@vocab", "@none")
				}
			} else {
				if listVal, hasList := valueMap["@list"]; hasList && listVal == nil {
					typeLanguage = "@any"
				}
				preferred = append(preferred, typeLanguageValue, "@none")
			}
			preferred = append(preferred, "@any")

			// when a preferred value has the language_direction form, also
			// try the bare _direction so direction-only terms can match
			for _, pv := range preferred {
				if idx := strings.LastIndex(pv, "_"); idx != -1 {
					preferred = append(preferred, pv[idx:])
				}
			}

			if term := c.SelectTerm(iri, containers, typeLanguage, preferred); term != "" {
				return term, nil
			}
		}

		// a vocabulary-relative suffix, provided it is not itself a term
		if vocab, hasVocab := c.values["@vocab"].(string); hasVocab {
			if strings.HasPrefix(iri, vocab) && iri != vocab {
				suffix := iri[len(vocab):]
				if _, defined := c.TypedTermDefinition(suffix); !defined {
					return suffix, nil
				}
			}
		}
	}

	// compact IRI construction: the shortest (then lexicographically least)
	// prefix:suffix wins, unless the candidate is already a term bound to
	// something else
	compactIRI := ""
	for term := range c.termDefinitions {
		if strings.Contains(term, ":") {
			continue
		}
		td, _ := c.TypedTermDefinition(term)
		if td == nil || td.Value.IsNull() || !td.Prefix {
			continue
		}
		prefixIRI := td.Value.String()
		if iri == prefixIRI || !strings.HasPrefix(iri, prefixIRI) {
			continue
		}
		candidate := term + ":" + iri[len(prefixIRI):]
		if compactIRI != "" && !CompareShortestLeast(candidate, compactIRI) {
			continue
		}
		candidateDef, taken := c.TypedTermDefinition(candidate)
		if !taken || (candidateDef != nil && candidateDef.Value.String() == iri && value == nil) {
			compactIRI = candidate
		}
	}
	if compactIRI != "" {
		return compactIRI, nil
	}

	for term := range c.termDefinitions {
		td, _ := c.TypedTermDefinition(term)
		if td != nil && td.Prefix && strings.HasPrefix(iri, term+":") {
			return "", NewJsonLdError(IRIConfusedWithPrefix,
				fmt.Sprintf("absolute IRI %s confused with prefix %s", iri, term))
		}
	}

	if !relativeToVocab {
		if c.options == nil || c.options.CompactToRelative {
			if base, hasBase := c.values["@base"].(string); hasBase {
				return RelativizeIri(base, iri), nil
			}
		}
		return iri, nil
	}

	return iri, nil
}

// CompactValue performs value compaction on an object with @value or @id as
// the only property.
// See https://www.w3.org/TR/2019/CR-json-ld11-api-20191212/#value-compaction
func (c *ActiveContext) CompactValue(activeProperty string, value map[string]interface{}) (interface{}, error) {

	// 1
	var result interface{} = value

	// 2
	language := c.GetLanguageMapping(activeProperty)

	// 3
	direction := c.GetDirectionMapping(activeProperty)

	isIndexContainer := c.HasContainerMapping(activeProperty, "@index")
	_, hasIndex := value["@index"]
	idVal, hasID := value["@id"]
	typeVal, hasType := value["@type"]

	idOrIndex := true
	for k := range value {
		if k != "@id" && k != "@index" {
			idOrIndex = false
			break
		}
	}

	var propType interface{}
	if td, defined := c.TypedTermDefinition(activeProperty); defined && td != nil {
		if t, ok := td.Type.Get(); ok {
			propType = t.String()
		}
	}

	languageVal := value["@language"]
	directionVal := value["@direction"]
	var err error

	if hasID && idOrIndex { // 4
		if propType == "@id" { // 4.1
			result, err = c.CompactIri(idVal.(string), nil, false, false)
			if err != nil {
				return nil, err
			}
		} else if propType == "@vocab" { // 4.2
			result, err = c.CompactIri(idVal.(string), nil, true, false)
			if err != nil {
				return nil, err
			}
		} else {
			compactedID, err := c.CompactIri("@id", nil, true, false)
			if err != nil {
				return nil, err
			}
			compactedValue, err := c.CompactIri(idVal.(string), nil, false, false)
			if err != nil {
				return nil, err
			}
			result = map[string]interface{}{
				compactedID: compactedValue,
			}
		}
	} else if hasType && typeVal == propType { // 5
		result = value["@value"]
	} else if propType == "@none" || (hasType && typeVal != propType) { // 6
		result = value
	} else if _, isString := value["@value"].(string); !isString && ((hasIndex && isIndexContainer) || !hasIndex) { // 7
		result = value["@value"]
	} else if (languageVal == language) && directionVal == direction { // 8
		if (hasIndex && isIndexContainer) || !hasIndex {
			result = value["@value"]
			return result, nil
		}
	}

	resultMap, isMap := result.(map[string]interface{})
	if isMap && resultMap["@type"] != nil && value["@type"] != "@json" { // 6.1

		newMap := make(map[string]interface{}, len(resultMap))
		for k, v := range resultMap {
			newMap[k] = v
		}

		if tt, isArray := newMap["@type"].([]interface{}); isArray {
			newTT := make([]interface{}, len(tt))
			for i, t := range tt {
				newTT[i], err = c.CompactIri(t.(string), nil, true, false)
				if err != nil {
					return nil, err
				}
			}
			newMap["@type"] = newTT
		} else {
			newMap["@type"], err = c.CompactIri(newMap["@type"].(string), nil, true, false)
			if err != nil {
				return nil, err
			}
		}

		result = newMap
	}

	// 9
	resultMap, isMap = result.(map[string]interface{})
	if isMap {
		newMap := make(map[string]interface{}, len(resultMap))
		for k, v := range resultMap {
			if k == "@index" && !(hasIndex && !isIndexContainer) {
				continue
			}
			keyAlias, err := c.CompactIri(k, nil, true, false)
			if err != nil {
				return nil, err
			}
			newMap[keyAlias] = v
		}

		result = newMap
	}

	return result, nil
}
