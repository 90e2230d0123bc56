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

// expandInternal implements the Expansion algorithm.
func (p *Processor) expandInternal(activeCtx *ActiveContext, activeProperty string, element interface{}) (interface{}, error) {
	if element == nil {
		return nil, nil
	}

	switch elem := element.(type) {
	case []interface{}:
		var resultList = make([]interface{}, 0)
		for _, item := range elem {
			v, err := p.expandInternal(activeCtx, activeProperty, item)
			if err != nil {
				return nil, err
			}
			if activeProperty == "@list" || activeCtx.HasContainerMapping(activeProperty, "@list") {
				_, isList := v.([]interface{})
				vMap, isMap := v.(map[string]interface{})
				_, mapContainsList := vMap["@list"]
				if isList || (isMap && mapContainsList) {
					return nil, NewJsonLdError(ListOfLists, "lists of lists are not permitted.")
				}
			}
			if v != nil {
				vList, isList := v.([]interface{})
				if isList {
					resultList = append(resultList, vList...)
				} else {
					resultList = append(resultList, v)
				}
			}
		}
		return resultList, nil

	case map[string]interface{}:
		// revert any non-propagating scoped context before processing a new
		// node object; value objects and subject references keep it in force
		if activeCtx.previousContext != nil {
			_, hasValue := elem["@value"]
			_, hasID := elem["@id"]
			if !hasValue && !(hasID && len(elem) == 1) {
				activeCtx = activeCtx.RevertToPreviousContext()
			}
		}

		if ctx, hasContext := elem["@context"]; hasContext {
			newCtx, err := activeCtx.Parse(ctx)
			if err != nil {
				return nil, err
			}
			activeCtx = newCtx
		}

		// look for scoped context on @type
		for _, key := range GetOrderedKeys(elem) {
			value := elem[key]
			expandedProperty, err := activeCtx.ExpandIri(key, false, true, nil, nil)
			if err != nil {
				return nil, err
			}
			if expandedProperty == "@type" {
				types := make([]string, 0)
				for _, t := range Arrayify(value) {
					if typeStr, isString := t.(string); isString {
						types = append(types, typeStr)
					}
					// process in lexicographical order, see https://github.com/json-ld/json-ld.org/issues/616
					sort.Strings(types)
					for _, tt := range types {
						td := activeCtx.GetTermDefinition(tt)
						if ctx, hasCtx := td["@context"]; hasCtx {
							newCtx, err := activeCtx.Parse(ctx)
							if err != nil {
								return nil, err
							}
							activeCtx = newCtx
						}
					}
				}
			}
		}

		expandedActiveProperty, err := activeCtx.ExpandIri(activeProperty, false, true, nil, nil)
		if err != nil {
			return nil, err
		}

		resultMap := make(map[string]interface{})
		if err := p.expandObject(activeCtx, activeProperty, expandedActiveProperty, elem, resultMap); err != nil {
			return nil, err
		}

		if rval, hasValue := resultMap["@value"]; hasValue {
			allowedKeys := map[string]interface{}{
				"@value":    nil,
				"@index":    nil,
				"@language": nil,
				"@type":     nil,
			}
			hasDisallowedKeys := false
			for key := range resultMap {
				if _, containsKey := allowedKeys[key]; !containsKey {
					hasDisallowedKeys = true
					break
				}
			}
			_, hasLanguage := resultMap["@language"]
			typeValue, hasType := resultMap["@type"]
			if hasDisallowedKeys {
				return nil, NewJsonLdError(InvalidValueObject, "value object has unknown keys")
			}
			if hasLanguage && hasType {
				return nil, NewJsonLdError(InvalidValueObject,
					"an element containing @value may not contain both @type and @language")
			}
			if rval == nil {
				return nil, nil
			}

			if hasLanguage {
				for _, v := range Arrayify(rval) {
					if _, isString := v.(string); !(isString || isEmptyObject(v)) {
						return nil, NewJsonLdError(InvalidLanguageTaggedValue,
							"only strings may be language-tagged")
					}
				}
			} else if hasType {
				for _, v := range Arrayify(typeValue) {
					vStr, isString := v.(string)
					if isString && vStr == "@json" {
						// a JSON literal carries its @value verbatim
						continue
					}
					if !(isEmptyObject(v) || (isString && IsAbsoluteIri(vStr) && !strings.HasPrefix(vStr, "_:"))) {
						return nil, NewJsonLdError(InvalidTypedValue,
							"an element containing @value and @type must have an absolute IRI for the value of @type")
					}
				}
			}
		} else if rtype, hasType := resultMap["@type"]; hasType {
			if _, isList := rtype.([]interface{}); !isList {
				resultMap["@type"] = []interface{}{rtype}
			}
		} else {
			rset, hasSet := resultMap["@set"]
			_, hasList := resultMap["@list"]
			if hasSet || hasList {
				maxSize := 1
				if _, hasIndex := resultMap["@index"]; hasIndex {
					maxSize = 2
				}
				if len(resultMap) > maxSize {
					return nil, NewJsonLdError(InvalidSetOrListObject,
						"@set or @list may only contain @index")
				}
				if hasSet {
					return rset, nil
				}
			}
		}
		var result interface{} = resultMap
		if _, hasLanguage := resultMap["@language"]; hasLanguage && len(resultMap) == 1 {
			resultMap = nil
			result = nil
		}
		if activeProperty == "" || activeProperty == "@graph" {
			_, hasValue := resultMap["@value"]
			_, hasList := resultMap["@list"]
			_, hasID := resultMap["@id"]
			if resultMap != nil && (len(resultMap) == 0 || hasValue || hasList) {
				resultMap = nil
				result = nil
			} else if resultMap != nil && hasID && len(resultMap) == 1 {
				resultMap = nil
				result = nil
			}
		}
		return result, nil
	default:
		if activeProperty == "" || activeProperty == "@graph" {
			return nil, nil
		}
		return activeCtx.ExpandValue(activeProperty, element)
	}
}

func (p *Processor) expandObject(activeCtx *ActiveContext, activeProperty string, expandedActiveProperty string, elem map[string]interface{}, resultMap map[string]interface{}) error {
	nests := make([]string, 0)
	for _, key := range GetOrderedKeys(elem) {
		value := elem[key]
		if key == "@context" {
			continue
		}
		expandedProperty, err := activeCtx.ExpandIri(key, false, true, nil, nil)
		if err != nil {
			return err
		}
		var expandedValue interface{}
		if expandedProperty == "" || (!strings.Contains(expandedProperty, ":") && !IsKeyword(expandedProperty)) {
			continue
		}
		if strings.HasPrefix(expandedProperty, "_:") {
			activeCtx.emitWarning(WarnBlankNodeIdProperty, key, expandedProperty, "")
		}
		if IsKeyword(expandedProperty) {
			if expandedActiveProperty == "@reverse" {
				return NewJsonLdError(InvalidReversePropertyMap,
					"a keyword cannot be used as a @reverse property")
			}
			if _, containsKey := resultMap[expandedProperty]; containsKey {
				return NewJsonLdError(CollidingKeywords, expandedProperty+" already exists in result")
			}
			switch expandedProperty {
			case "@id":
				valueStr, isString := value.(string)
				if !isString {
					return NewJsonLdError(InvalidIDValue, "value of @id must be a string")
				}
				expandedValue, err = activeCtx.ExpandIri(valueStr, true, false, nil, nil)
				if err != nil {
					return err
				}
			case "@type":
				switch v := value.(type) {
				case []interface{}:
					var expandedValueList []interface{}
					for _, listElem := range v {
						listElemStr, isString := listElem.(string)
						if !isString {
							return NewJsonLdError(InvalidTypeValue,
								"@type value must be a string or array of strings")
						}
						newVal, err := activeCtx.ExpandIri(listElemStr, true, true, nil, nil)
						if err != nil {
							return err
						}
						expandedValueList = append(expandedValueList, newVal)
					}
					expandedValue = expandedValueList
				case string:
					expandedValue, err = activeCtx.ExpandIri(v, true, true, nil, nil)
					if err != nil {
						return err
					}
				default:
					return NewJsonLdError(InvalidTypeValue, "@type value must be a string or array of strings")
				}
			case "@graph":
				expandedValue, err = p.expandInternal(activeCtx, "@graph", value)
				if err != nil {
					return err
				}
				expandedValue = Arrayify(expandedValue)
			case "@value":
				_, isMap := value.(map[string]interface{})
				_, isList := value.([]interface{})
				typeVal, hasType := elem["@type"]
				isJSONLiteral := hasType && typeVal == "@json"
				if value != nil && (isMap || isList) && !isJSONLiteral {
					return NewJsonLdError(InvalidValueObjectValue, "value of "+
						expandedProperty+" must be a scalar or null")
				}
				expandedValue = value
				if expandedValue == nil {
					resultMap["@value"] = nil
					continue
				}
			case "@language":
				vStr, isString := value.(string)
				if !isString {
					return NewJsonLdError(InvalidLanguageTaggedString, "@language value must be a string")
				}
				expandedValue = strings.ToLower(vStr)
			case "@index":
				_, isString := value.(string)
				if !isString {
					return NewJsonLdError(InvalidIndexValue, "Value of "+
						expandedProperty+" must be a string")
				}
				expandedValue = value
			case "@list":
				if activeProperty == "" || activeProperty == "@graph" {
					continue
				}
				expandedValue, _ = p.expandInternal(activeCtx, activeProperty, value)

				expandedValueList, isList := expandedValue.([]interface{})
				if !isList {
					expandedValueList = []interface{}{expandedValue}
					expandedValue = expandedValueList
				}

				for _, o := range expandedValueList {
					oMap, isMap := o.(map[string]interface{})
					if _, containsList := oMap["@list"]; isMap && containsList {
						return NewJsonLdError(ListOfLists, "A list may not contain another list")
					}
				}
			case "@set":
				expandedValue, _ = p.expandInternal(activeCtx, activeProperty, value)
			case "@reverse":
				_, isMap := value.(map[string]interface{})
				if !isMap {
					return NewJsonLdError(InvalidReverseValue, "@reverse value must be an object")
				}
				expandedValue, err = p.expandInternal(activeCtx, "@reverse", value)
				if err != nil {
					return err
				}

				reverseValue, containsReverse := expandedValue.(map[string]interface{})["@reverse"]
				if containsReverse {
					for property, item := range reverseValue.(map[string]interface{}) {
						var propertyList []interface{}
						if propertyValue, containsProperty := resultMap[property]; containsProperty {
							propertyList = propertyValue.([]interface{})
						} else {
							propertyList = make([]interface{}, 0)
							resultMap[property] = propertyList
						}
						if itemList, isList := item.([]interface{}); isList {
							propertyList = append(propertyList, itemList...)
						} else {
							propertyList = append(propertyList, item)
						}
						resultMap[property] = propertyList
					}
				}
				expandedValueMap := expandedValue.(map[string]interface{})
				var maxSize int
				if containsReverse {
					maxSize = 1
				} else {
					maxSize = 0
				}
				if len(expandedValueMap) > maxSize {
					var reverseMap map[string]interface{}
					if reverseValue, containsReverse := resultMap["@reverse"]; containsReverse {
						reverseMap = reverseValue.(map[string]interface{})
					} else {
						reverseMap = make(map[string]interface{})
						resultMap["@reverse"] = reverseMap
					}

					for property, propertyValue := range expandedValueMap {
						if property == "@reverse" {
							continue
						}
						items := propertyValue.([]interface{})
						for _, item := range items {
							itemMap := item.(map[string]interface{})
							_, containsValue := itemMap["@value"]
							_, containsList := itemMap["@list"]
							if containsValue || containsList {
								return NewJsonLdError(InvalidReversePropertyValue, nil)
							}
							var propertyValueList []interface{}
							propertyValue, containsProperty := reverseMap[property]
							if containsProperty {
								propertyValueList = propertyValue.([]interface{})
							} else {
								propertyValueList = make([]interface{}, 0)
								reverseMap[property] = propertyValueList
							}
							reverseMap[property] = append(propertyValueList, item)
						}
					}
				}
				continue
			case "@nest":
				nests = append(nests, key)
			}
			if expandedValue != nil {
				resultMap[expandedProperty] = expandedValue
			}
			continue
		}

		// use potential scoped context for key
		termCtx := activeCtx
		td := activeCtx.GetTermDefinition(key)
		if ctx, hasCtx := td["@context"]; hasCtx {
			termCtx, err = activeCtx.Parse(ctx)
			if err != nil {
				return err
			}
		}

		valueMap, isMap := value.(map[string]interface{})
		if td["@type"] == "@json" {
			// JSON literal: the raw value is preserved verbatim
			expandedValue = map[string]interface{}{
				"@value": value,
				"@type":  "@json",
			}
		} else if activeCtx.HasContainerMapping(key, "@language") && isMap {
			var expandedValueList []interface{}
			for _, language := range GetOrderedKeys(valueMap) {
				expandedLanguage, err := termCtx.ExpandIri(language, false, true, nil, nil)
				if err != nil {
					return err
				}
				languageList := Arrayify(valueMap[language])
				for _, item := range languageList {
					if item == nil {
						continue
					}
					if _, isString := item.(string); !isString {
						return NewJsonLdError(InvalidLanguageMapValue,
							fmt.Sprintf("expected %v to be a string", item))
					}
					v := map[string]interface{}{
						"@value": item,
					}
					if expandedLanguage != "@none" {
						v["@language"] = strings.ToLower(language)
					}
					expandedValueList = append(expandedValueList, v)
				}
			}
			expandedValue = expandedValueList
		} else if activeCtx.HasContainerMapping(key, "@index") && isMap {
			asGraph := activeCtx.HasContainerMapping(key, "@graph")
			expandedValue, err = p.expandIndexMap(termCtx, key, valueMap, "@index", asGraph)
			if err != nil {
				return err
			}
		} else if activeCtx.HasContainerMapping(key, "@id") && isMap {
			asGraph := activeCtx.HasContainerMapping(key, "@graph")
			expandedValue, err = p.expandIndexMap(termCtx, key, valueMap, "@id", asGraph)
			if err != nil {
				return err
			}
		} else if activeCtx.HasContainerMapping(key, "@type") && isMap {
			expandedValue, err = p.expandIndexMap(termCtx, key, valueMap, "@type", false)
			if err != nil {
				return err
			}
		} else {
			isList := expandedProperty == "@list"
			if isList || expandedProperty == "@set" {
				nextActiveProperty := activeProperty
				if isList && expandedActiveProperty == "@graph" {
					nextActiveProperty = ""
				}
				expandedValue, err = p.expandInternal(termCtx, nextActiveProperty, value)
				if err != nil {
					return err
				}
				if isList && IsList(expandedValue) {
					return NewJsonLdError(ListOfLists, "lists of lists are not permitted")
				}
			} else {
				expandedValue, err = p.expandInternal(termCtx, key, value)
				if err != nil {
					return err
				}
			}
		}

		if expandedValue == nil {
			continue
		}
		if activeCtx.HasContainerMapping(key, "@list") {
			expandedValueMap, isMap := expandedValue.(map[string]interface{})
			_, containsList := expandedValueMap["@list"]
			if !isMap || !containsList {
				newExpandedValue := make(map[string]interface{}, 1)
				_, isList := expandedValue.([]interface{})
				if !isList {
					newExpandedValue["@list"] = []interface{}{expandedValue}
				} else {
					newExpandedValue["@list"] = expandedValue
				}
				expandedValue = newExpandedValue
			}
		}

		isContainerGraph := activeCtx.HasContainerMapping(key, "@graph")
		isContainerID := activeCtx.HasContainerMapping(key, "@id")
		isContainerIndex := activeCtx.HasContainerMapping(key, "@index")
		if isContainerGraph && !isContainerID && !isContainerIndex && !IsGraph(expandedValue) {
			evList := Arrayify(expandedValue)
			rVal := make([]interface{}, 0)
			for _, ev := range evList {
				if !IsGraph(ev) {
					ev = map[string]interface{}{
						"@graph": Arrayify(ev),
					}
				}
				rVal = append(rVal, ev)
			}
			expandedValue = rVal
		}

		if termCtx.IsReverseProperty(key) {
			var reverseMap map[string]interface{}
			if reverseValue, containsReverse := resultMap["@reverse"]; containsReverse {
				reverseMap = reverseValue.(map[string]interface{})
			} else {
				reverseMap = make(map[string]interface{})
				resultMap["@reverse"] = reverseMap
			}

			expandedValueList, isList := expandedValue.([]interface{})
			if !isList {
				expandedValueList = []interface{}{expandedValue}
				expandedValue = expandedValueList
			}
			for _, item := range expandedValueList {
				var expandedPropertyList []interface{}
				expandedPropertyValue, containsExpandedProperty := reverseMap[expandedProperty]
				if containsExpandedProperty {
					expandedPropertyList = expandedPropertyValue.([]interface{})
				} else {
					expandedPropertyList = make([]interface{}, 0)
				}

				switch v := item.(type) {
				case map[string]interface{}:
					_, containsValue := v["@value"]
					_, containsList := v["@list"]
					if containsValue || containsList {
						return NewJsonLdError(InvalidReversePropertyValue, nil)
					}
					expandedPropertyList = append(expandedPropertyList, v)
				case []interface{}:
					expandedPropertyList = append(expandedPropertyList, v...)
				default:
					expandedPropertyList = append(expandedPropertyList, v)
				}
				reverseMap[expandedProperty] = expandedPropertyList
			}
		} else {
			var expandedPropertyList []interface{}
			expandedPropertyValue, containsExpandedProperty := resultMap[expandedProperty]
			if containsExpandedProperty {
				expandedPropertyList = expandedPropertyValue.([]interface{})
			} else {
				expandedPropertyList = make([]interface{}, 0)
				resultMap[expandedProperty] = expandedPropertyList
			}
			if expandedValueList, isList := expandedValue.([]interface{}); isList {
				expandedPropertyList = append(expandedPropertyList, expandedValueList...)
			} else {
				expandedPropertyList = append(expandedPropertyList, expandedValue)
			}
			resultMap[expandedProperty] = expandedPropertyList
		}
	}

	// expand each nested key
	for _, n := range nests {
		for _, nv := range Arrayify(elem[n]) {
			nvMap, isMap := nv.(map[string]interface{})
			hasValues := false
			if isMap {
				for k := range nvMap {
					expanded, _ := activeCtx.ExpandIri(k, false, true, nil, nil)
					if expanded == "@value" {
						hasValues = true
						break
					}
				}
			}
			if !isMap || hasValues {
				return NewJsonLdError(InvalidNestValue, "nested value must be a node object")
			}
			if err := p.expandObject(activeCtx, activeProperty, expandedActiveProperty, nvMap, resultMap); err != nil {
				return err
			}
		}
	}

	return nil
}

func (p *Processor) expandIndexMap(activeCtx *ActiveContext, activeProperty string, value map[string]interface{}, indexKey string, asGraph bool) (interface{}, error) {
	var expandedValueList []interface{}
	for _, index := range GetOrderedKeys(value) {
		indexValue := value[index]

		indexCtx := activeCtx
		td := activeCtx.GetTermDefinition(index)
		if ctx, hasCtx := td["@context"]; hasCtx {
			newCtx, err := activeCtx.Parse(ctx)
			if err != nil {
				return nil, err
			}
			indexCtx = newCtx
		}

		expandedIndex, err := indexCtx.ExpandIri(index, false, true, nil, nil)
		if err != nil {
			return nil, err
		}
		if indexKey == "@id" {
			index, err = indexCtx.ExpandIri(index, true, false, nil, nil)
			if err != nil {
				return nil, err
			}
		} else if indexKey == "@type" {
			index = expandedIndex
		}

		indexValue = Arrayify(indexValue)

		expandedIndexValue, err := p.expandInternal(indexCtx, activeProperty, indexValue)
		if err != nil {
			return nil, err
		}

		for _, itemValue := range expandedIndexValue.([]interface{}) {
			if asGraph && !IsGraph(itemValue) {
				itemValue = map[string]interface{}{
					"@graph": Arrayify(itemValue),
				}
			}
			item := itemValue.(map[string]interface{})
			if indexKey == "@type" {
				if expandedIndex != "@none" {
					t := []interface{}{index}
					if types, hasType := item["@type"]; hasType {
						for _, tt := range types.([]interface{}) {
							t = append(t, tt.(string))
						}
					}
					item["@type"] = t
				}
			} else if _, containsKey := item[indexKey]; !containsKey && expandedIndex != "@none" {
				item[indexKey] = index
			}

			expandedValueList = append(expandedValueList, item)
		}
	}
	return expandedValueList, nil
}
