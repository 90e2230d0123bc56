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

import "sort"

// containerIs reports whether property's @container mapping is exactly the
// single keyword kw (no other container flag combined with it).
func containerIs(activeCtx *ActiveContext, property string, kw string) bool {
	container := activeCtx.GetContainer(property)
	return len(container) == 1 && container[0] == kw
}

// compact implements the Compaction algorithm.
func (p *Processor) compact(activeCtx *ActiveContext, activeProperty string, element interface{},
	opts *ProcessingOptions) (interface{}, error) {
	compactArrays := opts.CompactArrays
	if elementList, isList := element.([]interface{}); isList {
		result := make([]interface{}, 0)
		for _, item := range elementList {
			compactedItem, err := p.compact(activeCtx, activeProperty, item, opts)
			if err != nil {
				return nil, err
			}
			if compactedItem != nil {
				result = append(result, compactedItem)
			}
		}
		if compactArrays && len(result) == 1 && len(activeCtx.GetContainer(activeProperty)) == 0 {
			return result[0], nil
		}
		return result, nil
	}

	if elem, isMap := element.(map[string]interface{}); isMap {
		_, containsValue := elem["@value"]
		_, containsID := elem["@id"]
		if containsValue || (containsID && len(elem) == 1) {
			compactedValue, err := activeCtx.CompactValue(activeProperty, elem)
			if err != nil {
				return nil, err
			}
			_, isMap := compactedValue.(map[string]interface{})
			_, isList := compactedValue.([]interface{})
			if !(isMap || isList) {
				return compactedValue, nil
			}
		}

		insideReverse := activeProperty == "@reverse"

		result := make(map[string]interface{})
		for _, expandedProperty := range GetOrderedKeys(elem) {
			expandedValue := elem[expandedProperty]

			if expandedProperty == "@id" || expandedProperty == "@type" {
				var compactedValue interface{}

				if expandedValueStr, isString := expandedValue.(string); isString {
					cv, err := activeCtx.CompactIri(expandedValueStr, nil, expandedProperty == "@type", false)
					if err != nil {
						return nil, err
					}
					compactedValue = cv
				} else {
					types := make([]interface{}, 0)
					for _, expandedTypeVal := range expandedValue.([]interface{}) {
						expandedType := expandedTypeVal.(string)
						cv, err := activeCtx.CompactIri(expandedType, nil, true, false)
						if err != nil {
							return nil, err
						}
						types = append(types, cv)
					}
					if opts.Ordered {
						sort.Slice(types, func(i, j int) bool {
							return types[i].(string) < types[j].(string)
						})
					}
					if len(types) == 1 {
						compactedValue = types[0]
					} else {
						compactedValue = types
					}
				}

				alias, err := activeCtx.CompactIri(expandedProperty, nil, true, false)
				if err != nil {
					return nil, err
				}
				result[alias] = compactedValue
				continue
			}

			if expandedProperty == "@reverse" {
				compactedObject, err := p.compact(activeCtx, "@reverse", expandedValue, opts)
				if err != nil {
					return nil, err
				}
				compactedValue := compactedObject.(map[string]interface{})
				for _, property := range GetKeys(compactedValue) {
					value := compactedValue[property]
					if activeCtx.IsReverseProperty(property) {
						valueList, isList := value.([]interface{})
						if (containerIs(activeCtx, property, "@set") || !compactArrays) && !isList {
							result[property] = []interface{}{value}
						}
						if _, present := result[property]; !present {
							result[property] = value
						} else {
							propertyValueList, isPropertyList := result[property].([]interface{})
							if !isPropertyList {
								propertyValueList = []interface{}{result[property]}
							}
							if isList {
								propertyValueList = append(propertyValueList, valueList...)
							} else {
								propertyValueList = append(propertyValueList, value)
							}
							result[property] = propertyValueList
						}
						delete(compactedValue, property)
					}
				}
				if len(compactedValue) > 0 {
					alias, err := activeCtx.CompactIri("@reverse", nil, true, false)
					if err != nil {
						return nil, err
					}
					result[alias] = compactedValue
				}
				continue
			}

			if expandedProperty == "@index" && containerIs(activeCtx, activeProperty, "@index") {
				continue
			} else if expandedProperty == "@index" || expandedProperty == "@value" ||
				expandedProperty == "@language" {
				alias, err := activeCtx.CompactIri(expandedProperty, nil, true, false)
				if err != nil {
					return nil, err
				}
				result[alias] = expandedValue
				continue
			}

			// NOTE: expanded value must be an array due to the expansion algorithm.

			expandedValueList, isList := expandedValue.([]interface{})
			if isList && len(expandedValueList) == 0 {
				itemActiveProperty, err := activeCtx.CompactIri(expandedProperty, expandedValue, true, insideReverse)
				if err != nil {
					return nil, err
				}
				itemActivePropertyVal, present := result[itemActiveProperty]
				if !present {
					result[itemActiveProperty] = make([]interface{}, 0)
				} else {
					if _, isList := itemActivePropertyVal.([]interface{}); !isList {
						result[itemActiveProperty] = []interface{}{itemActivePropertyVal}
					}
				}
			}

			for _, expandedItem := range expandedValueList {
				itemActiveProperty, err := activeCtx.CompactIri(expandedProperty, expandedItem, true, insideReverse)
				if err != nil {
					return nil, err
				}
				container := activeCtx.GetContainer(itemActiveProperty)
				containerKw := ""
				if len(container) == 1 {
					containerKw, _ = container[0].(string)
				}

				expandedItemMap, isMap := expandedItem.(map[string]interface{})
				list, containsList := expandedItemMap["@list"]
				isList := isMap && containsList

				var elementToCompact interface{}
				if isList {
					elementToCompact = list
				} else {
					elementToCompact = expandedItem
				}
				compactedItem, err := p.compact(activeCtx, itemActiveProperty, elementToCompact, opts)
				if err != nil {
					return nil, err
				}

				if isList {
					if _, isCompactedList := compactedItem.([]interface{}); !isCompactedList {
						compactedItem = []interface{}{compactedItem}
					}
					if containerKw != "@list" {
						wrapper := make(map[string]interface{})
						listAlias, err := activeCtx.CompactIri("@list", nil, true, false)
						if err != nil {
							return nil, err
						}
						wrapper[listAlias] = compactedItem
						compactedItem = wrapper

						if indexVal, containsIndex := expandedItemMap["@index"]; containsIndex {
							indexAlias, err := activeCtx.CompactIri("@index", nil, true, false)
							if err != nil {
								return nil, err
							}
							wrapper[indexAlias] = indexVal
						}
					} else if _, present := result[itemActiveProperty]; present {
						return nil, NewJsonLdError(CompactionToListOfLists,
							"There cannot be two list objects associated with an active property that has a container mapping")
					}
				}

				if containerKw == "@language" || containerKw == "@index" {
					var mapObject map[string]interface{}
					if v, present := result[itemActiveProperty]; present {
						mapObject = v.(map[string]interface{})
					} else {
						mapObject = make(map[string]interface{})
						result[itemActiveProperty] = mapObject
					}

					compactedItemMap, isMap := compactedItem.(map[string]interface{})
					compactedItemValue, containsValue := compactedItemMap["@value"]
					if containerKw == "@language" && isMap && containsValue {
						compactedItem = compactedItemValue
					}

					mapKey := expandedItemMap[containerKw].(string)
					mapValue, hasMapKey := mapObject[mapKey]
					if !hasMapKey {
						mapObject[mapKey] = compactedItem
					} else {
						mapValueList, isList := mapValue.([]interface{})
						var tmp []interface{}
						if !isList {
							tmp = []interface{}{mapValue}
						} else {
							tmp = mapValueList
						}
						tmp = append(tmp, compactedItem)
						mapObject[mapKey] = tmp
					}
				} else {
					_, isList := compactedItem.([]interface{})
					check := (!compactArrays || containerKw == "@set" || containerKw == "@list" ||
						expandedProperty == "@list" || expandedProperty == "@graph") && !isList
					if check {
						compactedItem = []interface{}{compactedItem}
					}
					itemActivePropertyVal, present := result[itemActiveProperty]
					if !present {
						result[itemActiveProperty] = compactedItem
					} else {
						itemActivePropertyValueList, isList := itemActivePropertyVal.([]interface{})
						if !isList {
							itemActivePropertyValueList = []interface{}{itemActivePropertyVal}
							result[itemActiveProperty] = itemActivePropertyValueList
						}
						compactedItemList, isList := compactedItem.([]interface{})
						if isList {
							itemActivePropertyValueList = append(itemActivePropertyValueList, compactedItemList...)
						} else {
							itemActivePropertyValueList = append(itemActivePropertyValueList, compactedItem)
						}
						result[itemActiveProperty] = itemActivePropertyValueList
					}
				}
			}
		}
		return result, nil
	}
	return element, nil
}
