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

import "fmt"

// nodeMapper accumulates the node map that underlies Flatten: every subject
// of an expanded document is collected into its enclosing graph's subject
// table, with blank-node identifiers relabeled through a shared issuer so
// distinct anonymous nodes end up with distinct, stable labels.
// See https://www.w3.org/TR/json-ld11-api/#node-map-generation for the
// algorithm this follows.
type nodeMapper struct {
	graphs map[string]map[string]interface{}
	issuer *IdentifierIssuer
}

// nodeMapOrigin identifies where a visited element hangs in the node map:
// the subject whose property array should receive it, or, for reverse
// properties, the referencing node that should hang off the visited node
// instead.
type nodeMapOrigin struct {
	subject string
	// refNode, when set, marks a reverse-property link: the visited node
	// gains an entry pointing back at this node reference.
	refNode map[string]interface{}
}

func newNodeMapper(issuer *IdentifierIssuer) *nodeMapper {
	return &nodeMapper{
		graphs: map[string]map[string]interface{}{"@default": {}},
		issuer: issuer,
	}
}

// graph returns the named graph's subject table, creating it on first use.
func (nm *nodeMapper) graph(name string) map[string]interface{} {
	table, present := nm.graphs[name]
	if !present {
		table = make(map[string]interface{})
		nm.graphs[name] = table
	}
	return table
}

// relabel rewrites a blank node identifier through the issuer; IRIs pass
// through untouched.
func (nm *nodeMapper) relabel(id string) string {
	if IsBlankNodeIdentifier(id) {
		return nm.issuer.GetId(id)
	}
	return id
}

// visit walks one element of an expanded document, recording every subject
// it contains into activeGraph. When list is non-nil the element belongs to
// a @list under construction and is appended there instead of directly to
// the origin's property array.
func (nm *nodeMapper) visit(element interface{}, activeGraph string, origin *nodeMapOrigin,
	activeProperty string, list map[string]interface{}) error {

	if items, isArray := element.([]interface{}); isArray {
		for _, item := range items {
			if err := nm.visit(item, activeGraph, origin, activeProperty, list); err != nil {
				return err
			}
		}
		return nil
	}

	elem, isMap := element.(map[string]interface{})
	if !isMap {
		return NewJsonLdError(InvalidInput,
			fmt.Sprintf("expected a map or an array in expanded form, got %T", element))
	}

	graph := nm.graph(activeGraph)
	originNode := nm.originNode(graph, origin)

	nm.relabelTypes(elem)

	if IsValue(element) {
		nm.attach(originNode, activeProperty, elem, list)
		return nil
	}

	if IsList(element) {
		entry := map[string]interface{}{"@list": []interface{}{}}
		if err := nm.visit(elem["@list"], activeGraph, origin, activeProperty, entry); err != nil {
			return err
		}
		nm.attach(originNode, activeProperty, entry, list)
		return nil
	}

	return nm.visitNode(elem, graph, activeGraph, origin, originNode, activeProperty, list)
}

// originNode resolves the node (or graph table) new entries should be
// attached to. A reverse-property origin gets a throwaway target: its
// values are attached to the visited node instead.
func (nm *nodeMapper) originNode(graph map[string]interface{}, origin *nodeMapOrigin) map[string]interface{} {
	switch {
	case origin == nil:
		return graph
	case origin.refNode != nil:
		return make(map[string]interface{})
	default:
		node, _ := graph[origin.subject].(map[string]interface{})
		return node
	}
}

// relabelTypes rewrites blank node identifiers appearing in @type.
func (nm *nodeMapper) relabelTypes(elem map[string]interface{}) {
	typeVal, hasType := elem["@type"]
	if !hasType {
		return
	}
	types := Arrayify(typeVal)
	relabeled := make([]interface{}, len(types))
	for i, t := range types {
		if ts, isString := t.(string); isString {
			relabeled[i] = nm.relabel(ts)
		} else {
			relabeled[i] = t
		}
	}
	if IsValue(elem) {
		elem["@type"] = relabeled[0]
	} else {
		elem["@type"] = relabeled
	}
}

// attach records value either under the origin's property array or, when a
// @list is being assembled, at the end of that list.
func (nm *nodeMapper) attach(originNode map[string]interface{}, activeProperty string,
	value interface{}, list map[string]interface{}) {
	if list == nil {
		AddValue(originNode, activeProperty, value, true, false, false, false)
	} else {
		list["@list"] = append(list["@list"].([]interface{}), value)
	}
}

func (nm *nodeMapper) visitNode(elem map[string]interface{}, graph map[string]interface{},
	activeGraph string, origin *nodeMapOrigin, originNode map[string]interface{},
	activeProperty string, list map[string]interface{}) error {

	var id string
	if rawID, hasID := elem["@id"].(string); hasID {
		id = nm.relabel(rawID)
	} else {
		id = nm.issuer.GetId("")
	}

	nodeVal, present := graph[id]
	if !present {
		nodeVal = map[string]interface{}{"@id": id}
		graph[id] = nodeVal
	}
	node := nodeVal.(map[string]interface{})

	if origin != nil && origin.refNode != nil {
		// reverse property: the referencing node hangs off this node
		AddValue(node, activeProperty, origin.refNode, true, false, false, false)
	} else if activeProperty != "" {
		nm.attach(originNode, activeProperty, map[string]interface{}{"@id": id}, list)
	}

	if typeVal, hasType := elem["@type"]; hasType {
		AddValue(node, "@type", typeVal, true, false, false, false)
	}

	if elemIdx, hasIndex := elem["@index"]; hasIndex {
		if nodeIdx, found := node["@index"]; found && nodeIdx != elemIdx {
			return NewJsonLdError(ConflictingIndexes,
				fmt.Sprintf("node %s has conflicting @index values", id))
		}
		node["@index"] = elemIdx
	}

	if reverseVal, hasReverse := elem["@reverse"]; hasReverse {
		ref := map[string]interface{}{"@id": id}
		reverseMap, _ := reverseVal.(map[string]interface{})
		for reverseProperty, values := range reverseMap {
			for _, v := range Arrayify(values) {
				err := nm.visit(v, activeGraph, &nodeMapOrigin{refNode: ref}, reverseProperty, nil)
				if err != nil {
					return err
				}
			}
		}
	}

	if graphVal, hasGraph := elem["@graph"]; hasGraph {
		// the node names a graph of its own
		if err := nm.visit(graphVal, id, nil, "", nil); err != nil {
			return err
		}
	}

	if includedVal, hasIncluded := elem["@included"]; hasIncluded {
		if err := nm.visit(includedVal, activeGraph, nil, "", nil); err != nil {
			return err
		}
	}

	for _, property := range GetOrderedKeys(elem) {
		switch property {
		case "@id", "@type", "@index", "@reverse", "@graph", "@included":
			continue
		}
		value := elem[property]

		if IsBlankNodeIdentifier(property) {
			property = nm.issuer.GetId(property)
		}
		if _, found := node[property]; !found {
			node[property] = []interface{}{}
		}
		if err := nm.visit(value, activeGraph, &nodeMapOrigin{subject: id}, property, nil); err != nil {
			return err
		}
	}

	return nil
}
