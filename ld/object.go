package ld

import "fmt"

// Object is the tagged variant at the heart of the data model:
// every node in an expanded JSON-LD tree is either a value object, a node
// object, or a list object.
type Object interface {
	isObject()
}

// ValueObject is a JSON-LD value: a literal plus optional type, language,
// direction or @index.
type ValueObject struct {
	Literal   interface{}
	Type      string // absolute datatype IRI, "@json", or "" if untyped
	Language  string
	Direction string
	Index     string
	HasIndex  bool
}

// NodeObject is a JSON-LD node: an optional Id, types, properties, and the
// framing/graph-partitioning keywords that can appear alongside them.
type NodeObject struct {
	Id                Id
	HasId             bool
	Types             []Id
	Graph             []Object
	Included          []*NodeObject
	Properties        map[string][]Object
	ReverseProperties map[string][]*NodeObject
	Index             string
	HasIndex          bool
}

// ListObject is an ordered JSON-LD list; each entry may carry its own
// @index when the list itself sits inside an @index-keyed container.
type ListObject struct {
	Entries []Indexed[Object]
}

func (*ValueObject) isObject() {}
func (*NodeObject) isObject()  {}
func (*ListObject) isObject()  {}

// DecodeExpanded converts an already-expanded JSON-LD tree (the
// map[string]interface{}/[]interface{} wire shape Expand produces) into the
// typed Object tree.
// It assumes its input has already passed through Expand: keys are
// expected to be absolute IRIs or keywords, never compact IRIs or terms.
//
// Ids are built as plain IRI/blank-node strings. Use
// DecodeExpandedWithVocabulary to route them through a Vocabulary
// collaborator instead.
func DecodeExpanded(nodes []interface{}) ([]Object, error) {
	return DecodeExpandedWithVocabulary(nodes, nil)
}

// DecodeExpandedWithVocabulary is DecodeExpanded, but every @id and @type
// IRI or blank-node label is interned through vocab. A nil vocab is
// equivalent to DecodeExpanded.
func DecodeExpandedWithVocabulary(nodes []interface{}, vocab Vocabulary) ([]Object, error) {
	out := make([]Object, 0, len(nodes))
	for _, n := range nodes {
		obj, err := decodeObject(n, vocab)
		if err != nil {
			return nil, err
		}
		if obj != nil {
			out = append(out, obj)
		}
	}
	return out, nil
}

func decodeObject(raw interface{}, vocab Vocabulary) (Object, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, NewJsonLdError(InvalidInput, fmt.Sprintf("expected a JSON object in expanded form, got %T", raw))
	}

	if listVal, hasList := m["@list"]; hasList {
		entries, _ := listVal.([]interface{})
		lo := &ListObject{}
		for _, e := range entries {
			obj, err := decodeObject(e, vocab)
			if err != nil {
				return nil, err
			}
			idx, hasIdx := indexOf(e)
			lo.Entries = append(lo.Entries, Indexed[Object]{Value: obj, Index: idx, HasIndex: hasIdx})
		}
		return lo, nil
	}

	if _, hasValue := m["@value"]; hasValue {
		vo := &ValueObject{Literal: m["@value"]}
		if t, ok := m["@type"].(string); ok {
			vo.Type = t
		}
		if lang, ok := m["@language"].(string); ok {
			vo.Language = lang
		}
		if dir, ok := m["@direction"].(string); ok {
			vo.Direction = dir
		}
		if idx, ok := m["@index"].(string); ok {
			vo.Index = idx
			vo.HasIndex = true
		}
		return vo, nil
	}

	no := &NodeObject{Properties: map[string][]Object{}}
	if idVal, ok := m["@id"].(string); ok {
		no.Id = parseRawId(idVal, vocab)
		no.HasId = true
	}
	if typesVal, hasType := m["@type"]; hasType {
		for _, t := range Arrayify(typesVal) {
			if ts, ok := t.(string); ok {
				no.Types = append(no.Types, parseRawId(ts, vocab))
			}
		}
	}
	if idx, ok := m["@index"].(string); ok {
		no.Index = idx
		no.HasIndex = true
	}
	if graphVal, hasGraph := m["@graph"]; hasGraph {
		objs, err := DecodeExpandedWithVocabulary(Arrayify(graphVal), vocab)
		if err != nil {
			return nil, err
		}
		no.Graph = objs
	}
	if incVal, hasInc := m["@included"]; hasInc {
		for _, i := range Arrayify(incVal) {
			obj, err := decodeObject(i, vocab)
			if err != nil {
				return nil, err
			}
			if node, ok := obj.(*NodeObject); ok {
				no.Included = append(no.Included, node)
			}
		}
	}
	if revVal, hasRev := m["@reverse"].(map[string]interface{}); hasRev {
		no.ReverseProperties = map[string][]*NodeObject{}
		for prop, vals := range revVal {
			for _, v := range Arrayify(vals) {
				obj, err := decodeObject(v, vocab)
				if err != nil {
					return nil, err
				}
				if node, ok := obj.(*NodeObject); ok {
					no.ReverseProperties[prop] = append(no.ReverseProperties[prop], node)
				}
			}
		}
	}

	for key, val := range m {
		if IsKeyword(key) {
			continue
		}
		objs, err := DecodeExpandedWithVocabulary(Arrayify(val), vocab)
		if err != nil {
			return nil, err
		}
		no.Properties[key] = objs
	}

	return no, nil
}

func indexOf(raw interface{}) (string, bool) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return "", false
	}
	idx, ok := m["@index"].(string)
	return idx, ok
}

func parseRawId(s string, vocab Vocabulary) Id {
	if IsBlankNodeIdentifier(s) {
		if vocab != nil {
			return vocab.BlankNode(s)
		}
		return ValidBlank(s)
	}
	if vocab != nil {
		return vocab.Iri(s)
	}
	return ValidIRI(s)
}

// EncodeExpanded converts a typed Object tree back into the expanded
// map[string]interface{}/[]interface{} JSON shape.
func EncodeExpanded(objs []Object) []interface{} {
	out := make([]interface{}, 0, len(objs))
	for _, o := range objs {
		out = append(out, encodeObject(o))
	}
	return out
}

func encodeObject(o Object) interface{} {
	switch v := o.(type) {
	case *ValueObject:
		m := map[string]interface{}{"@value": v.Literal}
		if v.Type != "" {
			m["@type"] = v.Type
		}
		if v.Language != "" {
			m["@language"] = v.Language
		}
		if v.Direction != "" {
			m["@direction"] = v.Direction
		}
		if v.HasIndex {
			m["@index"] = v.Index
		}
		return m
	case *ListObject:
		entries := make([]interface{}, 0, len(v.Entries))
		for _, e := range v.Entries {
			enc := encodeObject(e.Value)
			if e.HasIndex {
				if em, ok := enc.(map[string]interface{}); ok {
					em["@index"] = e.Index
				}
			}
			entries = append(entries, enc)
		}
		return map[string]interface{}{"@list": entries}
	case *NodeObject:
		m := map[string]interface{}{}
		if v.HasId {
			m["@id"] = v.Id.String()
		}
		if len(v.Types) > 0 {
			types := make([]interface{}, len(v.Types))
			for i, t := range v.Types {
				types[i] = t.String()
			}
			m["@type"] = types
		}
		if v.HasIndex {
			m["@index"] = v.Index
		}
		if len(v.Graph) > 0 {
			m["@graph"] = EncodeExpanded(v.Graph)
		}
		if len(v.Included) > 0 {
			included := make([]Object, len(v.Included))
			for i, n := range v.Included {
				included[i] = n
			}
			m["@included"] = EncodeExpanded(included)
		}
		if len(v.ReverseProperties) > 0 {
			rev := map[string]interface{}{}
			for prop, nodes := range v.ReverseProperties {
				objs := make([]Object, len(nodes))
				for i, n := range nodes {
					objs[i] = n
				}
				rev[prop] = EncodeExpanded(objs)
			}
			m["@reverse"] = rev
		}
		for prop, objs := range v.Properties {
			m[prop] = EncodeExpanded(objs)
		}
		return m
	default:
		return nil
	}
}
