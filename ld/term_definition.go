package ld

// TermDefinition is the typed view of a single entry in an ActiveContext's
// term-definition table. ActiveContext keeps
// its internal table as map[string]interface{} (the shape a local context
// arrives in over the wire); TypedTermDefinition projects a single entry of
// that table into this closed struct for callers that want to inspect a
// term's mapping without walking raw maps themselves.
type TermDefinition struct {
	Term      string
	Value     Term
	Protected bool
	Reverse   bool
	Container Container
	Type      Nullable[Type]
	Language  Nullable[string]
	Direction Nullable[string]
	Nest      string
	HasNest   bool
	Index     string
	HasIndex  bool
	Prefix    bool
}

// TypedTermDefinition builds the typed TermDefinition for term, or reports
// ok=false if term has no definition (distinct from a definition that
// explicitly shadows an inherited one with null, which TypedTermDefinition
// still returns with Value.IsNull() true).
func (c *ActiveContext) TypedTermDefinition(term string) (*TermDefinition, bool) {
	raw, present := c.termDefinitions[term]
	if !present {
		return nil, false
	}
	if raw == nil {
		return &TermDefinition{Term: term, Value: NullTerm()}, true
	}
	m := raw.(map[string]interface{})

	td := &TermDefinition{Term: term}

	if idStr, ok := m["@id"].(string); ok {
		if IsKeyword(idStr) {
			td.Value = KeywordTerm(idStr)
		} else if IsBlankNodeIdentifier(idStr) {
			td.Value = IdTerm(ValidBlank(idStr))
		} else {
			td.Value = IdTerm(ValidIRI(idStr))
		}
	}

	if reverse, ok := m["@reverse"].(bool); ok {
		td.Reverse = reverse
	}
	if protected, ok := m["protected"].(bool); ok {
		td.Protected = protected
	}
	if prefix, ok := m["_prefix"].(bool); ok {
		td.Prefix = prefix
	}
	if idx, ok := m["@index"].(string); ok {
		td.Index = idx
		td.HasIndex = true
	}
	if nest, ok := m["@nest"].(string); ok {
		td.Nest = nest
		td.HasNest = true
	}

	if containerVal, ok := m["@container"].([]interface{}); ok {
		kws := make([]string, 0, len(containerVal))
		for _, v := range containerVal {
			if s, ok := v.(string); ok {
				kws = append(kws, s)
			}
		}
		td.Container = ContainerFromKeywords(kws...)
	}

	if typeVal, present := m["@type"]; present {
		td.Type = Some(parseRawType(typeVal))
	}

	if langVal, present := m["@language"]; present {
		if langVal == nil {
			td.Language = Null[string]()
		} else if s, ok := langVal.(string); ok {
			td.Language = Some(s)
		}
	}

	if dirVal, present := m["@direction"]; present {
		if dirVal == nil {
			td.Direction = Null[string]()
		} else if s, ok := dirVal.(string); ok {
			td.Direction = Some(s)
		}
	}

	return td, true
}

func parseRawType(v interface{}) Type {
	s, _ := v.(string)
	switch s {
	case "@id":
		return Type{Kind: TypeId}
	case "@vocab":
		return Type{Kind: TypeVocab}
	case "@json":
		return Type{Kind: TypeJSON}
	case "@none":
		return Type{Kind: TypeNone}
	default:
		return Type{Kind: TypeIRI, IRI: s}
	}
}
