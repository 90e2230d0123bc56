package ld

// Vocabulary is the external collaborator responsible for interning IRIs
// and minting blank-node identifiers. When one is configured, ExpandTyped
// routes the Ids it decodes through it and Flatten mints fresh blank-node
// labels through it, so a host application can back node identity with its
// own symbol table. TypedTermDefinition builds its Ids directly from
// strings and does not consult it.
//
// A nil Vocabulary is valid and means "use plain strings," which is the
// default (see ProcessingOptions.Vocabulary and NewProcessingOptions).
type Vocabulary interface {
	// Iri interns an absolute IRI string as an Id.
	Iri(iri string) Id

	// BlankNode mints or looks up a blank-node Id. An empty label requests
	// a fresh, vocabulary-assigned label.
	BlankNode(label string) Id
}

// plainVocabulary is the zero-configuration Vocabulary: IRIs are wrapped
// as-is, with no interning table, and blank-node labels are issued through
// an IdentifierIssuer.
type plainVocabulary struct {
	issuer *IdentifierIssuer
}

// NewPlainVocabulary returns a Vocabulary that performs no interning beyond
// what IdentifierIssuer already does for blank nodes.
func NewPlainVocabulary() Vocabulary {
	return &plainVocabulary{issuer: NewIdentifierIssuer("_:b")}
}

func (v *plainVocabulary) Iri(iri string) Id { return ValidIRI(iri) }

func (v *plainVocabulary) BlankNode(label string) Id {
	return ValidBlank(v.issuer.GetId(label))
}

// vocabularyOrPlain returns opts.Vocabulary if set, otherwise a fresh plain
// Vocabulary, so callers never need a nil check.
func vocabularyOrPlain(opts *ProcessingOptions) Vocabulary {
	if opts != nil && opts.Vocabulary != nil {
		return opts.Vocabulary
	}
	return NewPlainVocabulary()
}
