package ld

// TermKind discriminates the three things a Term can be: absent/shadowed
// (Null), one of the JSON-LD keywords (Keyword), or an Id.
type TermKind uint8

const (
	TermNull TermKind = iota
	TermKeyword
	TermId
)

// Term is what a TermDefinition's value resolves to: the explicit null used
// to shadow an inherited definition, a keyword (e.g. "@type"), or an Id.
type Term struct {
	Kind    TermKind
	Keyword string
	Id      Id
}

// NullTerm is the term that shadows/undefines an inherited term definition.
func NullTerm() Term { return Term{Kind: TermNull} }

// KeywordTerm wraps a JSON-LD keyword (e.g. "@type") as a Term.
func KeywordTerm(keyword string) Term { return Term{Kind: TermKeyword, Keyword: keyword} }

// IdTerm wraps an Id as a Term.
func IdTerm(id Id) Term { return Term{Kind: TermId, Id: id} }

// IsNull reports whether t is the explicit-null term.
func (t Term) IsNull() bool { return t.Kind == TermNull }

// String renders t back to its wire-format string.
func (t Term) String() string {
	switch t.Kind {
	case TermKeyword:
		return t.Keyword
	case TermId:
		return t.Id.String()
	default:
		return ""
	}
}
