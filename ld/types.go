package ld

// TypeKind discriminates the five forms a term's type mapping can take:
// the explicit @none mapping, the special @id/@vocab/@json coercions, or a
// concrete datatype IRI. A term with no type mapping at all has an absent
// TermDefinition.Type rather than a Type of any kind.
type TypeKind uint8

const (
	TypeNone TypeKind = iota
	TypeId
	TypeVocab
	TypeJSON
	TypeIRI
)

// Type is a term's @type mapping.
type Type struct {
	Kind TypeKind
	IRI  string // set when Kind == TypeIRI
}

func (t Type) String() string {
	switch t.Kind {
	case TypeId:
		return "@id"
	case TypeVocab:
		return "@vocab"
	case TypeJSON:
		return "@json"
	case TypeNone:
		return "@none"
	case TypeIRI:
		return t.IRI
	default:
		return ""
	}
}

// Nullable carries the explicit-null semantics JSON-LD gives @language,
// @direction, @id and friends: Present distinguishes "never set" from
// "set," and, when Present, IsNull distinguishes an explicit null (which
// shadows any inherited value) from an actual Value.
type Nullable[T any] struct {
	Present bool
	IsNull  bool
	Value   T
}

// Some wraps v as a present, non-null Nullable.
func Some[T any](v T) Nullable[T] { return Nullable[T]{Present: true, Value: v} }

// Null returns a present, explicitly-null Nullable.
func Null[T any]() Nullable[T] { return Nullable[T]{Present: true, IsNull: true} }

// Absent returns a Nullable that was never set.
func Absent[T any]() Nullable[T] { return Nullable[T]{} }

// Get returns (value, ok): ok is true only when Present and not IsNull.
func (n Nullable[T]) Get() (T, bool) {
	if n.Present && !n.IsNull {
		return n.Value, true
	}
	var zero T
	return zero, false
}
