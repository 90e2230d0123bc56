package ld

// Indexed wraps a value of type T together with the optional @index entry
// JSON-LD attaches to list entries and node/value objects inside an
// @index-keyed map.
type Indexed[T any] struct {
	Value    T
	Index    string
	HasIndex bool
}

// NewIndexed wraps v with no @index.
func NewIndexed[T any](v T) Indexed[T] { return Indexed[T]{Value: v} }

// WithIndex wraps v with the given @index value.
func WithIndex[T any](v T, index string) Indexed[T] {
	return Indexed[T]{Value: v, Index: index, HasIndex: true}
}
