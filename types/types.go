// Package types is the top level directory for the basic types used across
// the schema engine. See sub-package `shapes` for the tensor-shape descriptor.
//
// This package also provides the type: Set.
package types

// Set implements a Set for the key type T.
//
// The schema package uses it for set-valued cardinality rules ("this operator
// takes 2 or 4 inputs") and for explicit in-place index pairs.
type Set[T comparable] map[T]struct{}

// MakeSet returns an empty Set of the given type. Size is optional, and if given
// will reserve the expected size.
func MakeSet[T comparable](size ...int) Set[T] {
	if len(size) == 0 {
		return make(Set[T])
	}
	return make(Set[T], size[0])
}

// SetWith creates a Set[T] with the given elements inserted.
func SetWith[T comparable](elements ...T) Set[T] {
	s := MakeSet[T](len(elements))
	s.Insert(elements...)
	return s
}

// Has returns true if Set s has the given key.
func (s Set[T]) Has(key T) bool {
	_, found := s[key]
	return found
}

// Insert keys into set.
func (s Set[T]) Insert(keys ...T) {
	for _, key := range keys {
		s[key] = struct{}{}
	}
}
