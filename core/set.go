package core

// Set is a generic unordered collection of unique items.
type Set[T comparable] map[T]struct{}

// NewSet creates a set seeded with the provided items.
func NewSet[T comparable](items ...T) Set[T] {
	s := make(Set[T], len(items))
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// ToSet builds a set from a slice.
func ToSet[T comparable](items []T) Set[T] {
	return NewSet(items...)
}

func (s Set[T]) Add(item T) {
	s[item] = struct{}{}
}

func (s Set[T]) Contains(item T) bool {
	_, ok := s[item]
	return ok
}

func (s Set[T]) IsEmpty() bool {
	return len(s) == 0
}

func (s Set[T]) ToArray() []T {
	r := make([]T, 0, len(s))
	for item := range s {
		r = append(r, item)
	}
	return r
}
