package content

import "slices"

// Store is an immutable, insertion-ordered collection of records of one kind.
// Insertion order is the only order: it drives sibling navigation, feed item
// order and sitemap enumeration.
type Store[T Record] struct {
	name    string
	records []T
}

// NewStore copies records into a new store.
func NewStore[T Record](name string, records []T) *Store[T] {
	return &Store[T]{name: name, records: slices.Clone(records)}
}

// Name returns the store name (blog, projects or team).
func (s *Store[T]) Name() string { return s.name }

// Len returns the number of records.
func (s *Store[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// All returns a copy of the records in insertion order.
func (s *Store[T]) All() []T {
	if s == nil {
		return nil
	}
	return slices.Clone(s.records)
}

// IDs returns record identifiers in insertion order. Duplicates are kept.
func (s *Store[T]) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, len(s.records))
	for i, r := range s.records {
		ids[i] = r.RecordID()
	}
	return ids
}

// Resolve returns the first record whose id equals id exactly (case-sensitive).
func (s *Store[T]) Resolve(id string) (T, bool) {
	if i := s.index(id); i >= 0 {
		return s.records[i], true
	}
	var zero T
	return zero, false
}

// Siblings holds the insertion-order neighbours of a record.
// A nil pointer means there is no neighbour on that side.
type Siblings[T Record] struct {
	Previous *T
	Next     *T
}

// Siblings returns the predecessor and successor of id. Both are nil when id
// is not in the store.
func (s *Store[T]) Siblings(id string) Siblings[T] {
	var sib Siblings[T]
	i := s.index(id)
	if i < 0 {
		return sib
	}
	if i > 0 {
		prev := s.records[i-1]
		sib.Previous = &prev
	}
	if i < len(s.records)-1 {
		next := s.records[i+1]
		sib.Next = &next
	}
	return sib
}

func (s *Store[T]) index(id string) int {
	if s == nil {
		return -1
	}
	return slices.IndexFunc(s.records, func(r T) bool { return r.RecordID() == id })
}
