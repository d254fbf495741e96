package session

import "sort"

// VisitedSet is a set of country names that remembers insertion order.
type VisitedSet struct {
	order []string
	index map[string]struct{}
}

// NewVisitedSet builds a set from names, dropping empty names and duplicates.
func NewVisitedSet(names ...string) *VisitedSet {
	s := &VisitedSet{index: make(map[string]struct{}, len(names))}
	for _, n := range names {
		s.Add(n)
	}
	return s
}

func (s *VisitedSet) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Add reports whether name was newly added.
func (s *VisitedSet) Add(name string) bool {
	if name == "" || s.Has(name) {
		return false
	}
	s.index[name] = struct{}{}
	s.order = append(s.order, name)
	return true
}

// Remove reports whether name was present.
func (s *VisitedSet) Remove(name string) bool {
	if !s.Has(name) {
		return false
	}
	delete(s.index, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *VisitedSet) Clear() {
	s.order = nil
	s.index = make(map[string]struct{})
}

func (s *VisitedSet) Len() int { return len(s.order) }

// Ordered returns a copy of the names in insertion order.
func (s *VisitedSet) Ordered() []string {
	return append([]string{}, s.order...)
}

// Sorted returns a copy of the names in alphabetical order.
func (s *VisitedSet) Sorted() []string {
	out := s.Ordered()
	sort.Strings(out)
	return out
}
