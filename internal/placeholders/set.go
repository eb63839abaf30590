package placeholders

import (
	"encoding/json"
	"slices"
)

// Set is an insertion-ordered set of placeholder names. The zero value is
// an empty set ready to use.
type Set struct {
	names []string
	index map[string]struct{}
}

func NewSet(names ...string) *Set {
	s := &Set{index: make(map[string]struct{})}
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts name unless it is already present.
func (s *Set) Add(name string) bool {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[name]; ok {
		return false
	}
	s.index[name] = struct{}{}
	s.names = append(s.names, name)
	return true
}

// Union adds every name of other, preserving other's order for new names.
func (s *Set) Union(other *Set) {
	if other == nil {
		return
	}
	for _, n := range other.names {
		s.Add(n)
	}
}

func (s *Set) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

func (s *Set) Len() int {
	return len(s.names)
}

// Names returns the names in order of first insertion.
func (s *Set) Names() []string {
	return slices.Clone(s.names)
}

func (s *Set) MarshalJSON() ([]byte, error) {
	if s == nil || s.names == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.names)
}
