package predicate

// Set is an insertion-ordered collection of conditions that silently drops
// structural duplicates.
type Set struct {
	items []Condition
	seen  map[string]struct{}
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{seen: make(map[string]struct{})}
}

// Add appends c unless a structurally equal condition is already present.
// It reports whether c was added.
func (s *Set) Add(c Condition) bool {
	key := c.Key()
	if _, dup := s.seen[key]; dup {
		return false
	}
	s.seen[key] = struct{}{}
	s.items = append(s.items, c)
	return true
}

// Len returns the number of distinct conditions.
func (s *Set) Len() int { return len(s.items) }

// Conditions returns the conditions in insertion order.
func (s *Set) Conditions() []Condition { return copyConditions(s.items) }
