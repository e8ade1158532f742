package seatmap

// Selection is the set of seat ids the user has tentatively picked.
// Members are unique and keep the order in which they were added, which
// is the order they are sent in the reservation request.
type Selection struct {
	ids     []uint64
	members map[uint64]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{members: make(map[uint64]struct{})}
}

// Toggle adds id when absent and removes it when present.  It returns
// true when id is a member afterwards.
func (s *Selection) Toggle(id uint64) bool {
	if s.Remove(id) {
		return false
	}
	s.members[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

// Remove drops id and reports whether it was a member.
func (s *Selection) Remove(id uint64) bool {
	if _, ok := s.members[id]; !ok {
		return false
	}
	delete(s.members, id)
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether id is selected.
func (s *Selection) Contains(id uint64) bool {
	_, ok := s.members[id]
	return ok
}

// IDs returns the selected ids in insertion order.
func (s *Selection) IDs() []uint64 {
	out := make([]uint64, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of selected seats.
func (s *Selection) Len() int { return len(s.ids) }

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = nil
	s.members = make(map[uint64]struct{})
}
