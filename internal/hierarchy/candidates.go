package hierarchy

// CandidateSet is the set of contracts an implementation transitively
// satisfies. Members are erased identifiers; insertion order is kept only so
// that messages and logs are stable.
type CandidateSet struct {
	order   []string
	members map[string]struct{}
}

// NewCandidateSet returns a set holding the given identifiers, erased.
func NewCandidateSet(ids ...string) CandidateSet {
	var s CandidateSet
	for _, id := range ids {
		s.add(Erase(id))
	}
	return s
}

func (s *CandidateSet) add(id string) {
	if id == "" {
		return
	}
	if s.members == nil {
		s.members = make(map[string]struct{})
	}
	if _, ok := s.members[id]; ok {
		return
	}
	s.members[id] = struct{}{}
	s.order = append(s.order, id)
}

// Contains reports whether id (erased) is a member.
func (s CandidateSet) Contains(id string) bool {
	_, ok := s.members[Erase(id)]
	return ok
}

// Len returns the number of members.
func (s CandidateSet) Len() int {
	return len(s.order)
}

// Members returns a copy of the members in discovery order.
func (s CandidateSet) Members() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
