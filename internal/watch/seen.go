package watch

// SeenSet tracks listing identifiers that have already been through the
// pipeline, enforcing at most one alert attempt per identifier. It is not safe
// for concurrent use; the watcher is its only mutator.
//
// With capacity 0 the set grows for the life of the process. A positive
// capacity bounds memory on long runs by evicting the oldest identifiers
// first, trading away the strict lifetime guarantee for listings older than
// the window.
type SeenSet struct {
	ids      map[int64]struct{}
	order    []int64
	capacity int
}

// NewSeenSet creates a SeenSet. capacity <= 0 means unbounded.
func NewSeenSet(capacity int) *SeenSet {
	return &SeenSet{
		ids:      make(map[int64]struct{}),
		capacity: capacity,
	}
}

// Admit marks id as seen and reports whether it was new. A false return means
// the caller must skip the listing.
func (s *SeenSet) Admit(id int64) bool {
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	if s.capacity > 0 {
		s.order = append(s.order, id)
		if len(s.order) > s.capacity {
			evicted := s.order[0]
			s.order = s.order[1:]
			delete(s.ids, evicted)
		}
	}
	return true
}

// Len returns the number of tracked identifiers.
func (s *SeenSet) Len() int {
	return len(s.ids)
}
