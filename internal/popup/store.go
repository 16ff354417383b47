package popup

const pageSize = 64 * 1024

// page is one fixed-capacity buffer in the arena. Pages are chained newest
// first; bumping only ever appends to the head page.
type page struct {
	next *page
	data []byte
}

// Store is an append-only arena for the display strings built during one
// activation. Add copies text into the head page (or links in a fresh page
// when the remainder will not fit) and returns a handle aliasing the page's
// storage. Handles stay valid, at stable addresses, until Clear, which
// invalidates every handle at once. There is no per-string free: item
// lifetime always equals activation lifetime.
type Store struct {
	head  *page
	pages int
}

// Add copies text into the arena and returns its handle. The handle's
// capacity is pinned so appending to it cannot scribble on neighbors.
func (s *Store) Add(text string) []byte {
	need := len(text) + 1 // keep a terminator gap so handles never abut
	if s.head == nil || pageSize-len(s.head.data) < need {
		capacity := pageSize
		if need > capacity {
			capacity = need
		}
		s.head = &page{next: s.head, data: make([]byte, 0, capacity)}
		s.pages++
	}

	p := s.head
	off := len(p.data)
	p.data = append(p.data, text...)
	p.data = append(p.data, 0)
	return p.data[off : off+len(text) : off+len(text)]
}

// Clear releases every page. All previously returned handles become invalid
// simultaneously; this is the only invalidation point.
func (s *Store) Clear() {
	s.head = nil
	s.pages = 0
}

// PageCount reports how many pages the arena currently holds.
func (s *Store) PageCount() int {
	return s.pages
}
