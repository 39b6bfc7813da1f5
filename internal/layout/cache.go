package layout

// SideCache remembers the side each dimension label was last drawn on, keyed
// by annotation id. It lives for one editing session and is never persisted.
type SideCache struct {
	sides map[string]int
}

// NewSideCache returns an empty cache.
func NewSideCache() *SideCache {
	return &SideCache{sides: make(map[string]int)}
}

// Get returns the cached side for id.
func (c *SideCache) Get(id string) (int, bool) {
	side, ok := c.sides[id]
	return side, ok
}

// Set records the side used for id. A zero side removes the entry.
func (c *SideCache) Set(id string, side int) {
	if side == 0 {
		delete(c.sides, id)
		return
	}
	c.sides[id] = resolveSide(side, side)
}

// Delete forgets id, typically after the annotation is removed.
func (c *SideCache) Delete(id string) {
	delete(c.sides, id)
}

// Clear forgets every id, typically when a different photo is opened.
func (c *SideCache) Clear() {
	c.sides = make(map[string]int)
}

// Len returns the number of cached ids.
func (c *SideCache) Len() int {
	return len(c.sides)
}

// Session lays out dimension labels for one editing session, feeding each
// annotation's previous side back in as its preference.
//
// Session is not safe for concurrent use.
type Session struct {
	cache    *SideCache
	measurer TextMeasurer
	opts     Options
}

// NewSession creates a session. A nil measurer selects DefaultApproxMeasurer.
func NewSession(m TextMeasurer, opts Options) *Session {
	if m == nil {
		m = DefaultApproxMeasurer
	}
	return &Session{cache: NewSideCache(), measurer: m, opts: opts}
}

// Cache exposes the session's side cache.
func (s *Session) Cache() *SideCache {
	return s.cache
}

// Options returns the layout constants in use.
func (s *Session) Options() Options {
	return s.opts
}

// Layout computes the layout for the annotation id. A cached side overrides
// in.PreferredSide; the side actually used is cached for the next call. An
// empty id is laid out without touching the cache.
func (s *Session) Layout(id string, in Input) Result {
	if side, ok := s.cache.Get(id); ok && id != "" {
		in.PreferredSide = side
	}
	res := Compute(in, s.measurer, s.opts)
	if id != "" {
		s.cache.Set(id, res.UsedSideSign)
	}
	return res
}
