package wizard

import "sync"

// inFlightGuard tracks operations that must not overlap per session. acquire
// returns false while the same key is already held.
type inFlightGuard struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func newInFlightGuard() *inFlightGuard {
	return &inFlightGuard{held: make(map[string]struct{})}
}

func (g *inFlightGuard) acquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.held[key]; ok {
		return false
	}
	g.held[key] = struct{}{}
	return true
}

func (g *inFlightGuard) release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, key)
}

func sendKey(sessionID string) string         { return "send:" + sessionID }
func submitKey(sessionID string) string       { return "submit:" + sessionID }
func verifyKey(sessionID, code string) string { return "verify:" + sessionID + ":" + code }

// searcherSet hands out the per-session address searcher.
type searcherSet struct {
	mu       sync.Mutex
	searches map[string]*searcher
}

func newSearcherSet() *searcherSet {
	return &searcherSet{searches: make(map[string]*searcher)}
}

func (s *searcherSet) forSession(sessionID string) *searcher {
	s.mu.Lock()
	defer s.mu.Unlock()
	sr, ok := s.searches[sessionID]
	if !ok {
		sr = &searcher{}
		s.searches[sessionID] = sr
	}
	return sr
}

func (s *searcherSet) drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.searches, sessionID)
}
