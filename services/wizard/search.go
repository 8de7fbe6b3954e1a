package wizard

import (
	"context"
	"strings"
	"sync"
	"time"
)

const minSearchRunes = 3

// searcher serializes the address autocomplete for one session. Every new
// query bumps the generation; an in-flight lookup whose generation is no
// longer current discards its results instead of racing a newer one.
type searcher struct {
	mu       sync.Mutex
	gen      uint64
	suppress string
}

// begin registers a new query and returns its generation token.
func (s *searcher) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

// current reports whether gen is still the newest query.
func (s *searcher) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen == gen
}

// markSelected arms one-shot suppression for the query text a selection just
// filled in, so the echo of that selection does not trigger a fresh search.
func (s *searcher) markSelected(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suppress = strings.TrimSpace(query)
}

// consumeSuppression reports whether query matches the armed suppression and
// clears it either way.
func (s *searcher) consumeSuppression(query string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	suppressed := s.suppress != "" && s.suppress == strings.TrimSpace(query)
	s.suppress = ""
	return suppressed
}

// debounce waits out the quiet period for gen. It returns false when the
// context was cancelled or a newer query superseded this one while waiting.
func (s *searcher) debounce(ctx context.Context, gen uint64, d time.Duration) bool {
	if d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return false
		case <-t.C:
		}
	}
	return s.current(gen)
}

// searchable reports whether a raw query is long enough to dispatch, after
// trimming surrounding whitespace.
func searchable(query string) bool {
	return len([]rune(strings.TrimSpace(query))) >= minSearchRunes
}
