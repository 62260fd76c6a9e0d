// Package search implements the rider's search-as-you-type place lookup: a
// debounced, cancellable query against the geocoding service where only the
// most recently issued query's results ever become visible.
package search

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Vikrant465/booking-service/internal/domain/ride"
	"github.com/Vikrant465/booking-service/internal/geo"
	"go.uber.org/zap"
)

// DefaultQuietWindow is the debounce window between keystrokes.
const DefaultQuietWindow = 500 * time.Millisecond

// Result is the visible outcome of the latest search.
type Result struct {
	Query      string                `json:"query"`
	Candidates []ride.PlaceCandidate `json:"candidates"`
	// Err is the reported geocoding failure, if any. A failed search shows
	// empty candidates plus this notice; it never faults the caller.
	Err error `json:"-"`
}

// Searcher debounces free-text queries and resolves them through the geocoding
// service. Queries are ordered by an issuance sequence number: a stale
// response arriving after a newer one is discarded, so completion order never
// decides what the rider sees.
type Searcher struct {
	geocoder geo.Geocoder
	quiet    time.Duration
	logger   *zap.Logger

	seq uint64 // last issued query sequence

	mu         sync.Mutex
	visibleSeq uint64
	visible    Result
}

// NewSearcher creates a Searcher with the given debounce window. A zero quiet
// window disables debouncing (useful in tests).
func NewSearcher(geocoder geo.Geocoder, quiet time.Duration, logger *zap.Logger) *Searcher {
	return &Searcher{
		geocoder: geocoder,
		quiet:    quiet,
		logger:   logger,
	}
}

// Search issues a query. It blocks through the quiet window and the geocoding
// call, then returns the candidates that became visible. Calling again
// restarts the search; the superseded call returns the newer visible result.
//
// Whitespace-only text clears the visible results without contacting the
// geocoding service.
func (s *Searcher) Search(ctx context.Context, text string) (Result, error) {
	query := strings.TrimSpace(text)
	seq := atomic.AddUint64(&s.seq, 1)

	if query == "" {
		s.apply(seq, Result{})
		return s.Visible(), nil
	}

	if s.quiet > 0 {
		timer := time.NewTimer(s.quiet)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return s.Visible(), ctx.Err()
		case <-timer.C:
		}
	}

	// A newer keystroke arrived during the quiet window; skip the service
	// call entirely.
	if atomic.LoadUint64(&s.seq) != seq {
		return s.Visible(), nil
	}

	candidates, err := s.geocoder.ForwardSearch(ctx, query)
	if err != nil {
		s.logger.Warn("place search failed",
			zap.String("query", query),
			zap.Error(err),
		)
		s.apply(seq, Result{Query: query, Err: err})
		return s.Visible(), nil
	}

	s.apply(seq, Result{Query: query, Candidates: candidates})
	return s.Visible(), nil
}

// Visible returns the result set currently shown to the rider.
func (s *Searcher) Visible() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// apply installs a result only if no newer query has already published one.
// Last writer by issuance order wins, not by completion order.
func (s *Searcher) apply(seq uint64, r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.visibleSeq {
		return
	}
	s.visibleSeq = seq
	s.visible = r
}
