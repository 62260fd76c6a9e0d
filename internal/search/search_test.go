package search

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Vikrant465/booking-service/internal/domain"
	"github.com/Vikrant465/booking-service/internal/domain/ride"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeGeocoder serves canned candidates per query, optionally holding a
// response until released so tests can force out-of-order completion.
type fakeGeocoder struct {
	mu      sync.Mutex
	results map[string][]ride.PlaceCandidate
	errs    map[string]error
	holds   map[string]chan struct{}
	calls   []string
}

func newFakeGeocoder() *fakeGeocoder {
	return &fakeGeocoder{
		results: make(map[string][]ride.PlaceCandidate),
		errs:    make(map[string]error),
		holds:   make(map[string]chan struct{}),
	}
}

func (f *fakeGeocoder) ForwardSearch(ctx context.Context, query string) ([]ride.PlaceCandidate, error) {
	f.mu.Lock()
	f.calls = append(f.calls, query)
	hold := f.holds[query]
	res := f.results[query]
	err := f.errs[query]
	f.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return res, err
}

func (f *fakeGeocoder) ReverseSearch(ctx context.Context, coords ride.Coordinates) (*ride.PlaceCandidate, error) {
	return nil, nil
}

func (f *fakeGeocoder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func candidatesNamed(names ...string) []ride.PlaceCandidate {
	out := make([]ride.PlaceCandidate, len(names))
	for i, n := range names {
		out[i] = ride.PlaceCandidate{ID: n, DisplayName: n, ShortName: n}
	}
	return out
}

func TestSearchReturnsCandidates(t *testing.T) {
	g := newFakeGeocoder()
	g.results["delhi"] = candidatesNamed("Delhi", "Delhi Cantonment")
	s := NewSearcher(g, 0, zap.NewNop())

	res, err := s.Search(context.Background(), "delhi")
	require.NoError(t, err)
	require.Len(t, res.Candidates, 2)
	assert.Equal(t, "Delhi", res.Candidates[0].DisplayName)
}

func TestSearchBlankQuerySkipsService(t *testing.T) {
	g := newFakeGeocoder()
	s := NewSearcher(g, 0, zap.NewNop())

	res, err := s.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, res.Candidates)
	assert.Zero(t, g.callCount())
}

func TestSearchBlankQueryClearsVisible(t *testing.T) {
	g := newFakeGeocoder()
	g.results["delhi"] = candidatesNamed("Delhi")
	s := NewSearcher(g, 0, zap.NewNop())

	_, err := s.Search(context.Background(), "delhi")
	require.NoError(t, err)
	require.NotEmpty(t, s.Visible().Candidates)

	_, err = s.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, s.Visible().Candidates)
}

func TestSearchFailureShowsEmptyPlusNotice(t *testing.T) {
	g := newFakeGeocoder()
	g.errs["xyz123nowhereplace"] = domain.NewServiceUnavailableError("geocoding service", assert.AnError)
	s := NewSearcher(g, 0, zap.NewNop())

	res, err := s.Search(context.Background(), "xyz123nowhereplace")
	require.NoError(t, err, "service failure must not fault the caller")
	assert.Empty(t, res.Candidates)
	assert.True(t, domain.IsCode(res.Err, domain.CodeServiceUnavailable))
}

func TestSearchEmptyResultsIsNotAnError(t *testing.T) {
	g := newFakeGeocoder()
	g.results["xyz123nowhereplace"] = nil
	s := NewSearcher(g, 0, zap.NewNop())

	res, err := s.Search(context.Background(), "xyz123nowhereplace")
	require.NoError(t, err)
	assert.Empty(t, res.Candidates)
	assert.NoError(t, res.Err)
}

func TestStaleResponseNeverOverwritesNewer(t *testing.T) {
	g := newFakeGeocoder()
	g.results["conn"] = candidatesNamed("Connecticut")
	g.results["connaught"] = candidatesNamed("Connaught Place")
	release := make(chan struct{})
	g.holds["conn"] = release

	s := NewSearcher(g, 0, zap.NewNop())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = s.Search(context.Background(), "conn") // stuck until released
	}()

	// Wait for the first query to reach the geocoder, then issue the newer
	// one, which completes immediately.
	require.Eventually(t, func() bool { return g.callCount() == 1 }, time.Second, time.Millisecond)
	_, err := s.Search(context.Background(), "connaught")
	require.NoError(t, err)
	require.Equal(t, "Connaught Place", s.Visible().Candidates[0].DisplayName)

	// Now let the stale response land. It must be discarded.
	close(release)
	wg.Wait()

	assert.Equal(t, "Connaught Place", s.Visible().Candidates[0].DisplayName,
		"stale response must not overwrite newer results")
}

func TestDebounceSuppressesSupersededQuery(t *testing.T) {
	g := newFakeGeocoder()
	g.results["paharganj"] = candidatesNamed("Paharganj")
	s := NewSearcher(g, 40*time.Millisecond, zap.NewNop())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = s.Search(context.Background(), "pahar")
	}()

	// Supersede within the quiet window, once the first query has been issued.
	require.Eventually(t, func() bool { return atomic.LoadUint64(&s.seq) == 1 }, time.Second, time.Millisecond)
	_, err := s.Search(context.Background(), "paharganj")
	require.NoError(t, err)
	wg.Wait()

	// Only the newest query should have hit the geocoding service.
	assert.Equal(t, 1, g.callCount())
	assert.Equal(t, "Paharganj", s.Visible().Candidates[0].DisplayName)
}

func TestSearchContextCancelledDuringQuiet(t *testing.T) {
	g := newFakeGeocoder()
	s := NewSearcher(g, time.Minute, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Search(ctx, "delhi")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, g.callCount())
}
