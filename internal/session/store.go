// Package session holds the per-rider booking sessions. A session lives only
// in memory: it is created when the rider opens the app and is gone after a
// process restart, reconstructed from stage-transfer parameters if the rider
// arrives mid-flow.
package session

import (
	"sync"

	"github.com/Vikrant465/booking-service/internal/domain"
	"github.com/Vikrant465/booking-service/internal/domain/ride"
	"github.com/Vikrant465/booking-service/internal/geo"
	"github.com/Vikrant465/booking-service/internal/search"
	"github.com/google/uuid"
)

// Session is one rider's live booking context: the draft, the map view state,
// and the rider's searcher. The mutex serializes externally delivered events
// so the draft only ever mutates one event at a time.
type Session struct {
	ID      uuid.UUID
	RiderID uuid.UUID

	Mu       sync.Mutex
	Draft    *ride.Draft
	View     *geo.ViewState
	Searcher *search.Searcher

	// PlanSeq orders route computations; only the latest plan may draw.
	PlanSeq uint64

	// Dispatch is the running countdown, if the draft is dispatching.
	Dispatch Countdown
}

// Countdown is what the session needs to know about a running dispatch
// countdown. Kept as a narrow interface so the store does not depend on the
// application layer.
type Countdown interface {
	Remaining() int
	Cancel()
}

// Store is an in-memory, mutex-guarded session registry.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[uuid.UUID]*Session)}
}

// Create registers a new session for a rider.
func (s *Store) Create(riderID uuid.UUID, newSearcher func() *search.Searcher) *Session {
	sess := &Session{
		ID:       uuid.New(),
		RiderID:  riderID,
		Draft:    ride.NewDraft(riderID),
		View:     geo.NewViewState(),
		Searcher: newSearcher(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get retrieves a session by ID.
func (s *Store) Get(id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.NewNotFoundError("Session", id.String())
	}
	return sess, nil
}

// Delete removes a session, cancelling any running countdown.
func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		sess.Mu.Lock()
		if sess.Dispatch != nil {
			sess.Dispatch.Cancel()
		}
		sess.Mu.Unlock()
	}
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
