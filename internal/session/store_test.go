package session

import (
	"testing"
	"time"

	"github.com/Vikrant465/booking-service/internal/domain"
	"github.com/Vikrant465/booking-service/internal/geo"
	"github.com/Vikrant465/booking-service/internal/search"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSearcher() *search.Searcher {
	return search.NewSearcher(nil, time.Millisecond, zap.NewNop())
}

func TestCreateAndGet(t *testing.T) {
	store := NewStore()
	riderID := uuid.New()

	sess := store.Create(riderID, newTestSearcher)
	require.NotNil(t, sess)
	assert.Equal(t, riderID, sess.RiderID)
	assert.NotNil(t, sess.Draft)
	assert.NotNil(t, sess.View)
	assert.Equal(t, 1, store.Len())

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)
}

func TestGetUnknownSession(t *testing.T) {
	store := NewStore()

	_, err := store.Get(uuid.New())
	require.Error(t, err)
	assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err))
}

type recordingCountdown struct {
	cancelled bool
}

func (c *recordingCountdown) Remaining() int { return 0 }
func (c *recordingCountdown) Cancel()        { c.cancelled = true }

func TestDeleteCancelsCountdown(t *testing.T) {
	store := NewStore()
	sess := store.Create(uuid.New(), newTestSearcher)

	countdown := &recordingCountdown{}
	sess.Mu.Lock()
	sess.Dispatch = countdown
	sess.Mu.Unlock()

	store.Delete(sess.ID)

	assert.True(t, countdown.cancelled)
	assert.Equal(t, 0, store.Len())

	_, err := store.Get(sess.ID)
	require.Error(t, err)
}

func TestDeleteUnknownSessionIsNoop(t *testing.T) {
	store := NewStore()
	store.Delete(uuid.New())
	assert.Equal(t, 0, store.Len())
}
