package analytics

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu       sync.Mutex
	sessions []Session
	loadErr  error
	saveErr  error
}

func (m *memStore) Load() ([]Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]Session(nil), m.sessions...), nil
}

func (m *memStore) Save(sessions []Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.sessions = append([]Session(nil), sessions...)
	return nil
}

func TestEmptySessionPersistsZeroedSnapshot(t *testing.T) {
	store := &memStore{}
	r := NewRecorder(store, nil)

	r.StartSession()
	r.EndSession()

	require.Len(t, store.sessions, 1)
	got := store.sessions[0]
	assert.NotEmpty(t, got.SessionID)
	assert.Equal(t, 0, got.MessageCount)
	assert.False(t, got.OrderLinkClicked)
	assert.Empty(t, got.QuestionsAsked)
	require.NotNil(t, got.EndTime)
	assert.False(t, got.EndTime.Before(got.StartTime))
}

func TestHistoryCapEvictsOldestFirst(t *testing.T) {
	store := &memStore{}
	r := NewRecorder(store, nil)

	var ids []string
	for i := 0; i < HistoryCap+1; i++ {
		s := r.StartSession()
		ids = append(ids, s.SessionID)
		r.EndSession()
	}

	require.Len(t, store.sessions, HistoryCap)
	// The very first session is gone; everything else survives in order.
	assert.Equal(t, ids[1], store.sessions[0].SessionID)
	assert.Equal(t, ids[len(ids)-1], store.sessions[HistoryCap-1].SessionID)
}

func TestTrackMessageOnlyCountsUserMessages(t *testing.T) {
	r := NewRecorder(&memStore{}, nil)
	r.StartSession()

	r.TrackMessage("what are your hours?", true)
	r.TrackMessage("We're open Tue-Sat!", false)
	r.TrackMessage("and where are you?", true)

	sess, ok := r.Session()
	require.True(t, ok)
	assert.Equal(t, 2, sess.MessageCount)
	assert.Equal(t, []string{"what are your hours?", "and where are you?"}, sess.QuestionsAsked)
}

func TestTrackMessageImplicitlyOpensSession(t *testing.T) {
	r := NewRecorder(&memStore{}, nil)

	r.TrackMessage("hello", true)

	sess, ok := r.Session()
	require.True(t, ok)
	assert.Equal(t, 1, sess.MessageCount)
}

func TestTrackMenuItemViewDeduplicates(t *testing.T) {
	r := NewRecorder(&memStore{}, nil)
	r.StartSession()

	r.TrackMenuItemView("burger")
	r.TrackMenuItemView("burger")
	r.TrackMenuItemView("fries")

	sess, _ := r.Session()
	assert.Equal(t, []string{"burger", "fries"}, sess.MenuItemsViewed)
}

func TestTrackQuickActionKeepsDuplicates(t *testing.T) {
	r := NewRecorder(&memStore{}, nil)
	r.StartSession()

	r.TrackQuickAction("see-menu")
	r.TrackQuickAction("see-menu")

	sess, _ := r.Session()
	assert.Equal(t, []string{"see-menu", "see-menu"}, sess.QuickActionsUsed)
}

func TestTrackOrderClickIsIdempotent(t *testing.T) {
	r := NewRecorder(&memStore{}, nil)
	r.StartSession()

	r.TrackOrderClick()
	r.TrackOrderClick()

	sess, _ := r.Session()
	assert.True(t, sess.OrderLinkClicked)
}

func TestTrackFeedbackDoesNotOpenSession(t *testing.T) {
	r := NewRecorder(&memStore{}, nil)

	// Closed: feedback is dropped, no session appears.
	r.TrackFeedback(5, "great")
	_, ok := r.Session()
	assert.False(t, ok)

	// Open: feedback sticks, and a later call overwrites.
	r.StartSession()
	r.TrackFeedback(3, "fine")
	r.TrackFeedback(4, "better")

	sess, ok := r.Session()
	require.True(t, ok)
	require.NotNil(t, sess.FeedbackRating)
	assert.Equal(t, 4, *sess.FeedbackRating)
	assert.Equal(t, "better", sess.FeedbackComment)
}

func TestEndSessionTwiceIsNoop(t *testing.T) {
	store := &memStore{}
	r := NewRecorder(store, nil)

	r.StartSession()
	r.EndSession()
	r.EndSession()

	assert.Len(t, store.sessions, 1)
	_, ok := r.Session()
	assert.False(t, ok)
}

func TestStartSessionReplacesOpenSessionWithoutFlushing(t *testing.T) {
	store := &memStore{}
	r := NewRecorder(store, nil)

	first := r.StartSession()
	r.TrackMessage("lost message", true)
	second := r.StartSession()
	r.EndSession()

	assert.NotEqual(t, first.SessionID, second.SessionID)
	require.Len(t, store.sessions, 1)
	assert.Equal(t, second.SessionID, store.sessions[0].SessionID)
	assert.Equal(t, 0, store.sessions[0].MessageCount)
}

func TestEndSessionSwallowsStoreFailures(t *testing.T) {
	store := &memStore{loadErr: errors.New("slot unreadable"), saveErr: errors.New("slot full")}
	r := NewRecorder(store, nil)

	r.StartSession()
	r.EndSession() // must not panic or propagate

	_, ok := r.Session()
	assert.False(t, ok)
}
