package analytics

import (
	"context"
	"log"
	"sync"
	"time"
)

// historyMu serializes the read-modify-write of the shared history slot
// across recorders within this process. Cross-process writers are not
// coordinated; the slot is last-writer-wins.
var historyMu sync.Mutex

// Recorder tracks at most one open session. Each chat window owns its own
// Recorder; all recorders of a process share one Store and one Sink.
//
// Most tracking calls self-open a session when none is open. TrackFeedback
// deliberately does not; see its comment.
type Recorder struct {
	store Store
	sink  Sink

	mu      sync.Mutex
	current *Session
}

func NewRecorder(store Store, sink Sink) *Recorder {
	if sink == nil {
		sink = NopSink{}
	}
	return &Recorder{store: store, sink: sink}
}

// StartSession opens a fresh session. Calling it while a session is already
// open silently replaces that session without flushing it.
func (r *Recorder) StartSession() Session {
	r.mu.Lock()
	r.current = freshSession()
	snap := *r.current
	r.mu.Unlock()

	r.emit("chat_session_start", nil)
	return snap
}

// Session returns a snapshot of the current session, or false if none is open.
func (r *Recorder) Session() (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return Session{}, false
	}
	return *r.current, true
}

// TrackMessage records a user question. Model messages open a session if
// needed but are otherwise ignored.
func (r *Recorder) TrackMessage(text string, isUser bool) {
	r.mu.Lock()
	opened := r.ensureOpenLocked()
	if !isUser {
		r.mu.Unlock()
		if opened {
			r.emit("chat_session_start", nil)
		}
		return
	}
	r.current.MessageCount++
	r.current.QuestionsAsked = append(r.current.QuestionsAsked, text)
	r.mu.Unlock()

	if opened {
		r.emit("chat_session_start", nil)
	}
	r.emit("chat_interaction", map[string]any{
		"event_category": "Chat",
		"event_label":    "User Question",
		"message_length": len(text),
	})
}

// TrackMenuItemView records a viewed item once per session, preserving
// first-view order.
func (r *Recorder) TrackMenuItemView(itemID string) {
	r.mu.Lock()
	opened := r.ensureOpenLocked()
	seen := containsString(r.current.MenuItemsViewed, itemID)
	if !seen {
		r.current.MenuItemsViewed = append(r.current.MenuItemsViewed, itemID)
	}
	r.mu.Unlock()

	if opened {
		r.emit("chat_session_start", nil)
	}
	if !seen {
		r.emit("view_item", map[string]any{
			"currency": "USD",
			"items":    []map[string]any{{"item_name": itemID}},
		})
	}
}

// TrackQuickAction records a quick-action use; duplicates are kept.
func (r *Recorder) TrackQuickAction(actionID string) {
	r.mu.Lock()
	opened := r.ensureOpenLocked()
	r.current.QuickActionsUsed = append(r.current.QuickActionsUsed, actionID)
	r.mu.Unlock()

	if opened {
		r.emit("chat_session_start", nil)
	}
	r.emit("select_content", map[string]any{
		"content_type": "quick_action",
		"item_id":      actionID,
	})
}

// TrackOrderClick marks the session as having reached the order link.
// Idempotent on the session flag.
func (r *Recorder) TrackOrderClick() {
	r.mu.Lock()
	opened := r.ensureOpenLocked()
	r.current.OrderLinkClicked = true
	r.mu.Unlock()

	if opened {
		r.emit("chat_session_start", nil)
	}
	r.emit("begin_checkout", map[string]any{"method": "external_link"})
}

// TrackFeedback attaches a rating (and optional comment) to the current
// session, overwriting any prior one. Unlike the other tracking calls it
// does NOT self-open: feedback with no active session has nothing to attach
// to and is dropped.
func (r *Recorder) TrackFeedback(rating int, comment string) {
	r.mu.Lock()
	if r.current == nil {
		r.mu.Unlock()
		return
	}
	rt := rating
	r.current.FeedbackRating = &rt
	r.current.FeedbackComment = comment
	r.mu.Unlock()

	r.emit("post_score", map[string]any{"score": rating})
}

// EndSession stamps the end time, appends a snapshot to the persisted
// history (evicting past HistoryCap) and closes the session. No-op when no
// session is open; persistence failures are logged as value loss and never
// surface to the caller.
func (r *Recorder) EndSession() {
	r.mu.Lock()
	if r.current == nil {
		r.mu.Unlock()
		return
	}
	now := time.Now()
	r.current.EndTime = &now
	snap := *r.current
	r.current = nil
	r.mu.Unlock()

	historyMu.Lock()
	defer historyMu.Unlock()

	history, err := r.store.Load()
	if err != nil {
		log.Printf("analytics: could not load session history, starting fresh: %v", err)
		history = nil
	}
	history = appendCapped(history, snap)
	if err := r.store.Save(history); err != nil {
		log.Printf("analytics: session %s lost, history not persisted: %v", snap.SessionID, err)
	}
}

func (r *Recorder) ensureOpenLocked() bool {
	if r.current != nil {
		return false
	}
	r.current = freshSession()
	return true
}

func (r *Recorder) emit(name string, params map[string]any) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.sink.Publish(ctx, Event{Name: name, Params: params}); err != nil {
		log.Printf("analytics: event %q not delivered: %v", name, err)
	}
}

func freshSession() *Session {
	return &Session{
		SessionID:        newSessionID(),
		StartTime:        time.Now(),
		QuestionsAsked:   []string{},
		MenuItemsViewed:  []string{},
		QuickActionsUsed: []string{},
	}
}

func appendCapped(history []Session, s Session) []Session {
	history = append(history, s)
	if len(history) > HistoryCap {
		history = history[len(history)-HistoryCap:]
	}
	return history
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
