// Package analytics records chat sessions: a per-conversation Recorder
// accumulates events while a session is open, then flushes an immutable
// snapshot into a bounded persisted history on close.
package analytics

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// HistoryCap bounds the persisted session history; the oldest entries are
// evicted first.
const HistoryCap = 100

// Session is one open-to-close interval of chat widget use.
type Session struct {
	SessionID        string     `json:"session_id"`
	StartTime        time.Time  `json:"start_time"`
	EndTime          *time.Time `json:"end_time,omitempty"`
	MessageCount     int        `json:"message_count"`
	QuestionsAsked   []string   `json:"questions_asked"`
	MenuItemsViewed  []string   `json:"menu_items_viewed"`
	QuickActionsUsed []string   `json:"quick_actions_used"`
	OrderLinkClicked bool       `json:"order_link_clicked"`
	FeedbackRating   *int       `json:"feedback_rating,omitempty"`
	FeedbackComment  string     `json:"feedback_comment,omitempty"`
}

// newSessionID returns an identifier unique with overwhelming probability:
// a ULID carries a millisecond timestamp plus 80 bits of randomness.
func newSessionID() string {
	return ulid.Make().String()
}

// Store persists the bounded session history as a single slot holding the
// whole JSON-encoded array, read and written wholesale.
type Store interface {
	Load() ([]Session, error)
	Save(sessions []Session) error
}
