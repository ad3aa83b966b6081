package store

import (
	"time"

	"hbrothers.com/concierge/internal/menu"
)

// Conversation is one chat window's server-side record. ContextJSON carries
// the serialized conversation context so a window survives restarts.
type Conversation struct {
	ID          string    `json:"id"` // UUID
	CreatedAt   time.Time `json:"created_at"`
	ContextJSON string    `json:"-"`
}

type Message struct {
	ID               string      `json:"id"` // UUID
	ConversationID   string      `json:"conversation_id"`
	Sender           string      `json:"sender"` // "user" or "model"
	Content          string      `json:"content"`
	Timestamp        time.Time   `json:"timestamp"`
	MenuItems        []menu.Item `json:"menu_items,omitempty"`
	SuggestedReplies []string    `json:"suggested_replies,omitempty"`
}
