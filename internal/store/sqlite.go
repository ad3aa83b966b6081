package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"hbrothers.com/concierge/internal/analytics"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS conversations (
        id TEXT PRIMARY KEY, -- UUID
        context_json TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS messages (
        id TEXT PRIMARY KEY, -- UUID
        conversation_id TEXT NOT NULL,
        sender TEXT NOT NULL CHECK (sender IN ('user', 'model')),
        content TEXT NOT NULL,
        timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
        menu_items_json TEXT,
        suggested_replies_json TEXT,
        FOREIGN KEY (conversation_id) REFERENCES conversations (id)
    );

    CREATE TABLE IF NOT EXISTS analytics_history (
        slot_key TEXT PRIMARY KEY,
        payload TEXT NOT NULL,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// Conversation methods

func (s *SQLiteStore) CreateConversation(contextJSON string) (*Conversation, error) {
	conversationID := uuid.NewString()
	stmt, err := s.db.Prepare("INSERT INTO conversations (id, context_json, created_at) VALUES (?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare conversation insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	if _, err = stmt.Exec(conversationID, contextJSON, now); err != nil {
		return nil, fmt.Errorf("failed to execute conversation insert: %w", err)
	}
	return &Conversation{ID: conversationID, ContextJSON: contextJSON, CreatedAt: now}, nil
}

func (s *SQLiteStore) GetConversationByID(conversationID string) (*Conversation, error) {
	var conv Conversation
	err := s.db.QueryRow("SELECT id, context_json, created_at FROM conversations WHERE id = ?", conversationID).
		Scan(&conv.ID, &conv.ContextJSON, &conv.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return &conv, nil
}

func (s *SQLiteStore) UpdateConversationContext(conversationID, contextJSON string) error {
	stmt, err := s.db.Prepare("UPDATE conversations SET context_json = ? WHERE id = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare context update: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(contextJSON, conversationID)
	if err != nil {
		return fmt.Errorf("failed to execute context update: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("conversation not found, context not updated")
	}
	return nil
}

// Message methods

func (s *SQLiteStore) CreateMessage(msg *Message) error {
	msg.ID = uuid.NewString()
	msg.Timestamp = time.Now()

	menuItemsJSON, err := marshalOrNull(msg.MenuItems, len(msg.MenuItems) > 0)
	if err != nil {
		return fmt.Errorf("failed to marshal message menu items: %w", err)
	}
	suggestedJSON, err := marshalOrNull(msg.SuggestedReplies, len(msg.SuggestedReplies) > 0)
	if err != nil {
		return fmt.Errorf("failed to marshal message suggestions: %w", err)
	}

	stmt, err := s.db.Prepare("INSERT INTO messages (id, conversation_id, sender, content, timestamp, menu_items_json, suggested_replies_json) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare message insert: %w", err)
	}
	defer stmt.Close()

	if _, err = stmt.Exec(msg.ID, msg.ConversationID, msg.Sender, msg.Content, msg.Timestamp, menuItemsJSON, suggestedJSON); err != nil {
		return fmt.Errorf("failed to execute message insert: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetMessagesByConversationID(conversationID string, limit, offset int) ([]Message, error) {
	query := "SELECT id, conversation_id, sender, content, timestamp, menu_items_json, suggested_replies_json FROM messages WHERE conversation_id = ? ORDER BY timestamp ASC LIMIT ? OFFSET ?"
	rows, err := s.db.Query(query, conversationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var msg Message
		var menuItemsJSON, suggestedJSON sql.NullString
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Sender, &msg.Content, &msg.Timestamp, &menuItemsJSON, &suggestedJSON); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		if menuItemsJSON.Valid && menuItemsJSON.String != "" {
			if err := json.Unmarshal([]byte(menuItemsJSON.String), &msg.MenuItems); err != nil {
				log.Printf("Warning: corrupt menu_items_json on message %s: %v", msg.ID, err)
				msg.MenuItems = nil
			}
		}
		if suggestedJSON.Valid && suggestedJSON.String != "" {
			if err := json.Unmarshal([]byte(suggestedJSON.String), &msg.SuggestedReplies); err != nil {
				log.Printf("Warning: corrupt suggested_replies_json on message %s: %v", msg.ID, err)
				msg.SuggestedReplies = nil
			}
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func marshalOrNull(v any, present bool) (any, error) {
	if !present {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Analytics slot: a single keyed row holding the whole JSON-encoded session
// history, matching the wholesale read/write contract of analytics.Store.

type AnalyticsSlot struct {
	store *SQLiteStore
	key   string
}

func (s *SQLiteStore) AnalyticsSlot(key string) *AnalyticsSlot {
	if key == "" {
		key = analytics.DefaultHistoryKey
	}
	return &AnalyticsSlot{store: s, key: key}
}

func (a *AnalyticsSlot) Load() ([]analytics.Session, error) {
	var payload string
	err := a.store.db.QueryRow("SELECT payload FROM analytics_history WHERE slot_key = ?", a.key).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read analytics slot %s: %w", a.key, err)
	}

	var sessions []analytics.Session
	if err := json.Unmarshal([]byte(payload), &sessions); err != nil {
		return nil, fmt.Errorf("analytics slot %s holds corrupt JSON: %w", a.key, err)
	}
	return sessions, nil
}

func (a *AnalyticsSlot) Save(sessions []analytics.Session) error {
	data, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("failed to marshal session history: %w", err)
	}

	_, err = a.store.db.Exec(
		"INSERT INTO analytics_history (slot_key, payload, updated_at) VALUES (?, ?, ?) ON CONFLICT(slot_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at",
		a.key, string(data), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to write analytics slot %s: %w", a.key, err)
	}
	return nil
}
