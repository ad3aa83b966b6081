package core

import (
	"strings"
	"time"

	"hbrothers.com/concierge/internal/menu"
)

// ChatMessage is one turn of a conversation as exchanged with clients.
type ChatMessage struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

// ConversationContext is the accumulated summary of one chat window:
// which items came up, which topics were asked about, how many turns so far.
// It is replaced on every turn, never mutated in place.
type ConversationContext struct {
	MentionedItems     []string  `json:"mentioned_items"`
	Preferences        []string  `json:"preferences"`
	AskedAboutHours    bool      `json:"asked_about_hours"`
	AskedAboutLocation bool      `json:"asked_about_location"`
	MessageCount       int       `json:"message_count"`
	SessionStart       time.Time `json:"session_start"`
}

func NewConversationContext(now time.Time) ConversationContext {
	return ConversationContext{
		MentionedItems: []string{},
		Preferences:    []string{},
		SessionStart:   now,
	}
}

// Keyword tables for intent detection. Matching is case-insensitive
// substring containment; swap the tables to change behavior without
// touching call sites.
var (
	hoursKeywords    = []string{"hour"}
	locationKeywords = []string{"where", "location"}
)

// UpdateContext returns a new context reflecting one completed turn.
// The message count always increments, topic flags are sticky once set,
// and catalog items named in the bot response are appended to
// MentionedItems in discovery order, de-duplicated.
func UpdateContext(ctx ConversationContext, userMessage, botResponse string, catalog *menu.Catalog) ConversationContext {
	next := ctx
	next.MentionedItems = append([]string{}, ctx.MentionedItems...)
	next.Preferences = append([]string{}, ctx.Preferences...)

	lower := strings.ToLower(userMessage)
	next.MessageCount++
	if containsAny(lower, hoursKeywords) {
		next.AskedAboutHours = true
	}
	if containsAny(lower, locationKeywords) {
		next.AskedAboutLocation = true
	}

	for _, item := range catalog.Detect(botResponse) {
		if !containsString(next.MentionedItems, item.Name) {
			next.MentionedItems = append(next.MentionedItems, item.Name)
		}
	}

	return next
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
