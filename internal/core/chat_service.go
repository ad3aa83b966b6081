package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"hbrothers.com/concierge/internal/analytics"
	"hbrothers.com/concierge/internal/menu"
	"hbrothers.com/concierge/internal/store"
)

const systemPromptTemplate = `You are the %[1]s Concierge, a friendly AI assistant for %[1]s restaurant.

Location: %[2]s
Hours: %[3]s
Phone: %[4]s
Order online: %[5]s

IMPORTANT: When users ask to "see the menu" or "show me the menu", respond with:
"You can view our full menu and order online at %[5]s 🍔"

Menu items:
%[6]s

Keep responses short (1-3 sentences). Be friendly and helpful. Never make up menu items.`

const greetingTemplate = "Hi! 👋 Welcome to %s. How can I help you today?"

var greetingSuggestions = []string{"See the menu", "Check hours", "Order food"}

const transcriptLimit = 100

// Response is one model turn: the reply text plus the catalog items it
// mentions and the suggested follow-up prompts derived from it.
type Response struct {
	Text             string      `json:"text"`
	MenuItems        []menu.Item `json:"menu_items"`
	SuggestedReplies []string    `json:"suggested_replies"`
}

// ChatService orchestrates conversations: prompt assembly, the remote
// generation call, context tracking and analytics recording. Every failure
// on the response path degrades to a fixed "call us" reply; Respond never
// returns an error.
type ChatService struct {
	dbStore     *store.SQLiteStore
	gen         Generator // nil when no API credential is configured
	site        *menu.Site
	newRecorder func() *analytics.Recorder

	mu        sync.Mutex
	recorders map[string]*analytics.Recorder
}

func NewChatService(db *store.SQLiteStore, gen Generator, site *menu.Site, newRecorder func() *analytics.Recorder) *ChatService {
	return &ChatService{
		dbStore:     db,
		gen:         gen,
		site:        site,
		newRecorder: newRecorder,
		recorders:   make(map[string]*analytics.Recorder),
	}
}

// recorder returns the analytics recorder owned by the given conversation,
// creating one if the conversation has none yet (e.g. after a restart).
func (s *ChatService) recorder(conversationID string) *analytics.Recorder {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recorders[conversationID]
	if !ok {
		r = s.newRecorder()
		s.recorders[conversationID] = r
	}
	return r
}

// CreateConversation opens a chat window: a fresh context, the canned
// greeting, and a started analytics session.
func (s *ChatService) CreateConversation(ctx context.Context) (*store.Conversation, []store.Message, error) {
	_ = ctx

	contextJSON, err := json.Marshal(NewConversationContext(time.Now()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal initial context: %w", err)
	}

	conv, err := s.dbStore.CreateConversation(string(contextJSON))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create conversation in DB: %w", err)
	}

	greeting := store.Message{
		ConversationID:   conv.ID,
		Sender:           "model",
		Content:          fmt.Sprintf(greetingTemplate, s.site.Restaurant.Name),
		SuggestedReplies: append([]string{}, greetingSuggestions...),
	}
	if err := s.dbStore.CreateMessage(&greeting); err != nil {
		log.Printf("Failed to store greeting for new conversation %s: %v", conv.ID, err)
	}

	s.recorder(conv.ID).StartSession()

	return conv, []store.Message{greeting}, nil
}

// GetConversation returns the transcript and current context, or nils when
// the conversation does not exist.
func (s *ChatService) GetConversation(conversationID string) (*store.Conversation, []store.Message, *ConversationContext, error) {
	conv, err := s.dbStore.GetConversationByID(conversationID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	if conv == nil {
		return nil, nil, nil, nil // Not found
	}

	messages, err := s.dbStore.GetMessagesByConversationID(conversationID, transcriptLimit, 0)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get messages for conversation: %w", err)
	}

	convCtx := s.decodeContext(conv)
	return conv, messages, &convCtx, nil
}

// PostMessage stores the user turn, produces the model turn and advances the
// conversation context. The returned message carries detected menu items and
// suggested replies.
func (s *ChatService) PostMessage(ctx context.Context, conversationID, userContent string) (*store.Message, error) {
	conv, err := s.dbStore.GetConversationByID(conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify conversation: %w", err)
	}
	if conv == nil {
		return nil, fmt.Errorf("conversation not found")
	}

	convCtx := s.decodeContext(conv)

	userMsg := store.Message{
		ConversationID: conversationID,
		Sender:         "user",
		Content:        userContent,
	}
	if err := s.dbStore.CreateMessage(&userMsg); err != nil {
		return nil, fmt.Errorf("failed to store user message: %w", err)
	}

	rec := s.recorder(conversationID)
	rec.TrackMessage(userContent, true)

	history := s.transcriptHistory(conversationID)
	resp := s.Respond(ctx, history, userContent, convCtx)

	for _, item := range resp.MenuItems {
		rec.TrackMenuItemView(item.ID)
	}

	modelMsg := store.Message{
		ConversationID:   conversationID,
		Sender:           "model",
		Content:          resp.Text,
		MenuItems:        resp.MenuItems,
		SuggestedReplies: resp.SuggestedReplies,
	}
	if err := s.dbStore.CreateMessage(&modelMsg); err != nil {
		return nil, fmt.Errorf("failed to store model message: %w", err)
	}

	newCtx := UpdateContext(convCtx, userContent, resp.Text, s.site.Catalog)
	if contextJSON, err := json.Marshal(newCtx); err != nil {
		log.Printf("Failed to marshal context for conversation %s: %v", conversationID, err)
	} else if err := s.dbStore.UpdateConversationContext(conversationID, string(contextJSON)); err != nil {
		log.Printf("Failed to persist context for conversation %s: %v", conversationID, err)
	}

	return &modelMsg, nil
}

// Respond produces one model turn for the user message. The history
// parameter is accepted for API shape but not replayed to the remote model:
// each call stands alone on its prompt. All failures degrade to a fixed
// fallback reply with the restaurant's phone number.
func (s *ChatService) Respond(ctx context.Context, history []ChatMessage, userMessage string, convCtx ConversationContext) Response {
	_ = history

	phone := s.site.Restaurant.Phone

	if s.gen == nil {
		// Missing credential: terminal for this call path, no network attempt.
		return Response{
			Text:             fmt.Sprintf("I'm having trouble connecting. Please call us at %s!", phone),
			MenuItems:        []menu.Item{},
			SuggestedReplies: []string{"Call restaurant"},
		}
	}

	text, err := s.gen.Generate(ctx, s.buildPrompt(userMessage))
	if err != nil {
		log.Printf("Chat generation failed, returning fallback: %v", err)
		return Response{
			Text:             fmt.Sprintf("Sorry, I'm having trouble right now. Please call us at %s!", phone),
			MenuItems:        []menu.Item{},
			SuggestedReplies: []string{"Try again", "Show me the menu"},
		}
	}

	items := s.site.Catalog.Detect(text)
	if items == nil {
		items = []menu.Item{}
	}
	return Response{
		Text:             text,
		MenuItems:        items,
		SuggestedReplies: SuggestReplies(text, convCtx),
	}
}

// CloseConversation ends the analytics session for the conversation, if one
// is open, and releases its recorder.
func (s *ChatService) CloseConversation(conversationID string) {
	s.mu.Lock()
	r := s.recorders[conversationID]
	delete(s.recorders, conversationID)
	s.mu.Unlock()

	if r != nil {
		r.EndSession()
	}
}

// SetFeedback attaches a rating to the conversation's open session.
// If the session is already closed the feedback is dropped, matching the
// recorder's no-self-open contract for feedback.
func (s *ChatService) SetFeedback(conversationID string, rating int, comment string) {
	s.recorder(conversationID).TrackFeedback(rating, comment)
}

func (s *ChatService) TrackQuickAction(conversationID, actionID string) {
	s.recorder(conversationID).TrackQuickAction(actionID)
}

func (s *ChatService) TrackOrderClick(conversationID string) {
	s.recorder(conversationID).TrackOrderClick()
}

func (s *ChatService) buildPrompt(userMessage string) string {
	r := s.site.Restaurant

	var menuLines []string
	for _, item := range s.site.Catalog.Items() {
		menuLines = append(menuLines, fmt.Sprintf("- %s (%s): %s", item.Name, item.Price, item.Description))
	}

	system := fmt.Sprintf(systemPromptTemplate,
		r.Name, r.Address, r.Hours, r.Phone, r.OrderURL, strings.Join(menuLines, "\n"))

	return fmt.Sprintf("%s\n\nCustomer says: %q\n\nRespond as the %s Concierge:", system, userMessage, r.Name)
}

func (s *ChatService) transcriptHistory(conversationID string) []ChatMessage {
	messages, err := s.dbStore.GetMessagesByConversationID(conversationID, transcriptLimit, 0)
	if err != nil {
		log.Printf("Failed to load history for conversation %s, proceeding without it: %v", conversationID, err)
		return nil
	}
	history := make([]ChatMessage, 0, len(messages))
	for _, m := range messages {
		history = append(history, ChatMessage{Role: m.Sender, Text: m.Content})
	}
	return history
}

func (s *ChatService) decodeContext(conv *store.Conversation) ConversationContext {
	var convCtx ConversationContext
	if err := json.Unmarshal([]byte(conv.ContextJSON), &convCtx); err != nil {
		log.Printf("Warning: corrupt context for conversation %s, starting fresh: %v", conv.ID, err)
		convCtx = NewConversationContext(conv.CreatedAt)
	}
	return convCtx
}
