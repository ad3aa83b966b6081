package api

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hbrothers.com/concierge/internal/analytics"
	"hbrothers.com/concierge/internal/auth"
	"hbrothers.com/concierge/internal/core"
	"hbrothers.com/concierge/internal/menu"
	"hbrothers.com/concierge/internal/store"
)

type APIHandler struct {
	chatService  *core.ChatService
	historyStore analytics.Store
	site         *menu.Site

	adminPassword string
	jwtSecret     string
}

func NewAPIHandler(cs *core.ChatService, historyStore analytics.Store, site *menu.Site, adminPassword, jwtSecret string) *APIHandler {
	return &APIHandler{
		chatService:   cs,
		historyStore:  historyStore,
		site:          site,
		adminPassword: adminPassword,
		jwtSecret:     jwtSecret,
	}
}

// AdminAuthMiddleware guards the owner analytics endpoints.
func (h *APIHandler) AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if err := auth.ValidateAdminJWT(h.jwtSecret, tokenString); err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type AdminLoginRequest struct {
	Password string `json:"password"`
}

func (h *APIHandler) AdminLoginHandler(w http.ResponseWriter, r *http.Request) {
	if h.adminPassword == "" {
		http.Error(w, "Admin access is not configured", http.StatusServiceUnavailable)
		return
	}

	var req AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.adminPassword)) != 1 {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateAdminJWT(h.jwtSecret)
	if err != nil {
		log.Printf("Error generating admin JWT: %v", err)
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"token": token})
}

func (h *APIHandler) MenuHandler(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]any{
		"restaurant": h.site.Restaurant,
		"items":      h.site.Catalog.Items(),
	})
}

type CreateConversationResponse struct {
	*store.Conversation
	Messages []store.Message `json:"messages"`
}

func (h *APIHandler) CreateConversationHandler(w http.ResponseWriter, r *http.Request) {
	conv, messages, err := h.chatService.CreateConversation(r.Context())
	if err != nil {
		log.Printf("Error creating conversation: %v", err)
		http.Error(w, "Failed to create conversation", http.StatusInternalServerError)
		return
	}

	resp := CreateConversationResponse{
		Conversation: conv,
		Messages:     messages,
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

type GetConversationResponse struct {
	*store.Conversation
	Messages []store.Message           `json:"messages"`
	Context  *core.ConversationContext `json:"context"`
}

func (h *APIHandler) GetConversationHandler(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	conv, messages, convCtx, err := h.chatService.GetConversation(conversationID)
	if err != nil {
		log.Printf("Error getting conversation %s: %v", conversationID, err)
		http.Error(w, "Failed to get conversation", http.StatusInternalServerError)
		return
	}
	if conv == nil {
		http.Error(w, "Conversation not found", http.StatusNotFound)
		return
	}

	resp := GetConversationResponse{
		Conversation: conv,
		Messages:     messages,
		Context:      convCtx,
	}
	json.NewEncoder(w).Encode(resp)
}

type PostMessageRequest struct {
	Content string `json:"content"`
}

func (h *APIHandler) PostMessageHandler(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		http.Error(w, "Message content cannot be empty", http.StatusBadRequest)
		return
	}

	modelMessage, err := h.chatService.PostMessage(r.Context(), conversationID, req.Content)
	if err != nil {
		if err.Error() == "conversation not found" {
			http.Error(w, err.Error(), http.StatusNotFound)
		} else {
			log.Printf("Error posting message to conversation %s: %v", conversationID, err)
			http.Error(w, "Failed to post message", http.StatusInternalServerError)
		}
		return
	}
	json.NewEncoder(w).Encode(modelMessage)
}

func (h *APIHandler) CloseConversationHandler(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	h.chatService.CloseConversation(conversationID)
	w.WriteHeader(http.StatusNoContent)
}

type FeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

func (h *APIHandler) FeedbackHandler(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		http.Error(w, "Rating must be between 1 and 5", http.StatusBadRequest)
		return
	}

	h.chatService.SetFeedback(conversationID, req.Rating, req.Comment)
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) OrderClickHandler(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	h.chatService.TrackOrderClick(conversationID)
	w.WriteHeader(http.StatusNoContent)
}

type QuickActionRequest struct {
	ActionID string `json:"action_id"`
}

func (h *APIHandler) QuickActionHandler(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	var req QuickActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.ActionID == "" {
		http.Error(w, "Action ID is required", http.StatusBadRequest)
		return
	}

	h.chatService.TrackQuickAction(conversationID, req.ActionID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	sessions := h.loadHistory()
	json.NewEncoder(w).Encode(analytics.Summarize(sessions))
}

func (h *APIHandler) ExportCSVHandler(w http.ResponseWriter, r *http.Request) {
	sessions := h.loadHistory()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="chat_sessions.csv"`)
	w.Write([]byte(analytics.ExportCSV(sessions)))
}

// loadHistory reads the persisted history; a corrupt or unavailable slot
// reads as empty rather than failing the request.
func (h *APIHandler) loadHistory() []analytics.Session {
	sessions, err := h.historyStore.Load()
	if err != nil {
		log.Printf("Failed to load analytics history, treating as empty: %v", err)
		return nil
	}
	return sessions
}
