package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	// All API routes will be under /api
	r.Route("/api", func(r chi.Router) {
		// Public routes (the chat widget itself is unauthenticated)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})
		r.Get("/menu", apiHandler.MenuHandler)

		r.Post("/conversations", apiHandler.CreateConversationHandler)
		r.Get("/conversations/{conversationID}", apiHandler.GetConversationHandler)
		r.Post("/conversations/{conversationID}/messages", apiHandler.PostMessageHandler)
		r.Post("/conversations/{conversationID}/close", apiHandler.CloseConversationHandler)
		r.Post("/conversations/{conversationID}/feedback", apiHandler.FeedbackHandler)
		r.Post("/conversations/{conversationID}/events/order-click", apiHandler.OrderClickHandler)
		r.Post("/conversations/{conversationID}/events/quick-action", apiHandler.QuickActionHandler)

		// Owner-only analytics routes
		r.Post("/admin/login", apiHandler.AdminLoginHandler)
		r.Group(func(r chi.Router) {
			r.Use(apiHandler.AdminAuthMiddleware)

			r.Get("/admin/analytics/summary", apiHandler.SummaryHandler)
			r.Get("/admin/analytics/export", apiHandler.ExportCSVHandler)
		})
	})

	return r
}
