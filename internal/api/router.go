package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	// Plain-text liveness endpoint
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Backend running"))
	})

	r.Route("/api", func(r chi.Router) {
		// Auth
		r.Post("/signup", apiHandler.SignupHandler)
		r.Post("/login", apiHandler.LoginHandler)

		// Content generation
		r.Post("/generate-content", apiHandler.GenerateContentHandler)
		r.Post("/keywords", apiHandler.KeywordsHandler)
		r.Post("/strategy", apiHandler.StrategyHandler)
		r.Post("/email", apiHandler.EmailHandler)

		// Chat persistence
		r.Route("/chat", func(r chi.Router) {
			r.Post("/save-chat", apiHandler.SaveChatHandler)
			r.Post("/message", apiHandler.ChatMessageHandler)

			// History is new surface, so it requires a token unlike the
			// legacy endpoints above.
			r.Group(func(r chi.Router) {
				r.Use(apiHandler.JWTAuthMiddleware)
				r.Get("/history", apiHandler.ChatHistoryHandler)
			})
		})
	})

	return r
}
