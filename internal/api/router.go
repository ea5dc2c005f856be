package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"debatefightclub-backend/internal/config"
	"debatefightclub-backend/internal/handlers"
)

// RouterDependencies holds the handlers and configuration the router wires
// together.
type RouterDependencies struct {
	AuthHandler    *handlers.AuthHandler
	DebateHandler  *handlers.DebateHandlers
	SandboxHandler *handlers.SandboxHandlers
	DojoHandler    *handlers.DojoHandlers
	SpeechHandler  *handlers.SpeechHandlers
	Config         *config.Config
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// Turn generation calls out to the LLM and TTS providers, so the budget is
	// generous.
	r.Use(middleware.Timeout(120 * time.Second))

	// --- CORS Configuration ---
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173", "https://*.vercel.app"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- Public Routes (No JWT Required) ---
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/v1/auth", func(r chi.Router) {
		if deps.AuthHandler == nil {
			panic("AuthHandler dependency is nil in router setup")
		}
		r.Post("/signup", deps.AuthHandler.HandleSignup)
		r.Post("/login", deps.AuthHandler.HandleLogin)
	})

	// The scenario catalog is static content the frontend shows before login.
	r.Get("/v1/dojo/scenarios", deps.DojoHandler.HandleListScenarios)

	// --- Authenticated Routes (JWT Required) ---
	r.Route("/v1", func(r chi.Router) {
		r.Use(JwtAuthMiddleware(deps.Config.JWTSecret))

		r.Get("/me", deps.AuthHandler.HandleMe)

		r.Route("/debates", func(r chi.Router) {
			r.Post("/", deps.DebateHandler.HandleCreateDebate)
			r.Get("/", deps.DebateHandler.HandleListDebates)
			r.Get("/{debateID}", deps.DebateHandler.HandleGetDebate)
			r.Patch("/{debateID}/status", deps.DebateHandler.HandleUpdateDebateStatus)
			r.Get("/{debateID}/messages", deps.DebateHandler.HandleListDebateMessages)
			r.Post("/{debateID}/turn", deps.DebateHandler.HandleGenerateTurn)
			r.Post("/{debateID}/interrupt", deps.DebateHandler.HandleInterruption)
		})

		r.Route("/sandbox", func(r chi.Router) {
			r.Post("/conversations", deps.SandboxHandler.HandleCreateConversation)
			r.Get("/conversations", deps.SandboxHandler.HandleListConversations)
			r.Get("/conversations/{conversationID}/messages", deps.SandboxHandler.HandleListConversationMessages)
			r.Post("/respond", deps.SandboxHandler.HandleRespond)
		})

		r.Route("/dojo", func(r chi.Router) {
			r.Post("/sessions", deps.DojoHandler.HandleCreateSession)
			r.Get("/sessions", deps.DojoHandler.HandleListSessions)
			r.Post("/sessions/{sessionID}/complete", deps.DojoHandler.HandleCompleteSession)
			r.Get("/sessions/{sessionID}/messages", deps.DojoHandler.HandleListSessionMessages)
			r.Post("/respond", deps.DojoHandler.HandleRespond)
		})

		r.Post("/speech/transcribe", deps.SpeechHandler.HandleTranscribe)
	})

	return r
}
