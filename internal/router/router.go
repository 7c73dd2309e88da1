package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"dmquiz-backend/internal/handlers"
	"dmquiz-backend/internal/middleware"
)

func New(
	quizHandler *handlers.QuizHandler,
	questionHandler *handlers.QuestionHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)

	allowedOrigins := []string{"*"}
	if frontendURL != "" {
		allowedOrigins = []string{frontendURL}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Generation fans out to the paid API: keep it rate limited per IP.
	generateLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {

		// ──── Saved questions (CRUD gateway) ────
		r.Route("/questions", func(r chi.Router) {
			r.Get("/", questionHandler.List)
			r.Post("/", questionHandler.BulkInsert)
			r.Delete("/{id}", questionHandler.Delete)
		})

		// ──── Quiz sessions ────
		r.Route("/quizzes", func(r chi.Router) {
			r.With(generateLimiter.Middleware).Post("/generate", quizHandler.Generate)
			r.Get("/{id}", quizHandler.Get)
			r.Post("/{id}/answers", quizHandler.SelectAnswer)
			r.Post("/{id}/submit", quizHandler.Submit)
		})
	})

	return r
}
