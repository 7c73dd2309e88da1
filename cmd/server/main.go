package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dmquiz-backend/internal/config"
	"dmquiz-backend/internal/database"
	"dmquiz-backend/internal/handlers"
	"dmquiz-backend/internal/quiz"
	"dmquiz-backend/internal/repository"
	"dmquiz-backend/internal/router"
	"dmquiz-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting Discrete Math Quiz Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Step 4: Pick Quiz Session Store ────
	var sessionStore quiz.Store
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("✗ Redis connection failed: %v", err)
		}
		defer redisClient.Close()
		sessionStore = quiz.NewRedisStore(redisClient, 24*time.Hour)
		log.Println("✓ Redis connected (quiz sessions)")
	} else {
		sessionStore = quiz.NewMemoryStore()
		log.Println("✓ Using in-memory quiz sessions (no REDIS_URL set)")
	}

	// ──── Step 5: Initialize Gemini Client ────
	geminiService := services.NewGeminiService(
		cfg.GeminiAPIKey,
		cfg.GeminiModel,
		cfg.GeminiBaseURL,
		cfg.GeminiConcurrentReqs,
	)
	if cfg.GeminiAPIKey == "" {
		log.Println("! GEMINI_API_KEY not set; clients must supply their own key per request")
	}
	log.Println("✓ Gemini client initialized")

	// ──── Initialize Repositories & Handlers ────
	questionRepo := repository.NewQuestionRepo(pool)
	questionHandler := handlers.NewQuestionHandler(questionRepo)
	quizHandler := handlers.NewQuizHandler(geminiService, sessionStore)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(quizHandler, questionHandler, cfg.FrontendURL)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second, // generation calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Quiz backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
