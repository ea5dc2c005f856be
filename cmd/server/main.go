package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"debatefightclub-backend/internal/api"
	"debatefightclub-backend/internal/config"
	"debatefightclub-backend/internal/database"
	"debatefightclub-backend/internal/handlers"
	"debatefightclub-backend/internal/llm"
	"debatefightclub-backend/internal/services"
	"debatefightclub-backend/internal/speech"
	"debatefightclub-backend/internal/storage"
	"debatefightclub-backend/internal/store/postgres"
)

func main() {
	log.Println("Starting Debate Fight Club Backend...")

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	// 2. Apply Database Migrations
	if err := database.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("FATAL: Database migration failed: %v", err)
	}
	log.Println("Database migrations applied.")

	// 3. Initialize Database Connection Pool
	dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer dbCancel()

	dbpool, err := pgxpool.New(dbCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Unable to create database connection pool: %v\n", err)
	}
	defer dbpool.Close()

	if err := dbpool.Ping(dbCtx); err != nil {
		log.Fatalf("FATAL: Unable to ping database: %v\n", err)
	}
	log.Println("Database connection pool established and pinged successfully.")

	// 4. Initialize Dependencies (Store, Gateways, Services, Handlers)
	pgStore := postgres.NewPostgresStore(dbpool)
	log.Println("Postgres store initialized.")

	audioStore, err := storage.NewClient(dbCtx, storage.Options{
		Endpoint:  cfg.StorageEndpoint,
		AccessKey: cfg.StorageAccessKey,
		SecretKey: cfg.StorageSecretKey,
		Bucket:    cfg.StorageBucket,
		PublicURL: cfg.StoragePublicURL,
		UseSSL:    cfg.StorageUseSSL,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize audio storage: %v", err)
	}
	log.Println("Audio storage initialized.")

	llmClient := llm.NewClient(cfg.LLMAPIURL, cfg.LLMAPIKey, cfg.LLMModel)
	ttsClient := speech.NewTTSClient(cfg.ElevenLabsAPIKey, audioStore)
	sttClient := speech.NewSTTClient(cfg.DeepgramAPIKey)

	authService := services.NewAuthService(pgStore, cfg)
	debateService := services.NewDebateService(pgStore, llmClient, ttsClient, cfg.TurnDelay)
	sandboxService := services.NewSandboxService(pgStore, llmClient, ttsClient)
	dojoService := services.NewDojoService(pgStore, llmClient, ttsClient)
	log.Println("Services initialized.")

	authHandler := handlers.NewAuthHandler(authService)
	debateHandler := handlers.NewDebateHandlers(debateService)
	sandboxHandler := handlers.NewSandboxHandlers(sandboxService)
	dojoHandler := handlers.NewDojoHandlers(dojoService)
	speechHandler := handlers.NewSpeechHandlers(sttClient)
	log.Println("Handlers initialized.")

	// 5. Setup Router
	router := api.NewRouter(api.RouterDependencies{
		AuthHandler:    authHandler,
		DebateHandler:  debateHandler,
		SandboxHandler: sandboxHandler,
		DojoHandler:    dojoHandler,
		SpeechHandler:  speechHandler,
		Config:         cfg,
	})
	log.Println("Router setup complete.")

	// 6. Configure and Start HTTP Server
	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
		// Turn generation holds the connection while the providers respond, so
		// the write timeout stays above the request timeout budget.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 130 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting and listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Could not listen on %s: %v\n", cfg.HTTPPort, err)
		}
		log.Println("Server listener routine stopped.")
	}()

	<-stopChan
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: Server graceful shutdown failed: %v", err)
		log.Fatal("Forcing shutdown due to error.")
	}

	log.Println("Server shutdown complete.")
}
