package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration values loaded from environment variables.
type Config struct {
	DatabaseURL     string
	JWTSecret       string
	HTTPPort        string
	TokenExpiration time.Duration

	// LLM provider (OpenAI-compatible chat completions endpoint).
	LLMAPIURL string
	LLMAPIKey string
	LLMModel  string

	// Speech providers.
	ElevenLabsAPIKey string
	DeepgramAPIKey   string

	// Object storage for synthesized audio (S3-compatible).
	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StoragePublicURL string
	StorageUseSSL    bool

	// Minimum delay between auto-progressed debate turns.
	TurnDelay time.Duration
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file (useful for development)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Could not load .env file. Using environment variables only.", err)
		// Don't fail if .env is not present, might be in production
	}

	port := getEnv("HTTP_PORT", "8080")
	jwtSecret := getEnv("JWT_SECRET", "default-super-secret-key") // CHANGE THIS IN PRODUCTION!
	dbURL := getEnv("DATABASE_URL", "")                           // No default, should fail if not set
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set.")
	}

	tokenExpStr := getEnv("JWT_EXPIRATION_HOURS", "24") // Default 24 hours
	tokenExpHours, err := strconv.Atoi(tokenExpStr)
	if err != nil {
		log.Printf("Warning: Invalid JWT_EXPIRATION_HOURS '%s', using default 24h. Error: %v", tokenExpStr, err)
		tokenExpHours = 24
	}

	turnDelayStr := getEnv("DEBATE_TURN_DELAY_SECONDS", "3")
	turnDelaySecs, err := strconv.Atoi(turnDelayStr)
	if err != nil || turnDelaySecs < 0 {
		log.Printf("Warning: Invalid DEBATE_TURN_DELAY_SECONDS '%s', using default 3s.", turnDelayStr)
		turnDelaySecs = 3
	}

	cfg := &Config{
		HTTPPort:        port,
		JWTSecret:       jwtSecret,
		DatabaseURL:     dbURL,
		TokenExpiration: time.Hour * time.Duration(tokenExpHours),

		LLMAPIURL: getEnv("LLM_API_URL", "https://api.openai.com/v1/chat/completions"),
		LLMAPIKey: getEnv("LLM_API_KEY", ""),
		LLMModel:  getEnv("LLM_MODEL", "gpt-4o-mini"),

		ElevenLabsAPIKey: getEnv("ELEVENLABS_API_KEY", ""),
		DeepgramAPIKey:   getEnv("DEEPGRAM_API_KEY", ""),

		StorageEndpoint:  getEnv("STORAGE_ENDPOINT", "localhost:9000"),
		StorageAccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
		StorageSecretKey: getEnv("STORAGE_SECRET_KEY", ""),
		StorageBucket:    getEnv("STORAGE_BUCKET", "debate-audio"),
		StoragePublicURL: getEnv("STORAGE_PUBLIC_URL", ""),
		StorageUseSSL:    getEnv("STORAGE_USE_SSL", "false") == "true",

		TurnDelay: time.Second * time.Duration(turnDelaySecs),
	}

	log.Printf("Loaded config: Port=%s, DB_URL=***, TokenExp=%s, LLMModel=%s, TurnDelay=%s",
		cfg.HTTPPort, cfg.TokenExpiration, cfg.LLMModel, cfg.TurnDelay)

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
