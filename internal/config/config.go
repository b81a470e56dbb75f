package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration loaded from the environment.
type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string
	MongoTimeout  time.Duration

	// InMemoryStore keeps events in process memory instead of MongoDB.
	// Useful for local scoring without a database.
	InMemoryStore bool

	JWTSecret     string
	TokenDuration time.Duration

	DevLogging     bool
	RequestTimeout time.Duration
	RateLimit      int
	RateWindow     time.Duration
}

// Load reads the .env file (if present) and assembles the configuration.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or could not be loaded")
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		MongoURI:       getEnv("MONGO_URI", ""),
		MongoDatabase:  getEnv("MONGO_DATABASE", "softball_scorebook"),
		MongoTimeout:   getDuration("MONGO_TIMEOUT", 30*time.Second),
		InMemoryStore:  getBool("IN_MEMORY_STORE", false),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		TokenDuration:  getDuration("TOKEN_DURATION", 24*time.Hour),
		DevLogging:     getBool("DEV_LOGGING", false),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 30*time.Second),
		RateLimit:      getInt("RATE_LIMIT", 100),
		RateWindow:     getDuration("RATE_WINDOW", time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
