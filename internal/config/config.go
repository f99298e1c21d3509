package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort      string
	DatabaseURL   string
	LogLevel      string
	LogFormat     string
	JWTSecret     string
	GeminiAPIKey  string
	FCMServerKey  string
	FCMEndpoint   string
	PushTopic     string
	KnowledgeFile string
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		DatabaseURL:   getEnv("DATABASE_URL", "tameny.db"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		FCMServerKey:  getEnv("FCM_SERVER_KEY", ""),
		FCMEndpoint:   getEnv("FCM_ENDPOINT", "https://fcm.googleapis.com/fcm/send"),
		PushTopic:     getEnv("PUSH_TOPIC", "/topics/all"),
		KnowledgeFile: getEnv("KNOWLEDGE_FILE", "data.md"),
	}

	if AppConfig.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	if AppConfig.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable is required")
	}

	// The FCM key is only needed by the admin broadcast path; warn instead of
	// refusing to start so local development works without it.
	if AppConfig.FCMServerKey == "" {
		log.Println("Warning: FCM_SERVER_KEY is not set, push broadcast will fail")
	}
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
