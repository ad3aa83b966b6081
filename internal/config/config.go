package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	GeminiAPIKey    string
	DatabaseURL     string
	HTTPPort        string
	LogLevel        string
	SiteContentFile string

	AdminPassword string
	JWTSecret     string

	// Analytics history slot. Redis is used when RedisAddr is set;
	// otherwise the history lives in a SQLite slot alongside the transcripts.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	AnalyticsKey  string

	// Optional event sink; empty AMQPURL disables it.
	AMQPURL   string
	AMQPQueue string
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		DatabaseURL:     getEnv("DATABASE_URL", "concierge.db"),
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
		SiteContentFile: getEnv("SITE_CONTENT_FILE", "content.json"),
		AdminPassword:   getEnv("ADMIN_PASSWORD", ""),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvAsInt("REDIS_DB", 0),
		AnalyticsKey:    getEnv("ANALYTICS_KEY", ""),
		AMQPURL:         getEnv("AMQP_URL", ""),
		AMQPQueue:       getEnv("AMQP_QUEUE", "concierge.analytics"),
	}

	if AppConfig.GeminiAPIKey == "" {
		// Not fatal: the concierge degrades to its fixed fallback reply.
		log.Println("Warning: GEMINI_API_KEY is not set; chat responses will use the fallback message")
	}

	if AppConfig.AdminPassword != "" && AppConfig.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required when ADMIN_PASSWORD is set")
	}
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
