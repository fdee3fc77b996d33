package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	OpenAIAPIKey string
	OpenAIModel  string
	UsersFile    string
	DatabaseURL  string
	HTTPPort     string
	LogLevel     string
	JWTSecret    string
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		UsersFile:    getEnv("USERS_FILE", "users.json"),
		DatabaseURL:  getEnv("DATABASE_URL", "chat_history.db"),
		HTTPPort:     getEnv("HTTP_PORT", "5050"),
		LogLevel:     getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:    getEnv("JWT_SECRET", "default-secret-key"),
	}

	// A missing upstream credential must not take the server down: signup,
	// login and chat persistence still work. Content endpoints surface the
	// error per request instead.
	if AppConfig.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set; content generation endpoints will fail")
	}

	if AppConfig.JWTSecret == "default-secret-key" {
		log.Println("Warning: JWT_SECRET is not set, using insecure default")
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
