package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds process-level settings, all sourced from the environment
type Config struct {
	MongoURI  string
	MongoDB   string
	RedisAddr string
	HTTPPort  string
	JWTSecret string
}

// Load reads an optional .env file and resolves every setting with a
// development default
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env file")
	}

	return &Config{
		MongoURI:  getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   getEnvOrDefault("MONGO_DB", "equisecure"),
		RedisAddr: getEnvOrDefault("REDIS_URI", "localhost:6379"),
		HTTPPort:  getEnvOrDefault("PORT", "8080"),
		JWTSecret: getEnvOrDefault("JWT_SECRET", "super-secret-key-change-in-production"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
