package main

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string
	MongoURL    string
	MongoDB     string
	JWTSecret   string
	CORSOrigins []string
}

// loadConfig reads an optional .env file, then the environment. Nothing
// secret lives in source.
func loadConfig() Config {
	_ = godotenv.Load()
	return Config{
		HTTPAddr:    getenv("HTTP_ADDR", ":5000"),
		MongoURL:    getenv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:     getenv("MONGO_DB", "shopnellore"),
		JWTSecret:   getenv("JWT_SECRET", "mydevsecret"),
		CORSOrigins: splitCSV(getenv("CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
