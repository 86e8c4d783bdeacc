// Package config loads server settings from the environment, with optional
// .env support for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs to run. DatabaseURL and RedisAddr
// are optional; the features they back are disabled when empty.
type Config struct {
	Addr          string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	LogLevel      string
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Addr:          getenv("UNO_ADDR", ":8080"),
		DatabaseURL:   os.Getenv("UNO_DATABASE_URL"),
		RedisAddr:     os.Getenv("UNO_REDIS_ADDR"),
		RedisPassword: os.Getenv("UNO_REDIS_PASSWORD"),
		RedisDB:       getenvInt("UNO_REDIS_DB", 0),
		LogLevel:      getenv("UNO_LOG_LEVEL", "info"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
