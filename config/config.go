package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from .env file
func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}
}

// GetEnv gets an environment variable or returns a default value if not present
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// GetEnvInt gets an integer environment variable or returns a default value
func GetEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: %s is not an integer, using default %d", key, fallback)
		return fallback
	}
	return n
}

// RMSServiceURL returns the base URL of the external modeling service
func RMSServiceURL() string {
	return GetEnv("RMS_SERVICE_URL", "http://localhost:5000")
}

// RMSTimeout returns the timeout applied to synchronous calls to the
// external modeling service
func RMSTimeout() time.Duration {
	return time.Duration(GetEnvInt("RMS_TIMEOUT_SECONDS", 5)) * time.Second
}

// MediaDir returns the directory where uploads and cached artifacts are stored
func MediaDir() string {
	return GetEnv("MEDIA_DIR", "media")
}

// WorkerCount returns the number of background dispatch workers
func WorkerCount() int {
	return GetEnvInt("WORKER_COUNT", 4)
}

// QueueSize returns the capacity of the background dispatch queue
func QueueSize() int {
	return GetEnvInt("QUEUE_SIZE", 64)
}
