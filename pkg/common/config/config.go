package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	ServerPort     string
	ServerHost     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxUploadBytes int64

	// Remote inference service
	InferenceBaseURL   string
	InferenceTimeout   time.Duration
	ProtocolConfigPath string
	PollMaxAttempts    int
	PollDelay          time.Duration

	// Redis (analysis history)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	HistoryLimit  int

	// Postgres (assessment records)
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Kafka (review alerts)
	KafkaBrokers []string
	AlertsTopic  string
}

func Load() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 60*time.Second),
		MaxUploadBytes: int64(getIntEnv("MAX_UPLOAD_BYTES", 10*1024*1024)),

		InferenceBaseURL:   getEnv("INFERENCE_BASE_URL", "https://bnmbanhmi-seekwell-skin-cancer.hf.space"),
		InferenceTimeout:   getDuration("INFERENCE_TIMEOUT", 30*time.Second),
		ProtocolConfigPath: getEnv("PROTOCOL_CONFIG_PATH", ""),
		PollMaxAttempts:    getIntEnv("POLL_MAX_ATTEMPTS", 30),
		PollDelay:          getDuration("POLL_DELAY", time.Second),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		HistoryLimit:  getIntEnv("HISTORY_LIMIT", 50),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "seekwell"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "seekwell123"),
		PostgresDB:       getEnv("POSTGRES_DB", "seekwell"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		KafkaBrokers: getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		AlertsTopic:  getEnv("ALERTS_TOPIC", "review.alerts"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
