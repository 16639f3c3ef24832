package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// generateWorkerID creates a unique worker ID using hostname and PID
func generateWorkerID() string {
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "shipflow"
	}
	return fmt.Sprintf("%s-%d", hostname, os.Getpid())
}

type Config struct {
	Environment string

	// Database
	DatabaseURL string
	MongoDBURL  string
	MongoDBName string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// OpenAI
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	LLMModel       string
	LLMMaxTokens   int
	LLMTemperature float64
	LLMTimeout     time.Duration

	// Classification
	ManualReviewThreshold float64
	ReplyDowngradeFactor  float64
	// SubjectBeforeContent prioritizes subject evidence over extracted
	// attachment content when the extraction backend is unreliable.
	SubjectBeforeContent bool
	CarrierDomains       []string
	CHADomains           []string
	TruckerDomains       []string
	ForwarderDomains     []string

	// Consumer (Redis Stream)
	WorkerID                string
	ConsumerGroup           string
	ConsumerMaxRetries      int
	ConsumerPendingCheckSec int
	ConsumerPendingIdleSec  int

	// Cache
	AttachmentCacheTTL time.Duration

	// Logging
	LogLevel  string
	LogPretty bool
}

func Load() (*Config, error) {
	return &Config{
		Environment: getEnv("ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", ""),
		MongoDBURL:  getEnv("MONGODB_URL", ""),
		MongoDBName: getEnv("MONGODB_DATABASE", "shipflow"),

		// Redis
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		// OpenAI
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
		LLMModel:       getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMMaxTokens:   getEnvInt("LLM_MAX_TOKENS", 1024),
		LLMTemperature: getEnvFloat("LLM_TEMPERATURE", 0.1),
		LLMTimeout:     time.Duration(getEnvInt("LLM_TIMEOUT_SEC", 20)) * time.Second,

		// Classification
		ManualReviewThreshold: getEnvFloat("MANUAL_REVIEW_THRESHOLD", 60),
		ReplyDowngradeFactor:  getEnvFloat("REPLY_DOWNGRADE_FACTOR", 0.5),
		SubjectBeforeContent:  getEnvBool("SUBJECT_BEFORE_CONTENT", false),
		CarrierDomains:        getEnvSlice("CARRIER_DOMAINS", nil),
		CHADomains:            getEnvSlice("CHA_DOMAINS", nil),
		TruckerDomains:        getEnvSlice("TRUCKER_DOMAINS", nil),
		ForwarderDomains:      getEnvSlice("FORWARDER_DOMAINS", nil),

		// Consumer
		WorkerID:                getEnv("WORKER_ID", generateWorkerID()),
		ConsumerGroup:           getEnv("CONSUMER_GROUP", "shipflow-ingest"),
		ConsumerMaxRetries:      getEnvInt("CONSUMER_MAX_RETRIES", 3),
		ConsumerPendingCheckSec: getEnvInt("CONSUMER_PENDING_CHECK_SEC", 30),
		ConsumerPendingIdleSec:  getEnvInt("CONSUMER_PENDING_IDLE_SEC", 120),

		// Cache
		AttachmentCacheTTL: time.Duration(getEnvInt("ATTACHMENT_CACHE_TTL_MIN", 60)) * time.Minute,

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvBool("LOG_PRETTY", false),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
