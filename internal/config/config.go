package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Gemini    GeminiConfig
	Resume    ResumeConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Client    ClientConfig

	// EnvFileLoaded reports whether a .env file was found.
	EnvFileLoaded bool
}

type ServerConfig struct {
	Port        string
	Env         string
	CORSOrigins string
}

type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

type ResumeConfig struct {
	MaxFileSize int64
	MinTextLen  int
	MaxTextLen  int
}

type RateLimitConfig struct {
	PerWindow int
	Window    time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ClientConfig drives the pathctl command line client.
type ClientConfig struct {
	APIBaseURL string
	Store      string
	DSN        string
	ClientKey  string
}

func Load() *Config {
	envErr := godotenv.Load()

	return &Config{
		EnvFileLoaded: envErr == nil,
		Server: ServerConfig{
			Port:        getEnv("PORT", "3000"),
			Env:         getEnv("ENV", "development"),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		},
		Gemini: GeminiConfig{
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			Model:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			Temperature: getEnvAsFloat32("GEMINI_TEMPERATURE", 0.4),
			Timeout:     getEnvAsDuration("LLM_TIMEOUT", "45s"),
		},
		Resume: ResumeConfig{
			MaxFileSize: getEnvAsInt64("MAX_RESUME_SIZE", 5*1024*1024),
			MinTextLen:  getEnvAsInt("MIN_RESUME_TEXT", 40),
			MaxTextLen:  getEnvAsInt("MAX_RESUME_TEXT", 16000),
		},
		RateLimit: RateLimitConfig{
			PerWindow: getEnvAsInt("RATE_LIMIT_PER_HOUR", 20),
			Window:    getEnvAsDuration("RATE_LIMIT_WINDOW", "1h"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Client: ClientConfig{
			APIBaseURL: strings.TrimRight(getEnv("PATHCTL_API", "http://localhost:3000"), "/"),
			Store:      strings.ToLower(getEnv("PATHCTL_STORE", "sqlite")),
			DSN:        getEnv("PATHCTL_DSN", "./pathctl.db"),
			ClientKey:  getEnv("PATHCTL_CLIENT", "default"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Env, "production")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 32); err == nil {
		return float32(value)
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
