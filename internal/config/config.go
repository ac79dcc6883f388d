package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates all service configuration sections.
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Session SessionConfig
	Image   ImageConfig
	Log     LogConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	session, err := loadSessionConfig()
	if err != nil {
		return nil, err
	}

	image, err := loadImageConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:  server,
		AI:      ai,
		Session: session,
		Image:   image,
		Log:     loadLogConfig(),
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the upstream analysis backend.
type AIConfig struct {
	BaseURL         string
	ChatTimeout     time.Duration
	HealthTimeout   time.Duration
	ResourceTimeout time.Duration
}

func loadAIConfig() (AIConfig, error) {
	chatTimeout, err := parseDurationEnv("AI_CHAT_TIMEOUT", 30*time.Second)
	if err != nil {
		return AIConfig{}, err
	}

	healthTimeout, err := parseDurationEnv("AI_HEALTH_TIMEOUT", 8*time.Second)
	if err != nil {
		return AIConfig{}, err
	}

	resourceTimeout, err := parseDurationEnv("AI_RESOURCE_TIMEOUT", 15*time.Second)
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		BaseURL:         getEnvOrDefault("AI_BASE_URL", "http://localhost:5000"),
		ChatTimeout:     chatTimeout,
		HealthTimeout:   healthTimeout,
		ResourceTimeout: resourceTimeout,
	}, nil
}

// SessionConfig bounds the in-memory session store.
type SessionConfig struct {
	TTL         time.Duration
	MaxSessions int
}

func loadSessionConfig() (SessionConfig, error) {
	ttl, err := parseDurationEnv("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return SessionConfig{}, err
	}

	maxSessions, err := parseIntEnv("SESSION_MAX", 1000)
	if err != nil {
		return SessionConfig{}, err
	}

	return SessionConfig{TTL: ttl, MaxSessions: maxSessions}, nil
}

// ImageConfig bounds the in-memory image store.
type ImageConfig struct {
	MaxImages int
}

func loadImageConfig() (ImageConfig, error) {
	maxImages, err := parseIntEnv("IMAGE_MAX", 500)
	if err != nil {
		return ImageConfig{}, err
	}
	return ImageConfig{MaxImages: maxImages}, nil
}

// LogConfig selects logger level and output format.
type LogConfig struct {
	Level  string
	Format string
}

func loadLogConfig() LogConfig {
	return LogConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "info"),
		Format: getEnvOrDefault("LOG_FORMAT", "text"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}
