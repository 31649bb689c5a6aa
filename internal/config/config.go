// Package config loads binary settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/baditaflorin/go_text_preprocessing/internal/core/domain"
)

// Resource sources.
const (
	SourceEmbedded = "embedded"
	SourceHTTP     = "http"
)

type Config struct {
	DataDir         string
	ResourceSource  string
	ResourceBaseURL string
	FetchTimeoutMs  int

	Workers      int
	NullPolicy   domain.NullPolicy
	StemFallback bool

	Port    int
	LogFile string
}

// Load reads the process environment, after loading files (default ".env")
// when they exist. Variables already set in the environment win.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	policy, err := domain.ParseNullPolicy(getEnv("TEXTPREP_NULL_POLICY", "empty"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DataDir:         getEnv("TEXTPREP_DATA_DIR", ""),
		ResourceSource:  strings.ToLower(getEnv("TEXTPREP_RESOURCE_SOURCE", SourceEmbedded)),
		ResourceBaseURL: getEnv("TEXTPREP_RESOURCE_BASE_URL", ""),
		FetchTimeoutMs:  getEnvInt("TEXTPREP_FETCH_TIMEOUT_MS", 30000),

		Workers:      getEnvInt("TEXTPREP_WORKERS", 0),
		NullPolicy:   policy,
		StemFallback: getEnvBool("TEXTPREP_STEM_FALLBACK", false),

		Port:    getEnvInt("TEXTPREP_PORT", 8080),
		LogFile: getEnv("TEXTPREP_LOG_FILE", ""),
	}

	return cfg, cfg.Validate()
}

// Validate checks the combination of settings.
func (c Config) Validate() error {
	switch c.ResourceSource {
	case SourceEmbedded:
	case SourceHTTP:
		if strings.TrimSpace(c.ResourceBaseURL) == "" {
			return fmt.Errorf("missing required env var: TEXTPREP_RESOURCE_BASE_URL")
		}
	default:
		return fmt.Errorf("unknown resource source %q", c.ResourceSource)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

// FetchTimeout returns FetchTimeoutMs as a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMs) * time.Millisecond
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
