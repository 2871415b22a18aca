// Package config handles application configuration from environment variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"homework_bot/internal/failure"
	"homework_bot/internal/fetcher"
)

// Required environment variables.
const (
	EnvPracticumToken = "PRACTICUM_TOKEN"
	EnvTelegramToken  = "TELEGRAM_TOKEN"
	EnvTelegramChatID = "TELEGRAM_CHAT_ID"
)

// Config holds the application configuration.
type Config struct {
	PracticumToken    string
	TelegramToken     string
	TelegramChatID    int64
	PracticumEndpoint string
	PollInterval      time.Duration
	RequestTimeout    time.Duration
	LogLevel          string
	LogFile           string
	MetricsPort       int
}

// Logging holds the log sink settings. They are read separately from the
// rest of the configuration so that configuration errors can be logged to the file.
type Logging struct {
	Level string
	File  string
}

// LoadLogging reads LOG_LEVEL and LOG_FILE. It never fails.
func LoadLogging() Logging {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	file, ok := os.LookupEnv("LOG_FILE")
	if !ok {
		file = "program.log"
	}
	return Logging{Level: level, File: file}
}

// MissingError lists the required variables that were not set.
type MissingError struct {
	Keys []string
}

func (e *MissingError) Error() string {
	return "missing required environment variables: " + strings.Join(e.Keys, ", ")
}

// Load reads configuration from environment variables.
// Every returned error has kind failure.KindConfigMissing.
func Load() (*Config, error) {
	var missing []string
	required := make(map[string]string, 3)
	for _, key := range []string{EnvTelegramToken, EnvTelegramChatID, EnvPracticumToken} {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
			continue
		}
		required[key] = v
	}
	if len(missing) > 0 {
		return nil, failure.New(failure.KindConfigMissing, "load config", &MissingError{Keys: missing})
	}

	chatID, err := strconv.ParseInt(strings.TrimSpace(required[EnvTelegramChatID]), 10, 64)
	if err != nil {
		return nil, failure.Errorf(failure.KindConfigMissing, "load config",
			"invalid %s %q: %w", EnvTelegramChatID, required[EnvTelegramChatID], err)
	}

	endpoint := os.Getenv("PRACTICUM_ENDPOINT")
	if endpoint == "" {
		endpoint = fetcher.DefaultEndpoint
	}

	interval, err := durationEnv("POLL_INTERVAL", 600*time.Second)
	if err != nil {
		return nil, err
	}
	timeout, err := durationEnv("REQUEST_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	logging := LoadLogging()

	var metricsPort int
	if raw := os.Getenv("METRICS_PORT"); raw != "" {
		metricsPort, err = strconv.Atoi(raw)
		if err != nil || metricsPort < 0 || metricsPort > 65535 {
			return nil, failure.Errorf(failure.KindConfigMissing, "load config", "invalid METRICS_PORT %q", raw)
		}
	}

	return &Config{
		PracticumToken:    required[EnvPracticumToken],
		TelegramToken:     required[EnvTelegramToken],
		TelegramChatID:    chatID,
		PracticumEndpoint: endpoint,
		PollInterval:      interval,
		RequestTimeout:    timeout,
		LogLevel:          logging.Level,
		LogFile:           logging.File,
		MetricsPort:       metricsPort,
	}, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, failure.Errorf(failure.KindConfigMissing, "load config", "invalid %s %q: must be a positive duration", key, raw)
	}
	return d, nil
}
