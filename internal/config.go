package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// APIBaseEnv names the only recognized environment setting
	APIBaseEnv = "TRACKER_API_BASE"

	// DefaultAPIBase is used when nothing else is configured
	DefaultAPIBase = "https://tracker.myuta.xyz/api"
)

// Config holds the dashboard configuration
type Config struct {
	APIBase string
}

// LoadDotEnv loads a .env file from the working directory if one exists.
// Variables already present in the environment win.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return
		}
		LogWarn("Failed to load .env file: %v", err)
	}
}

// LoadConfig resolves the configuration. A non-empty override (from a flag)
// takes precedence over the environment, which takes precedence over the default.
func LoadConfig(override string) (*Config, error) {
	raw := strings.TrimSpace(override)
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv(APIBaseEnv))
	}
	if raw == "" {
		raw = DefaultAPIBase
	}

	base, err := normalizeAPIBase(raw)
	if err != nil {
		return nil, err
	}
	return &Config{APIBase: base}, nil
}

func normalizeAPIBase(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid %s value %q: %w", APIBaseEnv, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid %s value %q: scheme must be http or https", APIBaseEnv, raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid %s value %q: missing host", APIBaseEnv, raw)
	}
	if u.RawQuery != "" || u.ForceQuery || u.Fragment != "" {
		return "", fmt.Errorf("invalid %s value %q: query and fragment are not allowed", APIBaseEnv, raw)
	}
	return strings.TrimRight(raw, "/"), nil
}
