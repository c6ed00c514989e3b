// Package config resolves runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/movieetl/internal/tmdb"
)

// Environment variables read by Load.
const (
	EnvAPIKey      = "API_KEY"
	EnvTMDBAPIKey  = "TMDB_API_KEY"
	EnvBaseURL     = "TMDB_BASE_URL"
	EnvRawDataDir  = "RAW_DATA_DIR"
	EnvTimeout     = "TMDB_TIMEOUT"
	EnvConcurrency = "TMDB_CONCURRENCY"
)

// Defaults. The client settings follow the tmdb package.
const (
	DefaultBaseURL     = tmdb.DefaultBaseURL
	DefaultRawDataDir  = "raw_data"
	DefaultTimeout     = tmdb.DefaultTimeout
	DefaultConcurrency = tmdb.DefaultConcurrency
)

// ErrMissingAPIKey is returned by Validate when no API key is configured.
var ErrMissingAPIKey = errors.New("TMDB API key is not set (use --api-key or API_KEY)")

// DefaultMovieIDs is the stock fetch list. Id 0 does not exist and is kept
// so a run always exercises the not-found path.
var DefaultMovieIDs = []int64{
	0, 299534, 19995, 140607, 299536, 597, 135397,
	420818, 24428, 168259, 99861, 284054, 12445,
	181808, 330457, 351286, 109445, 321612, 260513,
}

// Settings configures the fetch side of the pipeline.
type Settings struct {
	APIKey      string
	BaseURL     string
	RawDataDir  string
	Timeout     time.Duration
	Concurrency int
}

// Load reads settings from the environment, falling back to defaults.
func Load() (Settings, error) {
	s := Settings{
		APIKey:      os.Getenv(EnvAPIKey),
		BaseURL:     envOr(EnvBaseURL, DefaultBaseURL),
		RawDataDir:  envOr(EnvRawDataDir, DefaultRawDataDir),
		Timeout:     DefaultTimeout,
		Concurrency: DefaultConcurrency,
	}
	if s.APIKey == "" {
		s.APIKey = os.Getenv(EnvTMDBAPIKey)
	}

	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return s, fmt.Errorf("invalid %s %q: %w", EnvTimeout, v, err)
		}
		s.Timeout = d
	}
	if v := os.Getenv(EnvConcurrency); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return s, fmt.Errorf("invalid %s %q: %w", EnvConcurrency, v, err)
		}
		s.Concurrency = n
	}
	return s, nil
}

// Validate checks the settings needed to call the API.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if s.BaseURL == "" {
		return fmt.Errorf("TMDB base URL is empty")
	}
	if s.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", s.Concurrency)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", s.Timeout)
	}
	return nil
}

// ParseIDs parses movie ids given as separate or comma-separated arguments.
func ParseIDs(args []string) ([]int64, error) {
	var ids []int64
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid movie id %q: %w", part, err)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
