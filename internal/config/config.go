// Package config provides configuration loading and validation for the CLI.
// All settings come from environment variables (a .env file is loaded by the
// command layer before Load runs). The resulting Config is constructed once
// at startup and passed into each component constructor.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds every recognized setting. Credentials are optional at load
// time; stages that need them call RequireBsky / RequireLLM before running.
type Config struct {
	// Seed data
	SeedHashtags  []string `validate:"min=1"`
	AnchorHandles []string

	// Discovery limits
	MaxCandidatesPerHashtag int `validate:"gt=0"`
	MaxAccountsPerAnchor    int `validate:"gt=0"`
	FetchPostsLimit         int `validate:"gt=0"`

	// TTLs in hours. TTLPostsHours is recognized but not consulted by the
	// posts refresh predicate, which triggers on emptiness or --force only.
	TTLProfileHours int `validate:"gt=0"`
	TTLPostsHours   int `validate:"gt=0"`
	TTLEvalHours    int `validate:"gt=0"`

	// Storage
	DBPath string `validate:"required"`

	// Bluesky session credentials
	BskyHost     string `validate:"required,url"`
	BskyUsername string
	BskyPassword string

	// LLM
	GeminiAPIKey string
	GeminiModel  string `validate:"required"`

	// Scoring thresholds. Match must stay strictly above Maybe.
	MatchThreshold float64 `validate:"gt=0,lte=1,gtfield=MaybeThreshold"`
	MaybeThreshold float64 `validate:"gt=0,lte=1"`
}

// MissingSettingError reports a required credential or setting that was not
// provided. It is fatal at startup, before any stage runs.
type MissingSettingError struct {
	Name string
}

func (e *MissingSettingError) Error() string {
	return fmt.Sprintf("config error: %s is required but not set", e.Name)
}

// Load builds a Config from the environment, applying defaults for unset
// values, and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		SeedHashtags:            envList("SEED_HASHTAGS", []string{"dctech", "dmvtech", "washingtondc"}),
		AnchorHandles:           envList("ANCHOR_HANDLES", []string{"capitalweather.bsky.social"}),
		MaxCandidatesPerHashtag: envInt("MAX_CANDIDATES_PER_HASHTAG", 100),
		MaxAccountsPerAnchor:    envInt("MAX_ACCOUNTS_PER_ANCHOR", 200),
		FetchPostsLimit:         envInt("FETCH_POSTS_LIMIT", 50),
		TTLProfileHours:         envInt("TTL_PROFILE_HOURS", 24),
		TTLPostsHours:           envInt("TTL_POSTS_HOURS", 6),
		TTLEvalHours:            envInt("TTL_EVAL_HOURS", 168),
		DBPath:                  envString("DB_PATH", "dctech.db"),
		BskyHost:                envString("BSKY_HOST", "https://bsky.social"),
		BskyUsername:            os.Getenv("BSKY_USERNAME"),
		BskyPassword:            os.Getenv("BSKY_PASSWORD"),
		GeminiAPIKey:            os.Getenv("GEMINI_API_KEY"),
		GeminiModel:             envString("GEMINI_MODEL", "gemini-2.5-flash"),
		MatchThreshold:          envFloat("MATCH_THRESHOLD", 0.75),
		MaybeThreshold:          envFloat("MAYBE_THRESHOLD", 0.50),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and cross-field invariants.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// RequireBsky ensures the Bluesky session credentials are present. Discovery
// and fetch stages call this before opening a session.
func (c *Config) RequireBsky() error {
	if c.BskyUsername == "" {
		return &MissingSettingError{Name: "BSKY_USERNAME"}
	}
	if c.BskyPassword == "" {
		return &MissingSettingError{Name: "BSKY_PASSWORD"}
	}
	return nil
}

// RequireLLM ensures the model credential is present. The evaluate stage
// calls this before constructing the client.
func (c *Config) RequireLLM() error {
	if c.GeminiAPIKey == "" {
		return &MissingSettingError{Name: "GEMINI_API_KEY"}
	}
	return nil
}

// ProfileTTL returns the profile refresh interval.
func (c *Config) ProfileTTL() time.Duration {
	return time.Duration(c.TTLProfileHours) * time.Hour
}

// PostsTTL returns the configured posts interval. It is reported for
// completeness; the posts refresh predicate does not consult it.
func (c *Config) PostsTTL() time.Duration {
	return time.Duration(c.TTLPostsHours) * time.Hour
}

// EvalTTL returns the evaluation refresh interval.
func (c *Config) EvalTTL() time.Duration {
	return time.Duration(c.TTLEvalHours) * time.Hour
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}
