package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"dctech", "dmvtech", "washingtondc"}, cfg.SeedHashtags)
	assert.Equal(t, []string{"capitalweather.bsky.social"}, cfg.AnchorHandles)
	assert.Equal(t, 100, cfg.MaxCandidatesPerHashtag)
	assert.Equal(t, 200, cfg.MaxAccountsPerAnchor)
	assert.Equal(t, 50, cfg.FetchPostsLimit)
	assert.Equal(t, "dctech.db", cfg.DBPath)
	assert.Equal(t, "https://bsky.social", cfg.BskyHost)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.InDelta(t, 0.75, cfg.MatchThreshold, 1e-9)
	assert.InDelta(t, 0.50, cfg.MaybeThreshold, 1e-9)
	assert.Equal(t, 24*time.Hour, cfg.ProfileTTL())
	assert.Equal(t, 6*time.Hour, cfg.PostsTTL())
	assert.Equal(t, 168*time.Hour, cfg.EvalTTL())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SEED_HASHTAGS", "govtech, civictech ,")
	t.Setenv("ANCHOR_HANDLES", "a.bsky.social,b.bsky.social")
	t.Setenv("MAX_CANDIDATES_PER_HASHTAG", "25")
	t.Setenv("TTL_PROFILE_HOURS", "48")
	t.Setenv("DB_PATH", "/tmp/other.db")
	t.Setenv("MATCH_THRESHOLD", "0.9")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"govtech", "civictech"}, cfg.SeedHashtags)
	assert.Equal(t, []string{"a.bsky.social", "b.bsky.social"}, cfg.AnchorHandles)
	assert.Equal(t, 25, cfg.MaxCandidatesPerHashtag)
	assert.Equal(t, 48*time.Hour, cfg.ProfileTTL())
	assert.Equal(t, "/tmp/other.db", cfg.DBPath)
	assert.InDelta(t, 0.9, cfg.MatchThreshold, 1e-9)
}

func TestLoad_UnparseableValuesFallBack(t *testing.T) {
	t.Setenv("MAX_CANDIDATES_PER_HASHTAG", "lots")
	t.Setenv("MATCH_THRESHOLD", "high")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.MaxCandidatesPerHashtag)
	assert.InDelta(t, 0.75, cfg.MatchThreshold, 1e-9)
}

func TestLoad_ThresholdOrderingEnforced(t *testing.T) {
	t.Setenv("MATCH_THRESHOLD", "0.4")
	t.Setenv("MAYBE_THRESHOLD", "0.6")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no seed hashtags", func(c *Config) { c.SeedHashtags = nil }},
		{"zero hashtag limit", func(c *Config) { c.MaxCandidatesPerHashtag = 0 }},
		{"empty db path", func(c *Config) { c.DBPath = "" }},
		{"bad host url", func(c *Config) { c.BskyHost = "not a url" }},
		{"threshold above one", func(c *Config) { c.MatchThreshold = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestRequireBsky(t *testing.T) {
	cfg := &Config{}
	err := cfg.RequireBsky()
	require.Error(t, err)

	var missing *MissingSettingError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "BSKY_USERNAME", missing.Name)

	cfg.BskyUsername = "someone.bsky.social"
	err = cfg.RequireBsky()
	require.Error(t, err)
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "BSKY_PASSWORD", missing.Name)

	cfg.BskyPassword = "app-password"
	assert.NoError(t, cfg.RequireBsky())
}

func TestRequireLLM(t *testing.T) {
	cfg := &Config{}
	err := cfg.RequireLLM()
	require.Error(t, err)

	var missing *MissingSettingError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "GEMINI_API_KEY", missing.Name)

	cfg.GeminiAPIKey = "key"
	assert.NoError(t, cfg.RequireLLM())
}
