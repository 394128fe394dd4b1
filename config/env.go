package config

import (
	"os"
	"strings"
)

// Env is a one-shot snapshot of the process environment. It is built once
// per run and passed down explicitly; nothing below the CLI reads os.Getenv
// for mode switches.
type Env struct {
	OpenAIAPIKey       string
	HeyGenAPIKey       string
	TikTokClientKey    string
	TikTokClientSecret string
	TikTokRedirectURI  string
	TikTokAccessToken  string
	TikTokOpenID       string
	SleeperBaseURL     string

	// DryRun forces every backend into deterministic stub behavior and
	// suppresses all network calls.
	DryRun bool

	// Per-backend live toggles. Setting one without credentials fails
	// adapter construction instead of silently falling back to a stub.
	HeyGenLive    bool
	TikTokLive    bool
	OpenAIEnabled bool

	SleeperEnabled bool
	EnableBetting  bool
}

// LoadEnv reads the environment into a typed snapshot.
func LoadEnv() Env {
	return Env{
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		HeyGenAPIKey:       os.Getenv("HEYGEN_API_KEY"),
		TikTokClientKey:    os.Getenv("TIKTOK_CLIENT_KEY"),
		TikTokClientSecret: os.Getenv("TIKTOK_CLIENT_SECRET"),
		TikTokRedirectURI:  os.Getenv("TIKTOK_REDIRECT_URI"),
		TikTokAccessToken:  os.Getenv("TIKTOK_ACCESS_TOKEN"),
		TikTokOpenID:       os.Getenv("TIKTOK_OPEN_ID"),
		SleeperBaseURL:     envOr("SLEEPER_BASE_URL", "https://api.sleeper.app"),
		DryRun:             ParseBool(os.Getenv("DRY_RUN")),
		HeyGenLive:         ParseBool(os.Getenv("HEYGEN_LIVE")),
		TikTokLive:         ParseBool(os.Getenv("TIKTOK_LIVE")),
		OpenAIEnabled:      ParseBool(os.Getenv("OPENAI_ENABLED")),
		SleeperEnabled:     ParseBool(os.Getenv("SLEEPER_ENABLED")),
		EnableBetting:      ParseBool(os.Getenv("ENABLE_BETTING")),
	}
}

// ParseBool accepts the truthy spellings used across env flags.
func ParseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "t", "yes", "y":
		return true
	}
	return false
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
