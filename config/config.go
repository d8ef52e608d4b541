// Package config loads environment variables and provides a typed Config used across the service.
// It applies sensible defaults so the binary can run locally with minimal setup.
// For required credentials use ValidateTwitterReady / ValidateDiscordReady.
package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	// Twitter OAuth 1.0a consumer credentials
	TwitterConsumerKey    string
	TwitterConsumerSecret string

	// CallbackURL is the public URL of the /twitter callback route.
	CallbackURL string

	// Discord
	DiscordBotToken         string
	DiscordGuildID          string
	DiscordGeneralChannelID string
	DiscordVoiceParentID    string
	DiscordPublicKey        string // hex-encoded Ed25519 key for interaction signatures

	// HTTP
	HTTPAddr string

	// PendingTTL bounds how long an unfinished OAuth handshake may stay in memory.
	PendingTTL time.Duration

	// UpstreamTimeout bounds every outbound call to Twitter or Discord.
	UpstreamTimeout time.Duration
}

// Load reads environment variables and applies defaults. It doesn't fail when credentials
// are missing; use the Validate helpers when a feature requires them.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.TwitterConsumerKey = os.Getenv("TWITTER_API_KEY")
	cfg.TwitterConsumerSecret = os.Getenv("TWITTER_API_SECRET")

	cfg.CallbackURL = os.Getenv("OAUTH_CALLBACK_URL")
	if cfg.CallbackURL == "" {
		cfg.CallbackURL = "http://localhost:8080/twitter"
	}

	cfg.DiscordBotToken = os.Getenv("DISCORD_BOT_TOKEN")
	cfg.DiscordGuildID = os.Getenv("DISCORD_GUILD_ID")
	cfg.DiscordGeneralChannelID = os.Getenv("DISCORD_GENERAL_CHANNEL")
	cfg.DiscordVoiceParentID = os.Getenv("DISCORD_VOICE_PARENT_ID")
	cfg.DiscordPublicKey = os.Getenv("DISCORD_PUBLIC_KEY")

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	cfg.PendingTTL = 10 * time.Minute
	if v := os.Getenv("OAUTH_PENDING_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid OAUTH_PENDING_TTL: %w", err)
		}
		cfg.PendingTTL = d
	}

	cfg.UpstreamTimeout = 10 * time.Second
	if v := os.Getenv("UPSTREAM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid UPSTREAM_TIMEOUT: %w", err)
		}
		cfg.UpstreamTimeout = d
	}

	return cfg, nil
}

// ValidateTwitterReady checks required fields for the OAuth handshake.
func (c *Config) ValidateTwitterReady() error {
	if c.TwitterConsumerKey == "" || c.TwitterConsumerSecret == "" {
		return fmt.Errorf("missing twitter env: require TWITTER_API_KEY, TWITTER_API_SECRET")
	}
	return nil
}

// ValidateDiscordReady checks required fields for guild channel management and
// interaction verification.
func (c *Config) ValidateDiscordReady() error {
	if c.DiscordBotToken == "" || c.DiscordGuildID == "" || c.DiscordGeneralChannelID == "" || c.DiscordPublicKey == "" {
		return fmt.Errorf("missing discord env: require DISCORD_BOT_TOKEN, DISCORD_GUILD_ID, DISCORD_GENERAL_CHANNEL, DISCORD_PUBLIC_KEY")
	}
	return nil
}
