// Package server exposes the HTTP surface: the OAuth entry flow, the Discord
// interaction webhook, the cleanup trigger, and health/metrics endpoints.
package server

import (
	"context"
	"crypto/ed25519"

	"github.com/luma-collective/gatehouse/config"
	"github.com/luma-collective/gatehouse/twitterapi"
)

// authenticator drives the three-legged OAuth handshake.
type authenticator interface {
	Initiate(ctx context.Context) (string, error)
	Complete(ctx context.Context, token, verifier, denied string) (*twitterapi.Profile, error)
}

// roomManager mutates the guild's voice channels and mints invites.
type roomManager interface {
	CreateVoiceChannel(name string) (string, error)
	MintInvite(channelID string) (string, bool)
	RefreshAll() int
	General() string
}

// Handlers holds dependencies for all HTTP handlers.
type Handlers struct {
	cfg    *config.Config
	auth   authenticator
	rooms  roomManager
	pubKey ed25519.PublicKey
}

// NewHandlers creates a new Handlers instance with the given dependencies.
func NewHandlers(cfg *config.Config, auth authenticator, rooms roomManager, pubKey ed25519.PublicKey) *Handlers {
	return &Handlers{
		cfg:    cfg,
		auth:   auth,
		rooms:  rooms,
		pubKey: pubKey,
	}
}
