// Package discordapi manages the guild's on-demand voice channels and entry
// invites over the Discord REST API, and verifies interaction-webhook
// signatures. It never opens a gateway connection; every operation is a single
// authenticated REST call via discordgo.
package discordapi

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

const inviteBaseURL = "https://discord.gg/"

// Invite parameters: single-use, one hour, never deduplicated against
// existing invites.
const (
	inviteMaxAge  = 3600
	inviteMaxUses = 1
)

// restSession is the slice of discordgo.Session the manager needs. Tests
// substitute a fake.
type restSession interface {
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
	GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelDelete(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelInviteCreate(channelID string, invite discordgo.Invite, options ...discordgo.RequestOption) (*discordgo.Invite, error)
}

// Manager creates, lists, and removes the guild's voice channels and mints
// entry invites. The configured general channel is never touched by the bulk
// cleanup sweep.
type Manager struct {
	session          restSession
	guildID          string
	generalChannelID string
	voiceParentID    string
}

// NewManager wraps an authenticated discordgo session. The session is used for
// REST calls only; callers must not Open it.
func NewManager(session *discordgo.Session, guildID, generalChannelID, voiceParentID string) *Manager {
	return &Manager{
		session:          session,
		guildID:          guildID,
		generalChannelID: generalChannelID,
		voiceParentID:    voiceParentID,
	}
}

// General returns the configured general channel id, the target for entry
// invites and the one channel the cleanup sweep skips.
func (m *Manager) General() string {
	return m.generalChannelID
}

// CreateVoiceChannel creates a voice channel under the configured parent
// grouping and returns its id. Failures are soft: the caller reports them and
// moves on.
func (m *Manager) CreateVoiceChannel(name string) (string, error) {
	ch, err := m.session.GuildChannelCreateComplex(m.guildID, discordgo.GuildChannelCreateData{
		Name:     name,
		Type:     discordgo.ChannelTypeGuildVoice,
		ParentID: m.voiceParentID,
	})
	if err != nil {
		return "", fmt.Errorf("create voice channel %q: %w", name, err)
	}
	return ch.ID, nil
}

// VoiceChannels lists the guild's voice channel ids, excluding the general
// channel. A failed fetch degrades to an empty list.
func (m *Manager) VoiceChannels() []string {
	channels, err := m.session.GuildChannels(m.guildID)
	if err != nil {
		slog.Warn("guild channel list failed", slog.String("guild", m.guildID), slog.Any("err", err))
		return nil
	}
	var ids []string
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildVoice && ch.ID != m.generalChannelID {
			ids = append(ids, ch.ID)
		}
	}
	return ids
}

// DeleteVoiceChannel removes a channel best-effort and reports whether it
// succeeded.
func (m *Manager) DeleteVoiceChannel(id string) bool {
	if _, err := m.session.ChannelDelete(id); err != nil {
		slog.Warn("channel delete failed", slog.String("channel", id), slog.Any("err", err))
		return false
	}
	return true
}

// MintInvite creates a single-use, one-hour invite for the given channel and
// returns its URL. Not-ok is terminal for the admit flow.
func (m *Manager) MintInvite(channelID string) (string, bool) {
	invite, err := m.session.ChannelInviteCreate(channelID, discordgo.Invite{
		MaxAge:  inviteMaxAge,
		MaxUses: inviteMaxUses,
		Unique:  true,
	})
	if err != nil {
		slog.Warn("invite mint failed", slog.String("channel", channelID), slog.Any("err", err))
		return "", false
	}
	return inviteBaseURL + invite.Code, true
}

// RefreshAll deletes every non-general voice channel in the guild and returns
// how many deletions succeeded.
func (m *Manager) RefreshAll() int {
	var removed int
	for _, id := range m.VoiceChannels() {
		if m.DeleteVoiceChannel(id) {
			removed++
		}
	}
	return removed
}
