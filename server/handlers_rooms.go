package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"github.com/luma-collective/gatehouse/discordapi"
	"github.com/luma-collective/gatehouse/telemetry"
)

const (
	roomCreatedMessage = "Your new voice channel has been added!"
	roomFailureMessage = "There was an issue adding a room. Please try again."

	// Interaction payloads are tiny; anything larger is not Discord.
	maxInteractionBody = 1 << 20
)

// HandleRoomRequest serves the Discord interaction webhook. The signature
// check runs before anything else; a request that fails it is rejected with
// 401 and causes no channel mutation.
func (h *Handlers) HandleRoomRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	logger := telemetry.LoggerWithCorr(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, maxInteractionBody))
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get("X-Signature-Ed25519")
	timestamp := r.Header.Get("X-Signature-Timestamp")
	if !discordapi.VerifySignature(h.pubKey, signature, timestamp, body) {
		telemetry.Inc(telemetry.SignatureFailures)
		logger.Warn("interaction signature rejected", slog.String("remote_addr", r.RemoteAddr))
		http.Error(w, "invalid request signature", http.StatusUnauthorized)
		return
	}

	var interaction discordgo.Interaction
	if err := interaction.UnmarshalJSON(body); err != nil {
		logger.Warn("undecodable interaction payload", slog.Any("err", err))
		writeInteractionMessage(w, roomFailureMessage)
		return
	}

	if interaction.Type == discordgo.InteractionPing {
		writeJSON(w, discordgo.InteractionResponse{Type: discordgo.InteractionResponsePong})
		return
	}

	name := firstStringOption(&interaction)
	if name == "" {
		writeInteractionMessage(w, roomFailureMessage)
		return
	}
	if _, err := h.rooms.CreateVoiceChannel(name); err != nil {
		telemetry.Inc(telemetry.RoomCreatesFailed)
		logger.Warn("voice channel create failed", slog.String("name", name), slog.Any("err", err))
		writeInteractionMessage(w, roomFailureMessage)
		return
	}
	telemetry.Inc(telemetry.RoomsCreated)
	logger.Info("voice channel created", slog.String("name", name))
	writeInteractionMessage(w, roomCreatedMessage)
}

// HandleRefreshRooms runs the bulk cleanup sweep over the guild's voice
// channels. Triggered by an external scheduler, typically hourly.
func (h *Handlers) HandleRefreshRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	removed := h.rooms.RefreshAll()
	telemetry.AddRoomsRemoved(removed)
	telemetry.LoggerWithCorr(r.Context()).Info("voice channel sweep", slog.Int("removed", removed))
	writeJSON(w, map[string]any{"success": removed > 0, "num_removed": removed})
}

// firstStringOption pulls the first command option's string value from an
// application-command interaction, or "" when the payload has no usable option.
func firstStringOption(interaction *discordgo.Interaction) string {
	if interaction.Type != discordgo.InteractionApplicationCommand {
		return ""
	}
	options := interaction.ApplicationCommandData().Options
	if len(options) == 0 {
		return ""
	}
	if s, ok := options[0].Value.(string); ok {
		return s
	}
	return ""
}

// writeInteractionMessage answers a command invocation with the fixed-shape
// acknowledgment payload Discord expects.
func writeInteractionMessage(w http.ResponseWriter, content string) {
	writeJSON(w, discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			TTS:             false,
			Content:         content,
			Embeds:          []*discordgo.MessageEmbed{},
			AllowedMentions: &discordgo.MessageAllowedMentions{},
		},
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode JSON response", slog.Any("err", err))
	}
}
