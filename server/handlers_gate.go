package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/luma-collective/gatehouse/gate"
	"github.com/luma-collective/gatehouse/telemetry"
)

// HandleStart begins the OAuth handshake and redirects the user to the
// provider's authorize page.
func (h *Handlers) HandleStart(w http.ResponseWriter, r *http.Request) {
	// The root pattern matches every otherwise-unrouted path.
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	telemetry.Inc(telemetry.HandshakesStarted)
	target, err := h.auth.Initiate(r.Context())
	if err != nil {
		telemetry.Inc(telemetry.HandshakesFailed)
		telemetry.LoggerWithCorr(r.Context()).Error("handshake initiation failed", slog.Any("err", err))
		renderPage(w, http.StatusOK, "error", nil)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// HandleTwitterCallback completes the handshake, evaluates the verified
// profile, and renders the outcome page. The user only ever sees one of:
// welcome (with invite), too-soon, too-popular, or a generic error.
func (h *Handlers) HandleTwitterCallback(w http.ResponseWriter, r *http.Request) {
	logger := telemetry.LoggerWithCorr(r.Context())
	q := r.URL.Query()

	start := time.Now()
	profile, err := h.auth.Complete(r.Context(), q.Get("oauth_token"), q.Get("oauth_verifier"), q.Get("denied"))
	if obs := telemetry.HandshakeDuration; obs != nil {
		obs.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		telemetry.Inc(telemetry.HandshakesFailed)
		logger.Warn("handshake did not complete", slog.Any("err", err))
		renderPage(w, http.StatusOK, "error", nil)
		return
	}
	telemetry.Inc(telemetry.HandshakesCompleted)

	if profile.CreatedAt == nil {
		// Without a creation timestamp the age gate cannot run; err on the
		// side of not admitting.
		logger.Warn("profile missing creation timestamp", slog.String("screen_name", profile.ScreenName))
		renderPage(w, http.StatusOK, "error", nil)
		return
	}

	switch gate.Evaluate(profile.Followers, profile.CreatedAt, time.Now().UTC()) {
	case gate.TooSoon:
		telemetry.Inc(telemetry.VerdictsTooSoon)
		logger.Info("rejected: account too new", slog.String("screen_name", profile.ScreenName))
		renderPage(w, http.StatusOK, "too-soon", nil)
	case gate.TooPopular:
		telemetry.Inc(telemetry.VerdictsTooPopular)
		logger.Info("rejected: too many followers",
			slog.String("screen_name", profile.ScreenName), slog.Int("followers", profile.Followers))
		renderPage(w, http.StatusOK, "too-popular", nil)
	case gate.Admit:
		telemetry.Inc(telemetry.VerdictsAdmitted)
		invite, ok := h.rooms.MintInvite(h.rooms.General())
		if !ok {
			telemetry.Inc(telemetry.InvitesFailed)
			renderPage(w, http.StatusOK, "error", nil)
			return
		}
		telemetry.Inc(telemetry.InvitesMinted)
		logger.Info("admitted", slog.String("screen_name", profile.ScreenName))
		renderPage(w, http.StatusOK, "welcome", map[string]string{"Invite": invite})
	}
}
