package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/luma-collective/gatehouse/config"
	"github.com/luma-collective/gatehouse/twitterapi"
)

type fakeAuth struct {
	initiateURL string
	initiateErr error

	profile     *twitterapi.Profile
	completeErr error

	gotToken    string
	gotVerifier string
	gotDenied   string
}

func (f *fakeAuth) Initiate(ctx context.Context) (string, error) {
	return f.initiateURL, f.initiateErr
}

func (f *fakeAuth) Complete(ctx context.Context, token, verifier, denied string) (*twitterapi.Profile, error) {
	f.gotToken, f.gotVerifier, f.gotDenied = token, verifier, denied
	return f.profile, f.completeErr
}

type fakeRooms struct {
	created   []string
	createErr error

	inviteURL    string
	inviteOK     bool
	invitedChans []string

	refreshN int
}

func (f *fakeRooms) CreateVoiceChannel(name string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, name)
	return "chan-1", nil
}

func (f *fakeRooms) MintInvite(channelID string) (string, bool) {
	f.invitedChans = append(f.invitedChans, channelID)
	return f.inviteURL, f.inviteOK
}

func (f *fakeRooms) RefreshAll() int { return f.refreshN }

func (f *fakeRooms) General() string { return "general" }

func newGateHandlers(auth *fakeAuth, rooms *fakeRooms) *Handlers {
	return NewHandlers(&config.Config{}, auth, rooms, nil)
}

func ago(d time.Duration) *time.Time {
	ts := time.Now().UTC().Add(-d)
	return &ts
}

func TestHandleStartRedirects(t *testing.T) {
	auth := &fakeAuth{initiateURL: "https://provider.example/oauth/authorize?oauth_token=abc"}
	h := newGateHandlers(auth, &fakeRooms{})

	rec := httptest.NewRecorder()
	h.HandleStart(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != auth.initiateURL {
		t.Errorf("Location = %q", loc)
	}
}

func TestHandleStartUpstreamFailure(t *testing.T) {
	auth := &fakeAuth{initiateErr: twitterapi.ErrUpstream}
	h := newGateHandlers(auth, &fakeRooms{})

	rec := httptest.NewRecorder()
	h.HandleStart(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 error page", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "something went wrong") {
		t.Error("expected generic error page")
	}
}

func TestHandleStartUnknownPath(t *testing.T) {
	h := newGateHandlers(&fakeAuth{}, &fakeRooms{})
	rec := httptest.NewRecorder()
	h.HandleStart(rec, httptest.NewRequest(http.MethodGet, "/no-such-page", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleTwitterCallbackAdmit(t *testing.T) {
	auth := &fakeAuth{profile: &twitterapi.Profile{ScreenName: "tester", Followers: 50, CreatedAt: ago(10 * 24 * time.Hour)}}
	rooms := &fakeRooms{inviteURL: "https://discord.gg/abc123", inviteOK: true}
	h := newGateHandlers(auth, rooms)

	rec := httptest.NewRecorder()
	h.HandleTwitterCallback(rec, httptest.NewRequest(http.MethodGet, "/twitter?oauth_token=abc&oauth_verifier=v1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "https://discord.gg/abc123") {
		t.Error("welcome page should carry the invite link")
	}
	if auth.gotToken != "abc" || auth.gotVerifier != "v1" || auth.gotDenied != "" {
		t.Errorf("Complete called with (%q, %q, %q)", auth.gotToken, auth.gotVerifier, auth.gotDenied)
	}
	if len(rooms.invitedChans) != 1 || rooms.invitedChans[0] != "general" {
		t.Errorf("invite minted on %v, want [general]", rooms.invitedChans)
	}
}

func TestHandleTwitterCallbackVerdictPages(t *testing.T) {
	tests := []struct {
		name     string
		profile  *twitterapi.Profile
		wantBody string
	}{
		{
			name:     "too soon",
			profile:  &twitterapi.Profile{Followers: 2, CreatedAt: ago(24 * time.Hour)},
			wantBody: "too new",
		},
		{
			name:     "too popular",
			profile:  &twitterapi.Profile{Followers: 5000, CreatedAt: ago(30 * 24 * time.Hour)},
			wantBody: "too popular",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rooms := &fakeRooms{inviteOK: true}
			h := newGateHandlers(&fakeAuth{profile: tt.profile}, rooms)

			rec := httptest.NewRecorder()
			h.HandleTwitterCallback(rec, httptest.NewRequest(http.MethodGet, "/twitter?oauth_token=abc&oauth_verifier=v1", nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body %q does not mention %q", rec.Body.String(), tt.wantBody)
			}
			if len(rooms.invitedChans) != 0 {
				t.Error("no invite should be minted on a rejection")
			}
		})
	}
}

func TestHandleTwitterCallbackFailures(t *testing.T) {
	for _, tc := range []struct {
		name string
		auth *fakeAuth
	}{
		{"denied", &fakeAuth{completeErr: twitterapi.ErrDenied}},
		{"unknown token", &fakeAuth{completeErr: twitterapi.ErrUnknownToken}},
		{"missing params", &fakeAuth{completeErr: twitterapi.ErrMissingParams}},
		{"exchange failed", &fakeAuth{completeErr: twitterapi.ErrExchange}},
		{"profile fetch failed", &fakeAuth{completeErr: twitterapi.ErrProfileFetch}},
		{"timed out", &fakeAuth{completeErr: twitterapi.ErrTimeout}},
		{"unknown account age", &fakeAuth{profile: &twitterapi.Profile{Followers: 10}}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			rooms := &fakeRooms{inviteOK: true}
			h := newGateHandlers(tc.auth, rooms)

			rec := httptest.NewRecorder()
			h.HandleTwitterCallback(rec, httptest.NewRequest(http.MethodGet, "/twitter?oauth_token=abc&oauth_verifier=v1", nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200 error page", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), "something went wrong") {
				t.Error("expected generic error page")
			}
			if len(rooms.invitedChans) != 0 {
				t.Error("no invite should be minted on failure")
			}
		})
	}
}

func TestHandleTwitterCallbackInviteFailure(t *testing.T) {
	auth := &fakeAuth{profile: &twitterapi.Profile{Followers: 50, CreatedAt: ago(10 * 24 * time.Hour)}}
	rooms := &fakeRooms{inviteOK: false}
	h := newGateHandlers(auth, rooms)

	rec := httptest.NewRecorder()
	h.HandleTwitterCallback(rec, httptest.NewRequest(http.MethodGet, "/twitter?oauth_token=abc&oauth_verifier=v1", nil))

	if !strings.Contains(rec.Body.String(), "something went wrong") {
		t.Error("invite mint failure should render the generic error page")
	}
}
