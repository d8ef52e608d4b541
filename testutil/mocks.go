// Package testutil provides shared fakes for exercising the OAuth handshake
// against a local HTTP server instead of Twitter.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

// MockTwitterServer is a test server that answers the OAuth 1.0a token
// endpoints and the verify_credentials profile lookup.
type MockTwitterServer struct {
	*httptest.Server
	Handlers map[string]http.HandlerFunc
}

// NewMockTwitterServer creates a new mock provider. Paths without a registered
// handler answer 404.
func NewMockTwitterServer(t *testing.T) *MockTwitterServer {
	t.Helper()
	m := &MockTwitterServer{
		Handlers: make(map[string]http.HandlerFunc),
	}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := m.Handlers[r.URL.Path]; ok {
			handler(w, r)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(m.Close)
	return m
}

// MockRequestToken answers the temporary credential request with the given pair.
func (m *MockTwitterServer) MockRequestToken(token, secret string) {
	m.Handlers["/oauth/request_token"] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-www-form-urlencoded")
		fmt.Fprintf(w, "oauth_token=%s&oauth_token_secret=%s&oauth_callback_confirmed=true", token, secret)
	}
}

// MockAccessToken answers the permanent credential exchange with the given pair.
func (m *MockTwitterServer) MockAccessToken(token, secret string) {
	m.Handlers["/oauth/access_token"] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-www-form-urlencoded")
		fmt.Fprintf(w, "oauth_token=%s&oauth_token_secret=%s&user_id=12345&screen_name=tester", token, secret)
	}
}

// MockVerifyCredentials answers the profile lookup. An empty createdAt omits
// the field from the payload.
func (m *MockTwitterServer) MockVerifyCredentials(screenName string, followers int, createdAt string) {
	m.Handlers["/1.1/account/verify_credentials.json"] = func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"screen_name":     screenName,
			"followers_count": followers,
		}
		if createdAt != "" {
			payload["created_at"] = createdAt
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload) //nolint:errcheck // test mock response
	}
}

// MockStatus makes path answer with a fixed status code and empty body.
func (m *MockTwitterServer) MockStatus(path string, code int) {
	m.Handlers[path] = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	}
}

// RewriteTransport redirects every request to the mock server's host while
// keeping the path, so clients with hardcoded API hosts can be pointed at it.
type RewriteTransport struct {
	URL *url.URL
}

func (t RewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = t.URL.Scheme
	req.URL.Host = t.URL.Host
	return http.DefaultTransport.RoundTrip(req)
}
