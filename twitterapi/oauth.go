// Package twitterapi drives the three-legged OAuth 1.0a handshake with Twitter
// and the signed profile lookup that follows it. Request signing (HMAC-SHA1)
// is delegated to dghubble/oauth1; this package owns the pending-request store
// and the sequencing rules around it.
package twitterapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dghubble/oauth1"
	twauth "github.com/dghubble/oauth1/twitter"
)

// Authenticator coordinates the handshake. Each token moves pending -> consumed
// exactly once; the pending entry is gone after Complete touches it, whatever
// the downstream outcome.
type Authenticator struct {
	config  *oauth1.Config
	store   *PendingStore
	timeout time.Duration

	// httpClient overrides the client used for signed profile lookups.
	// Nil means a default client bounded by timeout.
	httpClient *http.Client
}

// NewAuthenticator builds an Authenticator from consumer credentials. The
// callback URL is where the provider sends the user after authorization.
func NewAuthenticator(consumerKey, consumerSecret, callbackURL string, store *PendingStore, timeout time.Duration) *Authenticator {
	cfg := oauth1.NewConfig(consumerKey, consumerSecret)
	cfg.CallbackURL = callbackURL
	cfg.Endpoint = twauth.AuthorizeEndpoint
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Authenticator{config: cfg, store: store, timeout: timeout}
}

// Initiate requests a temporary credential from the provider, stores it as
// pending, and returns the authorize URL to redirect the user to.
func (a *Authenticator) Initiate(ctx context.Context) (string, error) {
	var requestToken, requestSecret string
	err := a.call(ctx, func() error {
		var err error
		requestToken, requestSecret, err = a.config.RequestToken()
		return err
	})
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	a.store.Put(requestToken, requestSecret)
	authorizeURL, err := a.config.AuthorizationURL(requestToken)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return authorizeURL.String(), nil
}

// Complete finishes the handshake for a callback carrying token/verifier, or a
// denied flag. The pending secret is consumed before any upstream call, so a
// replayed callback sees ErrUnknownToken even when the first attempt failed
// downstream.
func (a *Authenticator) Complete(ctx context.Context, token, verifier, denied string) (*Profile, error) {
	if denied != "" {
		a.store.Evict(denied)
		return nil, ErrDenied
	}
	if token == "" || verifier == "" {
		return nil, ErrMissingParams
	}
	secret, ok := a.store.Consume(token)
	if !ok {
		return nil, ErrUnknownToken
	}

	var accessToken, accessSecret string
	err := a.call(ctx, func() error {
		var err error
		accessToken, accessSecret, err = a.config.AccessToken(token, secret, verifier)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrExchange, err)
	}

	return a.fetchProfile(ctx, accessToken, accessSecret)
}

// call runs fn to completion unless the bounded deadline fires first. The
// oauth1 token endpoints take no context, so a late result from an abandoned
// call is discarded rather than cancelled.
func (a *Authenticator) call(ctx context.Context, fn func() error) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- fn() }()
	select {
	case err := <-done:
		if isTimeout(err) {
			return ErrTimeout
		}
		return err
	case <-ctx.Done():
		return ErrTimeout
	}
}

func (a *Authenticator) client() *http.Client {
	if a.httpClient != nil {
		return a.httpClient
	}
	return &http.Client{Timeout: a.timeout}
}
