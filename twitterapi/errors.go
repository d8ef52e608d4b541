package twitterapi

import (
	"errors"
	"net"
)

// Sentinel failure kinds for the three-legged handshake. Handlers match these
// with errors.Is and render a page; none of the wrapped detail reaches the user.
var (
	// ErrDenied means the user declined authorization at the provider.
	ErrDenied = errors.New("authorization denied")
	// ErrMissingParams means the callback arrived without oauth_token or oauth_verifier.
	ErrMissingParams = errors.New("missing callback parameters")
	// ErrUnknownToken means the request token is not pending: never issued,
	// expired, or already consumed.
	ErrUnknownToken = errors.New("unknown or expired request token")
	// ErrUpstream means the temporary credential request failed.
	ErrUpstream = errors.New("request token call failed")
	// ErrExchange means the permanent credential exchange failed.
	ErrExchange = errors.New("access token exchange failed")
	// ErrProfileFetch means the signed profile lookup failed.
	ErrProfileFetch = errors.New("profile lookup failed")
	// ErrTimeout means an outbound call exceeded the configured deadline.
	ErrTimeout = errors.New("twitter call timed out")
)

// isTimeout reports whether err is a network-level timeout from the underlying client.
func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
