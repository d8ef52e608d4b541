package twitterapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dghubble/go-twitter/twitter"
	"github.com/dghubble/oauth1"
)

// Profile is the slice of a Twitter profile the entry policy needs. It lives
// for a single request and is never persisted.
type Profile struct {
	ScreenName string
	Followers  int
	// CreatedAt is nil when the provider omitted the field or sent something
	// unparseable; callers decide how to treat an unknown account age.
	CreatedAt *time.Time
}

// Twitter serializes created_at as e.g. "Sat Jun 01 12:00:00 +0000 2024".
const createdAtLayout = time.RubyDate

// fetchProfile performs the signed verify_credentials lookup with the
// permanent token pair and maps the payload into a Profile. A missing
// followers_count decodes as 0.
func (a *Authenticator) fetchProfile(ctx context.Context, accessToken, accessSecret string) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	ctx = context.WithValue(ctx, oauth1.HTTPClient, a.client())
	signed := a.config.Client(ctx, oauth1.NewToken(accessToken, accessSecret))
	signed.Timeout = a.timeout

	api := twitter.NewClient(signed)
	user, resp, err := api.Accounts.VerifyCredentials(&twitter.AccountVerifyParams{
		SkipStatus:   twitter.Bool(true),
		IncludeEmail: twitter.Bool(false),
	})
	if err != nil {
		if isTimeout(err) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrProfileFetch, err)
	}
	if resp != nil && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrProfileFetch, resp.StatusCode)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: empty payload", ErrProfileFetch)
	}

	p := &Profile{ScreenName: user.ScreenName, Followers: user.FollowersCount}
	if user.CreatedAt != "" {
		ts, err := time.Parse(createdAtLayout, user.CreatedAt)
		if err != nil {
			slog.Warn("unparseable created_at on profile",
				slog.String("screen_name", user.ScreenName), slog.String("value", user.CreatedAt))
		} else {
			utc := ts.UTC()
			p.CreatedAt = &utc
		}
	}
	return p, nil
}
