// Package gate decides whether a verified Twitter profile may enter the guild.
// The policy targets freshly created low-influence accounts: brand-new accounts
// are turned away before the follower threshold is even consulted, so an alt
// account with two followers still reads as too new.
package gate

import "time"

const (
	// MinAccountAge is how old an account must be before it can be admitted.
	MinAccountAge = 7 * 24 * time.Hour
	// MaxFollowers is the exclusive upper bound on follower count for admission.
	MaxFollowers = 1000
)

// Verdict is the outcome of evaluating a profile against the entry policy.
type Verdict int

const (
	Admit Verdict = iota
	TooSoon
	TooPopular
)

// String returns a human-readable name for the verdict.
func (v Verdict) String() string {
	switch v {
	case Admit:
		return "admit"
	case TooSoon:
		return "too_soon"
	case TooPopular:
		return "too_popular"
	default:
		return "unknown"
	}
}

// Evaluate applies the entry policy. Recency is checked before the follower
// threshold. A nil createdAt skips the age check; callers that require a known
// account age must reject such profiles before calling.
func Evaluate(followers int, createdAt *time.Time, now time.Time) Verdict {
	if createdAt != nil && now.Sub(*createdAt) < MinAccountAge {
		return TooSoon
	}
	if followers < MaxFollowers {
		return Admit
	}
	return TooPopular
}
