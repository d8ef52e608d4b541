package gate

import (
	"testing"
	"time"
)

func TestEvaluate(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	age := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}

	tests := []struct {
		name      string
		followers int
		createdAt *time.Time
		want      Verdict
	}{
		{
			name:      "old account under threshold",
			followers: 50,
			createdAt: age(10 * 24 * time.Hour),
			want:      Admit,
		},
		{
			name:      "brand new account with few followers",
			followers: 2,
			createdAt: age(24 * time.Hour),
			want:      TooSoon,
		},
		{
			name:      "brand new account with many followers",
			followers: 50000,
			createdAt: age(time.Hour),
			want:      TooSoon,
		},
		{
			name:      "exactly seven days old",
			followers: 10,
			createdAt: age(MinAccountAge),
			want:      Admit,
		},
		{
			name:      "one second short of seven days",
			followers: 10,
			createdAt: age(MinAccountAge - time.Second),
			want:      TooSoon,
		},
		{
			name:      "at follower threshold",
			followers: MaxFollowers,
			createdAt: age(30 * 24 * time.Hour),
			want:      TooPopular,
		},
		{
			name:      "just under follower threshold",
			followers: MaxFollowers - 1,
			createdAt: age(30 * 24 * time.Hour),
			want:      Admit,
		},
		{
			name:      "far over follower threshold",
			followers: 2_000_000,
			createdAt: age(365 * 24 * time.Hour),
			want:      TooPopular,
		},
		{
			name:      "unknown age under threshold",
			followers: 100,
			createdAt: nil,
			want:      Admit,
		},
		{
			name:      "unknown age over threshold",
			followers: 5000,
			createdAt: nil,
			want:      TooPopular,
		},
		{
			name:      "zero followers old account",
			followers: 0,
			createdAt: age(100 * 24 * time.Hour),
			want:      Admit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.followers, tt.createdAt, now); got != tt.want {
				t.Errorf("Evaluate(%d, %v) = %v, want %v", tt.followers, tt.createdAt, got, tt.want)
			}
		})
	}
}

func TestVerdictString(t *testing.T) {
	if Admit.String() != "admit" || TooSoon.String() != "too_soon" || TooPopular.String() != "too_popular" {
		t.Error("unexpected verdict names")
	}
	if Verdict(99).String() != "unknown" {
		t.Error("out-of-range verdict should stringify as unknown")
	}
}
