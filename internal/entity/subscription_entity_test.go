package entity

import (
	"testing"
	"time"
)

func TestSubscriptionTierExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name string
		tier SubscriptionTier
		want bool
	}{
		{"paid tier still running", SubscriptionTier{Tier: TierPro, ExpiresAt: &future}, false},
		{"paid tier lapsed", SubscriptionTier{Tier: TierPro, ExpiresAt: &past}, true},
		{"free tier never expires", SubscriptionTier{Tier: TierFree}, false},
		{"free tier ignores a stale expiry", SubscriptionTier{Tier: TierFree, ExpiresAt: &past}, false},
		{"paid tier without expiry", SubscriptionTier{Tier: TierElite}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tier.Expired(now); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTierNameValid(t *testing.T) {
	for _, name := range []TierName{TierFree, TierPro, TierElite} {
		if !name.Valid() {
			t.Errorf("expected %s to be valid", name)
		}
	}
	if TierName("platinum").Valid() {
		t.Error("expected platinum to be invalid")
	}
}
