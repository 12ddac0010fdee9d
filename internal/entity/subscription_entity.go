// FILE: internal/entity/subscription_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type TierName string
type DiscountKind string

const (
	TierFree  TierName = "free"
	TierPro   TierName = "pro"
	TierElite TierName = "elite"

	DiscountKindDonation  DiscountKind = "donation"
	DiscountKindMarketing DiscountKind = "marketing"
	DiscountKindPitching  DiscountKind = "pitching"
	DiscountKindCoins     DiscountKind = "coins"
)

func (t TierName) Valid() bool {
	return t == TierFree || t == TierPro || t == TierElite
}

// TierLimits holds the fee/discount parameters of a subscription tier.
// DonationFeeRate doubles as the payout fee rate.
type TierLimits struct {
	DonationFeeRate   float64
	MarketingDiscount float64
	PitchingDiscount  float64
	CoinsBonus        float64
}

// SubscriptionTier is a user's stored tier. ExpiresAt is nil for the free
// tier; an expired paid tier resolves to free on the next read (lazy
// downgrade), the stored row is not swept.
type SubscriptionTier struct {
	UserId    uuid.UUID
	Tier      TierName
	Limits    TierLimits
	ExpiresAt *time.Time
	UpdatedAt time.Time
}

func (s *SubscriptionTier) Expired(now time.Time) bool {
	return s.Tier != TierFree && s.ExpiresAt != nil && s.ExpiresAt.Before(now)
}
