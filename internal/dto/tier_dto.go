// FILE: internal/dto/tier_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubscribeRequest struct {
	Tier string `json:"tier" validate:"required,oneof=free pro elite"`
}

type TierResponse struct {
	UserId    uuid.UUID          `json:"user_id"`
	Tier      string             `json:"tier"`
	ExpiresAt *time.Time         `json:"expires_at,omitempty"`
	Limits    TierLimitsResponse `json:"limits"`
}

type TierLimitsResponse struct {
	DonationFeeRate   float64 `json:"donation_fee_rate"`
	MarketingDiscount float64 `json:"marketing_discount"`
	PitchingDiscount  float64 `json:"pitching_discount"`
	CoinsBonus        float64 `json:"coins_bonus"`
}

// SubscribeResponse includes the ledger charge for paid tiers.
type SubscribeResponse struct {
	Tier   *TierResponse        `json:"tier"`
	Charge *TransactionResponse `json:"charge,omitempty"`
}
