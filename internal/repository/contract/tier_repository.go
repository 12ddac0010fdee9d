package contract

import (
	"context"

	"music-promo-be/internal/entity"

	"github.com/google/uuid"
)

type TierRepository interface {
	// FindByUserId returns nil (not an error) when the user has no stored
	// tier row; the resolver treats that as the free tier.
	FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.SubscriptionTier, error)
	Upsert(ctx context.Context, tier *entity.SubscriptionTier) error
}
