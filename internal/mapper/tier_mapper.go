package mapper

import (
	"music-promo-be/internal/entity"
	"music-promo-be/internal/model"
)

type TierMapper struct{}

func NewTierMapper() *TierMapper {
	return &TierMapper{}
}

// ToEntity maps the stored row. Limits are not persisted; the tier service
// fills them from its rate table after resolving the effective tier.
func (m *TierMapper) ToEntity(mdl *model.UserTier) *entity.SubscriptionTier {
	if mdl == nil {
		return nil
	}
	return &entity.SubscriptionTier{
		UserId:    mdl.UserId,
		Tier:      entity.TierName(mdl.Tier),
		ExpiresAt: mdl.ExpiresAt,
		UpdatedAt: mdl.UpdatedAt,
	}
}

func (m *TierMapper) ToModel(e *entity.SubscriptionTier) *model.UserTier {
	if e == nil {
		return nil
	}
	return &model.UserTier{
		UserId:    e.UserId,
		Tier:      string(e.Tier),
		ExpiresAt: e.ExpiresAt,
		UpdatedAt: e.UpdatedAt,
	}
}
