package implementation

import (
	"context"
	"errors"

	"music-promo-be/internal/entity"
	"music-promo-be/internal/mapper"
	"music-promo-be/internal/model"
	"music-promo-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TierRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TierMapper
}

func NewTierRepository(db *gorm.DB) contract.TierRepository {
	return &TierRepositoryImpl{
		db:     db,
		mapper: mapper.NewTierMapper(),
	}
}

func (r *TierRepositoryImpl) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.SubscriptionTier, error) {
	var m model.UserTier
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TierRepositoryImpl) Upsert(ctx context.Context, tier *entity.SubscriptionTier) error {
	m := r.mapper.ToModel(tier)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"tier", "expires_at", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*tier = *r.mapper.ToEntity(m)
	return nil
}
