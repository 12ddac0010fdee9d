package implementation

import (
	"context"
	"errors"
	"time"

	"music-promo-be/internal/entity"
	"music-promo-be/internal/mapper"
	"music-promo-be/internal/model"
	"music-promo-be/internal/repository/contract"
	"music-promo-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ModerationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ModerationMapper
}

func NewModerationRepository(db *gorm.DB) contract.ModerationRepository {
	return &ModerationRepositoryImpl{
		db:     db,
		mapper: mapper.NewModerationMapper(),
	}
}

func (r *ModerationRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ModerationRepositoryImpl) Create(ctx context.Context, item *entity.ModerationItem) error {
	m := r.mapper.ToModel(item)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*item = *r.mapper.ToEntity(m)
	return nil
}

func (r *ModerationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ModerationItem, error) {
	var m model.ModerationItem
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ModerationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ModerationItem, error) {
	var models []*model.ModerationItem
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ModerationItem, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

// Decide is a compare-and-set on status=pending. RowsAffected tells us
// whether this caller won the decision; a concurrent approve/reject on the
// same item makes the second UPDATE match zero rows.
func (r *ModerationRepositoryImpl) Decide(ctx context.Context, id uuid.UUID, status entity.ModerationStatus, note string, decidedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.ModerationItem{}).
		Where("id = ? AND status = ?", id, string(entity.ModerationStatusPending)).
		Updates(map[string]interface{}{
			"status":          string(status),
			"moderation_note": note,
			"decided_at":      decidedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
