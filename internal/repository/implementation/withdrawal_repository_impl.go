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

type WithdrawalRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WithdrawalMapper
}

func NewWithdrawalRepository(db *gorm.DB) contract.WithdrawalRepository {
	return &WithdrawalRepositoryImpl{
		db:     db,
		mapper: mapper.NewWithdrawalMapper(),
	}
}

func (r *WithdrawalRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *WithdrawalRepositoryImpl) Create(ctx context.Context, req *entity.WithdrawalRequest) error {
	m := r.mapper.ToModel(req)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*req = *r.mapper.ToEntity(m)
	return nil
}

func (r *WithdrawalRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WithdrawalRequest, error) {
	var m model.WithdrawalRequest
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *WithdrawalRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WithdrawalRequest, error) {
	var models []*model.WithdrawalRequest
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.WithdrawalRequest, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *WithdrawalRepositoryImpl) UpdateStatusIf(ctx context.Context, id uuid.UUID, from []entity.WithdrawalStatus, to entity.WithdrawalStatus, completedAt *time.Time) (bool, error) {
	fromStatuses := make([]string, len(from))
	for i, s := range from {
		fromStatuses[i] = string(s)
	}

	updates := map[string]interface{}{"status": string(to)}
	if completedAt != nil {
		updates["completed_at"] = *completedAt
	}

	res := r.db.WithContext(ctx).Model(&model.WithdrawalRequest{}).
		Where("id = ? AND status IN ?", id, fromStatuses).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *WithdrawalRepositoryImpl) SumReserved(ctx context.Context, userId uuid.UUID, now time.Time) (int64, error) {
	var reserved int64
	err := r.db.WithContext(ctx).Model(&model.WithdrawalRequest{}).
		Where("user_id = ?", userId).
		Where("status = ? OR (status = ? AND reserved_until > ?)",
			string(entity.WithdrawalStatusProcessing), string(entity.WithdrawalStatusPending), now).
		Select("COALESCE(SUM(amount + fee), 0)").
		Scan(&reserved).Error
	return reserved, err
}
