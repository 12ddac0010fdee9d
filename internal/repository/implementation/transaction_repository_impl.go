package implementation

import (
	"context"
	"errors"

	"music-promo-be/internal/entity"
	"music-promo-be/internal/mapper"
	"music-promo-be/internal/model"
	"music-promo-be/internal/repository/contract"
	"music-promo-be/internal/repository/scope"
	"music-promo-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TransactionMapper
}

func NewTransactionRepository(db *gorm.DB) contract.TransactionRepository {
	return &TransactionRepositoryImpl{
		db:     db,
		mapper: mapper.NewTransactionMapper(),
	}
}

func (r *TransactionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TransactionRepositoryImpl) Create(ctx context.Context, tx *entity.Transaction) error {
	m := r.mapper.ToModel(tx)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*tx = *r.mapper.ToEntity(m)
	return nil
}

func (r *TransactionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Transaction, error) {
	var m model.Transaction
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TransactionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Transaction, error) {
	var models []*model.Transaction
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Transaction, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *TransactionRepositoryImpl) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to entity.TransactionStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *TransactionRepositoryImpl) SumCompleted(ctx context.Context, userId uuid.UUID) (entity.LedgerTotals, error) {
	var totals entity.LedgerTotals
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Scopes(scope.CompletedOnly).
		Where("user_id = ?", userId).
		Select(`
			COALESCE(SUM(CASE WHEN type = 'income' THEN net_amount ELSE 0 END), 0) AS income,
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0) AS expense,
			COALESCE(SUM(CASE WHEN type = 'withdraw' THEN amount ELSE 0 END), 0) AS withdraw_amount,
			COALESCE(SUM(CASE WHEN type = 'withdraw' THEN fee ELSE 0 END), 0) AS withdraw_fee
		`).
		Scan(&totals).Error
	return totals, err
}

func (r *TransactionRepositoryImpl) GetCategoryStats(ctx context.Context, userId uuid.UUID) ([]*entity.CategoryStat, error) {
	var stats []*entity.CategoryStat
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Scopes(scope.CompletedOnly).
		Where("user_id = ?", userId).
		Select("category, type, COUNT(*) as count, COALESCE(SUM(amount), 0) as total").
		Group("category, type").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
