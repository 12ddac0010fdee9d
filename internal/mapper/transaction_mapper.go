package mapper

import (
	"music-promo-be/internal/entity"
	"music-promo-be/internal/model"
)

type TransactionMapper struct{}

func NewTransactionMapper() *TransactionMapper {
	return &TransactionMapper{}
}

func (m *TransactionMapper) ToEntity(mdl *model.Transaction) *entity.Transaction {
	if mdl == nil {
		return nil
	}
	return &entity.Transaction{
		Id:             mdl.Id,
		UserId:         mdl.UserId,
		Type:           entity.TransactionType(mdl.Type),
		Category:       entity.TransactionCategory(mdl.Category),
		Amount:         mdl.Amount,
		Fee:            mdl.Fee,
		NetAmount:      mdl.NetAmount,
		Status:         entity.TransactionStatus(mdl.Status),
		ReferenceId:    mdl.ReferenceId,
		IdempotencyKey: mdl.IdempotencyKey,
		Description:    mdl.Description,
		CreatedAt:      mdl.CreatedAt,
		UpdatedAt:      mdl.UpdatedAt,
	}
}

func (m *TransactionMapper) ToModel(e *entity.Transaction) *model.Transaction {
	if e == nil {
		return nil
	}
	return &model.Transaction{
		Id:             e.Id,
		UserId:         e.UserId,
		Type:           string(e.Type),
		Category:       string(e.Category),
		Amount:         e.Amount,
		Fee:            e.Fee,
		NetAmount:      e.NetAmount,
		Status:         string(e.Status),
		ReferenceId:    e.ReferenceId,
		IdempotencyKey: e.IdempotencyKey,
		Description:    e.Description,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}
