package mapper

import (
	"music-promo-be/internal/entity"
	"music-promo-be/internal/model"
)

type WithdrawalMapper struct{}

func NewWithdrawalMapper() *WithdrawalMapper {
	return &WithdrawalMapper{}
}

func (m *WithdrawalMapper) ToEntity(mdl *model.WithdrawalRequest) *entity.WithdrawalRequest {
	if mdl == nil {
		return nil
	}
	return &entity.WithdrawalRequest{
		Id:               mdl.Id,
		UserId:           mdl.UserId,
		Amount:           mdl.Amount,
		Fee:              mdl.Fee,
		NetAmount:        mdl.NetAmount,
		PaymentMethodRef: mdl.PaymentMethodRef,
		Status:           entity.WithdrawalStatus(mdl.Status),
		ReservedUntil:    mdl.ReservedUntil,
		CreatedAt:        mdl.CreatedAt,
		UpdatedAt:        mdl.UpdatedAt,
		CompletedAt:      mdl.CompletedAt,
	}
}

func (m *WithdrawalMapper) ToModel(e *entity.WithdrawalRequest) *model.WithdrawalRequest {
	if e == nil {
		return nil
	}
	return &model.WithdrawalRequest{
		Id:               e.Id,
		UserId:           e.UserId,
		Amount:           e.Amount,
		Fee:              e.Fee,
		NetAmount:        e.NetAmount,
		PaymentMethodRef: e.PaymentMethodRef,
		Status:           string(e.Status),
		ReservedUntil:    e.ReservedUntil,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
		CompletedAt:      e.CompletedAt,
	}
}
