package unitofwork

import (
	"context"

	"music-promo-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ModerationRepository() contract.ModerationRepository
	TransactionRepository() contract.TransactionRepository
	WithdrawalRepository() contract.WithdrawalRepository
	TierRepository() contract.TierRepository
}
