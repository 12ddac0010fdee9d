package contract

import (
	"context"
	"time"

	"music-promo-be/internal/entity"
	"music-promo-be/internal/repository/specification"

	"github.com/google/uuid"
)

type WithdrawalRepository interface {
	Create(ctx context.Context, req *entity.WithdrawalRequest) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WithdrawalRequest, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WithdrawalRequest, error)

	// UpdateStatusIf is the conditional transition of the payout state
	// machine: the row moves to `to` only if its current status is one of
	// `from`. Returns false when another caller won the transition.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from []entity.WithdrawalStatus, to entity.WithdrawalStatus, completedAt *time.Time) (bool, error)

	// SumReserved returns the amount+fee earmarked by reservations still
	// active at `now`: all processing requests plus pending ones whose
	// reserved_until has not lapsed.
	SumReserved(ctx context.Context, userId uuid.UUID, now time.Time) (int64, error)
}
