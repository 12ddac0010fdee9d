package contract

import (
	"context"

	"music-promo-be/internal/entity"
	"music-promo-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TransactionRepository interface {
	// Create appends a new ledger entry. The unique index on idempotency_key
	// is the last line of defense against concurrent duplicate writes; a
	// violation surfaces as a storage error the service resolves by re-reading.
	Create(ctx context.Context, tx *entity.Transaction) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Transaction, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Transaction, error)

	// UpdateStatusIf moves a transaction from one status to another only when
	// the current status matches (settlement of processing donations, marking
	// failed attempts). Reports whether the guarded write took effect.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to entity.TransactionStatus) (bool, error)

	// SumCompleted aggregates all completed entries for one user.
	SumCompleted(ctx context.Context, userId uuid.UUID) (entity.LedgerTotals, error)
	GetCategoryStats(ctx context.Context, userId uuid.UUID) ([]*entity.CategoryStat, error)
}
