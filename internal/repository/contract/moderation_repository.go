package contract

import (
	"context"
	"time"

	"music-promo-be/internal/entity"
	"music-promo-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ModerationRepository interface {
	Create(ctx context.Context, item *entity.ModerationItem) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ModerationItem, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ModerationItem, error)

	// Decide performs the conditional write that closes an item: it moves
	// status from pending to the given terminal status in a single guarded
	// UPDATE and reports whether the row was actually won. A false return
	// means the item was not pending anymore (decided concurrently or never
	// pending), and the caller must not bill.
	Decide(ctx context.Context, id uuid.UUID, status entity.ModerationStatus, note string, decidedAt time.Time) (bool, error)
}
