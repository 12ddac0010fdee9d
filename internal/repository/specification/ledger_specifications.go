package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnedBy filters rows belonging to one user.
type OwnedBy struct {
	UserID uuid.UUID
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// ByStatus filters on the status column. Works for moderation items,
// transactions and withdrawal requests alike.
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}

type ByContentType struct {
	ContentType string
}

func (s ByContentType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("content_type = ?", s.ContentType)
}

// ByIdempotencyKey is the exactly-once lookup for ledger writes.
type ByIdempotencyKey struct {
	Key string
}

func (s ByIdempotencyKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("idempotency_key = ?", s.Key)
}

// ByReference links ledger entries back to the item or request that caused them.
type ByReference struct {
	ReferenceID uuid.UUID
}

func (s ByReference) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("reference_id = ?", s.ReferenceID)
}

type CreatedAfter struct {
	After time.Time
}

func (s CreatedAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at > ?", s.After)
}
