package scope

import (
	"music-promo-be/internal/entity"

	"gorm.io/gorm"
)

func OrderByCreatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

func OrderByCreatedAsc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

// CompletedOnly narrows ledger queries to settled entries. Balance and
// stats derivations must never see processing or cancelled rows.
func CompletedOnly(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", string(entity.TransactionStatusCompleted))
}
