package model

import (
	"time"

	"github.com/google/uuid"
)

// UserTier stores one row per user; the free tier may simply have no row.
type UserTier struct {
	UserId    uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Tier      string     `gorm:"type:varchar(20);not null"`
	ExpiresAt *time.Time `gorm:"index:idx_user_tiers_expires"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}

func (UserTier) TableName() string {
	return "user_tiers"
}
