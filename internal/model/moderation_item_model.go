package model

import (
	"time"

	"github.com/google/uuid"
)

type ModerationItem struct {
	Id             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerId        uuid.UUID  `gorm:"type:uuid;not null;index:idx_moderation_items_owner"`
	ContentType    string     `gorm:"type:varchar(20);not null;index:idx_moderation_items_type"`
	Title          string     `gorm:"type:varchar(255);not null"`
	Payload        string     `gorm:"type:text"`
	IsPaid         bool       `gorm:"default:false"`
	Status         string     `gorm:"type:varchar(20);not null;index:idx_moderation_items_status"`
	ModerationNote string     `gorm:"type:text"`
	CreatedAt      time.Time  `gorm:"autoCreateTime"`
	DecidedAt      *time.Time `gorm:""`
}

func (ModerationItem) TableName() string {
	return "moderation_items"
}
