package model

import (
	"time"

	"github.com/google/uuid"
)

type Transaction struct {
	Id             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         uuid.UUID  `gorm:"type:uuid;not null;index:idx_transactions_user_created,priority:1"`
	Type           string     `gorm:"type:varchar(20);not null"`
	Category       string     `gorm:"type:varchar(30);not null;index:idx_transactions_category"`
	Amount         int64      `gorm:"not null"`
	Fee            int64      `gorm:"not null;default:0"`
	NetAmount      int64      `gorm:"not null"`
	Status         string     `gorm:"type:varchar(20);not null;index:idx_transactions_status"`
	ReferenceId    *uuid.UUID `gorm:"type:uuid;index:idx_transactions_reference"`
	IdempotencyKey string     `gorm:"type:varchar(128);uniqueIndex:uq_transactions_idem_key"`
	Description    string     `gorm:"type:text"`
	CreatedAt      time.Time  `gorm:"autoCreateTime;index:idx_transactions_user_created,priority:2"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime"`
}

func (Transaction) TableName() string {
	return "transactions"
}
