package model

import (
	"time"

	"github.com/google/uuid"
)

type WithdrawalRequest struct {
	Id               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID  `gorm:"type:uuid;not null;index:idx_withdrawal_requests_user"`
	Amount           int64      `gorm:"not null"`
	Fee              int64      `gorm:"not null;default:0"`
	NetAmount        int64      `gorm:"not null"`
	PaymentMethodRef string     `gorm:"type:varchar(255);not null"`
	Status           string     `gorm:"type:varchar(20);not null;index:idx_withdrawal_requests_status"`
	ReservedUntil    time.Time  `gorm:"not null"`
	CreatedAt        time.Time  `gorm:"autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime"`
	CompletedAt      *time.Time `gorm:""`
}

func (WithdrawalRequest) TableName() string {
	return "withdrawal_requests"
}
