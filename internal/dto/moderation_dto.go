// FILE: internal/dto/moderation_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubmitItemRequest struct {
	ContentType string `json:"content_type" validate:"required,oneof=track video concert news"`
	Title       string `json:"title" validate:"required,max=255"`
	Payload     string `json:"payload,omitempty"`
	IsPaid      bool   `json:"is_paid"`
}

type DecideRequest struct {
	Note string `json:"note,omitempty"`
}

type BulkDecideRequest struct {
	Ids  []uuid.UUID `json:"ids" validate:"required,min=1"`
	Note string      `json:"note,omitempty"`
}

type ModerationItemResponse struct {
	Id             uuid.UUID  `json:"id"`
	OwnerId        uuid.UUID  `json:"owner_id"`
	ContentType    string     `json:"content_type"`
	Title          string     `json:"title"`
	IsPaid         bool       `json:"is_paid"`
	Status         string     `json:"status"`
	ModerationNote string     `json:"moderation_note,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	DecidedAt      *time.Time `json:"decided_at,omitempty"`
}

// DecisionResponse is the outcome of a single approve: the decided item
// plus the charge the approval produced, if the item was paid.
type DecisionResponse struct {
	Item   *ModerationItemResponse `json:"item"`
	Charge *TransactionResponse    `json:"charge,omitempty"`
}

// BulkDecisionResult reports one id's outcome inside a bulk operation.
type BulkDecisionResult struct {
	Id     uuid.UUID               `json:"id"`
	Ok     bool                    `json:"ok"`
	Error  string                  `json:"error,omitempty"`
	Item   *ModerationItemResponse `json:"item,omitempty"`
	Charge *TransactionResponse    `json:"charge,omitempty"`
}
