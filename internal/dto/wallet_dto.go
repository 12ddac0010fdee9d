// FILE: internal/dto/wallet_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type BalanceResponse struct {
	UserId           uuid.UUID `json:"user_id"`
	Balance          int64     `json:"balance"`
	AvailableBalance int64     `json:"available_balance"`
	PendingBalance   int64     `json:"pending_balance"`
}

type TransactionResponse struct {
	Id          uuid.UUID  `json:"id"`
	UserId      uuid.UUID  `json:"user_id"`
	Type        string     `json:"type"`
	Category    string     `json:"category"`
	Amount      int64      `json:"amount"`
	Fee         int64      `json:"fee"`
	NetAmount   int64      `json:"net_amount"`
	Status      string     `json:"status"`
	ReferenceId *uuid.UUID `json:"reference_id,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type CategoryStatResponse struct {
	Category string `json:"category"`
	Type     string `json:"type"`
	Count    int64  `json:"count"`
	Total    int64  `json:"total"`
}

type RequestWithdrawalRequest struct {
	Amount           int64  `json:"amount" validate:"required,gt=0"`
	PaymentMethodRef string `json:"payment_method_ref" validate:"required"`
}

type WithdrawalResponse struct {
	Id               uuid.UUID  `json:"id"`
	UserId           uuid.UUID  `json:"user_id"`
	Amount           int64      `json:"amount"`
	Fee              int64      `json:"fee"`
	NetAmount        int64      `json:"net_amount"`
	PaymentMethodRef string     `json:"payment_method_ref"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

// ReconcileBalanceMessage is the internal queue payload asking the
// reconciliation worker to re-derive one user's balance.
type ReconcileBalanceMessage struct {
	UserId uuid.UUID `json:"user_id"`
}

// CompleteWithdrawalResponse pairs the settled request with the ledger
// entry that recorded it.
type CompleteWithdrawalResponse struct {
	Request     *WithdrawalResponse  `json:"request"`
	Transaction *TransactionResponse `json:"transaction"`
}
