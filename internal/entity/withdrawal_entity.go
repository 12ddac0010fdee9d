// FILE: internal/entity/withdrawal_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type WithdrawalStatus string

const (
	WithdrawalStatusPending    WithdrawalStatus = "pending"
	WithdrawalStatusProcessing WithdrawalStatus = "processing"
	WithdrawalStatusCompleted  WithdrawalStatus = "completed"
	WithdrawalStatusRejected   WithdrawalStatus = "rejected"
	WithdrawalStatusCancelled  WithdrawalStatus = "cancelled"
)

func (s WithdrawalStatus) Valid() bool {
	switch s {
	case WithdrawalStatusPending, WithdrawalStatusProcessing, WithdrawalStatusCompleted,
		WithdrawalStatusRejected, WithdrawalStatusCancelled:
		return true
	}
	return false
}

func (s WithdrawalStatus) IsTerminal() bool {
	switch s {
	case WithdrawalStatusCompleted, WithdrawalStatusRejected, WithdrawalStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo enforces the payout state machine centrally:
// pending -> {processing -> completed | rejected} | cancelled.
func (s WithdrawalStatus) CanTransitionTo(next WithdrawalStatus) bool {
	switch s {
	case WithdrawalStatusPending:
		return next == WithdrawalStatusProcessing ||
			next == WithdrawalStatusCompleted ||
			next == WithdrawalStatusRejected ||
			next == WithdrawalStatusCancelled
	case WithdrawalStatusProcessing:
		return next == WithdrawalStatusCompleted || next == WithdrawalStatusRejected
	}
	return false
}

// TransitionSources lists every status allowed to move into next,
// derived from CanTransitionTo so guarded writes share one authority
// with the state machine.
func TransitionSources(next WithdrawalStatus) []WithdrawalStatus {
	all := []WithdrawalStatus{
		WithdrawalStatusPending,
		WithdrawalStatusProcessing,
		WithdrawalStatusCompleted,
		WithdrawalStatusRejected,
		WithdrawalStatusCancelled,
	}
	var from []WithdrawalStatus
	for _, s := range all {
		if s.CanTransitionTo(next) {
			from = append(from, s)
		}
	}
	return from
}

// WithdrawalRequest tracks the payout lifecycle. While non-terminal it
// reserves amount+fee against the owner's available balance; the ledger
// only sees a Transaction once the request completes.
type WithdrawalRequest struct {
	Id               uuid.UUID
	UserId           uuid.UUID
	Amount           int64
	Fee              int64 // ceil(amount * feeRate), locked in at request time
	NetAmount        int64
	PaymentMethodRef string // opaque handle into the external payment-method vault
	Status           WithdrawalStatus
	ReservedUntil    time.Time // pending reservations stop counting after this
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CompletedAt      *time.Time
}

// ReservationActive reports whether this request still earmarks funds at
// the given instant. Processing requests never lapse; pending ones do once
// ReservedUntil passes (lazy release, mirroring tier expiry).
func (w *WithdrawalRequest) ReservationActive(now time.Time) bool {
	switch w.Status {
	case WithdrawalStatusProcessing:
		return true
	case WithdrawalStatusPending:
		return now.Before(w.ReservedUntil)
	}
	return false
}
