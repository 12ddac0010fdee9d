// FILE: internal/entity/ledger_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string
type TransactionCategory string
type TransactionStatus string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeWithdraw TransactionType = "withdraw"

	TransactionCategoryDonation      TransactionCategory = "donation"
	TransactionCategoryModerationFee TransactionCategory = "moderation-fee"
	TransactionCategorySubscription  TransactionCategory = "subscription"
	TransactionCategoryWithdrawal    TransactionCategory = "withdrawal"
	TransactionCategoryReversal      TransactionCategory = "reversal"

	TransactionStatusCompleted  TransactionStatus = "completed"
	TransactionStatusProcessing TransactionStatus = "processing"
	TransactionStatusFailed     TransactionStatus = "failed"
	TransactionStatusCancelled  TransactionStatus = "cancelled"
)

// Transaction is a single append-only ledger entry. Amounts are in minor
// units (coins). Corrections are new compensating entries, never mutation.
type Transaction struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	Type           TransactionType
	Category       TransactionCategory
	Amount         int64
	Fee            int64
	NetAmount      int64 // amount - fee
	Status         TransactionStatus
	ReferenceId    *uuid.UUID // the ModerationItem / WithdrawalRequest that caused this entry
	IdempotencyKey string
	Description    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserBalance is derived from the ledger, never stored independently.
type UserBalance struct {
	UserId           uuid.UUID
	Balance          int64 // sum over completed entries
	AvailableBalance int64 // balance minus active withdrawal reservations
	PendingBalance   int64 // amount+fee reserved by non-terminal withdrawals
}

// LedgerTotals is the raw aggregation the balance projection is derived
// from: balance = income - expense - (withdrawAmount + withdrawFee), all
// over completed entries only. Income sums net amounts, the platform fee
// never reaches the wallet.
type LedgerTotals struct {
	Income         int64
	Expense        int64
	WithdrawAmount int64
	WithdrawFee    int64
}

func (t LedgerTotals) Balance() int64 {
	return t.Income - t.Expense - (t.WithdrawAmount + t.WithdrawFee)
}

// CategoryStat aggregates completed entries of one category for one user.
type CategoryStat struct {
	Category TransactionCategory
	Type     TransactionType
	Count    int64
	Total    int64
}
