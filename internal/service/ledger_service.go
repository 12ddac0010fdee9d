package service

import (
	"context"
	"fmt"
	"time"

	"music-promo-be/internal/apperror"
	"music-promo-be/internal/dto"
	"music-promo-be/internal/entity"
	"music-promo-be/internal/repository/contract"
	"music-promo-be/internal/repository/specification"
	"music-promo-be/internal/repository/unitofwork"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
)

// RecordEntryCommand describes one ledger append. The idempotency key is
// what makes retried commands safe: the same key always resolves to the
// same entry.
type RecordEntryCommand struct {
	UserId         uuid.UUID
	Type           entity.TransactionType
	Category       entity.TransactionCategory
	Amount         int64
	Fee            int64
	Status         entity.TransactionStatus
	ReferenceId    *uuid.UUID
	IdempotencyKey string
	Description    string
}

type ILedgerService interface {
	Record(ctx context.Context, cmd *RecordEntryCommand) (*entity.Transaction, error)
	GetBalance(ctx context.Context, userId uuid.UUID) (*dto.BalanceResponse, error)
	GetTransactions(ctx context.Context, userId uuid.UUID, page, limit int) ([]*dto.TransactionResponse, error)
	GetCategoryStats(ctx context.Context, userId uuid.UUID) ([]*dto.CategoryStatResponse, error)
	Reverse(ctx context.Context, userId uuid.UUID, transactionId uuid.UUID) (*dto.TransactionResponse, error)
}

type ledgerService struct {
	uowFactory unitofwork.RepositoryFactory
	reconciler IReconciliationPublisher
}

func NewLedgerService(uowFactory unitofwork.RepositoryFactory, reconciler IReconciliationPublisher) ILedgerService {
	return &ledgerService{uowFactory: uowFactory, reconciler: reconciler}
}

func (s *ledgerService) Record(ctx context.Context, cmd *RecordEntryCommand) (*entity.Transaction, error) {
	if cmd.IdempotencyKey == "" {
		return nil, apperror.NewValidation("idempotency key is required")
	}
	if cmd.Amount <= 0 {
		return nil, apperror.NewValidation("amount must be positive")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.TransactionRepository().FindOne(ctx, specification.ByIdempotencyKey{Key: cmd.IdempotencyKey})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	tx := &entity.Transaction{
		Id:             uuid.New(),
		UserId:         cmd.UserId,
		Type:           cmd.Type,
		Category:       cmd.Category,
		Amount:         cmd.Amount,
		Fee:            cmd.Fee,
		NetAmount:      cmd.Amount - cmd.Fee,
		Status:         cmd.Status,
		ReferenceId:    cmd.ReferenceId,
		IdempotencyKey: cmd.IdempotencyKey,
		Description:    cmd.Description,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	err = uow.TransactionRepository().Create(ctx, tx)
	if err != nil && !contract.IsDuplicateKey(err) {
		// Transient storage failure: retry the append itself. A duplicate
		// surfacing mid-retry means another writer got there first.
		_, err = backoff.Retry(ctx, func() (*entity.Transaction, error) {
			cerr := uow.TransactionRepository().Create(ctx, tx)
			if contract.IsDuplicateKey(cerr) {
				return nil, backoff.Permanent(cerr)
			}
			return tx, cerr
		}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(4))
	}
	if err != nil {
		if contract.IsDuplicateKey(err) {
			// A concurrent writer with the same key hit the unique index
			// first. Their row may not be visible immediately, so poll for
			// it briefly.
			winner, rerr := backoff.Retry(ctx, func() (*entity.Transaction, error) {
				found, ferr := uow.TransactionRepository().FindOne(ctx, specification.ByIdempotencyKey{Key: cmd.IdempotencyKey})
				if ferr != nil {
					return nil, backoff.Permanent(ferr)
				}
				if found == nil {
					return nil, apperror.NewNotFound("ledger entry not visible yet")
				}
				return found, nil
			}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(4))
			if rerr != nil {
				return nil, apperror.NewInternal("failed to append ledger entry", err)
			}
			return winner, nil
		}

		s.recordFailedAttempt(ctx, tx)
		return nil, apperror.NewInternal("failed to append ledger entry", err)
	}

	if s.reconciler != nil {
		if rerr := s.reconciler.EnqueueBalanceCheck(ctx, cmd.UserId); rerr != nil {
			fmt.Printf("[WARN] Failed to enqueue balance check for %s: %v\n", cmd.UserId, rerr)
		}
	}

	return tx, nil
}

// recordFailedAttempt leaves a failed marker in the history when all
// retries are spent, so an exhausted charge is visible rather than
// silently gone. The marker gets its own key: it must neither trip the
// unique index nor satisfy a later retry's idempotency lookup.
func (s *ledgerService) recordFailedAttempt(ctx context.Context, tx *entity.Transaction) {
	marker := *tx
	marker.Id = uuid.New()
	marker.Status = entity.TransactionStatusFailed
	marker.IdempotencyKey = fmt.Sprintf("%s:failed:%d", tx.IdempotencyKey, time.Now().UnixNano())
	marker.UpdatedAt = time.Now()

	if err := s.uowFactory.NewUnitOfWork(ctx).TransactionRepository().Create(ctx, &marker); err != nil {
		fmt.Printf("[WARN] Failed to record failed ledger attempt for key %s: %v\n", tx.IdempotencyKey, err)
	}
}

func (s *ledgerService) GetBalance(ctx context.Context, userId uuid.UUID) (*dto.BalanceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	totals, err := uow.TransactionRepository().SumCompleted(ctx, userId)
	if err != nil {
		return nil, err
	}
	reserved, err := uow.WithdrawalRepository().SumReserved(ctx, userId, time.Now())
	if err != nil {
		return nil, err
	}

	balance := totals.Balance()
	return &dto.BalanceResponse{
		UserId:           userId,
		Balance:          balance,
		AvailableBalance: balance - reserved,
		PendingBalance:   reserved,
	}, nil
}

func (s *ledgerService) GetTransactions(ctx context.Context, userId uuid.UUID, page, limit int) ([]*dto.TransactionResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)

	txs, err := uow.TransactionRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		res = append(res, toTransactionResponse(tx))
	}
	return res, nil
}

func (s *ledgerService) GetCategoryStats(ctx context.Context, userId uuid.UUID) ([]*dto.CategoryStatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	stats, err := uow.TransactionRepository().GetCategoryStats(ctx, userId)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.CategoryStatResponse, 0, len(stats))
	for _, st := range stats {
		res = append(res, &dto.CategoryStatResponse{
			Category: string(st.Category),
			Type:     string(st.Type),
			Count:    st.Count,
			Total:    st.Total,
		})
	}
	return res, nil
}

func (s *ledgerService) Reverse(ctx context.Context, userId uuid.UUID, transactionId uuid.UUID) (*dto.TransactionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	original, err := uow.TransactionRepository().FindOne(ctx, specification.ByID{ID: transactionId})
	if err != nil {
		return nil, err
	}
	if original == nil || original.UserId != userId {
		return nil, apperror.NewNotFound("transaction not found")
	}
	if original.Status != entity.TransactionStatusCompleted {
		return nil, apperror.NewInvalidState("only completed transactions can be reversed")
	}
	if original.Category == entity.TransactionCategoryReversal {
		return nil, apperror.NewInvalidState("a reversal cannot be reversed")
	}

	// Reversals compensate, they never mutate. Income is undone by an
	// expense entry and vice versa; withdrawals are compensated by income
	// restoring amount plus fee.
	reversalType := entity.TransactionTypeExpense
	amount := original.Amount
	switch original.Type {
	case entity.TransactionTypeExpense:
		reversalType = entity.TransactionTypeIncome
	case entity.TransactionTypeWithdraw:
		reversalType = entity.TransactionTypeIncome
		amount = original.Amount + original.Fee
	}

	reversal, err := s.Record(ctx, &RecordEntryCommand{
		UserId:         userId,
		Type:           reversalType,
		Category:       entity.TransactionCategoryReversal,
		Amount:         amount,
		Status:         entity.TransactionStatusCompleted,
		ReferenceId:    &original.Id,
		IdempotencyKey: "reversal:" + original.Id.String(),
		Description:    "Reversal of " + string(original.Category) + " entry",
	})
	if err != nil {
		return nil, err
	}
	return toTransactionResponse(reversal), nil
}

func toTransactionResponse(tx *entity.Transaction) *dto.TransactionResponse {
	if tx == nil {
		return nil
	}
	return &dto.TransactionResponse{
		Id:          tx.Id,
		UserId:      tx.UserId,
		Type:        string(tx.Type),
		Category:    string(tx.Category),
		Amount:      tx.Amount,
		Fee:         tx.Fee,
		NetAmount:   tx.NetAmount,
		Status:      string(tx.Status),
		ReferenceId: tx.ReferenceId,
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt,
	}
}
