package service

import (
	"context"
	"testing"
	"time"

	"music-promo-be/internal/apperror"
	"music-promo-be/internal/config"
	"music-promo-be/internal/dto"
	"music-promo-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testWithdrawalConfig() config.WithdrawalConfig {
	return config.WithdrawalConfig{
		MinAmount:      10000,
		MaxAmount:      10000000,
		ReservationTTL: 72 * time.Hour,
	}
}

func newTestWithdrawalService(store *fakeStore) IWithdrawalService {
	factory := store.factory()
	ledger := NewLedgerService(factory, nil)
	tiers := NewTierService(factory, ledger, nil)
	return NewWithdrawalService(factory, ledger, tiers, nil, testWithdrawalConfig())
}

// seedIncome credits a completed income entry so the wallet has funds.
func seedIncome(store *fakeStore, userId uuid.UUID, netAmount int64) {
	tx := &entity.Transaction{
		Id:             uuid.New(),
		UserId:         userId,
		Type:           entity.TransactionTypeIncome,
		Category:       entity.TransactionCategoryDonation,
		Amount:         netAmount,
		NetAmount:      netAmount,
		Status:         entity.TransactionStatusCompleted,
		IdempotencyKey: "donation:" + uuid.NewString(),
		CreatedAt:      time.Now(),
	}
	store.txs[tx.Id] = tx
}

func TestRequestWithdrawalLocksInFee(t *testing.T) {
	store := newFakeStore()
	svc := newTestWithdrawalService(store)
	userId := uuid.New()
	seedIncome(store, userId, 50000)

	res, err := svc.Request(context.Background(), userId, &dto.RequestWithdrawalRequest{
		Amount:           10000,
		PaymentMethodRef: "bank-001",
	})

	assert.NoError(t, err)
	assert.Equal(t, "pending", res.Status)
	// Free tier payout fee is 3%: ceil(10000 * 0.03) = 300.
	assert.Equal(t, int64(300), res.Fee)
	assert.Equal(t, int64(9700), res.NetAmount)
}

func TestRequestWithdrawalBounds(t *testing.T) {
	store := newFakeStore()
	svc := newTestWithdrawalService(store)
	userId := uuid.New()
	seedIncome(store, userId, 100000000)

	_, err := svc.Request(context.Background(), userId, &dto.RequestWithdrawalRequest{
		Amount:           9999,
		PaymentMethodRef: "bank-001",
	})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = svc.Request(context.Background(), userId, &dto.RequestWithdrawalRequest{
		Amount:           10000001,
		PaymentMethodRef: "bank-001",
	})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestRequestWithdrawalInsufficientBalance(t *testing.T) {
	store := newFakeStore()
	svc := newTestWithdrawalService(store)
	userId := uuid.New()
	// 10000 available cannot cover 10000 plus the 300 fee.
	seedIncome(store, userId, 10000)

	_, err := svc.Request(context.Background(), userId, &dto.RequestWithdrawalRequest{
		Amount:           10000,
		PaymentMethodRef: "bank-001",
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInsufficientBalance))
	assert.Empty(t, store.withdrawals)
}

func TestPendingRequestReservesFunds(t *testing.T) {
	store := newFakeStore()
	svc := newTestWithdrawalService(store)
	userId := uuid.New()
	seedIncome(store, userId, 30000)

	_, err := svc.Request(context.Background(), userId, &dto.RequestWithdrawalRequest{
		Amount:           15000,
		PaymentMethodRef: "bank-001",
	})
	assert.NoError(t, err)

	// 15000 + 450 fee is earmarked; a second request for the remainder
	// must fail even though the ledger balance alone would cover it.
	_, err = svc.Request(context.Background(), userId, &dto.RequestWithdrawalRequest{
		Amount:           14500,
		PaymentMethodRef: "bank-001",
	})
	assert.True(t, apperror.IsKind(err, apperror.KindInsufficientBalance))
}

func TestLapsedReservationReleasesFunds(t *testing.T) {
	store := newFakeStore()
	svc := newTestWithdrawalService(store)
	userId := uuid.New()
	seedIncome(store, userId, 30000)

	stale := &entity.WithdrawalRequest{
		Id:            uuid.New(),
		UserId:        userId,
		Amount:        15000,
		Fee:           450,
		Status:        entity.WithdrawalStatusPending,
		ReservedUntil: time.Now().Add(-time.Hour),
	}
	store.withdrawals[stale.Id] = stale

	res, err := svc.Request(context.Background(), userId, &dto.RequestWithdrawalRequest{
		Amount:           14500,
		PaymentMethodRef: "bank-001",
	})

	assert.NoError(t, err)
	assert.Equal(t, "pending", res.Status)
}

func TestProcessingReservationNeverLapses(t *testing.T) {
	store := newFakeStore()
	svc := newTestWithdrawalService(store)
	userId := uuid.New()
	seedIncome(store, userId, 30000)

	inFlight := &entity.WithdrawalRequest{
		Id:            uuid.New(),
		UserId:        userId,
		Amount:        15000,
		Fee:           450,
		Status:        entity.WithdrawalStatusProcessing,
		ReservedUntil: time.Now().Add(-time.Hour),
	}
	store.withdrawals[inFlight.Id] = inFlight

	_, err := svc.Request(context.Background(), userId, &dto.RequestWithdrawalRequest{
		Amount:           14500,
		PaymentMethodRef: "bank-001",
	})

	assert.True(t, apperror.IsKind(err, apperror.KindInsufficientBalance))
}

func TestCancelOnlyPendingAndOnlyOwner(t *testing.T) {
	store := newFakeStore()
	svc := newTestWithdrawalService(store)
	userId := uuid.New()
	seedIncome(store, userId, 50000)

	res, err := svc.Request(context.Background(), userId, &dto.RequestWithdrawalRequest{
		Amount:           10000,
		PaymentMethodRef: "bank-001",
	})
	assert.NoError(t, err)

	_, err = svc.Cancel(context.Background(), uuid.New(), res.Id)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	cancelled, err := svc.Cancel(context.Background(), userId, res.Id)
	assert.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)

	_, err = svc.Cancel(context.Background(), userId, res.Id)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))
}

func TestCompleteWritesExactlyOneLedgerEntry(t *testing.T) {
	store := newFakeStore()
	svc := newTestWithdrawalService(store)
	userId := uuid.New()
	seedIncome(store, userId, 50000)

	res, err := svc.Request(context.Background(), userId, &dto.RequestWithdrawalRequest{
		Amount:           10000,
		PaymentMethodRef: "bank-001",
	})
	assert.NoError(t, err)

	completed, err := svc.Complete(context.Background(), res.Id)
	assert.NoError(t, err)
	assert.Equal(t, "completed", completed.Request.Status)
	assert.NotNil(t, completed.Request.CompletedAt)
	assert.Equal(t, int64(10000), completed.Transaction.Amount)
	assert.Equal(t, int64(300), completed.Transaction.Fee)

	// One income seed plus one withdrawal entry.
	assert.Len(t, store.txs, 2)

	_, err = svc.Complete(context.Background(), res.Id)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))
	assert.Len(t, store.txs, 2)
}

func TestCompleteSettlesTheBalance(t *testing.T) {
	store := newFakeStore()
	factory := store.factory()
	ledger := NewLedgerService(factory, nil)
	tiers := NewTierService(factory, ledger, nil)
	svc := NewWithdrawalService(factory, ledger, tiers, nil, testWithdrawalConfig())

	userId := uuid.New()
	seedIncome(store, userId, 50000)

	res, err := svc.Request(context.Background(), userId, &dto.RequestWithdrawalRequest{
		Amount:           20000,
		PaymentMethodRef: "bank-001",
	})
	assert.NoError(t, err)

	_, err = svc.Complete(context.Background(), res.Id)
	assert.NoError(t, err)

	balance, err := ledger.GetBalance(context.Background(), userId)
	assert.NoError(t, err)
	// 50000 income minus 20000 withdrawn minus the 600 fee.
	assert.Equal(t, int64(29400), balance.Balance)
	assert.Equal(t, balance.Balance, balance.AvailableBalance)
}

func TestCompleteFailedLedgerWriteLeavesRequestSettable(t *testing.T) {
	store := newFakeStore()
	factory := store.factory()
	ledger := NewLedgerService(factory, nil)
	tiers := NewTierService(factory, ledger, nil)
	svc := NewWithdrawalService(factory, ledger, tiers, nil, testWithdrawalConfig())

	userId := uuid.New()
	seedIncome(store, userId, 50000)

	res, err := svc.Request(context.Background(), userId, &dto.RequestWithdrawalRequest{
		Amount:           10000,
		PaymentMethodRef: "bank-001",
	})
	assert.NoError(t, err)
	_, err = svc.MarkProcessing(context.Background(), res.Id)
	assert.NoError(t, err)

	store.txCreateFailures = 1

	_, err = svc.Complete(context.Background(), res.Id)
	assert.Error(t, err)

	// A failed settlement must not leave the request terminal with no
	// ledger entry: the retry settles it and the balance is debited.
	done, err := svc.Complete(context.Background(), res.Id)
	assert.NoError(t, err)
	assert.Equal(t, "completed", done.Request.Status)

	balance, err := ledger.GetBalance(context.Background(), userId)
	assert.NoError(t, err)
	assert.Equal(t, int64(39700), balance.Balance)
	assert.Equal(t, int64(0), balance.PendingBalance)
}

func TestRejectFreesTheReservation(t *testing.T) {
	store := newFakeStore()
	factory := store.factory()
	ledger := NewLedgerService(factory, nil)
	tiers := NewTierService(factory, ledger, nil)
	svc := NewWithdrawalService(factory, ledger, tiers, nil, testWithdrawalConfig())

	userId := uuid.New()
	seedIncome(store, userId, 50000)

	res, err := svc.Request(context.Background(), userId, &dto.RequestWithdrawalRequest{
		Amount:           20000,
		PaymentMethodRef: "bank-001",
	})
	assert.NoError(t, err)

	_, err = svc.MarkProcessing(context.Background(), res.Id)
	assert.NoError(t, err)

	rejected, err := svc.Reject(context.Background(), res.Id, &dto.DecideRequest{Note: "account mismatch"})
	assert.NoError(t, err)
	assert.Equal(t, "rejected", rejected.Status)

	balance, err := ledger.GetBalance(context.Background(), userId)
	assert.NoError(t, err)
	assert.Equal(t, int64(50000), balance.AvailableBalance)
	// Nothing ever reached the ledger.
	assert.Len(t, store.txs, 1)
}

func TestMarkProcessingOnlyFromPending(t *testing.T) {
	store := newFakeStore()
	svc := newTestWithdrawalService(store)
	userId := uuid.New()
	seedIncome(store, userId, 50000)

	res, err := svc.Request(context.Background(), userId, &dto.RequestWithdrawalRequest{
		Amount:           10000,
		PaymentMethodRef: "bank-001",
	})
	assert.NoError(t, err)

	_, err = svc.MarkProcessing(context.Background(), res.Id)
	assert.NoError(t, err)

	_, err = svc.MarkProcessing(context.Background(), res.Id)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))
}

func TestQueueListsAcrossUsersByStatus(t *testing.T) {
	store := newFakeStore()
	svc := newTestWithdrawalService(store)
	alice, bob := uuid.New(), uuid.New()
	seedIncome(store, alice, 50000)
	seedIncome(store, bob, 50000)

	first, err := svc.Request(context.Background(), alice, &dto.RequestWithdrawalRequest{
		Amount:           10000,
		PaymentMethodRef: "bank-001",
	})
	assert.NoError(t, err)
	second, err := svc.Request(context.Background(), bob, &dto.RequestWithdrawalRequest{
		Amount:           20000,
		PaymentMethodRef: "bank-002",
	})
	assert.NoError(t, err)

	// Default queue view is the pending backlog.
	queue, err := svc.Queue(context.Background(), "", 1, 20)
	assert.NoError(t, err)
	assert.Len(t, queue, 2)

	_, err = svc.MarkProcessing(context.Background(), first.Id)
	assert.NoError(t, err)

	queue, err = svc.Queue(context.Background(), "pending", 1, 20)
	assert.NoError(t, err)
	assert.Len(t, queue, 1)
	assert.Equal(t, second.Id, queue[0].Id)

	_, err = svc.Queue(context.Background(), "sideways", 1, 20)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}
