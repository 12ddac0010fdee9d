package service

import (
	"context"
	"crypto/sha512"
	"fmt"
	"testing"
	"time"

	"music-promo-be/internal/apperror"
	"music-promo-be/internal/config"
	"music-promo-be/internal/dto"
	"music-promo-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const testServerKey = "SB-Mid-server-testkey"

func newTestDonationService(store *fakeStore) IDonationService {
	factory := store.factory()
	ledger := NewLedgerService(factory, nil)
	tiers := NewTierService(factory, ledger, nil)
	return NewDonationService(factory, tiers, nil, nil,
		config.MidtransConfig{ServerKey: testServerKey}, "http://localhost:3000")
}

// seedProcessingDonation mirrors what Checkout writes before handing off
// to the payment page.
func seedProcessingDonation(store *fakeStore, artistId uuid.UUID, amount, fee int64) uuid.UUID {
	orderId := uuid.New()
	tx := &entity.Transaction{
		Id:             uuid.New(),
		UserId:         artistId,
		Type:           entity.TransactionTypeIncome,
		Category:       entity.TransactionCategoryDonation,
		Amount:         amount,
		Fee:            fee,
		NetAmount:      amount - fee,
		Status:         entity.TransactionStatusProcessing,
		ReferenceId:    &orderId,
		IdempotencyKey: "donation:" + orderId.String(),
		CreatedAt:      time.Now(),
	}
	store.txs[tx.Id] = tx
	return orderId
}

func signedWebhook(orderId uuid.UUID, status, statusCode, grossAmount string) *dto.MidtransWebhookRequest {
	input := orderId.String() + statusCode + grossAmount + testServerKey
	return &dto.MidtransWebhookRequest{
		OrderId:           orderId.String(),
		TransactionStatus: status,
		StatusCode:        statusCode,
		GrossAmount:       grossAmount,
		SignatureKey:      fmt.Sprintf("%x", sha512.Sum512([]byte(input))),
	}
}

func TestSettlementCompletesTheDonation(t *testing.T) {
	store := newFakeStore()
	svc := newTestDonationService(store)
	artistId := uuid.New()
	orderId := seedProcessingDonation(store, artistId, 10000, 300)

	err := svc.HandleNotification(context.Background(), signedWebhook(orderId, "settlement", "200", "10000.00"))
	assert.NoError(t, err)

	ledger := NewLedgerService(store.factory(), nil)
	balance, err := ledger.GetBalance(context.Background(), artistId)
	assert.NoError(t, err)
	// Settlement credits the net amount only.
	assert.Equal(t, int64(9700), balance.Balance)
}

func TestReplayedSettlementIsANoOp(t *testing.T) {
	store := newFakeStore()
	svc := newTestDonationService(store)
	artistId := uuid.New()
	orderId := seedProcessingDonation(store, artistId, 10000, 300)

	webhook := signedWebhook(orderId, "settlement", "200", "10000.00")
	assert.NoError(t, svc.HandleNotification(context.Background(), webhook))
	assert.NoError(t, svc.HandleNotification(context.Background(), webhook))

	assert.Len(t, store.txs, 1)
	ledger := NewLedgerService(store.factory(), nil)
	balance, _ := ledger.GetBalance(context.Background(), artistId)
	assert.Equal(t, int64(9700), balance.Balance)
}

func TestExpiredDonationNeverCredits(t *testing.T) {
	store := newFakeStore()
	svc := newTestDonationService(store)
	artistId := uuid.New()
	orderId := seedProcessingDonation(store, artistId, 10000, 300)

	err := svc.HandleNotification(context.Background(), signedWebhook(orderId, "expire", "407", "10000.00"))
	assert.NoError(t, err)

	ledger := NewLedgerService(store.factory(), nil)
	balance, _ := ledger.GetBalance(context.Background(), artistId)
	assert.Equal(t, int64(0), balance.Balance)
}

func TestInvalidSignatureIsRejected(t *testing.T) {
	store := newFakeStore()
	svc := newTestDonationService(store)
	artistId := uuid.New()
	orderId := seedProcessingDonation(store, artistId, 10000, 300)

	webhook := signedWebhook(orderId, "settlement", "200", "10000.00")
	webhook.SignatureKey = "forged"

	err := svc.HandleNotification(context.Background(), webhook)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	ledger := NewLedgerService(store.factory(), nil)
	balance, _ := ledger.GetBalance(context.Background(), artistId)
	assert.Equal(t, int64(0), balance.Balance)
}

func TestUnknownOrderIsReported(t *testing.T) {
	store := newFakeStore()
	svc := newTestDonationService(store)

	err := svc.HandleNotification(context.Background(), signedWebhook(uuid.New(), "settlement", "200", "10000.00"))
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestPendingNotificationLeavesTheEntryAlone(t *testing.T) {
	store := newFakeStore()
	svc := newTestDonationService(store)
	artistId := uuid.New()
	orderId := seedProcessingDonation(store, artistId, 10000, 300)

	err := svc.HandleNotification(context.Background(), signedWebhook(orderId, "pending", "201", "10000.00"))
	assert.NoError(t, err)

	for _, tx := range store.txs {
		assert.Equal(t, entity.TransactionStatusProcessing, tx.Status)
	}
}
