package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"music-promo-be/internal/apperror"
	"music-promo-be/internal/config"
	"music-promo-be/internal/dto"
	"music-promo-be/internal/entity"
	"music-promo-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testModerationFees() config.ModerationConfig {
	return config.ModerationConfig{
		TrackFee:   3000,
		VideoFee:   4000,
		ConcertFee: 5000,
		NewsFee:    2000,
	}
}

func newTestModerationService(store *fakeStore, catalog *memory.DemoCatalog) IModerationService {
	factory := store.factory()
	ledger := NewLedgerService(factory, nil)
	tiers := NewTierService(factory, ledger, nil)
	return NewModerationService(factory, tiers, catalog, nil, testModerationFees())
}

func seedPendingItem(store *fakeStore, contentType entity.ContentType, isPaid bool) *entity.ModerationItem {
	item := &entity.ModerationItem{
		Id:          uuid.New(),
		OwnerId:     uuid.New(),
		ContentType: contentType,
		Title:       "Night Shift",
		IsPaid:      isPaid,
		Status:      entity.ModerationStatusPending,
		CreatedAt:   time.Now(),
	}
	store.items[item.Id] = item
	return item
}

func TestApprovePaidItemChargesFlatFee(t *testing.T) {
	store := newFakeStore()
	svc := newTestModerationService(store, memory.NewDemoCatalog())
	item := seedPendingItem(store, entity.ContentTypeConcert, true)

	res, err := svc.Approve(context.Background(), item.Id, nil)

	assert.NoError(t, err)
	assert.Equal(t, "approved", res.Item.Status)
	assert.NotNil(t, res.Charge)
	assert.Equal(t, int64(5000), res.Charge.Amount)
	assert.Equal(t, "expense", res.Charge.Type)
	assert.Equal(t, "moderation-fee", res.Charge.Category)
	assert.Len(t, store.txs, 1)
}

func TestApproveAppliesTierDiscount(t *testing.T) {
	store := newFakeStore()
	svc := newTestModerationService(store, memory.NewDemoCatalog())
	item := seedPendingItem(store, entity.ContentTypeTrack, true)

	expiresAt := time.Now().Add(24 * time.Hour)
	store.tiers[item.OwnerId] = &entity.SubscriptionTier{
		UserId:    item.OwnerId,
		Tier:      entity.TierPro,
		ExpiresAt: &expiresAt,
	}

	res, err := svc.Approve(context.Background(), item.Id, nil)

	assert.NoError(t, err)
	// Track fee 3000 minus the pro pitching discount of 10%.
	assert.Equal(t, int64(2700), res.Charge.Amount)
}

func TestApproveDefaultsTheNote(t *testing.T) {
	store := newFakeStore()
	svc := newTestModerationService(store, memory.NewDemoCatalog())

	first := seedPendingItem(store, entity.ContentTypeNews, false)
	res, err := svc.Approve(context.Background(), first.Id, nil)
	assert.NoError(t, err)
	assert.Equal(t, "Approved for publication", res.Item.ModerationNote)

	second := seedPendingItem(store, entity.ContentTypeNews, false)
	res, err = svc.Approve(context.Background(), second.Id, &dto.DecideRequest{Note: "great lineup"})
	assert.NoError(t, err)
	assert.Equal(t, "great lineup", res.Item.ModerationNote)
}

func TestApproveUnpaidItemCreatesNoCharge(t *testing.T) {
	store := newFakeStore()
	svc := newTestModerationService(store, memory.NewDemoCatalog())
	item := seedPendingItem(store, entity.ContentTypeNews, false)

	res, err := svc.Approve(context.Background(), item.Id, nil)

	assert.NoError(t, err)
	assert.Equal(t, "approved", res.Item.Status)
	assert.Nil(t, res.Charge)
	assert.Empty(t, store.txs)
}

func TestApproveTwiceChargesOnce(t *testing.T) {
	store := newFakeStore()
	svc := newTestModerationService(store, memory.NewDemoCatalog())
	item := seedPendingItem(store, entity.ContentTypeVideo, true)

	_, err := svc.Approve(context.Background(), item.Id, nil)
	assert.NoError(t, err)

	_, err = svc.Approve(context.Background(), item.Id, nil)
	assert.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))
	assert.Len(t, store.txs, 1)
}

func TestConcurrentApprovalsChargeExactlyOnce(t *testing.T) {
	store := newFakeStore()
	svc := newTestModerationService(store, memory.NewDemoCatalog())
	item := seedPendingItem(store, entity.ContentTypeTrack, true)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Approve(context.Background(), item.Id, nil)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, apperror.IsKind(err, apperror.KindInvalidState))
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, store.txs, 1)
}

func TestApproveDemoItemIsRefused(t *testing.T) {
	store := newFakeStore()
	catalog := memory.NewDemoCatalog()
	memory.SeedShowcase(catalog)
	svc := newTestModerationService(store, catalog)

	demoId := catalog.All()[0].Id
	_, err := svc.Approve(context.Background(), demoId, nil)

	assert.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindDemoItem))
	assert.Empty(t, store.txs)
}

func TestRejectRequiresReason(t *testing.T) {
	store := newFakeStore()
	svc := newTestModerationService(store, memory.NewDemoCatalog())
	item := seedPendingItem(store, entity.ContentTypeTrack, true)

	_, err := svc.Reject(context.Background(), item.Id, &dto.DecideRequest{})

	assert.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Equal(t, entity.ModerationStatusPending, store.items[item.Id].Status)
}

func TestRejectNeverCharges(t *testing.T) {
	store := newFakeStore()
	svc := newTestModerationService(store, memory.NewDemoCatalog())
	item := seedPendingItem(store, entity.ContentTypeConcert, true)

	res, err := svc.Reject(context.Background(), item.Id, &dto.DecideRequest{Note: "blurry poster"})

	assert.NoError(t, err)
	assert.Equal(t, "rejected", res.Status)
	assert.Equal(t, "blurry poster", res.ModerationNote)
	assert.Empty(t, store.txs)
}

func TestBulkApproveContinuesPastFailures(t *testing.T) {
	store := newFakeStore()
	svc := newTestModerationService(store, memory.NewDemoCatalog())
	good := seedPendingItem(store, entity.ContentTypeNews, false)
	missing := uuid.New()

	results, err := svc.BulkApprove(context.Background(), &dto.BulkDecideRequest{
		Ids: []uuid.UUID{missing, good.Id},
	})

	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.False(t, results[0].Ok)
	assert.NotEmpty(t, results[0].Error)
	assert.True(t, results[1].Ok)
	assert.Equal(t, entity.ModerationStatusApproved, store.items[good.Id].Status)
}

func TestSubmitRejectsUnknownContentType(t *testing.T) {
	store := newFakeStore()
	svc := newTestModerationService(store, memory.NewDemoCatalog())

	_, err := svc.Submit(context.Background(), uuid.New(), &dto.SubmitItemRequest{
		ContentType: "podcast",
		Title:       "Episode 1",
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}
