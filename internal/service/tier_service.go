package service

import (
	"context"
	"fmt"
	"time"

	"music-promo-be/internal/apperror"
	"music-promo-be/internal/dto"
	"music-promo-be/internal/entity"
	"music-promo-be/internal/repository/unitofwork"
	"music-promo-be/pkg/events"
	pktNats "music-promo-be/pkg/nats"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// tierRates is the per-tier fee and discount table. The free row is the
// fallback for users with no stored tier and for expired paid tiers.
var tierRates = map[entity.TierName]entity.TierLimits{
	entity.TierFree: {
		DonationFeeRate: 0.03,
	},
	entity.TierPro: {
		DonationFeeRate:   0.02,
		MarketingDiscount: 0.10,
		PitchingDiscount:  0.10,
		CoinsBonus:        0.05,
	},
	entity.TierElite: {
		DonationFeeRate:   0.01,
		MarketingDiscount: 0.20,
		PitchingDiscount:  0.25,
		CoinsBonus:        0.10,
	},
}

// tierPrices is the monthly subscription price per paid tier, in minor units.
var tierPrices = map[entity.TierName]int64{
	entity.TierPro:   50000,
	entity.TierElite: 150000,
}

const tierPeriod = 30 * 24 * time.Hour

type ITierService interface {
	// Resolve returns the effective tier for a user right now, applying
	// the lazy downgrade: an expired paid tier reads as free without any
	// write to storage.
	Resolve(ctx context.Context, userId uuid.UUID) (*entity.SubscriptionTier, error)
	CurrentTier(ctx context.Context, userId uuid.UUID) (*dto.TierResponse, error)
	DiscountFor(ctx context.Context, userId uuid.UUID, kind entity.DiscountKind) (float64, error)
	Subscribe(ctx context.Context, userId uuid.UUID, req *dto.SubscribeRequest) (*dto.SubscribeResponse, error)
}

type tierService struct {
	uowFactory     unitofwork.RepositoryFactory
	ledgerService  ILedgerService
	eventPublisher *pktNats.Publisher
	cache          *gocache.Cache
}

func NewTierService(uowFactory unitofwork.RepositoryFactory, ledgerService ILedgerService, eventPublisher *pktNats.Publisher) ITierService {
	return &tierService{
		uowFactory:     uowFactory,
		ledgerService:  ledgerService,
		eventPublisher: eventPublisher,
		cache:          gocache.New(time.Minute, 5*time.Minute),
	}
}

func freeTier(userId uuid.UUID) *entity.SubscriptionTier {
	return &entity.SubscriptionTier{
		UserId: userId,
		Tier:   entity.TierFree,
		Limits: tierRates[entity.TierFree],
	}
}

func (s *tierService) Resolve(ctx context.Context, userId uuid.UUID) (*entity.SubscriptionTier, error) {
	if cached, found := s.cache.Get(userId.String()); found {
		tier := cached.(*entity.SubscriptionTier)
		if !tier.Expired(time.Now()) {
			return tier, nil
		}
		s.cache.Delete(userId.String())
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	stored, err := uow.TierRepository().FindByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}

	tier := stored
	if tier == nil || tier.Expired(time.Now()) {
		tier = freeTier(userId)
	} else {
		tier.Limits = tierRates[tier.Tier]
	}

	s.cache.Set(userId.String(), tier, gocache.DefaultExpiration)
	return tier, nil
}

func (s *tierService) CurrentTier(ctx context.Context, userId uuid.UUID) (*dto.TierResponse, error) {
	tier, err := s.Resolve(ctx, userId)
	if err != nil {
		return nil, err
	}
	return toTierResponse(tier), nil
}

func (s *tierService) DiscountFor(ctx context.Context, userId uuid.UUID, kind entity.DiscountKind) (float64, error) {
	tier, err := s.Resolve(ctx, userId)
	if err != nil {
		return 0, err
	}

	switch kind {
	case entity.DiscountKindMarketing:
		return tier.Limits.MarketingDiscount, nil
	case entity.DiscountKindPitching:
		return tier.Limits.PitchingDiscount, nil
	case entity.DiscountKindCoins:
		return tier.Limits.CoinsBonus, nil
	case entity.DiscountKindDonation:
		return tier.Limits.DonationFeeRate, nil
	}
	return 0, apperror.NewValidation("unknown discount kind: %s", kind)
}

func (s *tierService) Subscribe(ctx context.Context, userId uuid.UUID, req *dto.SubscribeRequest) (*dto.SubscribeResponse, error) {
	tierName := entity.TierName(req.Tier)
	if !tierName.Valid() {
		return nil, apperror.NewValidation("unknown tier: %s", req.Tier)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	tier := &entity.SubscriptionTier{
		UserId:    userId,
		Tier:      tierName,
		Limits:    tierRates[tierName],
		UpdatedAt: now,
	}

	var charge *entity.Transaction
	if tierName != entity.TierFree {
		expiresAt := now.Add(tierPeriod)
		tier.ExpiresAt = &expiresAt

		price := tierPrices[tierName]
		var err error
		charge, err = s.ledgerService.Record(ctx, &RecordEntryCommand{
			UserId:         userId,
			Type:           entity.TransactionTypeExpense,
			Category:       entity.TransactionCategorySubscription,
			Amount:         price,
			Status:         entity.TransactionStatusCompleted,
			IdempotencyKey: fmt.Sprintf("subscription:%s:%s:%s", userId, tierName, expiresAt.Format("2006-01-02")),
			Description:    fmt.Sprintf("Subscription to %s tier", tierName),
		})
		if err != nil {
			return nil, err
		}
	}

	if err := uow.TierRepository().Upsert(ctx, tier); err != nil {
		return nil, err
	}
	s.cache.Delete(userId.String())

	if s.eventPublisher != nil {
		evt := events.New(events.TypeTierSubscribed, map[string]interface{}{
			"user_id": userId,
			"tier":    string(tierName),
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish TIER_SUBSCRIBED event: %v\n", err)
		}
	}

	return &dto.SubscribeResponse{
		Tier:   toTierResponse(tier),
		Charge: toTransactionResponse(charge),
	}, nil
}

func toTierResponse(tier *entity.SubscriptionTier) *dto.TierResponse {
	if tier == nil {
		return nil
	}
	return &dto.TierResponse{
		UserId:    tier.UserId,
		Tier:      string(tier.Tier),
		ExpiresAt: tier.ExpiresAt,
		Limits: dto.TierLimitsResponse{
			DonationFeeRate:   tier.Limits.DonationFeeRate,
			MarketingDiscount: tier.Limits.MarketingDiscount,
			PitchingDiscount:  tier.Limits.PitchingDiscount,
			CoinsBonus:        tier.Limits.CoinsBonus,
		},
	}
}
