package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"music-promo-be/internal/apperror"
	"music-promo-be/internal/config"
	"music-promo-be/internal/dto"
	"music-promo-be/internal/entity"
	"music-promo-be/internal/pkg/keymutex"
	"music-promo-be/internal/repository/memory"
	"music-promo-be/internal/repository/specification"
	"music-promo-be/internal/repository/unitofwork"
	"music-promo-be/pkg/events"
	pktNats "music-promo-be/pkg/nats"

	"github.com/google/uuid"
)

type IModerationService interface {
	Submit(ctx context.Context, userId uuid.UUID, req *dto.SubmitItemRequest) (*dto.ModerationItemResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ModerationItemResponse, error)
	List(ctx context.Context, userId *uuid.UUID, status, contentType string, page, limit int) ([]*dto.ModerationItemResponse, error)
	Approve(ctx context.Context, id uuid.UUID, req *dto.DecideRequest) (*dto.DecisionResponse, error)
	Reject(ctx context.Context, id uuid.UUID, req *dto.DecideRequest) (*dto.ModerationItemResponse, error)
	BulkApprove(ctx context.Context, req *dto.BulkDecideRequest) ([]*dto.BulkDecisionResult, error)
	BulkReject(ctx context.Context, req *dto.BulkDecideRequest) ([]*dto.BulkDecisionResult, error)
}

type moderationService struct {
	uowFactory     unitofwork.RepositoryFactory
	tierService    ITierService
	demoCatalog    *memory.DemoCatalog
	eventPublisher *pktNats.Publisher
	fees           config.ModerationConfig
	locks          *keymutex.KeyMutex
}

func NewModerationService(
	uowFactory unitofwork.RepositoryFactory,
	tierService ITierService,
	demoCatalog *memory.DemoCatalog,
	eventPublisher *pktNats.Publisher,
	fees config.ModerationConfig,
) IModerationService {
	return &moderationService{
		uowFactory:     uowFactory,
		tierService:    tierService,
		demoCatalog:    demoCatalog,
		eventPublisher: eventPublisher,
		fees:           fees,
		locks:          keymutex.New(),
	}
}

func (s *moderationService) feeFor(contentType entity.ContentType) int64 {
	switch contentType {
	case entity.ContentTypeTrack:
		return s.fees.TrackFee
	case entity.ContentTypeVideo:
		return s.fees.VideoFee
	case entity.ContentTypeConcert:
		return s.fees.ConcertFee
	case entity.ContentTypeNews:
		return s.fees.NewsFee
	}
	return 0
}

// discountKindFor maps a content type to the tier discount that applies
// to its review fee. Tracks and videos go through pitching, concerts and
// news through marketing.
func discountKindFor(contentType entity.ContentType) entity.DiscountKind {
	switch contentType {
	case entity.ContentTypeTrack, entity.ContentTypeVideo:
		return entity.DiscountKindPitching
	}
	return entity.DiscountKindMarketing
}

func (s *moderationService) Submit(ctx context.Context, userId uuid.UUID, req *dto.SubmitItemRequest) (*dto.ModerationItemResponse, error) {
	contentType := entity.ContentType(req.ContentType)
	if !contentType.Valid() {
		return nil, apperror.NewValidation("unknown content type: %s", req.ContentType)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	item := &entity.ModerationItem{
		Id:          uuid.New(),
		OwnerId:     userId,
		ContentType: contentType,
		Title:       req.Title,
		Payload:     req.Payload,
		IsPaid:      req.IsPaid,
		Status:      entity.ModerationStatusPending,
		CreatedAt:   time.Now(),
	}

	if err := uow.ModerationRepository().Create(ctx, item); err != nil {
		return nil, err
	}
	return toModerationItemResponse(item), nil
}

func (s *moderationService) Show(ctx context.Context, id uuid.UUID) (*dto.ModerationItemResponse, error) {
	if demoItem, ok := s.demoCatalog.Get(id); ok {
		return toModerationItemResponse(demoItem), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	item, err := uow.ModerationRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFound("moderation item not found")
	}
	return toModerationItemResponse(item), nil
}

func (s *moderationService) List(ctx context.Context, userId *uuid.UUID, status, contentType string, page, limit int) ([]*dto.ModerationItemResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	}
	if userId != nil {
		specs = append(specs, specification.OwnedBy{UserID: *userId})
	}
	if status != "" {
		specs = append(specs, specification.ByStatus{Status: status})
	}
	if contentType != "" {
		specs = append(specs, specification.ByContentType{ContentType: contentType})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	items, err := uow.ModerationRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ModerationItemResponse, 0, len(items))
	for _, item := range items {
		res = append(res, toModerationItemResponse(item))
	}
	return res, nil
}

func (s *moderationService) Approve(ctx context.Context, id uuid.UUID, req *dto.DecideRequest) (*dto.DecisionResponse, error) {
	if s.demoCatalog.Contains(id) {
		return nil, apperror.NewDemoItem("showcase items cannot be decided")
	}

	note := "Approved for publication"
	if req != nil && req.Note != "" {
		note = req.Note
	}

	s.locks.Lock(id.String())
	defer s.locks.Unlock(id.String())

	uow := s.uowFactory.NewUnitOfWork(ctx)

	item, err := uow.ModerationRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFound("moderation item not found")
	}
	if item.Status.IsDecided() {
		return nil, apperror.NewInvalidState("item already %s", item.Status)
	}

	now := time.Now()

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	// The guarded UPDATE is what makes billing at-most-once: only the
	// caller that flips pending to approved creates the charge, and both
	// writes commit together.
	won, err := uow.ModerationRepository().Decide(ctx, id, entity.ModerationStatusApproved, note, now)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, apperror.NewInvalidState("item was decided concurrently")
	}

	var charge *entity.Transaction
	if item.IsPaid {
		charge, err = s.chargeForApproval(ctx, uow, item, now)
		if err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	item.Status = entity.ModerationStatusApproved
	item.ModerationNote = note
	item.DecidedAt = &now

	s.publishDecision(ctx, events.TypeItemApproved, item, charge)

	return &dto.DecisionResponse{
		Item:   toModerationItemResponse(item),
		Charge: toTransactionResponse(charge),
	}, nil
}

func (s *moderationService) chargeForApproval(ctx context.Context, uow unitofwork.UnitOfWork, item *entity.ModerationItem, now time.Time) (*entity.Transaction, error) {
	discount, err := s.tierService.DiscountFor(ctx, item.OwnerId, discountKindFor(item.ContentType))
	if err != nil {
		return nil, err
	}

	gross := s.feeFor(item.ContentType)
	amount := int64(math.Ceil(float64(gross) * (1 - discount)))

	itemId := item.Id
	charge := &entity.Transaction{
		Id:             uuid.New(),
		UserId:         item.OwnerId,
		Type:           entity.TransactionTypeExpense,
		Category:       entity.TransactionCategoryModerationFee,
		Amount:         amount,
		NetAmount:      amount,
		Status:         entity.TransactionStatusCompleted,
		ReferenceId:    &itemId,
		IdempotencyKey: "moderation-charge:" + itemId.String(),
		Description:    fmt.Sprintf("Review fee for %s \"%s\"", item.ContentType, item.Title),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uow.TransactionRepository().Create(ctx, charge); err != nil {
		return nil, err
	}
	return charge, nil
}

func (s *moderationService) Reject(ctx context.Context, id uuid.UUID, req *dto.DecideRequest) (*dto.ModerationItemResponse, error) {
	if req.Note == "" {
		return nil, apperror.NewValidation("a rejection requires a reason")
	}
	if s.demoCatalog.Contains(id) {
		return nil, apperror.NewDemoItem("showcase items cannot be decided")
	}

	s.locks.Lock(id.String())
	defer s.locks.Unlock(id.String())

	uow := s.uowFactory.NewUnitOfWork(ctx)

	item, err := uow.ModerationRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFound("moderation item not found")
	}
	if item.Status.IsDecided() {
		return nil, apperror.NewInvalidState("item already %s", item.Status)
	}

	now := time.Now()
	won, err := uow.ModerationRepository().Decide(ctx, id, entity.ModerationStatusRejected, req.Note, now)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, apperror.NewInvalidState("item was decided concurrently")
	}

	item.Status = entity.ModerationStatusRejected
	item.ModerationNote = req.Note
	item.DecidedAt = &now

	s.publishDecision(ctx, events.TypeItemRejected, item, nil)

	return toModerationItemResponse(item), nil
}

func (s *moderationService) BulkApprove(ctx context.Context, req *dto.BulkDecideRequest) ([]*dto.BulkDecisionResult, error) {
	results := make([]*dto.BulkDecisionResult, 0, len(req.Ids))
	for _, id := range req.Ids {
		res, err := s.Approve(ctx, id, &dto.DecideRequest{Note: req.Note})
		if err != nil {
			results = append(results, &dto.BulkDecisionResult{Id: id, Ok: false, Error: err.Error()})
			continue
		}
		results = append(results, &dto.BulkDecisionResult{Id: id, Ok: true, Item: res.Item, Charge: res.Charge})
	}
	return results, nil
}

func (s *moderationService) BulkReject(ctx context.Context, req *dto.BulkDecideRequest) ([]*dto.BulkDecisionResult, error) {
	results := make([]*dto.BulkDecisionResult, 0, len(req.Ids))
	for _, id := range req.Ids {
		item, err := s.Reject(ctx, id, &dto.DecideRequest{Note: req.Note})
		if err != nil {
			results = append(results, &dto.BulkDecisionResult{Id: id, Ok: false, Error: err.Error()})
			continue
		}
		results = append(results, &dto.BulkDecisionResult{Id: id, Ok: true, Item: item})
	}
	return results, nil
}

func (s *moderationService) publishDecision(ctx context.Context, eventType string, item *entity.ModerationItem, charge *entity.Transaction) {
	if s.eventPublisher == nil {
		return
	}
	data := map[string]interface{}{
		"item_id":      item.Id,
		"user_id":      item.OwnerId,
		"content_type": string(item.ContentType),
		"title":        item.Title,
		"note":         item.ModerationNote,
	}
	if charge != nil {
		data["charged_amount"] = charge.Amount
	}
	if err := s.eventPublisher.Publish(ctx, events.New(eventType, data)); err != nil {
		fmt.Printf("[WARN] Failed to publish %s event: %v\n", eventType, err)
	}
}

func toModerationItemResponse(item *entity.ModerationItem) *dto.ModerationItemResponse {
	if item == nil {
		return nil
	}
	return &dto.ModerationItemResponse{
		Id:             item.Id,
		OwnerId:        item.OwnerId,
		ContentType:    string(item.ContentType),
		Title:          item.Title,
		IsPaid:         item.IsPaid,
		Status:         string(item.Status),
		ModerationNote: item.ModerationNote,
		CreatedAt:      item.CreatedAt,
		DecidedAt:      item.DecidedAt,
	}
}
