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
	"music-promo-be/internal/repository/specification"
	"music-promo-be/internal/repository/unitofwork"
	"music-promo-be/pkg/events"
	pktNats "music-promo-be/pkg/nats"

	"github.com/google/uuid"
)

type IWithdrawalService interface {
	Request(ctx context.Context, userId uuid.UUID, req *dto.RequestWithdrawalRequest) (*dto.WithdrawalResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.WithdrawalResponse, error)
	List(ctx context.Context, userId uuid.UUID, page, limit int) ([]*dto.WithdrawalResponse, error)
	Cancel(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.WithdrawalResponse, error)

	// Operator-side transitions.
	Queue(ctx context.Context, status string, page, limit int) ([]*dto.WithdrawalResponse, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) (*dto.WithdrawalResponse, error)
	Complete(ctx context.Context, id uuid.UUID) (*dto.CompleteWithdrawalResponse, error)
	Reject(ctx context.Context, id uuid.UUID, req *dto.DecideRequest) (*dto.WithdrawalResponse, error)
}

type withdrawalService struct {
	uowFactory     unitofwork.RepositoryFactory
	ledgerService  ILedgerService
	tierService    ITierService
	eventPublisher *pktNats.Publisher
	cfg            config.WithdrawalConfig
	locks          *keymutex.KeyMutex
}

func NewWithdrawalService(
	uowFactory unitofwork.RepositoryFactory,
	ledgerService ILedgerService,
	tierService ITierService,
	eventPublisher *pktNats.Publisher,
	cfg config.WithdrawalConfig,
) IWithdrawalService {
	return &withdrawalService{
		uowFactory:     uowFactory,
		ledgerService:  ledgerService,
		tierService:    tierService,
		eventPublisher: eventPublisher,
		cfg:            cfg,
		locks:          keymutex.New(),
	}
}

func (s *withdrawalService) Request(ctx context.Context, userId uuid.UUID, req *dto.RequestWithdrawalRequest) (*dto.WithdrawalResponse, error) {
	if req.Amount < s.cfg.MinAmount {
		return nil, apperror.NewValidation("amount is below the minimum of %d", s.cfg.MinAmount)
	}
	if req.Amount > s.cfg.MaxAmount {
		return nil, apperror.NewValidation("amount exceeds the maximum of %d", s.cfg.MaxAmount)
	}

	// One balance check per user at a time, otherwise two requests could
	// both pass against the same funds.
	s.locks.Lock(userId.String())
	defer s.locks.Unlock(userId.String())

	tier, err := s.tierService.Resolve(ctx, userId)
	if err != nil {
		return nil, err
	}
	fee := int64(math.Ceil(float64(req.Amount) * tier.Limits.DonationFeeRate))

	balance, err := s.ledgerService.GetBalance(ctx, userId)
	if err != nil {
		return nil, err
	}
	if balance.AvailableBalance < req.Amount+fee {
		return nil, apperror.NewInsufficientBalance("available balance %d cannot cover %d plus fee %d",
			balance.AvailableBalance, req.Amount, fee)
	}

	now := time.Now()
	request := &entity.WithdrawalRequest{
		Id:               uuid.New(),
		UserId:           userId,
		Amount:           req.Amount,
		Fee:              fee,
		NetAmount:        req.Amount - fee,
		PaymentMethodRef: req.PaymentMethodRef,
		Status:           entity.WithdrawalStatusPending,
		ReservedUntil:    now.Add(s.cfg.ReservationTTL),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.WithdrawalRepository().Create(ctx, request); err != nil {
		return nil, err
	}
	return toWithdrawalResponse(request), nil
}

func (s *withdrawalService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.WithdrawalResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	request, err := uow.WithdrawalRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if request == nil || request.UserId != userId {
		return nil, apperror.NewNotFound("withdrawal request not found")
	}
	return toWithdrawalResponse(request), nil
}

func (s *withdrawalService) List(ctx context.Context, userId uuid.UUID, page, limit int) ([]*dto.WithdrawalResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	requests, err := uow.WithdrawalRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.WithdrawalResponse, 0, len(requests))
	for _, request := range requests {
		res = append(res, toWithdrawalResponse(request))
	}
	return res, nil
}

// Queue lists requests across all users for back-office review, oldest
// first so nothing starves at the bottom.
func (s *withdrawalService) Queue(ctx context.Context, status string, page, limit int) ([]*dto.WithdrawalResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if status == "" {
		status = string(entity.WithdrawalStatusPending)
	}
	if !entity.WithdrawalStatus(status).Valid() {
		return nil, apperror.NewValidation("unknown withdrawal status %q", status)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	requests, err := uow.WithdrawalRepository().FindAll(ctx,
		specification.ByStatus{Status: status},
		specification.OrderBy{Field: "created_at", Desc: false},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.WithdrawalResponse, 0, len(requests))
	for _, request := range requests {
		res = append(res, toWithdrawalResponse(request))
	}
	return res, nil
}

func (s *withdrawalService) Cancel(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.WithdrawalResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	request, err := uow.WithdrawalRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if request == nil || request.UserId != userId {
		return nil, apperror.NewNotFound("withdrawal request not found")
	}

	ok, err := uow.WithdrawalRepository().UpdateStatusIf(ctx, id,
		entity.TransitionSources(entity.WithdrawalStatusCancelled),
		entity.WithdrawalStatusCancelled, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewInvalidState("only pending requests can be cancelled")
	}

	request.Status = entity.WithdrawalStatusCancelled
	return toWithdrawalResponse(request), nil
}

func (s *withdrawalService) MarkProcessing(ctx context.Context, id uuid.UUID) (*dto.WithdrawalResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	request, err := uow.WithdrawalRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperror.NewNotFound("withdrawal request not found")
	}

	ok, err := uow.WithdrawalRepository().UpdateStatusIf(ctx, id,
		entity.TransitionSources(entity.WithdrawalStatusProcessing),
		entity.WithdrawalStatusProcessing, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewInvalidState("request is not pending")
	}

	request.Status = entity.WithdrawalStatusProcessing
	return toWithdrawalResponse(request), nil
}

func (s *withdrawalService) Complete(ctx context.Context, id uuid.UUID) (*dto.CompleteWithdrawalResponse, error) {
	s.locks.Lock(id.String())
	defer s.locks.Unlock(id.String())

	uow := s.uowFactory.NewUnitOfWork(ctx)

	request, err := uow.WithdrawalRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperror.NewNotFound("withdrawal request not found")
	}
	if request.Status.IsTerminal() {
		return nil, apperror.NewInvalidState("request already %s", request.Status)
	}

	now := time.Now()

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	// The ledger entry and the status flip commit together: if the entry
	// cannot be written the request stays settable and a retry heals it.
	// The request id doubles as the idempotency key, so a retried
	// completion never writes a second entry.
	requestId := request.Id
	tx := &entity.Transaction{
		Id:             uuid.New(),
		UserId:         request.UserId,
		Type:           entity.TransactionTypeWithdraw,
		Category:       entity.TransactionCategoryWithdrawal,
		Amount:         request.Amount,
		Fee:            request.Fee,
		NetAmount:      request.Amount - request.Fee,
		Status:         entity.TransactionStatusCompleted,
		ReferenceId:    &requestId,
		IdempotencyKey: "withdrawal:" + requestId.String(),
		Description:    fmt.Sprintf("Withdrawal to %s", request.PaymentMethodRef),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uow.TransactionRepository().Create(ctx, tx); err != nil {
		return nil, err
	}

	ok, err := uow.WithdrawalRepository().UpdateStatusIf(ctx, id,
		entity.TransitionSources(entity.WithdrawalStatusCompleted),
		entity.WithdrawalStatusCompleted, &now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewInvalidState("request was settled concurrently")
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	request.Status = entity.WithdrawalStatusCompleted
	request.CompletedAt = &now

	s.publishOutcome(ctx, events.TypeWithdrawalCompleted, request, "")

	return &dto.CompleteWithdrawalResponse{
		Request:     toWithdrawalResponse(request),
		Transaction: toTransactionResponse(tx),
	}, nil
}

func (s *withdrawalService) Reject(ctx context.Context, id uuid.UUID, req *dto.DecideRequest) (*dto.WithdrawalResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	request, err := uow.WithdrawalRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperror.NewNotFound("withdrawal request not found")
	}

	ok, err := uow.WithdrawalRepository().UpdateStatusIf(ctx, id,
		entity.TransitionSources(entity.WithdrawalStatusRejected),
		entity.WithdrawalStatusRejected, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewInvalidState("request already %s", request.Status)
	}

	request.Status = entity.WithdrawalStatusRejected

	s.publishOutcome(ctx, events.TypeWithdrawalRejected, request, req.Note)

	return toWithdrawalResponse(request), nil
}

func (s *withdrawalService) publishOutcome(ctx context.Context, eventType string, request *entity.WithdrawalRequest, note string) {
	if s.eventPublisher == nil {
		return
	}
	data := map[string]interface{}{
		"request_id": request.Id,
		"user_id":    request.UserId,
		"amount":     request.Amount,
		"fee":        request.Fee,
		"net_amount": request.NetAmount,
	}
	if note != "" {
		data["note"] = note
	}
	if err := s.eventPublisher.Publish(ctx, events.New(eventType, data)); err != nil {
		fmt.Printf("[WARN] Failed to publish %s event: %v\n", eventType, err)
	}
}

func toWithdrawalResponse(request *entity.WithdrawalRequest) *dto.WithdrawalResponse {
	if request == nil {
		return nil
	}
	return &dto.WithdrawalResponse{
		Id:               request.Id,
		UserId:           request.UserId,
		Amount:           request.Amount,
		Fee:              request.Fee,
		NetAmount:        request.NetAmount,
		PaymentMethodRef: request.PaymentMethodRef,
		Status:           string(request.Status),
		CreatedAt:        request.CreatedAt,
		CompletedAt:      request.CompletedAt,
	}
}
