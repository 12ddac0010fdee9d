package service

import (
	"context"
	"crypto/sha512"
	"fmt"
	"math"
	"time"

	"music-promo-be/internal/apperror"
	"music-promo-be/internal/config"
	"music-promo-be/internal/dto"
	"music-promo-be/internal/entity"
	"music-promo-be/internal/repository/specification"
	"music-promo-be/internal/repository/unitofwork"
	"music-promo-be/pkg/events"
	pktNats "music-promo-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

type IDonationService interface {
	Checkout(ctx context.Context, req *dto.DonationCheckoutRequest) (*dto.DonationCheckoutResponse, error)
	HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error
}

type donationService struct {
	uowFactory     unitofwork.RepositoryFactory
	tierService    ITierService
	eventPublisher *pktNats.Publisher
	reconciler     IReconciliationPublisher
	cfg            config.MidtransConfig
	clientURL      string
}

func NewDonationService(
	uowFactory unitofwork.RepositoryFactory,
	tierService ITierService,
	eventPublisher *pktNats.Publisher,
	reconciler IReconciliationPublisher,
	cfg config.MidtransConfig,
	clientURL string,
) IDonationService {
	return &donationService{
		uowFactory:     uowFactory,
		tierService:    tierService,
		eventPublisher: eventPublisher,
		reconciler:     reconciler,
		cfg:            cfg,
		clientURL:      clientURL,
	}
}

func (s *donationService) Checkout(ctx context.Context, req *dto.DonationCheckoutRequest) (*dto.DonationCheckoutResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	artist, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: req.ArtistId})
	if err != nil {
		return nil, err
	}
	if artist == nil {
		return nil, apperror.NewNotFound("artist not found")
	}

	// The platform fee comes out of the artist's side, at their tier's
	// donation rate.
	tier, err := s.tierService.Resolve(ctx, req.ArtistId)
	if err != nil {
		return nil, err
	}
	fee := int64(math.Ceil(float64(req.Amount) * tier.Limits.DonationFeeRate))

	orderId := uuid.New()

	// The entry sits in processing until the gateway confirms settlement;
	// processing income never counts toward the balance.
	tx := &entity.Transaction{
		Id:             uuid.New(),
		UserId:         req.ArtistId,
		Type:           entity.TransactionTypeIncome,
		Category:       entity.TransactionCategoryDonation,
		Amount:         req.Amount,
		Fee:            fee,
		NetAmount:      req.Amount - fee,
		Status:         entity.TransactionStatusProcessing,
		ReferenceId:    &orderId,
		IdempotencyKey: "donation:" + orderId.String(),
		Description:    fmt.Sprintf("Donation from %s", req.DonorName),
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := uow.TransactionRepository().Create(ctx, tx); err != nil {
		return nil, err
	}

	var sClient snap.Client
	env := midtrans.Sandbox
	if s.cfg.IsProduction {
		env = midtrans.Production
	}
	sClient.New(s.cfg.ServerKey, env)

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderId.String(),
			GrossAmt: req.Amount,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: fmt.Sprintf("%s/artists/%s?donation=success", s.clientURL, req.ArtistId),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.DonorName,
			Email: req.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    req.ArtistId.String(),
				Price: req.Amount,
				Qty:   1,
				Name:  fmt.Sprintf("Donation to %s", artist.ArtistName),
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := sClient.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}

	return &dto.DonationCheckoutResponse{
		OrderId:         orderId,
		SnapToken:       snapResp.Token,
		SnapRedirectUrl: snapResp.RedirectURL,
	}, nil
}

func (s *donationService) HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error {
	fmt.Printf("[WEBHOOK] OrderId: %s | Status: %s\n", req.OrderId, req.TransactionStatus)

	if s.cfg.ServerKey == "" {
		return fmt.Errorf("server configuration error")
	}

	// Midtrans signature = SHA512(order_id + status_code + gross_amount + server_key)
	signatureInput := req.OrderId + req.StatusCode + req.GrossAmount + s.cfg.ServerKey
	expectedSignature := fmt.Sprintf("%x", sha512.Sum512([]byte(signatureInput)))
	if req.SignatureKey != expectedSignature {
		fmt.Printf("[WEBHOOK ERROR] Signature mismatch for OrderId=%s\n", req.OrderId)
		return apperror.NewValidation("invalid signature")
	}

	orderId, err := uuid.Parse(req.OrderId)
	if err != nil {
		return apperror.NewValidation("invalid order id format")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	tx, err := uow.TransactionRepository().FindOne(ctx, specification.ByIdempotencyKey{Key: "donation:" + orderId.String()})
	if err != nil {
		return err
	}
	if tx == nil {
		return apperror.NewNotFound("donation not found")
	}

	var to entity.TransactionStatus
	switch req.TransactionStatus {
	case "capture", "settlement":
		to = entity.TransactionStatusCompleted
	case "deny", "cancel", "expire":
		to = entity.TransactionStatusCancelled
	case "pending":
		return nil
	default:
		fmt.Printf("[WEBHOOK] Unknown status '%s' - no action taken\n", req.TransactionStatus)
		return nil
	}

	// Replayed notifications lose the guarded update and become no-ops.
	ok, err := uow.TransactionRepository().UpdateStatusIf(ctx, tx.Id, entity.TransactionStatusProcessing, to)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("[WEBHOOK] Donation %s already settled, skipping\n", req.OrderId)
		return nil
	}

	if to == entity.TransactionStatusCompleted && s.reconciler != nil {
		if rerr := s.reconciler.EnqueueBalanceCheck(ctx, tx.UserId); rerr != nil {
			fmt.Printf("[WARN] Failed to enqueue balance check for %s: %v\n", tx.UserId, rerr)
		}
	}

	if to == entity.TransactionStatusCompleted && s.eventPublisher != nil {
		evt := events.New(events.TypeDonationReceived, map[string]interface{}{
			"user_id":    tx.UserId,
			"order_id":   orderId,
			"amount":     tx.Amount,
			"fee":        tx.Fee,
			"net_amount": tx.NetAmount,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish DONATION_RECEIVED event: %v\n", err)
		}
	}

	return nil
}
