package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"music-promo-be/internal/dto"
	"music-promo-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// IReconciliationPublisher enqueues a balance check for one user. Ledger
// writers call it after every append so drift is caught close to the
// write that caused it.
type IReconciliationPublisher interface {
	EnqueueBalanceCheck(ctx context.Context, userId uuid.UUID) error
}

type IReconciliationService interface {
	IReconciliationPublisher
	Consume(ctx context.Context) error
}

type reconciliationService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
}

func NewReconciliationService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
) IReconciliationService {
	return &reconciliationService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
	}
}

func (rs *reconciliationService) EnqueueBalanceCheck(ctx context.Context, userId uuid.UUID) error {
	payload, err := json.Marshal(dto.ReconcileBalanceMessage{UserId: userId})
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	return rs.pubSub.Publish(rs.topicName, msg)
}

func (rs *reconciliationService) Consume(ctx context.Context) error {
	messages, err := rs.pubSub.Subscribe(ctx, rs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			rs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (rs *reconciliationService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ReconcileBalanceMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal reconcile message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := rs.uowFactory.NewUnitOfWork(ctx)

	totals, err := uow.TransactionRepository().SumCompleted(ctx, payload.UserId)
	if err != nil {
		log.Printf("[ERROR] Failed to aggregate ledger for user %s: %v", payload.UserId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	reserved, err := uow.WithdrawalRepository().SumReserved(ctx, payload.UserId, time.Now())
	if err != nil {
		log.Printf("[ERROR] Failed to sum reservations for user %s: %v", payload.UserId, err)
		msg.Nack()
		return
	}

	balance := totals.Balance()
	if balance < 0 {
		// A negative derived balance means an entry was appended without
		// the funds check it should have passed. Flag loudly, the ledger
		// itself stays append-only.
		log.Printf("[ALERT] Negative balance for user %s: balance=%d income=%d expense=%d withdrawn=%d",
			payload.UserId, balance, totals.Income, totals.Expense, totals.WithdrawAmount+totals.WithdrawFee)
	}
	if reserved > balance {
		log.Printf("[WARN] Reservations exceed balance for user %s: reserved=%d balance=%d",
			payload.UserId, reserved, balance)
	}

	msg.Ack()
}
