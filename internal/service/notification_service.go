package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"music-promo-be/internal/model"
	"music-promo-be/internal/pkg/logger"
	"music-promo-be/internal/pkg/mailer"
	"music-promo-be/internal/repository"
	"music-promo-be/pkg/events"
	pktNats "music-promo-be/pkg/nats" // Renamed to avoid collision

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
	Broadcast(notification model.Notification)
}

type NotificationService struct {
	repo       repository.NotificationRepository
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	mailer     mailer.IEmailService
	logger     logger.ILogger
}

func NewNotificationService(repo repository.NotificationRepository, sub *pktNats.Subscriber, delivery NotificationDelivery, mail mailer.IEmailService, log logger.ILogger) *NotificationService {
	return &NotificationService{
		repo:       repo,
		subscriber: sub,
		delivery:   delivery,
		mailer:     mail,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	// Subscribe to all events with a durable consumer
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		// If critical background service fails, maybe panic/fatal?
		// log.Fatalf("Failed to start notification subscriber: %v", err)
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	s.logger.Info("NotificationService", fmt.Sprintf("Processing event: %s", event.EventType()), map[string]interface{}{"type": event.EventType()})

	typeCode := event.EventType()

	config, err := s.repo.TypeByCode(ctx, typeCode)
	if err != nil {
		s.logger.Warn("NotificationService", fmt.Sprintf("Config not found for code: '%s'", typeCode), map[string]interface{}{"error": err.Error()})
		return nil
	}
	if !config.IsActive {
		s.logger.Info("NotificationService", fmt.Sprintf("Notification type '%s' is inactive", typeCode), nil)
		return nil
	}

	// SPECIAL HANDLING: Social Proof for Tier Upgrades
	// Independently of the configured notification (which targets the
	// subscriber), broadcast to everyone that an artist upgraded.
	if event.EventType() == events.TypeTierSubscribed {
		payload := event.Payload()
		artistName, _ := payload["artist_name"].(string)
		tierName, _ := payload["tier"].(string)

		if artistName != "" && tierName != "" && tierName != "free" {
			socialProofNotif := model.Notification{
				ID:        uuid.New(),
				UserID:    uuid.Nil, // Broadcast target
				TypeCode:  events.TypeSocialProof,
				Title:     "Tier Upgrade!",
				Message:   fmt.Sprintf("%s just went %s!", artistName, tierName),
				CreatedAt: time.Now(),
				IsRead:    false,
			}
			metaMap := map[string]interface{}{
				"artist_name": artistName,
				"tier":        tierName,
				"type":        "flexing",
			}
			metaJSON, _ := json.Marshal(metaMap)
			socialProofNotif.Metadata = datatypes.JSON(metaJSON)

			if s.delivery != nil {
				s.delivery.Broadcast(socialProofNotif)
			}
		}
	}

	// 2. Broadcast Handling
	if config.TargetType == "BROADCAST" {
		// Broadcasts are push-only: no per-user inbox rows.
		notif := s.buildNotification(uuid.Nil, config, event)

		if s.delivery != nil {
			s.delivery.Broadcast(notif)
		}
		return nil
	}

	// 3. Resolve Recipients
	recipients, err := s.resolveRecipients(ctx, config, event)
	if err != nil {
		s.logger.Error("NotificationService", fmt.Sprintf("Error resolving recipients for %s", event.EventType()), map[string]interface{}{"error": err})
		return err // NATS will retry if we return error
	}
	s.logger.Info("NotificationService", "Recipients resolved", map[string]interface{}{"count": len(recipients), "type": config.TargetType})

	// 3. Process Per Recipient
	for _, userID := range recipients {
		// Create Notification
		notif := s.buildNotification(userID, config, event)

		// Save to DB
		if err := s.repo.Create(ctx, &notif); err != nil {
			s.logger.Error("NotificationService", fmt.Sprintf("Error saving notification for user %s", userID), map[string]interface{}{"error": err})
			continue // Partial failure? Should we retry entire batch? For now continue.
		}

		// Real-time Delivery
		if s.delivery != nil {
			s.delivery.Send(userID, notif)
		}

		// Email channel, opt-in per notification type
		if s.mailer != nil && strings.Contains(string(config.Channels), "\"email\"") {
			s.sendEmail(ctx, userID, typeCode, event, notif)
		}
	}

	return nil
}

func (s *NotificationService) sendEmail(ctx context.Context, userID uuid.UUID, typeCode string, event events.Event, notif model.Notification) {
	email, err := s.repo.UserEmail(ctx, userID)
	if err != nil || email == "" {
		s.logger.Warn("NotificationService", fmt.Sprintf("No email for user %s, skipping email channel", userID), nil)
		return
	}

	payload := event.Payload()
	switch typeCode {
	case events.TypeItemApproved, events.TypeItemRejected:
		title, _ := payload["title"].(string)
		note, _ := payload["note"].(string)
		decision := "approved"
		if typeCode == events.TypeItemRejected {
			decision = "rejected"
		}
		if err := s.mailer.SendDecisionNotice(email, title, decision, note); err != nil {
			s.logger.Error("NotificationService", "Failed to send decision email", map[string]interface{}{"error": err.Error()})
		}
	case events.TypeWithdrawalCompleted, events.TypeWithdrawalRejected:
		net, _ := payload["net_amount"].(float64)
		status := "completed"
		if typeCode == events.TypeWithdrawalRejected {
			status = "rejected"
		}
		if err := s.mailer.SendPayoutNotice(email, int64(net), status); err != nil {
			s.logger.Error("NotificationService", "Failed to send payout email", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (s *NotificationService) resolveRecipients(ctx context.Context, config *model.NotificationType, event events.Event) ([]uuid.UUID, error) {
	var userIDs []uuid.UUID

	switch config.TargetType {
	case "SELF":
		// Expect "user_id" in payload or we assume the event has a way to identify the owner.
		// For our Event interface, Payload is a map. We rely on convention.
		if uidStr, ok := event.Payload()["user_id"].(string); ok {
			uid, err := uuid.Parse(uidStr)
			if err == nil {
				userIDs = append(userIDs, uid)
			}
		} else {
			// Try "userID" camelCase?
			// Or check if base event struct has it (but interface doesn't expose it directly)
			s.logger.Warn("NotificationService", fmt.Sprintf("TargetType SELF but no user_id found in payload for event %s", event.EventType()), nil)
		}

	case "ADMIN":
		admins, err := s.repo.UsersByRole(ctx, "admin")
		if err != nil {
			return nil, err
		}
		s.logger.Info("NotificationService", "Resolved admins", map[string]interface{}{"count": len(admins)})
		for _, u := range admins {
			userIDs = append(userIDs, u.Id)
		}

	case "ROLE":
		users, err := s.repo.UsersByRole(ctx, config.TargetRole)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			userIDs = append(userIDs, u.Id)
		}
	}

	return userIDs, nil
}

func (s *NotificationService) buildNotification(userID uuid.UUID, config *model.NotificationType, event events.Event) model.Notification {
	// Simple Template Engine
	msg := config.Template
	payload := event.Payload()

	for k, v := range payload {
		placeholder := fmt.Sprintf("{%s}", k)
		valStr := fmt.Sprintf("%v", v)
		msg = strings.ReplaceAll(msg, placeholder, valStr)
	}

	// Resolve the related record by convention: events carry the id of
	// the item, request or order they are about.
	entityType := ""
	var relatedId *uuid.UUID
	for key, et := range map[string]string{
		"item_id":    "moderation_item",
		"request_id": "withdrawal_request",
		"order_id":   "transaction",
	} {
		if idStr, ok := payload[key].(string); ok {
			if id, err := uuid.Parse(idStr); err == nil {
				relatedId = &id
				entityType = et
				break
			}
		}
	}

	// Metadata - enrich with action_url for deep linking
	metaMap := make(map[string]interface{})
	for k, v := range payload {
		metaMap[k] = v
	}
	if entityType != "" && relatedId != nil {
		metaMap["action_url"] = fmt.Sprintf("/%ss/%s", entityType, relatedId.String())
	}
	metaJSON, _ := json.Marshal(metaMap)

	return model.Notification{
		ID:         uuid.New(),
		UserID:     userID,
		TypeCode:   config.Code,
		Title:      config.DisplayName,
		Message:    msg,
		Metadata:   datatypes.JSON(metaJSON),
		EntityType: entityType,
		RelatedId:  relatedId,
		CreatedAt:  time.Now(),
		IsRead:     false,
	}
}

// GetNotifications fetches notifications for a user.
func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// GetUnreadCount fetches unread count.
func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}

// MarkAsRead marks one of the user's own notifications as read.
func (s *NotificationService) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, userID, id)
}

// MarkAllAsRead marks all notifications as read for a user.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}
