package repository

import (
	"context"

	"music-promo-be/internal/model"

	"github.com/google/uuid"
)

// NotificationRepository covers the inbox rows plus the registry lookups
// the dispatcher needs to resolve recipients.
type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error

	TypeByCode(ctx context.Context, code string) (*model.NotificationType, error)
	UsersByRole(ctx context.Context, role string) ([]model.User, error)
	UserEmail(ctx context.Context, userID uuid.UUID) (string, error)
}
