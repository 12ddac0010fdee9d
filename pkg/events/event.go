package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "ITEM_APPROVED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Domain event codes. Each has a row in the notification type registry.
const (
	TypeItemApproved        = "ITEM_APPROVED"
	TypeItemRejected        = "ITEM_REJECTED"
	TypeDonationReceived    = "DONATION_RECEIVED"
	TypeWithdrawalCompleted = "WITHDRAWAL_COMPLETED"
	TypeWithdrawalRejected  = "WITHDRAWAL_REJECTED"
	TypeTierSubscribed      = "TIER_SUBSCRIBED"
	TypeSocialProof         = "SOCIAL_PROOF"
)

// BaseEvent is the generic implementation every publisher uses.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// New builds a BaseEvent stamped with the current time.
func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
