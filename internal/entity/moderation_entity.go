// FILE: internal/entity/moderation_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type ModerationStatus string
type ContentType string

const (
	ModerationStatusPending  ModerationStatus = "pending"
	ModerationStatusApproved ModerationStatus = "approved"
	ModerationStatusRejected ModerationStatus = "rejected"

	ContentTypeTrack   ContentType = "track"
	ContentTypeVideo   ContentType = "video"
	ContentTypeConcert ContentType = "concert"
	ContentTypeNews    ContentType = "news"
)

// IsDecided reports whether the item has reached a terminal status.
// Decided items are history: no further transition and no further billing.
func (s ModerationStatus) IsDecided() bool {
	return s == ModerationStatusApproved || s == ModerationStatusRejected
}

func (c ContentType) Valid() bool {
	switch c {
	case ContentTypeTrack, ContentTypeVideo, ContentTypeConcert, ContentTypeNews:
		return true
	}
	return false
}

// ModerationItem is the generic envelope for user-submitted promo content
// (tracks, videos, concerts, news) awaiting a review decision.
type ModerationItem struct {
	Id             uuid.UUID
	OwnerId        uuid.UUID
	ContentType    ContentType
	Title          string
	Payload        string // opaque content reference, owned by the media service
	IsPaid         bool
	Status         ModerationStatus
	ModerationNote string
	CreatedAt      time.Time
	DecidedAt      *time.Time
}
