// FILE: internal/entity/user_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string
type UserStatus string

const (
	UserRoleArtist    UserRole = "artist"
	UserRoleModerator UserRole = "moderator"
	UserRoleAdmin     UserRole = "admin"

	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

// User is the artist/moderator account. Credentials and sessions live in the
// external auth service; this core only keeps the profile fields it reads.
type User struct {
	Id         uuid.UUID
	Email      string
	ArtistName string
	Role       UserRole
	Status     UserStatus
	AvatarURL  *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
