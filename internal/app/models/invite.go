package models

import (
	"time"
)

// Invite defines a single-use registration invite based on the 'invites'
// table. The token travels in the registration URL, the code is shared out
// of band and must be typed back by the invitee.
type Invite struct {
	ID           int64      `json:"id" db:"id"`
	Token        string     `json:"token" db:"token"`
	Code         string     `json:"code" db:"code"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty" db:"expires_at"`
	UsedAt       *time.Time `json:"usedAt,omitempty" db:"used_at"`
	UsedByUserID *int64     `json:"usedByUserId,omitempty" db:"used_by_user_id"`
}

// IsUsed reports whether this invite has already been consumed.
func (i *Invite) IsUsed() bool {
	return i.UsedAt != nil
}

// IsExpired reports whether this invite is past its expiry at the given instant.
// Invites without an expiry never expire.
func (i *Invite) IsExpired(now time.Time) bool {
	if i.ExpiresAt == nil {
		return false
	}
	return !now.Before(*i.ExpiresAt)
}
