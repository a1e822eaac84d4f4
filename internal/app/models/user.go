package models

import (
	"time"
)

// User defines the account model based on the 'users' table
type User struct {
	ID                int64         `json:"id" db:"id" example:"1"`                                   // Unique identifier for the user
	Username          string        `json:"username" db:"username" example:"mario.rossi1042"`         // Login name, unique
	Password          string        `json:"-" db:"password_hash"`                                     // Hashed password (excluded from JSON)
	RoleType          RoleType      `json:"roleType" db:"role_type" example:"ADMIN"`                  // ADMIN or INSTRUCTOR
	Status            AccountStatus `json:"status" db:"status" example:"active"`                      // active, pending or disabled
	InstructorID      *int64        `json:"instructorId,omitempty" db:"instructor_id"`                // Linked instructor profile (nullable, admins have none)
	FailedLoginCount  int           `json:"-" db:"failed_login_count"`                                // Consecutive failed login attempts
	LastFailedLoginAt *time.Time    `json:"-" db:"last_failed_login_at"`                              // Timestamp of the last failed attempt (nullable)
	LockedUntil       *time.Time    `json:"-" db:"locked_until"`                                      // Temporary lockout deadline (nullable)
	CreatedAt         time.Time     `json:"createdAt" db:"created_at" example:"2026-01-01T10:00:00Z"` // Timestamp when the account was created
}

// IsActive reports whether the account may log in.
func (u *User) IsActive() bool {
	return u.Status == AccountActive
}

// IsLocked reports whether the account is under a temporary lockout at the given instant.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}
