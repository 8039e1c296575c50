package models

import "time"

type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusInactive  UserStatus = "INACTIVE"
	UserStatusBlocked   UserStatus = "BLOCKED"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	Fullname     string
	PhoneNumber  string
	RoleID       string
	RoleName     string
	Status       UserStatus
	LockedUntil  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// Locked reports whether the account is under an active lock.
func (u User) Locked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

type Device struct {
	ID         string
	UserID     string
	UserAgent  string
	IP         string
	IsActive   bool
	LastActive time.Time
	CreatedAt  time.Time
}

type RefreshToken struct {
	TokenHash []byte
	UserID    string
	DeviceID  string
	ExpiresAt time.Time
	CreatedAt time.Time
}
