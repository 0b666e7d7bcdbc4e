package entity

import "time"

// RefreshToken is an opaque, DB-backed token exchanged for new access tokens.
type RefreshToken struct {
	ID         int64
	UserID     int64
	Token      string
	ExpiryDate time.Time
	Revoked    bool
	CreatedAt  time.Time
}

func (t *RefreshToken) Expired(now time.Time) bool {
	return now.After(t.ExpiryDate)
}

type PasswordResetToken struct {
	ID         int64
	UserID     int64
	Token      string
	ExpiryDate time.Time
	Used       bool
	CreatedAt  time.Time
}

func (t *PasswordResetToken) Expired(now time.Time) bool {
	return now.After(t.ExpiryDate)
}
