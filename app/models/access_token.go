package models

import "time"

// AccessToken backs one issued bearer token. TokenID is the JWT jti;
// deleting the row revokes that token and no other.
type AccessToken struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     uint   `gorm:"not null;index"`
	User       *User  `gorm:"foreignKey:UserID"`
	TokenID    string `gorm:"size:36;not null;uniqueIndex"`
	Name       string `gorm:"size:100"`
	LastUsedAt *time.Time
	ExpiresAt  time.Time `gorm:"not null;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Expired reports whether the token is past its expiry at now.
func (t *AccessToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
