package models

import "time"

type Role string

const (
	RoleOwner       Role = "owner"
	RoleSalesPerson Role = "sales_person"
	RoleAdmin       Role = "admin"
	RoleManager     Role = "manager"
	RoleCashier     Role = "cashier"
)

// ValidRole reports whether r is one of the stored roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleOwner, RoleSalesPerson, RoleAdmin, RoleManager, RoleCashier:
		return true
	}
	return false
}

type UserStatus string

const (
	UserActive      UserStatus = "active"
	UserDeactivated UserStatus = "deactivated"
)

// User is an account. Password is nil for Google-only accounts.
type User struct {
	ID              uint       `gorm:"primaryKey"`
	Name            string     `gorm:"size:255;not null"`
	Email           string     `gorm:"size:255;not null;uniqueIndex"`
	Password        *string    `gorm:"size:255"`
	GoogleID        *string    `gorm:"size:255;uniqueIndex"`
	Avatar          string     `gorm:"size:1024"`
	ProfileImageURL string     `gorm:"size:1024"`
	Role            Role       `gorm:"size:32;not null;default:owner;index"`
	ShopID          *uint      `gorm:"index"`
	Shop            *Shop      `gorm:"foreignKey:ShopID"`
	Status          UserStatus `gorm:"size:16;not null;default:active"`
	EmailVerifiedAt *time.Time
	LastLoginAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (u *User) IsOwner() bool { return u.Role == RoleOwner }

func (u *User) IsActive() bool { return u.Status == UserActive }
