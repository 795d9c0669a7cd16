package models

import (
	"time"

	"gorm.io/datatypes"
)

type ShopStatus string

const (
	ShopActive   ShopStatus = "active"
	ShopInactive ShopStatus = "inactive"
)

// Shop is a tenant. Products, sales and team members hang off it.
type Shop struct {
	ID          uint              `gorm:"primaryKey"`
	Name        string            `gorm:"size:255;not null"`
	Slug        string            `gorm:"size:255;not null;uniqueIndex"`
	Description string            `gorm:"type:text"`
	Address     string            `gorm:"size:500"`
	Phone       string            `gorm:"size:20"`
	Email       string            `gorm:"size:255"`
	LogoURL     string            `gorm:"size:1024"`
	Currency    string            `gorm:"size:3;not null;default:USD"`
	Timezone    string            `gorm:"size:64;not null;default:UTC"`
	Settings    datatypes.JSONMap `gorm:"type:json"`
	OwnerID     uint              `gorm:"not null;index"`
	Owner       *User             `gorm:"foreignKey:OwnerID"`
	Status      ShopStatus        `gorm:"size:16;not null;default:active"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (s *Shop) IsActive() bool { return s.Status == ShopActive }
