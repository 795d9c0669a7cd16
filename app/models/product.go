package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductInactive ProductStatus = "inactive"
)

// Product is a catalog entry. Barcode and SKU are globally unique when set.
type Product struct {
	ID            uint            `gorm:"primaryKey"`
	ShopID        uint            `gorm:"not null;index"`
	Shop          *Shop           `gorm:"foreignKey:ShopID"`
	Name          string          `gorm:"size:255;not null;index"`
	Description   string          `gorm:"type:text"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CostPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	StockQuantity int             `gorm:"not null;default:0"`
	Barcode       *string         `gorm:"size:64;uniqueIndex"`
	SKU           *string         `gorm:"column:sku;size:100;uniqueIndex"`
	Category      string          `gorm:"size:100;not null;index"`
	ImageURL      string          `gorm:"size:1024"`
	Status        ProductStatus   `gorm:"size:16;not null;default:active;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (p *Product) IsActive() bool { return p.Status == ProductActive }
