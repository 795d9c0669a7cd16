package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentMobile PaymentMethod = "mobile"
	PaymentMixed  PaymentMethod = "mixed"
)

type SaleStatus string

const (
	SalePending   SaleStatus = "pending"
	SaleCompleted SaleStatus = "completed"
	SaleCancelled SaleStatus = "cancelled"
	SaleRefunded  SaleStatus = "refunded"
)

// CanTransition reports whether an update may move a sale from s to next.
// Completion only happens while posting.
func (s SaleStatus) CanTransition(next SaleStatus) bool {
	return next == s || next == SaleCancelled || next == SaleRefunded
}

type Sale struct {
	ID            uint            `gorm:"primaryKey"`
	ShopID        uint            `gorm:"not null;index"`
	Shop          *Shop           `gorm:"foreignKey:ShopID"`
	CashierID     uint            `gorm:"not null;index"`
	Cashier       *User           `gorm:"foreignKey:CashierID"`
	CashierName   string          `gorm:"size:255;not null"`
	CustomerID    *uint           `gorm:"index"`
	CustomerName  string          `gorm:"size:255"`
	CustomerPhone string          `gorm:"size:32"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Tax           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Discount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod PaymentMethod   `gorm:"size:16;not null"`
	Status        SaleStatus      `gorm:"size:16;not null;default:pending;index"`
	Notes         string          `gorm:"type:text"`
	Items         []SaleItem      `gorm:"foreignKey:SaleID"`
	CreatedAt     time.Time       `gorm:"index"`
	UpdatedAt     time.Time
}

type SaleItem struct {
	ID        uint            `gorm:"primaryKey"`
	SaleID    uint            `gorm:"not null;index"`
	ProductID uint            `gorm:"not null;index"`
	Product   *Product        `gorm:"foreignKey:ProductID"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Discount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
