package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopdesk/app/models"
)

// ReportRepository runs the read-only aggregates behind the dashboard and
// the sales report. A nil ShopID means every shop.
type ReportRepository struct {
	db *gorm.DB
}

// Window is a half-open [From, To) interval. Zero bounds are open.
type Window struct {
	From time.Time
	To   time.Time
}

type Totals struct {
	Sales        decimal.Decimal
	Transactions int64
}

type TopProduct struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	TotalSold int64  `json:"total_sold"`
}

func (r *ReportRepository) completed(ctx context.Context, shopID *uint, w Window) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Sale{}).Where("sales.status = ?", models.SaleCompleted)
	if shopID != nil {
		q = q.Where("sales.shop_id = ?", *shopID)
	}
	if !w.From.IsZero() {
		q = q.Where("sales.created_at >= ?", w.From.UTC())
	}
	if !w.To.IsZero() {
		q = q.Where("sales.created_at < ?", w.To.UTC())
	}
	return q
}

// CompletedTotals sums completed sales inside w.
func (r *ReportRepository) CompletedTotals(ctx context.Context, shopID *uint, w Window) (Totals, error) {
	var t Totals
	if err := r.completed(ctx, shopID, w).Count(&t.Transactions).Error; err != nil {
		return t, err
	}
	err := r.completed(ctx, shopID, w).Select("COALESCE(SUM(sales.total), 0)").Row().Scan(&t.Sales)
	return t, err
}

// CompletedSales lists completed sales inside w with their detail, newest
// first.
func (r *ReportRepository) CompletedSales(ctx context.Context, shopID *uint, w Window) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.completed(ctx, shopID, w).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sale_items.id asc") }).
		Preload("Items.Product").
		Preload("Cashier").
		Order("sales.created_at desc").Order("sales.id desc").
		Find(&sales).Error
	return sales, err
}

// ActiveProductCounts counts active products and those at or below
// threshold.
func (r *ReportRepository) ActiveProductCounts(ctx context.Context, shopID *uint, threshold int) (total, low int64, err error) {
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Product{}).Where("status = ?", models.ProductActive)
		if shopID != nil {
			q = q.Where("shop_id = ?", *shopID)
		}
		return q
	}
	if err = base().Count(&total).Error; err != nil {
		return
	}
	err = base().Where("stock_quantity <= ?", threshold).Count(&low).Error
	return
}

// TopProducts ranks products by quantity sold in completed sales inside w.
// Ties break on product id.
func (r *ReportRepository) TopProducts(ctx context.Context, shopID *uint, w Window, limit int) ([]TopProduct, error) {
	var out []TopProduct
	err := r.completed(ctx, shopID, w).
		Select("products.id AS id, products.name AS name, SUM(sale_items.quantity) AS total_sold").
		Joins("JOIN sale_items ON sale_items.sale_id = sales.id").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Group("products.id, products.name").
		Order("total_sold desc").Order("products.id asc").
		Limit(limit).
		Scan(&out).Error
	if out == nil {
		out = []TopProduct{}
	}
	return out, err
}
