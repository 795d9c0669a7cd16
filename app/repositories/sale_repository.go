package repositories

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopdesk/app/models"
)

type SaleRepository struct {
	db *gorm.DB
}

func (r *SaleRepository) withDetail(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sale_items.id asc") }).
		Preload("Items.Product").
		Preload("Cashier")
}

func (r *SaleRepository) FindByID(ctx context.Context, id uint) (*models.Sale, error) {
	var sale models.Sale
	if err := r.db.WithContext(ctx).First(&sale, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &sale, nil
}

// FindDetailed loads the sale with items, their products and the cashier.
func (r *SaleRepository) FindDetailed(ctx context.Context, id uint) (*models.Sale, error) {
	var sale models.Sale
	if err := r.withDetail(ctx).First(&sale, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &sale, nil
}

// ListByShop returns a shop's sales, newest first.
func (r *SaleRepository) ListByShop(ctx context.Context, shopID uint) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.withDetail(ctx).
		Where("shop_id = ?", shopID).
		Order("created_at desc").Order("id desc").
		Find(&sales).Error
	return sales, err
}

func (r *SaleRepository) Create(ctx context.Context, sale *models.Sale) error {
	return r.db.WithContext(ctx).Omit("Items", "Cashier", "Shop").Create(sale).Error
}

func (r *SaleRepository) CreateItem(ctx context.Context, item *models.SaleItem) error {
	return r.db.WithContext(ctx).Omit("Product").Create(item).Error
}

func (r *SaleRepository) SetStatus(ctx context.Context, id uint, status models.SaleStatus) error {
	return r.db.WithContext(ctx).Model(&models.Sale{}).Where("id = ?", id).Update("status", status).Error
}

func (r *SaleRepository) Update(ctx context.Context, sale *models.Sale, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(sale).Updates(fields).Error
}

// Delete removes the sale and its items.
func (r *SaleRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Where("sale_id = ?", id).Delete(&models.SaleItem{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&models.Sale{}, id).Error
}

// DeleteByShop removes every sale of shopID and their items.
func (r *SaleRepository) DeleteByShop(ctx context.Context, shopID uint) error {
	sub := r.db.Model(&models.Sale{}).Select("id").Where("shop_id = ?", shopID)
	if err := r.db.WithContext(ctx).Where("sale_id IN (?)", sub).Delete(&models.SaleItem{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("shop_id = ?", shopID).Delete(&models.Sale{}).Error
}

// ShopTotals counts all sales of shopID and sums completed revenue.
func (r *SaleRepository) ShopTotals(ctx context.Context, shopID uint) (int64, decimal.Decimal, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Sale{}).Where("shop_id = ?", shopID).Count(&count).Error; err != nil {
		return 0, decimal.Zero, err
	}
	var revenue decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.Sale{}).
		Where("shop_id = ? AND status = ?", shopID, models.SaleCompleted).
		Select("COALESCE(SUM(total), 0)").
		Row().Scan(&revenue)
	return count, revenue, err
}
