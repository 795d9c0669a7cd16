package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopdesk/app/models"
)

type ProductRepository struct {
	db *gorm.DB
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// FindByIDs returns the products that exist among ids, keyed by id.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	var products []models.Product
	if len(ids) > 0 {
		if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
			return nil, err
		}
	}
	out := make(map[uint]models.Product, len(products))
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

// ListActive returns a shop's active products ordered by name.
func (r *ProductRepository) ListActive(ctx context.Context, shopID uint) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND status = ?", shopID, models.ProductActive).
		Order("name asc").Order("id asc").
		Find(&products).Error
	return products, err
}

// ColumnTaken reports whether another product (not exceptID) holds value
// in column, which must be "barcode" or "sku".
func (r *ProductRepository) ColumnTaken(ctx context.Context, column, value string, exceptID uint) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.Product{}).Where(column+" = ?", value)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProductRepository) Update(ctx context.Context, p *models.Product, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(p).Updates(fields).Error
}

// DecrementStock subtracts qty in a single statement. With floor set the
// update only applies while stock covers qty; the bool reports whether a
// row changed.
func (r *ProductRepository) DecrementStock(ctx context.Context, id uint, qty int, floor bool) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id)
	if floor {
		q = q.Where("stock_quantity >= ?", qty)
	}
	res := q.UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	return res.RowsAffected > 0, res.Error
}

func (r *ProductRepository) DeleteByShop(ctx context.Context, shopID uint) error {
	return r.db.WithContext(ctx).Where("shop_id = ?", shopID).Delete(&models.Product{}).Error
}

// ProductCounts summarises a catalog.
type ProductCounts struct {
	Total    int64
	Active   int64
	LowStock int64
}

// CountByShop counts products of shopID. Low stock is active and below
// threshold.
func (r *ProductRepository) CountByShop(ctx context.Context, shopID uint, threshold int) (ProductCounts, error) {
	var c ProductCounts
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Product{}).Where("shop_id = ?", shopID)
	}
	if err := base().Count(&c.Total).Error; err != nil {
		return c, err
	}
	if err := base().Where("status = ?", models.ProductActive).Count(&c.Active).Error; err != nil {
		return c, err
	}
	err := base().Where("status = ? AND stock_quantity < ?", models.ProductActive, threshold).Count(&c.LowStock).Error
	return c, err
}
