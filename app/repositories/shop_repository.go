package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopdesk/app/models"
)

type ShopRepository struct {
	db *gorm.DB
}

func (r *ShopRepository) FindByID(ctx context.Context, id uint) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &shop, nil
}

func (r *ShopRepository) FindWithOwner(ctx context.Context, id uint) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).Preload("Owner").First(&shop, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &shop, nil
}

// ListOwnedBy returns the shops ownerID owns, ordered by id.
func (r *ShopRepository) ListOwnedBy(ctx context.Context, ownerID uint) ([]models.Shop, error) {
	var shops []models.Shop
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id asc").Find(&shops).Error
	return shops, err
}

// SlugsLike returns every slug equal to base or starting with base-.
func (r *ShopRepository) SlugsLike(ctx context.Context, base string, exceptID uint) ([]string, error) {
	var slugs []string
	q := r.db.WithContext(ctx).Model(&models.Shop{}).
		Where("slug = ? OR slug LIKE ?", base, base+"-%")
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Pluck("slug", &slugs).Error
	return slugs, err
}

func (r *ShopRepository) Create(ctx context.Context, shop *models.Shop) error {
	return r.db.WithContext(ctx).Create(shop).Error
}

func (r *ShopRepository) Update(ctx context.Context, shop *models.Shop, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(shop).Updates(fields).Error
}

func (r *ShopRepository) Delete(ctx context.Context, shop *models.Shop) error {
	return r.db.WithContext(ctx).Delete(shop).Error
}
