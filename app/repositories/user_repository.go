package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopdesk/app/models"
)

type UserRepository struct {
	db *gorm.DB
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// FindWithShop loads the user and their shop.
func (r *UserRepository) FindWithShop(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Shop").First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("google_id = ?", googleID).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// EmailTaken reports whether another user (not exceptID) holds email.
func (r *UserRepository) EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Update writes the given columns only.
func (r *UserRepository) Update(ctx context.Context, user *models.User, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(user).Updates(fields).Error
}

func (r *UserRepository) Delete(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Delete(user).Error
}

// ListByShop returns a shop's users ordered by id.
func (r *UserRepository) ListByShop(ctx context.Context, shopID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Where("shop_id = ?", shopID).Order("id asc").Find(&users).Error
	return users, err
}

// CountByShop counts a shop's users, optionally only active ones.
func (r *UserRepository) CountByShop(ctx context.Context, shopID uint, activeOnly bool) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.User{}).Where("shop_id = ?", shopID)
	if activeOnly {
		q = q.Where("status = ?", models.UserActive)
	}
	err := q.Count(&n).Error
	return n, err
}

// DetachShop clears shop_id for every user of the shop.
func (r *UserRepository) DetachShop(ctx context.Context, shopID uint) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("shop_id = ?", shopID).
		Update("shop_id", nil).Error
}
