package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopdesk/app/models"
)

type TokenRepository struct {
	db *gorm.DB
}

func (r *TokenRepository) Create(ctx context.Context, t *models.AccessToken) error {
	return r.db.WithContext(ctx).Omit("User").Create(t).Error
}

func (r *TokenRepository) FindByTokenID(ctx context.Context, tokenID string) (*models.AccessToken, error) {
	var t models.AccessToken
	if err := r.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&t).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *TokenRepository) Touch(ctx context.Context, tokenID string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.AccessToken{}).
		Where("token_id = ?", tokenID).
		UpdateColumn("last_used_at", at).Error
}

func (r *TokenRepository) DeleteByTokenID(ctx context.Context, tokenID string) error {
	return r.db.WithContext(ctx).Where("token_id = ?", tokenID).Delete(&models.AccessToken{}).Error
}

// DeleteForUser revokes every token of userID and returns their ids.
func (r *TokenRepository) DeleteForUser(ctx context.Context, userID uint) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&models.AccessToken{}).
		Where("user_id = ?", userID).Pluck("token_id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.AccessToken{}).Error
	return ids, err
}

// PruneExpired deletes tokens that expired before now.
func (r *TokenRepository) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.AccessToken{})
	return res.RowsAffected, res.Error
}
