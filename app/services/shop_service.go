package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/app/policies"
	"github.com/shashiranjanraj/shopdesk/app/repositories"
	"github.com/shashiranjanraj/shopdesk/pkg/apperr"
	"github.com/shashiranjanraj/shopdesk/pkg/logger"
	"github.com/shashiranjanraj/shopdesk/pkg/storage"
	"github.com/shashiranjanraj/shopdesk/pkg/validate"
)

type ShopService struct {
	d Deps
}

type CreateShopInput struct {
	Name        string                 `json:"name"        validate:"required,max=255"`
	Slug        string                 `json:"slug"        validate:"nullable,alpha_dash,max=255"`
	Description string                 `json:"description"`
	Address     string                 `json:"address"     validate:"nullable,max=500"`
	Phone       string                 `json:"phone"       validate:"nullable,max=20"`
	Email       string                 `json:"email"       validate:"nullable,email,max=255"`
	Currency    string                 `json:"currency"    validate:"nullable,size=3"`
	Timezone    string                 `json:"timezone"    validate:"nullable,max=64"`
	Settings    map[string]interface{} `json:"settings"`
}

// UpdateShopInput is a partial update; nil fields are left alone.
type UpdateShopInput struct {
	Name        *string                `json:"name"        validate:"nullable,max=255"`
	Slug        *string                `json:"slug"        validate:"nullable,alpha_dash,max=255"`
	Description *string                `json:"description"`
	Address     *string                `json:"address"     validate:"nullable,max=500"`
	Phone       *string                `json:"phone"       validate:"nullable,max=20"`
	Email       *string                `json:"email"       validate:"nullable,email,max=255"`
	Currency    *string                `json:"currency"    validate:"nullable,size=3"`
	Timezone    *string                `json:"timezone"    validate:"nullable,max=64"`
	Settings    map[string]interface{} `json:"settings"`
	IsActive    *bool                  `json:"is_active"`
}

type ShopStatistics struct {
	TotalProducts     int64           `json:"total_products"`
	ActiveProducts    int64           `json:"active_products"`
	LowStockProducts  int64           `json:"low_stock_products"`
	TotalSales        int64           `json:"total_sales"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalTeamMembers  int64           `json:"total_team_members"`
	ActiveTeamMembers int64           `json:"active_team_members"`
}

// Upload is a file handed over by a multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// List returns the shops an owner owns, or the caller's own shop.
func (s *ShopService) List(ctx context.Context, p policies.Principal) ([]models.Shop, error) {
	if err := s.d.Gate.Authorize(p, policies.ShopList, policies.Resource{}); err != nil {
		return nil, err
	}
	if p.IsOwner() {
		return s.d.Store.Shops.ListOwnedBy(ctx, p.UserID)
	}
	if p.ShopID == nil {
		return []models.Shop{}, nil
	}
	shop, err := s.d.Store.Shops.FindByID(ctx, *p.ShopID)
	if apperr.KindOf(err) == apperr.NotFound {
		return []models.Shop{}, nil
	}
	if err != nil {
		return nil, err
	}
	return []models.Shop{*shop}, nil
}

// Create makes the caller the owner of a new shop and, when they have no
// shop yet, attaches them to it.
func (s *ShopService) Create(ctx context.Context, p policies.Principal, in CreateShopInput) (*models.Shop, error) {
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		return nil, apperr.Validation(errs)
	}
	if err := s.d.Gate.Authorize(p, policies.ShopCreate, policies.Resource{}); err != nil {
		return nil, err
	}

	shop := &models.Shop{
		Name:        in.Name,
		Description: in.Description,
		Address:     in.Address,
		Phone:       in.Phone,
		Email:       in.Email,
		Currency:    strings.ToUpper(in.Currency),
		Timezone:    in.Timezone,
		Settings:    in.Settings,
		OwnerID:     p.UserID,
		Status:      models.ShopActive,
	}
	if shop.Currency == "" {
		shop.Currency = "USD"
	}
	if shop.Timezone == "" {
		shop.Timezone = "UTC"
	}

	err := s.d.Store.Transaction(ctx, func(tx *repositories.Store) error {
		slug, err := s.slug(ctx, tx, in.Slug, in.Name, 0)
		if err != nil {
			return err
		}
		shop.Slug = slug
		if err := tx.Shops.Create(ctx, shop); err != nil {
			return fmt.Errorf("create shop: %w", err)
		}
		if p.ShopID == nil {
			owner := &models.User{ID: p.UserID}
			if err := tx.Users.Update(ctx, owner, map[string]interface{}{"shop_id": shop.ID}); err != nil {
				return fmt.Errorf("attach owner: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("shops: created", "created_shop_id", shop.ID, "slug", shop.Slug)
	return s.d.Store.Shops.FindWithOwner(ctx, shop.ID)
}

// slug picks a free slug. An explicit one must be free; a derived one
// gets a numeric suffix.
func (s *ShopService) slug(ctx context.Context, tx *repositories.Store, requested, name string, exceptID uint) (string, error) {
	if requested != "" {
		taken, err := tx.Shops.SlugsLike(ctx, requested, exceptID)
		if err != nil {
			return "", err
		}
		for _, t := range taken {
			if t == requested {
				return "", apperr.Field("slug", "The slug has already been taken.")
			}
		}
		return requested, nil
	}
	base := slugify(name)
	taken, err := tx.Shops.SlugsLike(ctx, base, exceptID)
	if err != nil {
		return "", err
	}
	return uniqueSlug(base, taken), nil
}

func (s *ShopService) Show(ctx context.Context, p policies.Principal, id uint) (*models.Shop, error) {
	shop, err := s.d.Store.Shops.FindWithOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.d.Gate.Authorize(p, policies.ShopView, policies.ForShop(shop)); err != nil {
		return nil, err
	}
	return shop, nil
}

func (s *ShopService) Update(ctx context.Context, p policies.Principal, id uint, in UpdateShopInput) (*models.Shop, error) {
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		return nil, apperr.Validation(errs)
	}
	shop, err := s.d.Store.Shops.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.d.Gate.Authorize(p, policies.ShopUpdate, policies.ForShop(shop)); err != nil {
		return nil, err
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, apperr.Field("name", "The name field is required.")
	}

	fields := make(map[string]interface{})
	set := func(col string, v *string) {
		if v != nil {
			fields[col] = *v
		}
	}
	set("name", in.Name)
	set("description", in.Description)
	set("address", in.Address)
	set("phone", in.Phone)
	set("email", in.Email)
	set("timezone", in.Timezone)
	if in.Currency != nil {
		fields["currency"] = strings.ToUpper(*in.Currency)
	}
	if in.Settings != nil {
		fields["settings"] = datatypes.JSONMap(in.Settings)
	}
	if in.IsActive != nil {
		fields["status"] = models.ShopInactive
		if *in.IsActive {
			fields["status"] = models.ShopActive
		}
	}
	if in.Slug != nil && *in.Slug != shop.Slug {
		slug, err := s.slug(ctx, s.d.Store, *in.Slug, shop.Name, shop.ID)
		if err != nil {
			return nil, err
		}
		fields["slug"] = slug
	}

	if len(fields) > 0 {
		if err := s.d.Store.Shops.Update(ctx, shop, fields); err != nil {
			return nil, err
		}
	}
	return s.d.Store.Shops.FindWithOwner(ctx, id)
}

// Delete removes the shop with its products and sales, and detaches its
// users, in one transaction.
func (s *ShopService) Delete(ctx context.Context, p policies.Principal, id uint) error {
	shop, err := s.d.Store.Shops.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.d.Gate.Authorize(p, policies.ShopDelete, policies.ForShop(shop)); err != nil {
		return err
	}
	err = s.d.Store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := tx.Sales.DeleteByShop(ctx, shop.ID); err != nil {
			return fmt.Errorf("delete sales: %w", err)
		}
		if err := tx.Products.DeleteByShop(ctx, shop.ID); err != nil {
			return fmt.Errorf("delete products: %w", err)
		}
		if err := tx.Users.DetachShop(ctx, shop.ID); err != nil {
			return fmt.Errorf("detach users: %w", err)
		}
		return tx.Shops.Delete(ctx, shop)
	})
	if err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("shops: deleted", "deleted_shop_id", shop.ID)
	return nil
}

func (s *ShopService) Statistics(ctx context.Context, p policies.Principal, id uint) (*ShopStatistics, error) {
	shop, err := s.d.Store.Shops.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.d.Gate.Authorize(p, policies.ShopStats, policies.ForShop(shop)); err != nil {
		return nil, err
	}

	counts, err := s.d.Store.Products.CountByShop(ctx, shop.ID, s.d.Settings.LowStockThreshold)
	if err != nil {
		return nil, err
	}
	sales, revenue, err := s.d.Store.Sales.ShopTotals(ctx, shop.ID)
	if err != nil {
		return nil, err
	}
	members, err := s.d.Store.Users.CountByShop(ctx, shop.ID, false)
	if err != nil {
		return nil, err
	}
	active, err := s.d.Store.Users.CountByShop(ctx, shop.ID, true)
	if err != nil {
		return nil, err
	}

	return &ShopStatistics{
		TotalProducts:     counts.Total,
		ActiveProducts:    counts.Active,
		LowStockProducts:  counts.LowStock,
		TotalSales:        sales,
		TotalRevenue:      revenue,
		TotalTeamMembers:  members,
		ActiveTeamMembers: active,
	}, nil
}

// UploadLogo stores the file on the disk and points logo_url at it.
func (s *ShopService) UploadLogo(ctx context.Context, p policies.Principal, id uint, up Upload) (*models.Shop, error) {
	shop, err := s.d.Store.Shops.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.d.Gate.Authorize(p, policies.ShopUpdate, policies.ForShop(shop)); err != nil {
		return nil, err
	}
	url, err := storeUpload(ctx, s.d.Disk, "logo", "shops", shop.ID, up)
	if err != nil {
		return nil, err
	}
	if err := s.d.Store.Shops.Update(ctx, shop, map[string]interface{}{"logo_url": url}); err != nil {
		return nil, err
	}
	return s.d.Store.Shops.FindWithOwner(ctx, id)
}

var imageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// storeUpload writes an image upload under kind/ownerID and returns its
// public URL. field names the form field in validation errors.
func storeUpload(ctx context.Context, disk storage.Disk, field, kind string, ownerID uint, up Upload) (string, error) {
	if disk == nil {
		return "", apperr.Wrap(apperr.Internal, "", fmt.Errorf("storage: no disk configured"))
	}
	if !imageTypes[up.ContentType] {
		return "", apperr.Field(field, fmt.Sprintf("The %s must be a file of type: png, jpeg, gif, webp.", field))
	}
	path := storage.Path(kind, ownerID, up.Filename)
	if err := disk.Put(ctx, path, up.Body, up.ContentType); err != nil {
		return "", fmt.Errorf("storage: put %s: %w", path, err)
	}
	return disk.URL(path), nil
}
