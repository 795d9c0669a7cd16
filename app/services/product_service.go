package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/app/policies"
	"github.com/shashiranjanraj/shopdesk/pkg/apperr"
	"github.com/shashiranjanraj/shopdesk/pkg/validate"
)

type ProductService struct {
	d Deps
}

type CreateProductInput struct {
	Name          string           `json:"name"           validate:"required,max=255"`
	Description   string           `json:"description"`
	Price         *decimal.Decimal `json:"price"          validate:"required,gte=0"`
	CostPrice     *decimal.Decimal `json:"cost_price"     validate:"required,gte=0"`
	StockQuantity *int             `json:"stock_quantity" validate:"nullable,min=0"`
	Barcode       string           `json:"barcode"        validate:"nullable,max=64"`
	SKU           string           `json:"sku"            validate:"nullable,max=100"`
	Category      string           `json:"category"       validate:"required,max=100"`
	ImageURL      string           `json:"image_url"      validate:"nullable,max=1024"`
}

// UpdateProductInput is a partial update; nil fields are left alone.
type UpdateProductInput struct {
	Name          *string          `json:"name"           validate:"nullable,max=255"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"          validate:"nullable,gte=0"`
	CostPrice     *decimal.Decimal `json:"cost_price"     validate:"nullable,gte=0"`
	StockQuantity *int             `json:"stock_quantity" validate:"nullable,min=0"`
	Barcode       *string          `json:"barcode"        validate:"nullable,max=64"`
	SKU           *string          `json:"sku"            validate:"nullable,max=100"`
	Category      *string          `json:"category"       validate:"nullable,max=100"`
	ImageURL      *string          `json:"image_url"      validate:"nullable,max=1024"`
	IsActive      *bool            `json:"is_active"`
}

// List returns the active products of the caller's shop by name.
func (s *ProductService) List(ctx context.Context, p policies.Principal) ([]models.Product, error) {
	if err := s.d.Gate.Authorize(p, policies.ProductList, policies.Resource{}); err != nil {
		return nil, err
	}
	return s.d.Store.Products.ListActive(ctx, p.Shop())
}

func (s *ProductService) Create(ctx context.Context, p policies.Principal, in CreateProductInput) (*models.Product, error) {
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		return nil, apperr.Validation(errs)
	}
	if err := s.d.Gate.Authorize(p, policies.ProductCreate, policies.Resource{}); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, 0, strPtr(in.Barcode), strPtr(in.SKU)); err != nil {
		return nil, err
	}

	product := &models.Product{
		ShopID:      p.Shop(),
		Name:        in.Name,
		Description: in.Description,
		Price:       orZero(in.Price),
		CostPrice:   orZero(in.CostPrice),
		Barcode:     strPtr(in.Barcode),
		SKU:         strPtr(in.SKU),
		Category:    in.Category,
		ImageURL:    in.ImageURL,
		Status:      models.ProductActive,
	}
	if in.StockQuantity != nil {
		product.StockQuantity = *in.StockQuantity
	}
	if err := s.d.Store.Products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("products: create: %w", err)
	}
	return product, nil
}

// checkUnique rejects a barcode or sku already held by another product.
func (s *ProductService) checkUnique(ctx context.Context, exceptID uint, barcode, sku *string) error {
	errs := make(map[string]string)
	for column, v := range map[string]*string{"barcode": barcode, "sku": sku} {
		if v == nil || *v == "" {
			continue
		}
		taken, err := s.d.Store.Products.ColumnTaken(ctx, column, *v, exceptID)
		if err != nil {
			return err
		}
		if taken {
			errs[column] = fmt.Sprintf("The %s has already been taken.", column)
		}
	}
	if len(errs) > 0 {
		return apperr.Validation(errs)
	}
	return nil
}

func (s *ProductService) Show(ctx context.Context, p policies.Principal, id uint) (*models.Product, error) {
	product, err := s.d.Store.Products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.d.Gate.Authorize(p, policies.ProductView, policies.InShop(product.ShopID)); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, p policies.Principal, id uint, in UpdateProductInput) (*models.Product, error) {
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		return nil, apperr.Validation(errs)
	}
	product, err := s.d.Store.Products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.d.Gate.Authorize(p, policies.ProductUpdate, policies.InShop(product.ShopID)); err != nil {
		return nil, err
	}
	for field, v := range map[string]*string{"name": in.Name, "category": in.Category} {
		if v != nil && strings.TrimSpace(*v) == "" {
			return nil, apperr.Field(field, fmt.Sprintf("The %s field is required.", field))
		}
	}
	if err := s.checkUnique(ctx, product.ID, in.Barcode, in.SKU); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Price != nil {
		fields["price"] = *in.Price
	}
	if in.CostPrice != nil {
		fields["cost_price"] = *in.CostPrice
	}
	if in.StockQuantity != nil {
		fields["stock_quantity"] = *in.StockQuantity
	}
	if in.Barcode != nil {
		fields["barcode"] = strPtr(*in.Barcode)
	}
	if in.SKU != nil {
		fields["sku"] = strPtr(*in.SKU)
	}
	if in.Category != nil {
		fields["category"] = *in.Category
	}
	if in.ImageURL != nil {
		fields["image_url"] = *in.ImageURL
	}
	if in.IsActive != nil {
		fields["status"] = models.ProductInactive
		if *in.IsActive {
			fields["status"] = models.ProductActive
		}
	}

	if len(fields) > 0 {
		if err := s.d.Store.Products.Update(ctx, product, fields); err != nil {
			return nil, err
		}
	}
	return s.d.Store.Products.FindByID(ctx, id)
}

// Deactivate hides a product from listings. Past sales keep referencing it.
func (s *ProductService) Deactivate(ctx context.Context, p policies.Principal, id uint) error {
	product, err := s.d.Store.Products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.d.Gate.Authorize(p, policies.ProductDelete, policies.InShop(product.ShopID)); err != nil {
		return err
	}
	return s.d.Store.Products.Update(ctx, product, map[string]interface{}{"status": models.ProductInactive})
}

func (s *ProductService) UploadImage(ctx context.Context, p policies.Principal, id uint, up Upload) (*models.Product, error) {
	product, err := s.d.Store.Products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.d.Gate.Authorize(p, policies.ProductUpdate, policies.InShop(product.ShopID)); err != nil {
		return nil, err
	}
	url, err := storeUpload(ctx, s.d.Disk, "image", "products", product.ID, up)
	if err != nil {
		return nil, err
	}
	if err := s.d.Store.Products.Update(ctx, product, map[string]interface{}{"image_url": url}); err != nil {
		return nil, err
	}
	return s.d.Store.Products.FindByID(ctx, id)
}
