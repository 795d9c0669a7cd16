package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/app/policies"
	"github.com/shashiranjanraj/shopdesk/app/repositories"
	"github.com/shashiranjanraj/shopdesk/pkg/apperr"
	"github.com/shashiranjanraj/shopdesk/pkg/event"
	"github.com/shashiranjanraj/shopdesk/pkg/logger"
	"github.com/shashiranjanraj/shopdesk/pkg/metrics"
	"github.com/shashiranjanraj/shopdesk/pkg/validate"
)

type SaleService struct {
	d Deps
}

type SaleItemInput struct {
	ProductID uint             `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity"   validate:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price" validate:"required,gte=0"`
	Discount  *decimal.Decimal `json:"discount"   validate:"nullable,gte=0"`
	Subtotal  *decimal.Decimal `json:"subtotal"   validate:"required,gte=0"`
}

// PostSaleInput is a sale as submitted by the till. Totals are stored as
// sent.
type PostSaleInput struct {
	CustomerID    *uint            `json:"customer_id"`
	CustomerName  string           `json:"customer_name"  validate:"nullable,max=255"`
	CustomerPhone string           `json:"customer_phone" validate:"nullable,max=32"`
	Subtotal      *decimal.Decimal `json:"subtotal"       validate:"required,gte=0"`
	Tax           *decimal.Decimal `json:"tax"            validate:"required,gte=0"`
	Discount      *decimal.Decimal `json:"discount"       validate:"nullable,gte=0"`
	Total         *decimal.Decimal `json:"total"          validate:"required,gte=0"`
	PaymentMethod string           `json:"payment_method" validate:"required,in=cash,card,mobile,mixed"`
	Notes         string           `json:"notes"`
	Items         []SaleItemInput  `json:"items"          validate:"required,min=1,dive"`
}

type UpdateSaleInput struct {
	Status *string `json:"status" validate:"nullable,in=pending,completed,cancelled,refunded"`
	Notes  *string `json:"notes"`
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// Post records a sale and its items and decrements stock, all in one
// transaction. Nothing is written unless every referenced product exists
// and belongs to the caller's shop.
func (s *SaleService) Post(ctx context.Context, p policies.Principal, in PostSaleInput) (*models.Sale, error) {
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		return nil, apperr.Validation(errs)
	}
	if err := s.d.Gate.Authorize(p, policies.SaleCreate, policies.Resource{}); err != nil {
		return nil, err
	}
	shopID := p.Shop()

	ids := make([]uint, len(in.Items))
	for i, it := range in.Items {
		ids[i] = it.ProductID
	}
	products, err := s.d.Store.Products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	missing := make(map[string]string)
	for i, it := range in.Items {
		if _, ok := products[it.ProductID]; !ok {
			key := fmt.Sprintf("items.%d.product_id", i)
			missing[key] = fmt.Sprintf("The selected %s is invalid.", key)
		}
	}
	if len(missing) > 0 {
		return nil, apperr.Validation(missing)
	}
	for _, it := range in.Items {
		if products[it.ProductID].ShopID != shopID {
			metrics.SalePostingFailures.WithLabelValues("cross_tenant").Inc()
			return nil, apperr.ErrCrossTenantReference
		}
	}

	sale := &models.Sale{
		ShopID:        shopID,
		CashierID:     p.UserID,
		CashierName:   p.Name,
		CustomerID:    in.CustomerID,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		Subtotal:      orZero(in.Subtotal),
		Tax:           orZero(in.Tax),
		Discount:      orZero(in.Discount),
		Total:         orZero(in.Total),
		PaymentMethod: models.PaymentMethod(in.PaymentMethod),
		Status:        models.SalePending,
		Notes:         in.Notes,
		CreatedAt:     s.d.now(),
	}

	floor := s.d.Settings.EnforceStockFloor
	err = s.d.Store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := tx.Sales.Create(ctx, sale); err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}
		for _, it := range in.Items {
			item := &models.SaleItem{
				SaleID:    sale.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: orZero(it.UnitPrice),
				Discount:  orZero(it.Discount),
				Subtotal:  orZero(it.Subtotal),
			}
			if err := tx.Sales.CreateItem(ctx, item); err != nil {
				return fmt.Errorf("insert sale item: %w", err)
			}
			ok, err := tx.Products.DecrementStock(ctx, it.ProductID, it.Quantity, floor)
			if err != nil {
				return fmt.Errorf("decrement stock of product %d: %w", it.ProductID, err)
			}
			if !ok && floor {
				return apperr.New(apperr.InsufficientStock,
					fmt.Sprintf("Insufficient stock for %s", products[it.ProductID].Name))
			}
		}
		if err := tx.Sales.SetStatus(ctx, sale.ID, models.SaleCompleted); err != nil {
			return fmt.Errorf("complete sale: %w", err)
		}
		return nil
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.InsufficientStock {
			metrics.SalePostingFailures.WithLabelValues("insufficient_stock").Inc()
			return nil, err
		}
		metrics.SalePostingFailures.WithLabelValues("transaction").Inc()
		logger.WithCtx(ctx).Error("sales: posting rolled back", "error", err)
		return nil, &apperr.Error{Kind: apperr.SalePostingFailed, Err: err}
	}

	posted, err := s.d.Store.Sales.FindDetailed(ctx, sale.ID)
	if err != nil {
		return nil, err
	}

	metrics.SalesPosted.WithLabelValues(string(posted.PaymentMethod)).Inc()
	metrics.SaleRevenue.Add(posted.Total.InexactFloat64())
	s.d.Events.Fire(event.SalePosted, posted)
	return posted, nil
}

// List returns the caller's shop sales, newest first.
func (s *SaleService) List(ctx context.Context, p policies.Principal) ([]models.Sale, error) {
	if err := s.d.Gate.Authorize(p, policies.SaleList, policies.Resource{}); err != nil {
		return nil, err
	}
	return s.d.Store.Sales.ListByShop(ctx, p.Shop())
}

func (s *SaleService) Show(ctx context.Context, p policies.Principal, id uint) (*models.Sale, error) {
	sale, err := s.d.Store.Sales.FindDetailed(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.d.Gate.Authorize(p, policies.SaleView, policies.InShop(sale.ShopID)); err != nil {
		return nil, err
	}
	return sale, nil
}

// Update changes status (cancel or refund) and notes.
func (s *SaleService) Update(ctx context.Context, p policies.Principal, id uint, in UpdateSaleInput) (*models.Sale, error) {
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		return nil, apperr.Validation(errs)
	}
	sale, err := s.d.Store.Sales.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.d.Gate.Authorize(p, policies.SaleUpdate, policies.InShop(sale.ShopID)); err != nil {
		return nil, err
	}

	prev := sale.Status
	fields := make(map[string]interface{})
	if in.Status != nil {
		next := models.SaleStatus(*in.Status)
		if !sale.Status.CanTransition(next) {
			return nil, apperr.Field("status",
				fmt.Sprintf("The status cannot change from %s to %s.", sale.Status, next))
		}
		fields["status"] = next
	}
	if in.Notes != nil {
		fields["notes"] = *in.Notes
	}
	if len(fields) > 0 {
		if err := s.d.Store.Sales.Update(ctx, sale, fields); err != nil {
			return nil, err
		}
		if fields["status"] == models.SaleCancelled && prev != models.SaleCancelled {
			s.d.Events.Fire(event.SaleCancelled, sale.ID)
		}
	}
	return s.d.Store.Sales.FindDetailed(ctx, id)
}

// Delete removes a sale that never completed, with its items.
func (s *SaleService) Delete(ctx context.Context, p policies.Principal, id uint) error {
	sale, err := s.d.Store.Sales.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.d.Gate.Authorize(p, policies.SaleDelete, policies.InShop(sale.ShopID)); err != nil {
		return err
	}
	if sale.Status == models.SaleCompleted {
		return apperr.New(apperr.ValidationFailed, "Cannot delete completed sale")
	}
	return s.d.Store.Transaction(ctx, func(tx *repositories.Store) error {
		return tx.Sales.Delete(ctx, id)
	})
}
