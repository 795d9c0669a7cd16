package services_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/app/services"
	"github.com/shashiranjanraj/shopdesk/pkg/apperr"
	"github.com/shashiranjanraj/shopdesk/pkg/event"
)

func TestPost_RecordsSaleAndDecrementsStock(t *testing.T) {
	f := newFixture(t)
	owner, shop := f.owner("owner@a.test", "Shop A")
	cola := f.product(owner, "Coca Cola 500ml", "2.50", 100)
	bread := f.product(owner, "Bread Loaf", "3.00", 50)
	cashier := f.seller(owner, "cashier@a.test")

	var fired *models.Sale
	f.events.Listen(event.SalePosted, func(p interface{}) { fired = p.(*models.Sale) })

	got, err := f.svc.Sales.Post(bg, cashier, sale(line(cola, 2, "2.50"), line(bread, 1, "3.00")))
	require.NoError(t, err)

	assert.Equal(t, models.SaleCompleted, got.Status)
	assert.Equal(t, shop.ID, got.ShopID)
	assert.Equal(t, cashier.UserID, got.CashierID)
	assert.Equal(t, cashier.Name, got.CashierName)
	assert.Equal(t, "8.00", got.Total.StringFixed(2))
	require.Len(t, got.Items, 2)
	assert.Equal(t, cola.ID, got.Items[0].ProductID)
	require.NotNil(t, got.Items[0].Product)
	assert.Equal(t, "Coca Cola 500ml", got.Items[0].Product.Name)
	require.NotNil(t, got.Cashier)

	assert.Equal(t, 98, f.stock(cola.ID))
	assert.Equal(t, 49, f.stock(bread.ID))

	require.NotNil(t, fired)
	assert.Equal(t, got.ID, fired.ID)
}

func TestPost_CrossTenantProductWritesNothing(t *testing.T) {
	f := newFixture(t)
	ownerA, _ := f.owner("a@a.test", "Shop A")
	ownerB, _ := f.owner("b@b.test", "Shop B")
	mine := f.product(ownerA, "Milk 1L", "1.20", 10)
	theirs := f.product(ownerB, "Bananas", "0.50", 10)

	_, err := f.svc.Sales.Post(bg, ownerA, sale(line(mine, 1, "1.20"), line(theirs, 1, "0.50")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrCrossTenantReference))

	assert.Zero(t, f.count(&models.Sale{}))
	assert.Zero(t, f.count(&models.SaleItem{}))
	assert.Equal(t, 10, f.stock(mine.ID))
	assert.Equal(t, 10, f.stock(theirs.ID))
}

func TestPost_UnknownProduct(t *testing.T) {
	f := newFixture(t)
	owner, _ := f.owner("a@a.test", "Shop A")
	milk := f.product(owner, "Milk 1L", "1.20", 10)
	ghost := &models.Product{ID: milk.ID + 100}

	_, err := f.svc.Sales.Post(bg, owner, sale(line(milk, 1, "1.20"), line(ghost, 1, "1.00")))
	ae := apperr.As(err)
	require.Equal(t, apperr.ValidationFailed, ae.Kind)
	assert.Equal(t, "The selected items.1.product_id is invalid.", ae.Fields["items.1.product_id"])
	assert.Zero(t, f.count(&models.Sale{}))
}

func TestPost_Validation(t *testing.T) {
	f := newFixture(t)
	owner, _ := f.owner("a@a.test", "Shop A")
	milk := f.product(owner, "Milk 1L", "1.20", 10)

	cases := map[string]struct {
		in    services.PostSaleInput
		field string
	}{
		"empty items":      {in: sale(), field: "items"},
		"zero quantity":    {in: sale(line(milk, 0, "1.20")), field: "items.0.quantity"},
		"bad method":       {in: func() services.PostSaleInput { s := sale(line(milk, 1, "1.20")); s.PaymentMethod = "cheque"; return s }(), field: "payment_method"},
		"negative total":   {in: func() services.PostSaleInput { s := sale(line(milk, 1, "1.20")); s.Total = dec("-1"); return s }(), field: "total"},
		"missing subtotal": {in: func() services.PostSaleInput { s := sale(line(milk, 1, "1.20")); s.Subtotal = nil; return s }(), field: "subtotal"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Sales.Post(bg, owner, tc.in)
			ae := apperr.As(err)
			require.Equal(t, apperr.ValidationFailed, ae.Kind)
			assert.Contains(t, ae.Fields, tc.field)
		})
	}
	assert.Zero(t, f.count(&models.Sale{}))
	assert.Equal(t, 10, f.stock(milk.ID))
}

func TestPost_RequiresShop(t *testing.T) {
	f := newFixture(t)
	s, err := f.svc.Auth.Register(bg, services.RegisterInput{
		Name: "Drifter", Email: "d@d.test", Password: "password123", PasswordConfirmation: "password123",
	})
	require.NoError(t, err)

	owner, _ := f.owner("a@a.test", "Shop A")
	milk := f.product(owner, "Milk 1L", "1.20", 10)

	_, err = f.svc.Sales.Post(bg, f.principal(s.User.ID), sale(line(milk, 1, "1.20")))
	assert.True(t, errors.Is(err, apperr.ErrNoShop))
}

func TestPost_RollsBackWhenCompletionFails(t *testing.T) {
	f := newFixture(t)
	owner, _ := f.owner("a@a.test", "Shop A")
	milk := f.product(owner, "Milk 1L", "1.20", 10)

	require.NoError(t, f.db.Callback().Update().Before("gorm:update").Register("test:fail_sales", func(tx *gorm.DB) {
		if tx.Statement.Table == "sales" {
			_ = tx.AddError(errors.New("induced failure"))
		}
	}))

	_, err := f.svc.Sales.Post(bg, owner, sale(line(milk, 3, "1.20")))
	require.Error(t, err)
	ae := apperr.As(err)
	assert.Equal(t, apperr.SalePostingFailed, ae.Kind)
	assert.Equal(t, "Failed to create sale", ae.Public())

	assert.Zero(t, f.count(&models.Sale{}))
	assert.Zero(t, f.count(&models.SaleItem{}))
	assert.Equal(t, 10, f.stock(milk.ID))
}

func TestPost_StockFloor(t *testing.T) {
	t.Run("off lets stock go negative", func(t *testing.T) {
		f := newFixture(t)
		owner, _ := f.owner("a@a.test", "Shop A")
		milk := f.product(owner, "Milk 1L", "1.20", 1)

		_, err := f.svc.Sales.Post(bg, owner, sale(line(milk, 2, "1.20")))
		require.NoError(t, err)
		assert.Equal(t, -1, f.stock(milk.ID))
	})

	t.Run("on rejects and rolls back", func(t *testing.T) {
		f := newFixture(t, func(d *services.Deps) { d.Settings.EnforceStockFloor = true })
		owner, _ := f.owner("a@a.test", "Shop A")
		bread := f.product(owner, "Bread Loaf", "3.00", 5)
		milk := f.product(owner, "Milk 1L", "1.20", 1)

		_, err := f.svc.Sales.Post(bg, owner, sale(line(bread, 2, "3.00"), line(milk, 2, "1.20")))
		assert.True(t, errors.Is(err, apperr.ErrInsufficientStock))
		assert.Zero(t, f.count(&models.Sale{}))
		assert.Equal(t, 5, f.stock(bread.ID))
		assert.Equal(t, 1, f.stock(milk.ID))
	})
}

func TestUpdateSale(t *testing.T) {
	f := newFixture(t)
	owner, _ := f.owner("a@a.test", "Shop A")
	cashier := f.seller(owner, "c@a.test")
	milk := f.product(owner, "Milk 1L", "1.20", 10)
	posted, err := f.svc.Sales.Post(bg, cashier, sale(line(milk, 1, "1.20")))
	require.NoError(t, err)

	pending := "pending"
	_, err = f.svc.Sales.Update(bg, owner, posted.ID, services.UpdateSaleInput{Status: &pending})
	assert.Equal(t, apperr.ValidationFailed, apperr.KindOf(err))

	refunded, note := "refunded", "customer returned it"
	_, err = f.svc.Sales.Update(bg, cashier, posted.ID, services.UpdateSaleInput{Status: &refunded})
	assert.Equal(t, "Only shop owners can modify sales", apperr.As(err).Public())

	got, err := f.svc.Sales.Update(bg, owner, posted.ID, services.UpdateSaleInput{Status: &refunded, Notes: &note})
	require.NoError(t, err)
	assert.Equal(t, models.SaleRefunded, got.Status)
	assert.Equal(t, note, got.Notes)

	bogus := "lost"
	_, err = f.svc.Sales.Update(bg, owner, posted.ID, services.UpdateSaleInput{Status: &bogus})
	assert.Contains(t, apperr.As(err).Fields, "status")
}

func TestDeleteSale(t *testing.T) {
	f := newFixture(t)
	owner, _ := f.owner("a@a.test", "Shop A")
	milk := f.product(owner, "Milk 1L", "1.20", 10)

	posted, err := f.svc.Sales.Post(bg, owner, sale(line(milk, 1, "1.20")))
	require.NoError(t, err)
	err = f.svc.Sales.Delete(bg, owner, posted.ID)
	assert.Equal(t, "Cannot delete completed sale", apperr.As(err).Public())
	assert.Equal(t, apperr.ValidationFailed, apperr.KindOf(err))

	cancelled := "cancelled"
	_, err = f.svc.Sales.Update(bg, owner, posted.ID, services.UpdateSaleInput{Status: &cancelled})
	require.NoError(t, err)
	require.NoError(t, f.svc.Sales.Delete(bg, owner, posted.ID))
	assert.Zero(t, f.count(&models.Sale{}))
	assert.Zero(t, f.count(&models.SaleItem{}))

	_, err = f.svc.Sales.Show(bg, owner, posted.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestListSales_TenantScoped(t *testing.T) {
	f := newFixture(t)
	ownerA, _ := f.owner("a@a.test", "Shop A")
	ownerB, _ := f.owner("b@b.test", "Shop B")
	milk := f.product(ownerA, "Milk 1L", "1.20", 10)
	bananas := f.product(ownerB, "Bananas", "0.50", 10)

	first, err := f.svc.Sales.Post(bg, ownerA, sale(line(milk, 1, "1.20")))
	require.NoError(t, err)
	second, err := f.svc.Sales.Post(bg, ownerA, sale(line(milk, 2, "1.20")))
	require.NoError(t, err)
	other, err := f.svc.Sales.Post(bg, ownerB, sale(line(bananas, 1, "0.50")))
	require.NoError(t, err)

	list, err := f.svc.Sales.List(bg, ownerA)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	_, err = f.svc.Sales.Show(bg, ownerA, other.ID)
	assert.True(t, errors.Is(err, apperr.ErrAccessDenied))
}
