package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/app/policies"
	"github.com/shashiranjanraj/shopdesk/app/repositories"
	"github.com/shashiranjanraj/shopdesk/app/services"
	"github.com/shashiranjanraj/shopdesk/pkg/auth"
	"github.com/shashiranjanraj/shopdesk/pkg/cache"
	"github.com/shashiranjanraj/shopdesk/pkg/database"
	"github.com/shashiranjanraj/shopdesk/pkg/event"
)

type fixture struct {
	t      *testing.T
	db     *gorm.DB
	store  *repositories.Store
	events *event.Bus
	svc    *services.Services
	now    time.Time
}

var bg = context.Background()

// googleTokens are the id_tokens the fixture's verifier accepts.
var googleTokens = auth.StaticVerifier{
	"good-token": {Subject: "google-sub-1", Email: "ada@example.com", Name: "Ada", Picture: "https://img.example.com/ada.png"},
	"renamed":    {Subject: "google-sub-1", Email: "ada@example.com", Name: "Ada Lovelace", Picture: "https://img.example.com/ada2.png"},
}

func newFixture(t *testing.T, tweak ...func(*services.Deps)) *fixture {
	t.Helper()

	db := database.OpenTest(t, models.All()...)
	signer, err := auth.NewSigner("test-secret", time.Hour)
	require.NoError(t, err)

	f := &fixture{
		t:      t,
		db:     db,
		store:  repositories.NewStore(db),
		events: event.NewBus(),
		now:    time.Now().UTC(),
	}
	d := services.Deps{
		Store:    f.store,
		Signer:   signer,
		Verifier: googleTokens,
		Cache:    cache.NewMemory(),
		Events:   f.events,
		Clock:    func() time.Time { return f.now },
	}
	for _, fn := range tweak {
		fn(&d)
	}
	f.svc = services.New(d)
	return f
}

// principal reloads userID and builds its Principal.
func (f *fixture) principal(userID uint) policies.Principal {
	f.t.Helper()
	u, err := f.store.Users.FindByID(bg, userID)
	require.NoError(f.t, err)
	return policies.PrincipalOf(u, "")
}

// owner registers an owner and gives them a shop.
func (f *fixture) owner(email, shopName string) (policies.Principal, *models.Shop) {
	f.t.Helper()
	s, err := f.svc.Auth.Register(bg, services.RegisterInput{
		Name: "Owner " + shopName, Email: email, Password: "password123", PasswordConfirmation: "password123",
	})
	require.NoError(f.t, err)

	shop, err := f.svc.Shops.Create(bg, f.principal(s.User.ID), services.CreateShopInput{Name: shopName})
	require.NoError(f.t, err)
	return f.principal(s.User.ID), shop
}

// seller adds a sales person to the owner's shop.
func (f *fixture) seller(owner policies.Principal, email string) policies.Principal {
	f.t.Helper()
	u, err := f.svc.Team.Add(bg, owner, services.AddMemberInput{
		Name: "Seller " + email, Email: email, Password: "password123", Role: "sales_person",
	})
	require.NoError(f.t, err)
	return f.principal(u.ID)
}

func (f *fixture) product(owner policies.Principal, name, price string, stock int) *models.Product {
	f.t.Helper()
	p, err := f.svc.Products.Create(bg, owner, services.CreateProductInput{
		Name:          name,
		Price:         dec(price),
		CostPrice:     dec("0"),
		StockQuantity: &stock,
		Category:      "General",
	})
	require.NoError(f.t, err)
	return p
}

func (f *fixture) stock(id uint) int {
	f.t.Helper()
	p, err := f.store.Products.FindByID(bg, id)
	require.NoError(f.t, err)
	return p.StockQuantity
}

func (f *fixture) count(model interface{}) int64 {
	f.t.Helper()
	var n int64
	require.NoError(f.t, f.db.Model(model).Count(&n).Error)
	return n
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// line builds one sale item with unit price price.
func line(p *models.Product, qty int, price string) services.SaleItemInput {
	unit := decimal.RequireFromString(price)
	sub := unit.Mul(decimal.NewFromInt(int64(qty)))
	return services.SaleItemInput{ProductID: p.ID, Quantity: qty, UnitPrice: &unit, Subtotal: &sub}
}

// sale builds a cash sale whose totals are the sum of the items.
func sale(items ...services.SaleItemInput) services.PostSaleInput {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(*it.Subtotal)
	}
	return services.PostSaleInput{
		Subtotal:      &sum,
		Tax:           dec("0"),
		Total:         &sum,
		PaymentMethod: "cash",
		Items:         items,
	}
}
