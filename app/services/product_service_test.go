package services_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/app/services"
	"github.com/shashiranjanraj/shopdesk/pkg/apperr"
	"github.com/shashiranjanraj/shopdesk/pkg/storage"
)

func TestCreateProduct(t *testing.T) {
	f := newFixture(t)
	owner, shop := f.owner("o@a.test", "Shop A")

	stock := 24
	p, err := f.svc.Products.Create(bg, owner, services.CreateProductInput{
		Name: "Coca Cola 500ml", Price: dec("1.50"), CostPrice: dec("0.80"),
		StockQuantity: &stock, Barcode: "5449000000996", SKU: "COKE-500", Category: "Beverages",
	})
	require.NoError(t, err)
	assert.Equal(t, shop.ID, p.ShopID)
	assert.True(t, p.IsActive())
	assert.Equal(t, 24, p.StockQuantity)

	_, err = f.svc.Products.Create(bg, owner, services.CreateProductInput{
		Name: "Coke again", Price: dec("1.50"), CostPrice: dec("0.80"),
		Barcode: "5449000000996", SKU: "COKE-500", Category: "Beverages",
	})
	ae := apperr.As(err)
	require.Equal(t, apperr.ValidationFailed, ae.Kind)
	assert.Equal(t, "The barcode has already been taken.", ae.Fields["barcode"])
	assert.Equal(t, "The sku has already been taken.", ae.Fields["sku"])

	_, err = f.svc.Products.Create(bg, owner, services.CreateProductInput{Name: "Free", Price: dec("-1"), CostPrice: dec("0"), Category: "X"})
	assert.Contains(t, apperr.As(err).Fields, "price")
}

func TestProductRules(t *testing.T) {
	f := newFixture(t)
	owner, _ := f.owner("o@a.test", "Shop A")
	cashier := f.seller(owner, "c@a.test")
	stranger, _ := f.owner("x@x.test", "Elsewhere")
	milk := f.product(owner, "Milk 1L", "1.20", 10)

	_, err := f.svc.Products.Create(bg, cashier, services.CreateProductInput{Name: "X", Price: dec("1"), CostPrice: dec("1"), Category: "X"})
	assert.Equal(t, "Only shop owners can manage products", apperr.As(err).Public())

	_, err = f.svc.Products.Show(bg, cashier, milk.ID)
	assert.NoError(t, err)
	_, err = f.svc.Products.Show(bg, stranger, milk.ID)
	assert.True(t, errors.Is(err, apperr.ErrAccessDenied))

	err = f.svc.Products.Deactivate(bg, stranger, milk.ID)
	assert.True(t, errors.Is(err, apperr.ErrAccessDenied))
}

func TestUpdateProduct(t *testing.T) {
	f := newFixture(t)
	owner, _ := f.owner("o@a.test", "Shop A")
	milk := f.product(owner, "Milk 1L", "1.20", 10)
	bread := f.product(owner, "Bread Loaf", "3.00", 10)

	code := "MILK-1L"
	_, err := f.svc.Products.Update(bg, owner, milk.ID, services.UpdateProductInput{SKU: &code})
	require.NoError(t, err)
	got, err := f.svc.Products.Update(bg, owner, milk.ID, services.UpdateProductInput{SKU: &code, Price: dec("1.35")})
	require.NoError(t, err, "a product may keep its own sku")
	assert.Equal(t, "1.35", got.Price.StringFixed(2))

	_, err = f.svc.Products.Update(bg, owner, bread.ID, services.UpdateProductInput{SKU: &code})
	assert.Equal(t, "The sku has already been taken.", apperr.As(err).Fields["sku"])

	off := false
	got, err = f.svc.Products.Update(bg, owner, bread.ID, services.UpdateProductInput{IsActive: &off})
	require.NoError(t, err)
	assert.Equal(t, models.ProductInactive, got.Status)
}

func TestListProducts_ActiveOnlyByName(t *testing.T) {
	f := newFixture(t)
	owner, _ := f.owner("o@a.test", "Shop A")
	f.product(owner, "Milk 1L", "1.20", 10)
	bananas := f.product(owner, "Bananas", "0.50", 10)
	f.product(owner, "Bread Loaf", "3.00", 10)
	other, _ := f.owner("x@x.test", "Elsewhere")
	f.product(other, "Apples", "0.40", 10)

	require.NoError(t, f.svc.Products.Deactivate(bg, owner, bananas.ID))

	list, err := f.svc.Products.List(bg, owner)
	require.NoError(t, err)
	names := make([]string, len(list))
	for i, p := range list {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"Bread Loaf", "Milk 1L"}, names)
}

func TestUploadProductImage(t *testing.T) {
	disk, err := storage.NewLocal(t.TempDir(), "http://localhost:8080/storage")
	require.NoError(t, err)
	f := newFixture(t, func(d *services.Deps) { d.Disk = disk })
	owner, _ := f.owner("o@a.test", "Shop A")
	milk := f.product(owner, "Milk 1L", "1.20", 10)

	got, err := f.svc.Products.UploadImage(bg, owner, milk.ID, services.Upload{
		Filename: "milk.PNG", ContentType: "image/png", Body: strings.NewReader("png-bytes"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got.ImageURL, "http://localhost:8080/storage/products/"))
	assert.True(t, strings.HasSuffix(got.ImageURL, ".png"))

	_, err = f.svc.Products.UploadImage(bg, owner, milk.ID, services.Upload{
		Filename: "milk.txt", ContentType: "text/plain", Body: strings.NewReader("nope"),
	})
	assert.Contains(t, apperr.As(err).Fields, "image")
}
