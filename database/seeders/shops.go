package seeders

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/pkg/auth"
)

func init() {
	Register("shops", SeedShops)
	Register("products", SeedProducts, "shops")
}

// DemoPassword is shared by every seeded account.
const DemoPassword = "password"

type demoShop struct {
	owner, ownerEmail   string
	seller, sellerEmail string
	shop                models.Shop
}

var demoShops = []demoShop{
	{
		owner: "John Doe", ownerEmail: "john@example.com",
		seller: "Mike Johnson", sellerEmail: "mike@techstore.com",
		shop: models.Shop{
			Name: "Tech Store", Slug: "tech-store", Description: "Electronics and gadgets store",
			Address: "123 Tech Street, Silicon Valley", Phone: "+1-555-0101", Email: "tech@store.com",
			Currency: "USD", Timezone: "America/Los_Angeles",
		},
	},
	{
		owner: "Jane Smith", ownerEmail: "jane@example.com",
		seller: "Sarah Wilson", sellerEmail: "sarah@fashionboutique.com",
		shop: models.Shop{
			Name: "Fashion Boutique", Slug: "fashion-boutique", Description: "Trendy clothing and accessories",
			Address: "456 Fashion Ave, New York", Phone: "+1-555-0202", Email: "hello@fashionboutique.com",
			Currency: "USD", Timezone: "America/New_York",
		},
	},
}

// SeedShops creates two shops, each with an owner and a sales person.
// Shops whose slug already exists are skipped.
func SeedShops(db *gorm.DB) error {
	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return err
	}

	for _, d := range demoShops {
		var existing models.Shop
		err := db.Where("slug = ?", d.shop.Slug).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			owner := models.User{Name: d.owner, Email: d.ownerEmail, Password: &hash, Role: models.RoleOwner, Status: models.UserActive}
			if err := tx.Create(&owner).Error; err != nil {
				return fmt.Errorf("owner %s: %w", d.ownerEmail, err)
			}
			shop := d.shop
			shop.OwnerID = owner.ID
			shop.Status = models.ShopActive
			if err := tx.Create(&shop).Error; err != nil {
				return fmt.Errorf("shop %s: %w", shop.Slug, err)
			}
			if err := tx.Model(&owner).Update("shop_id", shop.ID).Error; err != nil {
				return err
			}
			seller := models.User{
				Name: d.seller, Email: d.sellerEmail, Password: &hash,
				Role: models.RoleSalesPerson, ShopID: &shop.ID, Status: models.UserActive,
			}
			return tx.Create(&seller).Error
		})
		if err != nil {
			return err
		}
	}
	return nil
}

type demoProduct struct {
	name, description, category string
	price, cost                 string
	stock                       int
	barcode, sku                string
}

var demoProducts = []demoProduct{
	{"Coca Cola 500ml", "Refreshing cola drink", "Beverages", "2.50", "1.50", 100, "1234567890123", "COKE-500ML"},
	{"Bread Loaf", "Fresh white bread", "Bakery", "3.00", "1.80", 50, "2345678901234", "BREAD-WHITE"},
	{"Milk 1L", "Fresh whole milk", "Dairy", "4.50", "3.00", 75, "3456789012345", "MILK-1L"},
	{"Bananas (per kg)", "Fresh ripe bananas", "Fruits", "3.99", "2.50", 30, "4567890123456", "BANANA-KG"},
	{"Rice 2kg", "Premium jasmine rice", "Grains", "8.99", "6.00", 25, "5678901234567", "RICE-2KG"},
}

// SeedProducts stocks the first shop with groceries. Products whose SKU
// already exists are skipped.
func SeedProducts(db *gorm.DB) error {
	var shop models.Shop
	if err := db.Order("id asc").First(&shop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Print("(no shops, skipped) ")
			return nil
		}
		return err
	}

	for _, d := range demoProducts {
		var n int64
		if err := db.Model(&models.Product{}).Where("sku = ?", d.sku).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		barcode, sku := d.barcode, d.sku
		p := models.Product{
			ShopID:        shop.ID,
			Name:          d.name,
			Description:   d.description,
			Price:         decimal.RequireFromString(d.price),
			CostPrice:     decimal.RequireFromString(d.cost),
			StockQuantity: d.stock,
			Barcode:       &barcode,
			SKU:           &sku,
			Category:      d.category,
			Status:        models.ProductActive,
		}
		if err := db.Create(&p).Error; err != nil {
			return fmt.Errorf("product %s: %w", d.sku, err)
		}
	}
	return nil
}
