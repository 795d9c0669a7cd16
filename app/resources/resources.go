// Package resources defines the JSON shape of every shopdesk model.
package resources

import (
	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/pkg/resource"
)

// User never includes the password hash.
func User(u *models.User) resource.Map {
	return resource.Map{
		"id":                u.ID,
		"name":              u.Name,
		"email":             u.Email,
		"google_id":         u.GoogleID,
		"avatar":            u.Avatar,
		"profile_image_url": u.ProfileImageURL,
		"role":              u.Role,
		"shop_id":           u.ShopID,
		"shop":              resource.Item(u.Shop, Shop),
		"is_active":         u.IsActive(),
		"email_verified_at": resource.Time(u.EmailVerifiedAt),
		"last_login_at":     resource.Time(u.LastLoginAt),
		"created_at":        u.CreatedAt,
		"updated_at":        u.UpdatedAt,
	}
}

// TeamMember is the reduced user shape used by team listings.
func TeamMember(u *models.User) resource.Map {
	return resource.Map{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"role":       u.Role,
		"is_active":  u.IsActive(),
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

func Shop(s *models.Shop) resource.Map {
	settings := map[string]interface{}(s.Settings)
	if settings == nil {
		settings = map[string]interface{}{}
	}
	return resource.Map{
		"id":          s.ID,
		"name":        s.Name,
		"slug":        s.Slug,
		"description": s.Description,
		"address":     s.Address,
		"phone":       s.Phone,
		"email":       s.Email,
		"logo_url":    s.LogoURL,
		"currency":    s.Currency,
		"timezone":    s.Timezone,
		"settings":    settings,
		"owner_id":    s.OwnerID,
		"owner":       resource.Item(s.Owner, TeamMember),
		"is_active":   s.IsActive(),
		"created_at":  s.CreatedAt,
		"updated_at":  s.UpdatedAt,
	}
}

func Product(p *models.Product) resource.Map {
	return resource.Map{
		"id":             p.ID,
		"shop_id":        p.ShopID,
		"name":           p.Name,
		"description":    p.Description,
		"price":          resource.Money(p.Price),
		"cost_price":     resource.Money(p.CostPrice),
		"stock_quantity": p.StockQuantity,
		"barcode":        p.Barcode,
		"sku":            p.SKU,
		"category":       p.Category,
		"image_url":      p.ImageURL,
		"is_active":      p.IsActive(),
		"created_at":     p.CreatedAt,
		"updated_at":     p.UpdatedAt,
	}
}

func SaleItem(i *models.SaleItem) resource.Map {
	return resource.Map{
		"id":         i.ID,
		"sale_id":    i.SaleID,
		"product_id": i.ProductID,
		"product":    resource.Item(i.Product, Product),
		"quantity":   i.Quantity,
		"unit_price": resource.Money(i.UnitPrice),
		"discount":   resource.Money(i.Discount),
		"subtotal":   resource.Money(i.Subtotal),
		"created_at": i.CreatedAt,
		"updated_at": i.UpdatedAt,
	}
}

func Sale(s *models.Sale) resource.Map {
	return resource.Map{
		"id":             s.ID,
		"shop_id":        s.ShopID,
		"cashier_id":     s.CashierID,
		"cashier_name":   s.CashierName,
		"cashier":        resource.Item(s.Cashier, TeamMember),
		"customer_id":    s.CustomerID,
		"customer_name":  s.CustomerName,
		"customer_phone": s.CustomerPhone,
		"subtotal":       resource.Money(s.Subtotal),
		"tax":            resource.Money(s.Tax),
		"discount":       resource.Money(s.Discount),
		"total":          resource.Money(s.Total),
		"payment_method": s.PaymentMethod,
		"status":         s.Status,
		"notes":          s.Notes,
		"items":          resource.Collection(s.Items, SaleItem),
		"created_at":     s.CreatedAt,
		"updated_at":     s.UpdatedAt,
	}
}
