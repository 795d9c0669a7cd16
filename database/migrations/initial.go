package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/pkg/migration"
)

func init() {
	migration.Register("2026_01_01_000001_create_users_table", &table{model: &models.User{}, name: "users"})
	migration.Register("2026_01_01_000002_create_shops_table", &table{model: &models.Shop{}, name: "shops"})
	migration.Register("2026_01_01_000003_create_products_table", &table{model: &models.Product{}, name: "products"})
	migration.Register("2026_01_01_000004_create_sales_table", &table{model: &models.Sale{}, name: "sales"})
	migration.Register("2026_01_01_000005_create_sale_items_table", &table{model: &models.SaleItem{}, name: "sale_items"})
	migration.Register("2026_01_01_000006_create_access_tokens_table", &table{model: &models.AccessToken{}, name: "access_tokens"})
}

// table creates one model's table and drops it on rollback.
type table struct {
	model interface{}
	name  string
}

func (m *table) Up(db *gorm.DB) error {
	return db.AutoMigrate(m.model)
}

func (m *table) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(m.name)
}
