// Package models holds shopdesk's gorm entities.
package models

// All lists every entity in dependency order, for migrations and test
// databases.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Shop{},
		&Product{},
		&Sale{},
		&SaleItem{},
		&AccessToken{},
	}
}
