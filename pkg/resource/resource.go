// Package resource shapes models into API JSON, in the manner of Laravel
// API resources:
//
//	func Product(p *models.Product) resource.Map { ... }
//	c.Success(resource.Collection(products, Product))
package resource

import (
	"time"

	"github.com/shopspring/decimal"
)

// Map is one JSON object.
type Map = map[string]interface{}

// Transformer turns one model into its JSON shape.
type Transformer[T any] func(*T) Map

// Item applies t to v, returning nil for a nil v so relations that were
// not loaded serialize as null.
func Item[T any](v *T, t Transformer[T]) interface{} {
	if v == nil {
		return nil
	}
	return t(v)
}

// Collection applies t to every element. An empty input yields [] rather
// than null.
func Collection[T any](items []T, t Transformer[T]) []Map {
	out := make([]Map, 0, len(items))
	for i := range items {
		out = append(out, t(&items[i]))
	}
	return out
}

// Money renders a decimal with two places, as the storage column holds it.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Time renders an optional timestamp in UTC, or null.
func Time(t *time.Time) interface{} {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.UTC()
}
