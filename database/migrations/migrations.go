// Package migrations holds shopdesk's schema migrations. Each migration
// registers itself from init(); cmd/shopdesk imports this package for its
// side effects.
package migrations
