// Package services implements shopdesk's operations. Every method takes
// the calling Principal explicitly and asks the Gate before touching data.
package services

import (
	"time"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/app/policies"
	"github.com/shashiranjanraj/shopdesk/app/repositories"
	"github.com/shashiranjanraj/shopdesk/pkg/auth"
	"github.com/shashiranjanraj/shopdesk/pkg/cache"
	"github.com/shashiranjanraj/shopdesk/pkg/event"
	"github.com/shashiranjanraj/shopdesk/pkg/storage"
)

// Settings are the behaviour switches read from config.
type Settings struct {
	DefaultSignupRole models.Role
	EnforceStockFloor bool
	// ShopScopedReports filters dashboard and report aggregates by the
	// caller's shop. Off means every shop is counted.
	ShopScopedReports bool
	LowStockThreshold int
	Location          *time.Location
}

// Deps is everything the services share.
type Deps struct {
	Store    *repositories.Store
	Gate     *policies.Gate
	Signer   *auth.Signer
	Verifier auth.IdentityVerifier
	Cache    cache.Store
	Events   *event.Bus
	Disk     storage.Disk
	Clock    func() time.Time
	Settings Settings
}

func (d Deps) now() time.Time {
	if d.Clock != nil {
		return d.Clock().UTC()
	}
	return time.Now().UTC()
}

func (d Deps) location() *time.Location {
	if d.Settings.Location != nil {
		return d.Settings.Location
	}
	return time.UTC
}

// Services bundles every service, built from one Deps.
type Services struct {
	Auth     *AuthService
	Shops    *ShopService
	Products *ProductService
	Sales    *SaleService
	Team     *TeamService
	Reports  *ReportService
}

func New(d Deps) *Services {
	if d.Gate == nil {
		d.Gate = policies.NewGate()
	}
	if d.Cache == nil {
		d.Cache = cache.NewMemory()
	}
	if d.Events == nil {
		d.Events = event.NewBus()
	}
	if d.Settings.DefaultSignupRole == "" {
		d.Settings.DefaultSignupRole = models.RoleOwner
	}
	if d.Settings.LowStockThreshold == 0 {
		d.Settings.LowStockThreshold = 10
	}
	return &Services{
		Auth:     &AuthService{d: d},
		Shops:    &ShopService{d: d},
		Products: &ProductService{d: d},
		Sales:    &SaleService{d: d},
		Team:     &TeamService{d: d},
		Reports:  &ReportService{d: d},
	}
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
