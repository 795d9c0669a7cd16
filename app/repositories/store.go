// Package repositories wraps gorm queries for each shopdesk entity.
package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopdesk/pkg/apperr"
)

// Store groups the repositories over one connection or transaction.
type Store struct {
	db *gorm.DB

	Users    *UserRepository
	Shops    *ShopRepository
	Products *ProductRepository
	Sales    *SaleRepository
	Tokens   *TokenRepository
	Reports  *ReportRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:       db,
		Users:    &UserRepository{db: db},
		Shops:    &ShopRepository{db: db},
		Products: &ProductRepository{db: db},
		Sales:    &SaleRepository{db: db},
		Tokens:   &TokenRepository{db: db},
		Reports:  &ReportRepository{db: db},
	}
}

// DB exposes the underlying handle, e.g. for health pings.
func (s *Store) DB() *gorm.DB { return s.db }

// Transaction runs fn against a Store bound to one transaction. Returning
// an error rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// notFound maps gorm's missing-row error onto apperr.NotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Wrap(apperr.NotFound, "", err)
	}
	return err
}
