// Package migration runs versioned schema changes and tracks them by batch.
//
// Migrations register themselves from init():
//
//	func init() {
//	    migration.Register("2024_01_01_000001_create_shops_table", &createShops{})
//	}
package migration

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopdesk/pkg/logger"
)

type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

type migrationRecord struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (migrationRecord) TableName() string { return "shopdesk_migrations" }

type registeredMigration struct {
	name string
	m    Migration
}

var registry []registeredMigration

// Register adds a migration. Names sort lexicographically into run order.
func Register(name string, m Migration) {
	for _, reg := range registry {
		if reg.name == name {
			panic(fmt.Sprintf("migration: %s registered twice", name))
		}
	}
	registry = append(registry, registeredMigration{name: name, m: m})
	sort.SliceStable(registry, func(i, j int) bool { return registry[i].name < registry[j].name })
}

// ErrNoMigrations is returned by Run when nothing is registered.
var ErrNoMigrations = errors.New("no migrations registered")

// Status is one row of `shopdesk migrate:status`.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

type Runner struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Runner {
	return &Runner{db: db}
}

// EnsureTable creates the tracking table if it does not exist.
func (r *Runner) EnsureTable() error {
	return r.db.AutoMigrate(&migrationRecord{})
}

// Run applies every pending migration in one batch and returns their names.
func (r *Runner) Run() ([]string, error) {
	if len(registry) == 0 {
		return nil, ErrNoMigrations
	}
	if err := r.EnsureTable(); err != nil {
		return nil, fmt.Errorf("migration: ensure table: %w", err)
	}

	pending, err := r.pending()
	if err != nil {
		return nil, fmt.Errorf("migration: fetch pending: %w", err)
	}
	if len(pending) == 0 {
		logger.Info("migration: nothing to migrate")
		return nil, nil
	}

	batch, err := r.lastBatch()
	if err != nil {
		return nil, err
	}
	batch++

	ran := make([]string, 0, len(pending))
	for _, reg := range pending {
		logger.Info("migration: running", "name", reg.name, "batch", batch)

		if err := reg.m.Up(r.db); err != nil {
			return ran, fmt.Errorf("migration: %s up: %w", reg.name, err)
		}
		if err := r.db.Create(&migrationRecord{Name: reg.name, Batch: batch}).Error; err != nil {
			return ran, fmt.Errorf("migration: record %s: %w", reg.name, err)
		}
		ran = append(ran, reg.name)
	}

	logger.Info("migration: done", "ran", len(ran), "batch", batch)
	return ran, nil
}

// Rollback reverses the most recent batch and returns what it undid.
func (r *Runner) Rollback() ([]string, error) {
	if err := r.EnsureTable(); err != nil {
		return nil, fmt.Errorf("migration: ensure table: %w", err)
	}

	batch, err := r.lastBatch()
	if err != nil || batch == 0 {
		return nil, err
	}

	var records []migrationRecord
	if err := r.db.Where("batch = ?", batch).Order("id desc").Find(&records).Error; err != nil {
		return nil, err
	}

	byName := make(map[string]Migration, len(registry))
	for _, reg := range registry {
		byName[reg.name] = reg.m
	}

	undone := make([]string, 0, len(records))
	for _, rec := range records {
		m, ok := byName[rec.Name]
		if !ok {
			return undone, fmt.Errorf("migration: cannot roll back %s: not registered", rec.Name)
		}

		logger.Info("migration: rolling back", "name", rec.Name, "batch", batch)
		if err := m.Down(r.db); err != nil {
			return undone, fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		if err := r.db.Delete(&rec).Error; err != nil {
			return undone, err
		}
		undone = append(undone, rec.Name)
	}
	return undone, nil
}

// Status reports every registered migration in run order.
func (r *Runner) Status() ([]Status, error) {
	if err := r.EnsureTable(); err != nil {
		return nil, err
	}

	ran, err := r.ran()
	if err != nil {
		return nil, err
	}

	out := make([]Status, 0, len(registry))
	for _, reg := range registry {
		rec, ok := ran[reg.name]
		out = append(out, Status{Name: reg.name, Ran: ok, Batch: rec.Batch})
	}
	return out, nil
}

func (r *Runner) ran() (map[string]migrationRecord, error) {
	var records []migrationRecord
	if err := r.db.Find(&records).Error; err != nil {
		return nil, err
	}
	out := make(map[string]migrationRecord, len(records))
	for _, rec := range records {
		out[rec.Name] = rec
	}
	return out, nil
}

func (r *Runner) pending() ([]registeredMigration, error) {
	ran, err := r.ran()
	if err != nil {
		return nil, err
	}
	var pending []registeredMigration
	for _, reg := range registry {
		if _, ok := ran[reg.name]; !ok {
			pending = append(pending, reg)
		}
	}
	return pending, nil
}

func (r *Runner) lastBatch() (int, error) {
	var batch *int
	err := r.db.Model(&migrationRecord{}).Select("MAX(batch)").Scan(&batch).Error
	if err != nil || batch == nil {
		return 0, err
	}
	return *batch, nil
}
