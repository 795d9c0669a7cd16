// Package seeders fills a database with demo data.
//
// A seeder names the seeders whose rows it reads; those always run first:
//
//	func init() {
//	    seeders.Register("shops", SeedShops)
//	    seeders.Register("products", SeedProducts, "shops")
//	}
//
// Then run via CLI:
//
//	shopdesk seed                 # everything, in registration order
//	shopdesk seed products        # products and what it needs
//
// Each seeder runs in its own transaction, so a failure leaves no partial
// rows behind for that seeder.
package seeders

import (
	"fmt"
	"sync"

	"gorm.io/gorm"
)

type SeederFunc func(db *gorm.DB) error

type seeder struct {
	name  string
	needs []string
	fn    SeederFunc
}

var (
	mu       sync.Mutex
	registry []seeder
)

// Register adds a seeder. needs lists seeders that must run before it.
func Register(name string, fn SeederFunc, needs ...string) {
	mu.Lock()
	defer mu.Unlock()
	registry = append(registry, seeder{name: name, needs: needs, fn: fn})
}

// Names lists registered seeders in registration order.
func Names() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, len(registry))
	for i, s := range registry {
		out[i] = s.name
	}
	return out
}

// RunAll executes every registered seeder.
func RunAll(db *gorm.DB) error {
	return Run(db)
}

// Run executes the named seeders, plus whatever they need, and stops on the
// first error. No names means all of them.
func Run(db *gorm.DB, names ...string) error {
	plan, err := resolve(names)
	if err != nil {
		return err
	}
	if len(plan) == 0 {
		fmt.Println("  (no seeders registered)")
		return nil
	}

	for _, s := range plan {
		fmt.Printf("  • Running seeder: %s … ", s.name)
		if err := db.Transaction(s.fn); err != nil {
			fmt.Println("FAILED")
			return fmt.Errorf("seeder %q: %w", s.name, err)
		}
		fmt.Println("done")
	}
	return nil
}

// resolve orders the requested seeders after their needs, each once.
func resolve(names []string) ([]seeder, error) {
	mu.Lock()
	byName := make(map[string]seeder, len(registry))
	all := make([]string, len(registry))
	for i, s := range registry {
		byName[s.name] = s
		all[i] = s.name
	}
	mu.Unlock()

	if len(names) == 0 {
		names = all
	}

	var (
		plan  []seeder
		done  = make(map[string]bool)
		stack = make(map[string]bool)
		visit func(name string) error
	)
	visit = func(name string) error {
		if done[name] {
			return nil
		}
		if stack[name] {
			return fmt.Errorf("seeder %q: dependency cycle", name)
		}
		s, ok := byName[name]
		if !ok {
			return fmt.Errorf("seeder %q is not registered", name)
		}
		stack[name] = true
		for _, need := range s.needs {
			if err := visit(need); err != nil {
				return err
			}
		}
		delete(stack, name)
		done[name] = true
		plan = append(plan, s)
		return nil
	}

	for _, name := range names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return plan, nil
}
