// Package seeders holds the seed data of the catalog and the registry that
// runs it. Seeders register themselves from init:
//
//	func init() { seeders.Register("products", SeedProducts) }
//
// and run with `catalog seed`, or on every server start before the port
// opens. A seeder must be idempotent.
package seeders

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shashiranjanraj/catalog/app/services"
)

// SeederFunc writes seed data through repo.
type SeederFunc func(ctx context.Context, repo services.ProductRepository, log *slog.Logger) error

type seeder struct {
	name string
	fn   SeederFunc
}

var (
	mu       sync.Mutex
	registry []seeder
)

// Register appends fn under name. Registering a name twice panics.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	for _, s := range registry {
		if s.name == name {
			panic(fmt.Sprintf("seeders: %q registered twice", name))
		}
	}
	registry = append(registry, seeder{name: name, fn: fn})
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

// RunAll runs every registered seeder in registration order and stops at
// the first failure.
func RunAll(ctx context.Context, repo services.ProductRepository, log *slog.Logger) error {
	return Run(ctx, repo, log)
}

// Run runs the named seeders, or all of them when names is empty, in
// registration order. An unknown name is an error and nothing runs.
func Run(ctx context.Context, repo services.ProductRepository, log *slog.Logger, names ...string) error {
	selected, err := selectSeeders(names)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		log.Info("no seeders registered")
		return nil
	}

	for _, s := range selected {
		log.Info("running seeder", "seeder", s.name)
		if err := s.fn(ctx, repo, log.With("seeder", s.name)); err != nil {
			return fmt.Errorf("seeder %q: %w", s.name, err)
		}
	}
	return nil
}

func selectSeeders(names []string) ([]seeder, error) {
	mu.Lock()
	defer mu.Unlock()

	if len(names) == 0 {
		return append([]seeder(nil), registry...), nil
	}

	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []seeder
	for _, s := range registry {
		if want[s.name] {
			out = append(out, s)
			delete(want, s.name)
		}
	}
	for n := range want {
		return nil, fmt.Errorf("seeders: unknown seeder %q", n)
	}
	return out, nil
}
