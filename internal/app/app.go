// Package app wires together configuration and the local cache into a
// single Deps struct that commands receive at runtime.
package app

import (
	"fmt"

	"github.com/oscargus/objinv/internal/config"
	"github.com/oscargus/objinv/internal/store"
)

// Deps holds all runtime dependencies injected into command Run functions.
// Store is opened lazily: most commands (suggest, diff on two explicit
// files) never touch the database and shouldn't pay for opening it.
type Deps struct {
	Config *config.Config
	store  *store.Store
}

// New builds a Deps from resolved config. It does not open the store.
func New(cfg *config.Config) *Deps {
	return &Deps{Config: cfg}
}

// RequireStore opens the database on first use and returns it. Subsequent
// calls return the same handle.
func (d *Deps) RequireStore() (*store.Store, error) {
	if d.store != nil {
		return d.store, nil
	}
	if d.Config.DBPath == "" {
		return nil, fmt.Errorf("no database path configured")
	}
	s, err := store.Open(d.Config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening store at %s: %w", d.Config.DBPath, err)
	}
	d.store = s
	return s, nil
}

// Close releases any resources Deps opened. Safe to call even if the store
// was never opened.
func (d *Deps) Close() error {
	if d.store == nil {
		return nil
	}
	return d.store.Close()
}
