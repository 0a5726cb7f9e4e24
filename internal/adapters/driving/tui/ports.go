// Package tui provides an interactive terminal user interface for passline.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/passline/internal/core/ports/driven"
	"github.com/custodia-labs/passline/internal/core/ports/driving"
)

// Ports aggregates the port interfaces required by the TUI.
type Ports struct {
	// Accounts creates and loads accounts.
	Accounts driving.AccountService

	// NewGuard returns a fresh retry budget for one login.
	NewGuard func() driving.LoginGuard

	// Watcher reports external changes to the record store. Optional.
	Watcher driven.StoreWatcher
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Accounts == nil {
		return ErrMissingAccountService
	}
	if p.NewGuard == nil {
		return ErrMissingLoginGuard
	}
	return nil
}
