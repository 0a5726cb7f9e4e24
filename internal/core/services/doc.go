// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The account service owns the account lifecycle: username validation,
// the password policy, the legacy fallback password, and the write-through
// of password changes to the record store.
package services
