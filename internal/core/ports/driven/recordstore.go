package driven

import (
	"context"

	"github.com/custodia-labs/passline/internal/core/domain"
)

// RecordStore persists credential records.
// Implementations own the authoritative on-disk representation; callers hold
// copies and must call back to persist changes. Stores never decode passwords.
type RecordStore interface {
	// FindByUsername returns the obfuscated password of the first record whose
	// username matches. Returns domain.ErrNotFound if none matches.
	// A store with no backing file yet is empty, not an error.
	FindByUsername(ctx context.Context, username string) (string, error)

	// Exists reports whether FindByUsername would succeed.
	Exists(ctx context.Context, username string) (bool, error)

	// ObfuscatedPasswordInUse reports whether any record stores exactly value.
	ObfuscatedPasswordInUse(ctx context.Context, value string) (bool, error)

	// Append adds a record after all existing records.
	// Callers check Exists first; the store may not re-check uniqueness.
	Append(ctx context.Context, record domain.Record) error

	// UpdateByUsername replaces the password of the first record matching
	// username, leaving every other record unchanged. Returns false if no
	// record matched, in which case the store is not modified.
	UpdateByUsername(ctx context.Context, username, obfuscatedPassword string) (bool, error)

	// List returns all well-formed records in store order.
	List(ctx context.Context) ([]domain.Record, error)

	// Path returns the location of the backing storage.
	Path() string
}
