package driving

import (
	"context"

	"github.com/custodia-labs/passline/internal/core/domain"
)

// Account is an in-memory handle on one user's credential record.
// It holds a copy of the record; changes reach the store only through
// ChangePassword and Persist.
type Account interface {
	// Username returns the account's username.
	Username() string

	// State returns the current lifecycle state.
	State() domain.AccountState

	// Authenticate compares candidate against the stored password and moves
	// the account to Authenticated on success. A wrong password is not an error.
	Authenticate(candidate string) bool

	// ChangePassword validates candidate, writes it to the store and then
	// replaces the in-memory value. Returns a *domain.PolicyViolation when
	// the candidate fails policy; nothing is mutated in that case.
	ChangePassword(ctx context.Context, candidate string) error

	// ViewEncoded returns the obfuscated password as stored.
	ViewEncoded() string

	// ViewDecoded returns the cleartext password. The value is not retained.
	ViewDecoded() string

	// Persist saves the account: updates the existing record or appends a new one.
	Persist(ctx context.Context) error

	// Logout ends the session. Later mutating calls return domain.ErrLoggedOut.
	Logout()
}

// CreateResult describes a newly created account.
type CreateResult struct {
	// Account is the new, already authenticated account.
	Account Account

	// FallbackUsed is true when the requested password failed policy and the
	// fallback password was stored instead.
	FallbackUsed bool

	// FallbackPassword is the cleartext that was substituted, if any.
	FallbackPassword string

	// Policy is the evaluation of the requested password.
	Policy domain.PolicyResult
}

// AccountService creates and loads accounts.
type AccountService interface {
	// CreateAccount validates the username, rejects duplicates, applies the
	// password policy and appends a new record.
	CreateAccount(ctx context.Context, username, password string) (*CreateResult, error)

	// LoadAccount rehydrates an account from the store in the Anonymous state.
	// Returns domain.ErrNotFound if the username has no record.
	LoadAccount(ctx context.Context, username string) (Account, error)

	// CheckPolicy evaluates a password without touching the store.
	CheckPolicy(password string) domain.PolicyResult

	// ListUsernames returns every stored username in store order.
	ListUsernames(ctx context.Context) ([]string, error)
}
