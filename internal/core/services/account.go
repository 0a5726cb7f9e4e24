package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/passline/internal/core/domain"
	"github.com/custodia-labs/passline/internal/core/ports/driven"
	"github.com/custodia-labs/passline/internal/core/ports/driving"
	"github.com/custodia-labs/passline/internal/logger"
)

// Ensure AccountService implements the interface.
var _ driving.AccountService = (*AccountService)(nil)

// Ensure Account implements the interface.
var _ driving.Account = (*Account)(nil)

// AccountService creates and loads accounts backed by a RecordStore.
type AccountService struct {
	store    driven.RecordStore
	settings domain.AccountSettings
}

// NewAccountService creates a new account service.
// An empty fallback password in settings is replaced by the default.
func NewAccountService(store driven.RecordStore, settings domain.AccountSettings) *AccountService {
	if settings.FallbackPassword == "" {
		settings.FallbackPassword = domain.DefaultFallbackPassword
	}
	return &AccountService{
		store:    store,
		settings: settings,
	}
}

// CreateAccount validates the username, rejects duplicates, applies the
// password policy and appends a new record.
//
// An invalid password is replaced by the fallback password unless strict
// creation is enabled, in which case a *domain.PolicyViolation is returned.
func (s *AccountService) CreateAccount(ctx context.Context, username, password string) (*driving.CreateResult, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := domain.ValidateUsername(username); err != nil {
		return nil, err
	}

	exists, err := s.store.Exists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("username %q: %w", username, domain.ErrAlreadyExists)
	}

	result := &driving.CreateResult{Policy: domain.ValidatePassword(password)}
	chosen := password
	if !result.Policy.Valid() {
		if s.settings.StrictCreate {
			logger.Info("Rejected initial password for %q: %v", username, result.Policy.Failed)
			return nil, result.Policy.Err()
		}
		logger.Warn("Initial password for %q failed policy, substituting fallback", username)
		chosen = s.settings.FallbackPassword
		result.FallbackUsed = true
		result.FallbackPassword = chosen
	}

	if err := domain.CheckStorablePassword(chosen); err != nil {
		return nil, err
	}
	obfuscated := domain.Encode(chosen)

	// The fallback password is exempt from the collision check.
	if !result.FallbackUsed {
		inUse, err := s.store.ObfuscatedPasswordInUse(ctx, obfuscated)
		if err != nil {
			return nil, fmt.Errorf("check password: %w", err)
		}
		if inUse {
			return nil, domain.ErrPasswordInUse
		}
	}

	if err := s.store.Append(ctx, domain.Record{Username: username, ObfuscatedPassword: obfuscated}); err != nil {
		return nil, fmt.Errorf("save account %q: %w", username, err)
	}
	logger.Debug("Created account %q in %s", username, s.store.Path())

	result.Account = &Account{
		store:      s.store,
		username:   username,
		obfuscated: obfuscated,
		state:      domain.AccountAuthenticated,
	}
	return result, nil
}

// LoadAccount rehydrates an account from the store. Stored passwords are not
// re-validated; they may predate the current policy.
func (s *AccountService) LoadAccount(ctx context.Context, username string) (driving.Account, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	obfuscated, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("username %q: %w", username, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("load account %q: %w", username, err)
	}
	return &Account{
		store:      s.store,
		username:   username,
		obfuscated: obfuscated,
		state:      domain.AccountAnonymous,
	}, nil
}

// CheckPolicy evaluates a password without touching the store.
func (s *AccountService) CheckPolicy(password string) domain.PolicyResult {
	return domain.ValidatePassword(password)
}

// ListUsernames returns every stored username in store order.
func (s *AccountService) ListUsernames(ctx context.Context) ([]string, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.Username)
	}
	return names, nil
}

// Account is the in-memory handle for one user's record.
// It never holds the cleartext password.
type Account struct {
	store      driven.RecordStore
	username   string
	obfuscated string
	state      domain.AccountState
}

// Username returns the account's username.
func (a *Account) Username() string {
	return a.username
}

// State returns the current lifecycle state.
func (a *Account) State() domain.AccountState {
	return a.state
}

// Authenticate moves the account to Authenticated if candidate matches.
func (a *Account) Authenticate(candidate string) bool {
	if a.state == domain.AccountLoggedOut {
		return false
	}
	if domain.Encode(candidate) != a.obfuscated {
		return false
	}
	a.state = domain.AccountAuthenticated
	return true
}

// ChangePassword validates candidate and writes it through to the store.
// The in-memory value changes only after the store accepted the update.
func (a *Account) ChangePassword(ctx context.Context, candidate string) error {
	if a.state == domain.AccountLoggedOut {
		return domain.ErrLoggedOut
	}
	policy := domain.ValidatePassword(candidate)
	if !policy.Valid() {
		logger.Info("Password change for %q rejected: %v", a.username, policy.Failed)
		return policy.Err()
	}
	if err := domain.CheckStorablePassword(candidate); err != nil {
		return err
	}

	obfuscated := domain.Encode(candidate)
	updated, err := a.store.UpdateByUsername(ctx, a.username, obfuscated)
	if err != nil {
		return fmt.Errorf("update password for %q: %w", a.username, err)
	}
	if !updated {
		return fmt.Errorf("username %q not found while updating: %w", a.username, domain.ErrNotFound)
	}

	a.obfuscated = obfuscated
	logger.Debug("Password updated for %q", a.username)
	return nil
}

// ViewEncoded returns the obfuscated password.
func (a *Account) ViewEncoded() string {
	return a.obfuscated
}

// ViewDecoded returns the cleartext password.
func (a *Account) ViewDecoded() string {
	return domain.Decode(a.obfuscated)
}

// Persist writes the account's current password to the store, updating the
// existing record or appending one if the username has none.
func (a *Account) Persist(ctx context.Context) error {
	if a.state == domain.AccountLoggedOut {
		return domain.ErrLoggedOut
	}
	updated, err := a.store.UpdateByUsername(ctx, a.username, a.obfuscated)
	if err != nil {
		return fmt.Errorf("persist %q: %w", a.username, err)
	}
	if updated {
		return nil
	}

	logger.Debug("No record for %q, appending", a.username)
	if err := a.store.Append(ctx, domain.Record{Username: a.username, ObfuscatedPassword: a.obfuscated}); err != nil {
		return fmt.Errorf("persist %q: %w", a.username, err)
	}
	return nil
}

// Logout ends the session.
func (a *Account) Logout() {
	a.state = domain.AccountLoggedOut
}
