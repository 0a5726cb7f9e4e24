package services

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/passline/internal/core/domain"
	"github.com/custodia-labs/passline/internal/core/ports/driving"
	"github.com/custodia-labs/passline/internal/logger"
)

// Ensure LoginGuard implements the interface.
var _ driving.LoginGuard = (*LoginGuard)(nil)

// LoginGuard enforces the session retry budget around Account.Authenticate.
// The budget belongs to the session; accounts have no locked state.
// A guard is used for a single login and is not safe for concurrent use.
type LoginGuard struct {
	maxAttempts int
	used        int
	limiter     *rate.Limiter
}

// NewLoginGuard creates a guard from session settings. A positive retry
// interval paces consecutive attempts through a token-bucket limiter.
func NewLoginGuard(settings domain.SessionSettings) *LoginGuard {
	maxAttempts := settings.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = domain.DefaultMaxAttempts
	}

	g := &LoginGuard{maxAttempts: maxAttempts}
	if settings.RetryIntervalMillis > 0 {
		interval := time.Duration(settings.RetryIntervalMillis) * time.Millisecond
		g.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	return g
}

// Attempt authenticates candidate, consuming one attempt.
func (g *LoginGuard) Attempt(ctx context.Context, account driving.Account, candidate string) (bool, int, error) {
	if g.used >= g.maxAttempts {
		return false, 0, domain.ErrTooManyAttempts
	}
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return false, g.Remaining(), err
		}
	}

	g.used++
	if account.Authenticate(candidate) {
		logger.Debug("Login succeeded for %q after %d attempt(s)", account.Username(), g.used)
		return true, g.Remaining(), nil
	}

	logger.Info("Login failed for %q, %d attempt(s) left", account.Username(), g.Remaining())
	return false, g.Remaining(), nil
}

// Remaining returns the number of attempts left.
func (g *LoginGuard) Remaining() int {
	return g.maxAttempts - g.used
}
