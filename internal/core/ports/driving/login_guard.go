package driving

import "context"

// LoginGuard applies the session's retry budget around Account.Authenticate.
type LoginGuard interface {
	// Attempt authenticates candidate against account. It returns whether the
	// attempt succeeded and how many attempts remain. Once the budget is spent
	// it returns domain.ErrTooManyAttempts.
	Attempt(ctx context.Context, account Account, candidate string) (ok bool, remaining int, err error)

	// Remaining returns the number of attempts left.
	Remaining() int
}
