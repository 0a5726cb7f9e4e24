package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/passline/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/passline/internal/core/domain"
	"github.com/custodia-labs/passline/internal/core/ports/driven"
	"github.com/custodia-labs/passline/internal/core/ports/driving"
)

func loadAccountCmd(ctx context.Context, accounts driving.AccountService, username string) tea.Cmd {
	return func() tea.Msg {
		account, err := accounts.LoadAccount(ctx, username)
		return messages.AccountLoaded{Account: account, Err: err}
	}
}

// checkUsernameCmd reports domain.ErrAlreadyExists when username is taken.
func checkUsernameCmd(ctx context.Context, accounts driving.AccountService, username string) tea.Cmd {
	return func() tea.Msg {
		_, err := accounts.LoadAccount(ctx, username)
		switch {
		case err == nil:
			return messages.UsernameChecked{Username: username, Err: fmt.Errorf("%q: %w", username, domain.ErrAlreadyExists)}
		case errors.Is(err, domain.ErrNotFound):
			return messages.UsernameChecked{Username: username}
		default:
			return messages.UsernameChecked{Username: username, Err: err}
		}
	}
}

func attemptCmd(ctx context.Context, guard driving.LoginGuard, account driving.Account, candidate string) tea.Cmd {
	return func() tea.Msg {
		ok, remaining, err := guard.Attempt(ctx, account, candidate)
		return messages.LoginAttempted{OK: ok, Remaining: remaining, Err: err}
	}
}

func createCmd(ctx context.Context, accounts driving.AccountService, username, password string) tea.Cmd {
	return func() tea.Msg {
		result, err := accounts.CreateAccount(ctx, username, password)
		return messages.AccountCreated{Result: result, Err: err}
	}
}

func changeCmd(ctx context.Context, account driving.Account, candidate string) tea.Cmd {
	return func() tea.Msg {
		return messages.PasswordChanged{Err: account.ChangePassword(ctx, candidate)}
	}
}

func persistCmd(ctx context.Context, account driving.Account) tea.Cmd {
	return func() tea.Msg {
		return messages.AccountSaved{Err: account.Persist(ctx)}
	}
}

// startWatch subscribes to the store watcher, if one is configured.
func (a *App) startWatch() tea.Cmd {
	w := a.ports.Watcher
	if w == nil {
		return nil
	}
	ctx := a.ctx
	return func() tea.Msg {
		changes, err := w.Watch(ctx)
		if err != nil {
			return messages.WatchStopped{Err: err}
		}
		return messages.WatchStarted{Changes: changes}
	}
}

// waitForChange blocks for the next store change.
func waitForChange(changes <-chan driven.StoreChange) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		change, ok := <-changes
		if !ok {
			return messages.WatchStopped{}
		}
		return messages.StoreChanged{Change: change}
	}
}
