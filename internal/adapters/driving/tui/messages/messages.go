// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/passline/internal/core/ports/driven"
	"github.com/custodia-labs/passline/internal/core/ports/driving"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewStart is the welcome menu.
	ViewStart ViewType = iota
	// ViewUsername asks for a username.
	ViewUsername
	// ViewPassword asks for a password without echo.
	ViewPassword
	// ViewSession is the logged-in account menu.
	ViewSession
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewStart:
		return "start"
	case ViewUsername:
		return "username"
	case ViewPassword:
		return "password"
	case ViewSession:
		return "session"
	default:
		return "unknown"
	}
}

// Action names a menu entry's effect.
type Action string

// Menu actions.
const (
	ActionLogin    Action = "login"
	ActionCreate   Action = "create"
	ActionChange   Action = "change"
	ActionValidate Action = "validate"
	ActionView     Action = "view"
	ActionSave     Action = "save"
	ActionLogout   Action = "logout"
	ActionQuit     Action = "quit"
)

// MenuSelected is sent when a menu entry is chosen.
type MenuSelected struct {
	Action Action
}

// InputSubmitted carries the value entered in an input view.
type InputSubmitted struct {
	Value string
}

// InputCancelled is sent when an input view is left with esc.
type InputCancelled struct{}

// AccountLoaded carries the result of looking up an existing account.
type AccountLoaded struct {
	Account driving.Account
	Err     error
}

// UsernameChecked reports whether a username is free for a new account.
type UsernameChecked struct {
	Username string
	Err      error
}

// LoginAttempted carries the outcome of one guarded login attempt.
type LoginAttempted struct {
	OK        bool
	Remaining int
	Err       error
}

// AccountCreated carries the outcome of account creation.
type AccountCreated struct {
	Result *driving.CreateResult
	Err    error
}

// PasswordChanged carries the outcome of a password change.
type PasswordChanged struct {
	Err error
}

// AccountSaved carries the outcome of persisting the account.
type AccountSaved struct {
	Err error
}

// WatchStarted carries the change feed of the record store watcher.
type WatchStarted struct {
	Changes <-chan driven.StoreChange
}

// StoreChanged signals the record store changed on disk.
type StoreChanged struct {
	Change driven.StoreChange
}

// WatchStopped signals the change feed ended or could not start.
type WatchStopped struct {
	Err error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
