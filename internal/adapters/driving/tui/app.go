package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/passline/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/passline/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/passline/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/passline/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/passline/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/passline/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/passline/internal/core/domain"
	"github.com/custodia-labs/passline/internal/core/ports/driven"
	"github.com/custodia-labs/passline/internal/core/ports/driving"
)

// ownWriteWindow is how long after one of our own writes a store change
// event is attributed to it rather than to another process.
const ownWriteWindow = 2 * time.Second

// purpose records what the active input is for.
type purpose int

const (
	purposeLogin purpose = iota
	purposeCreate
	purposeChange
	purposeValidate
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	startMenu   *menu.View
	sessionMenu *menu.View
	field       *input.Field
	status      *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// purpose is what the active input field is for.
	purpose purpose

	// username is the name entered for a new account awaiting its password.
	username string

	// account is the loaded account; authenticated once in the session view.
	account driving.Account

	// guard is the retry budget of the login in progress.
	guard driving.LoginGuard

	// revealed holds the output of View Password until the next action.
	revealed string

	// lastWrite is when this app last wrote to the record store.
	lastWrite time.Time

	// changes is the watcher feed, nil when not watching.
	changes <-chan driven.StoreChange

	now func() time.Time

	// width and height are terminal dimensions.
	width  int
	height int
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	bar := status.NewBar(s)
	bar.SetBindings(km.MenuHelp())

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		startMenu:   menu.NewView(s, "Welcome to Password Manager", menu.StartItems()),
		sessionMenu: menu.NewView(s, "Password Manager", menu.SessionItems()),
		status:      bar,
		currentView: messages.ViewStart,
		now:         time.Now,
		width:       80,
		height:      24,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("passline"),
		a.startWatch(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.status.SetWidth(msg.Width)
		if a.field != nil {
			a.field.SetWidth(msg.Width)
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.MenuSelected:
		return a.handleAction(msg.Action)

	case messages.AccountLoaded:
		return a.handleAccountLoaded(msg)

	case messages.UsernameChecked:
		return a.handleUsernameChecked(msg)

	case messages.LoginAttempted:
		return a.handleLoginAttempted(msg)

	case messages.AccountCreated:
		return a.handleAccountCreated(msg)

	case messages.PasswordChanged:
		a.showSession()
		var violation *domain.PolicyViolation
		switch {
		case msg.Err == nil:
			a.status.Set(status.LevelSuccess, "Password changed successfully.")
		case errors.As(msg.Err, &violation):
			a.status.Set(status.LevelError, "Password not changed. "+describeRules(violation.Rules))
		case errors.Is(msg.Err, domain.ErrUnstorable):
			a.status.Set(status.LevelError, "Password not changed. "+domain.UnstorableDescription+".")
		case errors.Is(msg.Err, domain.ErrNotFound):
			a.status.Set(status.LevelError, "Username not found while updating. Password not changed.")
		default:
			a.status.Set(status.LevelError, fmt.Sprintf("Password not changed: %v", msg.Err))
		}
		return a, nil

	case messages.AccountSaved:
		if msg.Err != nil {
			a.status.Set(status.LevelError, fmt.Sprintf("Failed to save: %v", msg.Err))
		} else {
			a.status.Set(status.LevelSuccess, "Data saved to file successfully.")
		}
		return a, nil

	case messages.WatchStarted:
		a.changes = msg.Changes
		return a, waitForChange(a.changes)

	case messages.StoreChanged:
		if a.now().Sub(a.lastWrite) > ownWriteWindow {
			a.status.Set(status.LevelWarning,
				fmt.Sprintf("Record file changed on disk (%s). Stored values may be newer than shown.", msg.Change.Op))
		}
		return a, waitForChange(a.changes)

	case messages.WatchStopped:
		if msg.Err != nil {
			a.status.Set(status.LevelWarning, fmt.Sprintf("Not watching record file: %v", msg.Err))
		}
		return a, nil

	case messages.ErrorOccurred:
		a.status.Set(status.LevelError, msg.Err.Error())
		return a, nil

	case messages.Quit:
		return a, a.quit()
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if keymap.Matches(msg.String(), a.keymap.ForceQuit) {
		return a, a.quit()
	}

	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewStart:
		a.startMenu, cmd = a.startMenu.Update(msg)
		return a, cmd

	case messages.ViewSession:
		a.sessionMenu, cmd = a.sessionMenu.Update(msg)
		return a, cmd

	case messages.ViewUsername, messages.ViewPassword:
		switch {
		case keymap.Matches(msg.String(), a.keymap.Back):
			a.cancelInput()
			return a, nil
		case keymap.Matches(msg.String(), a.keymap.Select):
			return a.submit(a.field.Value())
		}
		a.field, cmd = a.field.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a *App) handleAction(action messages.Action) (tea.Model, tea.Cmd) {
	a.revealed = ""

	switch action {
	case messages.ActionLogin:
		a.status.Clear()
		a.showInput(messages.ViewUsername, "Username -", purposeLogin)
		return a, a.field.Init()

	case messages.ActionCreate:
		a.status.Clear()
		a.showInput(messages.ViewUsername, "Choose a Username -", purposeCreate)
		return a, a.field.Init()

	case messages.ActionChange:
		a.status.Set(status.LevelInfo, policySummary())
		a.showInput(messages.ViewPassword, "Enter new password -", purposeChange)
		return a, a.field.Init()

	case messages.ActionValidate:
		a.status.Clear()
		a.showInput(messages.ViewPassword, "Enter password to validate -", purposeValidate)
		return a, a.field.Init()

	case messages.ActionView:
		if a.account == nil {
			return a, nil
		}
		a.revealed = fmt.Sprintf("Encrypted Password: %q\nDecrypted Password: %s",
			a.account.ViewEncoded(), a.account.ViewDecoded())
		a.status.Clear()
		return a, nil

	case messages.ActionSave:
		if a.account == nil {
			return a, nil
		}
		a.lastWrite = a.now()
		return a, persistCmd(a.ctx, a.account)

	case messages.ActionLogout:
		a.logout()
		return a, nil

	case messages.ActionQuit:
		return a, a.quit()
	}

	return a, nil
}

// submit acts on the value of the active input.
func (a *App) submit(value string) (tea.Model, tea.Cmd) {
	accounts := a.ports.Accounts

	switch a.purpose {
	case purposeLogin:
		if a.currentView == messages.ViewUsername {
			return a, loadAccountCmd(a.ctx, accounts, value)
		}
		return a, attemptCmd(a.ctx, a.guard, a.account, value)

	case purposeCreate:
		if a.currentView == messages.ViewUsername {
			if err := domain.ValidateUsername(value); err != nil {
				a.status.Set(status.LevelError, "Invalid username. Try another.")
				a.field.Reset()
				return a, nil
			}
			return a, checkUsernameCmd(a.ctx, accounts, value)
		}
		a.lastWrite = a.now()
		return a, createCmd(a.ctx, accounts, a.username, value)

	case purposeChange:
		a.lastWrite = a.now()
		return a, changeCmd(a.ctx, a.account, value)

	case purposeValidate:
		strength := domain.PasswordStrength(value)
		if a.account.Authenticate(value) {
			a.status.Set(status.LevelSuccess, fmt.Sprintf("Correct Password (strength: %s)", strength))
		} else {
			a.status.Set(status.LevelError, fmt.Sprintf("Incorrect Password (strength: %s)", strength))
		}
		a.showSession()
		return a, nil
	}

	return a, nil
}

func (a *App) handleAccountLoaded(msg messages.AccountLoaded) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if errors.Is(msg.Err, domain.ErrNotFound) {
			a.status.Set(status.LevelError, "Username not found.")
		} else {
			a.status.Set(status.LevelError, msg.Err.Error())
		}
		a.field.Reset()
		return a, nil
	}

	a.account = msg.Account
	a.guard = a.ports.NewGuard()
	a.status.Clear()
	a.showInput(messages.ViewPassword, "Password -", purposeLogin)
	return a, a.field.Init()
}

func (a *App) handleUsernameChecked(msg messages.UsernameChecked) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if errors.Is(msg.Err, domain.ErrAlreadyExists) {
			a.status.Set(status.LevelError, "Username already exists. Try another.")
		} else {
			a.status.Set(status.LevelError, msg.Err.Error())
		}
		a.field.Reset()
		return a, nil
	}

	a.username = msg.Username
	a.status.Set(status.LevelInfo, policySummary())
	a.showInput(messages.ViewPassword, "Create Password -", purposeCreate)
	return a, a.field.Init()
}

func (a *App) handleLoginAttempted(msg messages.LoginAttempted) (tea.Model, tea.Cmd) {
	switch {
	case msg.Err != nil:
		a.status.Set(status.LevelError, msg.Err.Error())
		a.reset()
	case msg.OK:
		a.status.Set(status.LevelSuccess, "Login Successful!")
		a.showSession()
	case msg.Remaining == 0:
		a.status.Set(status.LevelError, "Too many failed attempts.")
		a.reset()
	default:
		a.status.Set(status.LevelError, fmt.Sprintf("Incorrect Password. %d attempts left.", msg.Remaining))
		a.field.Reset()
	}
	return a, nil
}

func (a *App) handleAccountCreated(msg messages.AccountCreated) (tea.Model, tea.Cmd) {
	var violation *domain.PolicyViolation
	switch {
	case errors.Is(msg.Err, domain.ErrPasswordInUse):
		a.status.Set(status.LevelError, "Password already in use. Try another.")
		a.field.Reset()
		return a, nil
	case errors.As(msg.Err, &violation):
		a.status.Set(status.LevelError, describeRules(violation.Rules))
		a.field.Reset()
		return a, nil
	case errors.Is(msg.Err, domain.ErrUnstorable):
		a.status.Set(status.LevelError, domain.UnstorableDescription+". Try another.")
		a.field.Reset()
		return a, nil
	case errors.Is(msg.Err, domain.ErrAlreadyExists):
		a.status.Set(status.LevelError, "Username already exists. Try another.")
		a.showInput(messages.ViewUsername, "Choose a Username -", purposeCreate)
		return a, a.field.Init()
	case msg.Err != nil:
		a.status.Set(status.LevelError, msg.Err.Error())
		a.reset()
		return a, nil
	}

	a.account = msg.Result.Account
	if msg.Result.FallbackUsed {
		a.status.Set(status.LevelWarning, fmt.Sprintf(
			"%s Default password %q set because your password was invalid.",
			describeRules(msg.Result.Policy.Failed), msg.Result.FallbackPassword))
	} else {
		a.status.Set(status.LevelSuccess, "Account created successfully!")
	}
	a.showSession()
	return a, nil
}

func (a *App) showInput(view messages.ViewType, label string, p purpose) {
	a.currentView = view
	a.purpose = p
	a.field = input.NewField(a.styles, label, view == messages.ViewPassword)
	a.field.SetWidth(a.width)
	a.status.SetBindings(a.keymap.InputHelp())
}

func (a *App) showSession() {
	a.currentView = messages.ViewSession
	a.field = nil
	a.sessionMenu.SetTitle(fmt.Sprintf("Password Manager - Welcome %s!", a.account.Username()))
	a.status.SetBindings(a.keymap.MenuHelp())
}

// cancelInput returns to the menu the input was opened from.
func (a *App) cancelInput() {
	a.status.Clear()
	if a.purpose == purposeChange || a.purpose == purposeValidate {
		a.showSession()
		return
	}
	a.reset()
}

// reset drops any account and returns to the welcome menu.
func (a *App) reset() {
	a.account = nil
	a.guard = nil
	a.username = ""
	a.field = nil
	a.revealed = ""
	a.currentView = messages.ViewStart
	a.startMenu.Reset()
	a.sessionMenu.Reset()
	a.status.SetBindings(a.keymap.MenuHelp())
}

func (a *App) logout() {
	if a.account == nil {
		a.reset()
		return
	}
	name := a.account.Username()
	a.account.Logout()
	a.reset()
	a.status.Set(status.LevelInfo, fmt.Sprintf("Account with Username %q logged out.", name))
}

func (a *App) quit() tea.Cmd {
	if a.account != nil && a.account.State() == domain.AccountAuthenticated {
		a.account.Logout()
	}
	if a.ports.Watcher != nil {
		_ = a.ports.Watcher.Close()
	}
	return tea.Quit
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder

	switch a.currentView {
	case messages.ViewStart:
		b.WriteString(a.startMenu.View())
	case messages.ViewSession:
		b.WriteString(a.sessionMenu.View())
		if a.revealed != "" {
			b.WriteString("\n")
			b.WriteString(a.styles.Secret.Render(a.revealed))
			b.WriteString("\n")
		}
	case messages.ViewUsername, messages.ViewPassword:
		if a.account != nil && a.purpose == purposeLogin {
			b.WriteString(a.styles.Muted.Render("Logging in as " + a.account.Username()))
			b.WriteString("\n\n")
		}
		b.WriteString(a.field.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.status.View())
	return b.String()
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Account returns the account in use, if any.
func (a *App) Account() driving.Account {
	return a.account
}

// Status returns the current status message.
func (a *App) Status() string {
	return a.status.Message()
}

func policySummary() string {
	parts := make([]string, 0, len(domain.PolicyRules()))
	for _, rule := range domain.PolicyRules() {
		parts = append(parts, strings.TrimPrefix(rule.Description(), "Password must contain "))
	}
	return "Password must contain " + strings.Join(parts, "; ") + ". " +
		strings.Replace(domain.UnstorableDescription, "Password must", "It must", 1) + "."
}

func describeRules(rules []domain.PolicyRule) string {
	parts := make([]string, 0, len(rules))
	for _, rule := range rules {
		parts = append(parts, rule.Description()+".")
	}
	return strings.Join(parts, " ")
}
