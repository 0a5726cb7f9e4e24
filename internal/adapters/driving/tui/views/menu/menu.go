// Package menu provides the selectable menus of the TUI.
package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/passline/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/passline/internal/adapters/driving/tui/styles"
)

// Item represents a single menu option.
type Item struct {
	Label  string
	Action messages.Action
}

// StartItems are the entries of the welcome menu.
func StartItems() []Item {
	return []Item{
		{Label: "Existing User", Action: messages.ActionLogin},
		{Label: "New User", Action: messages.ActionCreate},
		{Label: "Quit", Action: messages.ActionQuit},
	}
}

// SessionItems are the entries of the logged-in account menu.
func SessionItems() []Item {
	return []Item{
		{Label: "Change Password", Action: messages.ActionChange},
		{Label: "Validate Password", Action: messages.ActionValidate},
		{Label: "View Password", Action: messages.ActionView},
		{Label: "Save to File", Action: messages.ActionSave},
		{Label: "Logout", Action: messages.ActionLogout},
	}
}

// View is a vertical menu. Entries can be chosen with the cursor or by number.
type View struct {
	styles   *styles.Styles
	title    string
	items    []Item
	selected int
}

// NewView creates a menu with the given title and items.
func NewView(s *styles.Styles, title string, items []Item) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		title:  title,
		items:  items,
	}
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
		return v, nil

	case "down", "j":
		if v.selected < len(v.items)-1 {
			v.selected++
		}
		return v, nil

	case "enter":
		return v, v.choose(v.selected)

	case "q":
		return v, selected(messages.ActionQuit)
	}

	// Digits pick an entry directly, as in the line-oriented menu.
	if s := keyMsg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		idx := int(s[0] - '1')
		if idx < len(v.items) {
			v.selected = idx
			return v, v.choose(idx)
		}
	}

	return v, nil
}

func (v *View) choose(idx int) tea.Cmd {
	if idx < 0 || idx >= len(v.items) {
		return nil
	}
	return selected(v.items[idx].Action)
}

func selected(action messages.Action) tea.Cmd {
	return func() tea.Msg {
		return messages.MenuSelected{Action: action}
	}
}

// View renders the menu.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(v.title))
	b.WriteString("\n\n")

	for i, item := range v.items {
		line := itemNumber(i) + item.Label
		if i == v.selected {
			b.WriteString("> " + v.styles.Selected.Render(line))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func itemNumber(i int) string {
	return string(rune('1'+i)) + ". "
}

// SetTitle replaces the menu title.
func (v *View) SetTitle(title string) {
	v.title = title
}

// Reset moves the cursor to the first entry.
func (v *View) Reset() {
	v.selected = 0
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}
