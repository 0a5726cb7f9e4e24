package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/passline/internal/adapters/driving/tui/messages"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func actionOf(t *testing.T, cmd tea.Cmd) messages.Action {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.MenuSelected)
	require.True(t, ok)
	return msg.Action
}

func TestNewView_NilStyles(t *testing.T) {
	v := NewView(nil, "Title", StartItems())

	require.NotNil(t, v)
	assert.NotNil(t, v.styles)
	assert.Equal(t, 0, v.Selected())
}

func TestView_Navigate(t *testing.T) {
	v := NewView(nil, "Title", StartItems())

	v, _ = v.Update(key("up"))
	assert.Equal(t, 0, v.Selected(), "cursor stays at top")

	v, _ = v.Update(key("down"))
	v, _ = v.Update(key("j"))
	assert.Equal(t, 2, v.Selected())

	v, _ = v.Update(key("down"))
	assert.Equal(t, 2, v.Selected(), "cursor stays at bottom")

	v, _ = v.Update(key("k"))
	assert.Equal(t, 1, v.Selected())
}

func TestView_EnterSelects(t *testing.T) {
	v := NewView(nil, "Title", SessionItems())
	v, _ = v.Update(key("down"))

	_, cmd := v.Update(key("enter"))

	assert.Equal(t, messages.ActionValidate, actionOf(t, cmd))
}

func TestView_DigitSelects(t *testing.T) {
	v := NewView(nil, "Title", SessionItems())

	v, cmd := v.Update(key("3"))

	assert.Equal(t, messages.ActionView, actionOf(t, cmd))
	assert.Equal(t, 2, v.Selected())

	_, cmd = v.Update(key("9"))
	assert.Nil(t, cmd)
}

func TestView_QuitKey(t *testing.T) {
	v := NewView(nil, "Title", StartItems())

	_, cmd := v.Update(key("q"))

	assert.Equal(t, messages.ActionQuit, actionOf(t, cmd))
}

func TestView_IgnoresOtherMessages(t *testing.T) {
	v := NewView(nil, "Title", StartItems())

	_, cmd := v.Update(tea.WindowSizeMsg{Width: 10, Height: 10})

	assert.Nil(t, cmd)
}

func TestView_Render(t *testing.T) {
	v := NewView(nil, "Welcome to Password Manager", StartItems())
	v.SetTitle("Password Manager")

	out := v.View()

	assert.Contains(t, out, "Password Manager")
	assert.Contains(t, out, "1. Existing User")
	assert.Contains(t, out, "2. New User")
	assert.Contains(t, out, "> ")

	v.Reset()
	assert.Equal(t, 0, v.Selected())
}
