// Package status provides the status line component for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/passline/internal/adapters/driving/tui/styles"
)

// Level classifies a status message.
type Level string

// Status levels.
const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Bar displays the last status message and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	level    Level
	message  string
	bindings []key.Binding
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &Bar{
		styles: s,
		level:  LevelInfo,
		width:  80,
	}
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	padding := b.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return b.styles.StatusBar.Render(left + strings.Repeat(" ", padding) + right)
}

func (b *Bar) renderLeft() string {
	if b.message == "" {
		return b.styles.Muted.Render("Ready")
	}
	switch b.level {
	case LevelSuccess:
		return b.styles.Success.Render(b.message)
	case LevelWarning:
		return b.styles.Warning.Render(b.message)
	case LevelError:
		return b.styles.Error.Render(b.message)
	default:
		return b.styles.Normal.Render(b.message)
	}
}

func (b *Bar) renderRight() string {
	hints := make([]string, 0, len(b.bindings))
	for _, binding := range b.bindings {
		h := binding.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

// Set replaces the message.
func (b *Bar) Set(level Level, message string) {
	b.level = level
	b.message = message
}

// Level returns the level of the current message.
func (b *Bar) Level() Level {
	return b.level
}

// Message returns the current message.
func (b *Bar) Message() string {
	return b.message
}

// SetBindings sets the keybinding hints.
func (b *Bar) SetBindings(bindings []key.Binding) {
	b.bindings = bindings
}

// SetWidth sets the status bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// Clear removes the message.
func (b *Bar) Clear() {
	b.level = LevelInfo
	b.message = ""
}
