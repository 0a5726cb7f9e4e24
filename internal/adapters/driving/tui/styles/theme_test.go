package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme_ColoursSetAndDistinct(t *testing.T) {
	theme := DefaultTheme()
	require.NotNil(t, theme)

	seen := make(map[lipgloss.Color]bool)
	for _, c := range []lipgloss.Color{
		theme.Primary, theme.Foreground, theme.Muted, theme.Success,
		theme.Warning, theme.Error, theme.Border,
	} {
		assert.NotEmpty(t, string(c))
		assert.False(t, seen[c], "duplicate colour %s", c)
		seen[c] = true
	}
}

func TestNewStyles_NilThemeUsesDefault(t *testing.T) {
	s := NewStyles(nil)

	require.NotNil(t, s)
	assert.Equal(t, DefaultTheme(), s.Theme())
}

func TestNewStyles_UsesTheme(t *testing.T) {
	theme := DefaultTheme()
	theme.Primary = lipgloss.Color("#123456")

	s := NewStyles(theme)

	assert.Same(t, theme, s.Theme())
	assert.Equal(t, lipgloss.Color("#123456"), s.Title.GetForeground())
}
