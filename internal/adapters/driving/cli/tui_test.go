package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTUICmd_Registered(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Use == "tui" {
			found = true
			break
		}
	}
	assert.True(t, found, "tui command should be registered")
	assert.NotNil(t, tuiCmd.RunE)
}

func TestTUIPorts_FromServices(t *testing.T) {
	s, _ := defaultServices()
	SetServices(s)
	defer SetServices(nil)

	ports, err := tuiPorts()
	require.NoError(t, err)

	assert.Same(t, s.Accounts, ports.Accounts)
	assert.NotNil(t, ports.NewGuard)
	assert.Nil(t, ports.Watcher)
	assert.NoError(t, ports.Validate())
}

func TestTUIPorts_RequiresGuard(t *testing.T) {
	s, _ := defaultServices()
	s.NewGuard = nil
	SetServices(s)
	defer SetServices(nil)

	_, err := tuiPorts()

	assert.EqualError(t, err, "login guard not configured")
}
