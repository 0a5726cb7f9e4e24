package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/passline/internal/core/domain"
)

func TestRootCmd_Flags(t *testing.T) {
	for _, name := range []string{"verbose", "config-dir", "store"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "v", rootCmd.PersistentFlags().Lookup("verbose").Shorthand)
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"account", "policy", "settings", "tui", "version"} {
		assert.True(t, names[want], want)
	}
}

func TestWelcome_NewUser(t *testing.T) {
	s, store := defaultServices()

	out, err := runCLI(t, s, "2\ncarol\nAbc12345!\n5\n")

	require.NoError(t, err)
	assert.Contains(t, out, "Welcome to Password Manager")
	assert.Contains(t, out, "Account created successfully!")
	assert.Contains(t, out, "Password Manager - Welcome carol!")
	assert.Contains(t, out, `Account with Username "carol" logged out.`)

	exists, err := store.Exists(context.Background(), "carol")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestWelcome_ExistingUser(t *testing.T) {
	s, _ := defaultServices(aliceRecord())

	out, err := runCLI(t, s, "1\nalice\nAbc12345!\n5\n")

	require.NoError(t, err)
	assert.Contains(t, out, "Login Successful!")
	assert.Contains(t, out, "Password Manager - Welcome alice!")
}

func TestWelcome_InvalidChoice(t *testing.T) {
	s, _ := defaultServices()

	out, err := runCLI(t, s, "7\n")

	assert.ErrorIs(t, err, errInvalidChoice)
	assert.Contains(t, out, "Invalid choice.")
}

func TestCurrentServices_NotConfigured(t *testing.T) {
	saved := factory
	factory = nil
	defer func() { factory = saved }()

	_, err := runCLI(t, nil, "", "account", "list")

	assert.EqualError(t, err, "services not configured")
}

func TestCurrentServices_UsesFactoryOnce(t *testing.T) {
	saved := factory
	defer func() { factory = saved }()

	calls := 0
	SetServiceFactory(func(o Options) (*Services, error) {
		calls++
		s, _ := defaultServices(aliceRecord())
		return s, nil
	})

	out, err := runCLI(t, nil, "", "account", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "alice")

	_, err = currentServices()
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestCurrentServices_FactoryError(t *testing.T) {
	saved := factory
	defer func() { factory = saved }()

	SetServiceFactory(func(Options) (*Services, error) {
		return nil, domain.ErrStoreIO
	})

	_, err := runCLI(t, nil, "", "account", "list")

	assert.ErrorIs(t, err, domain.ErrStoreIO)
}

func TestSessionServices_RequiresGuard(t *testing.T) {
	s, _ := defaultServices(aliceRecord())
	s.NewGuard = nil

	_, err := runCLI(t, s, "Abc12345!\n", "account", "login", "alice")

	assert.EqualError(t, err, "login guard not configured")
}

func TestCloseServices(t *testing.T) {
	s, _ := defaultServices()
	closed := 0
	s.Close = func() error {
		closed++
		return errors.New("already closed")
	}
	SetServices(s)
	defer SetServices(nil)

	closeServices()
	assert.Equal(t, 1, closed)

	SetServices(nil)
	closeServices()
	assert.Equal(t, 1, closed)
}
