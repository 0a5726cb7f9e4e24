// Package cli provides the cobra command tree for passline.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/passline/internal/core/ports/driven"
	"github.com/custodia-labs/passline/internal/core/ports/driving"
	"github.com/custodia-labs/passline/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Options holds the values of the global flags.
type Options struct {
	Verbose   bool
	ConfigDir string
	StorePath string
}

// Services are the ports the commands operate on.
type Services struct {
	Accounts driving.AccountService
	Settings driving.SettingsService

	// NewGuard returns a fresh retry budget for one login.
	NewGuard func() driving.LoginGuard

	// StorePath is shown to the user; Watcher is optional.
	StorePath string
	Watcher   driven.StoreWatcher

	// Close releases backend resources. May be nil.
	Close func() error
}

// ServiceFactory builds Services once global flags are parsed.
type ServiceFactory func(opts Options) (*Services, error)

var (
	opts    Options
	factory ServiceFactory
	current *Services
)

var rootCmd = &cobra.Command{
	Use:   "passline",
	Short: "Local credential manager",
	Long: `Passline keeps usernames and obfuscated passwords in a local record file.

Run without a subcommand for the interactive welcome menu, or use the
account commands directly. The obfuscation is reversible and is not
encryption; do not store secrets you need protected.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(opts.Verbose)
	},
	RunE: runWelcome,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "print debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&opts.ConfigDir, "config-dir", "", "configuration directory (default ~/.passline)")
	rootCmd.PersistentFlags().StringVar(&opts.StorePath, "store", "", "record store path, overriding the configured one")
}

// SetServiceFactory sets the factory used to build services on first use.
func SetServiceFactory(f ServiceFactory) {
	factory = f
}

// SetServices installs ready-made services, bypassing the factory.
func SetServices(s *Services) {
	current = s
}

// Execute runs the root command and releases services afterwards.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// currentServices returns the installed services, building them on first use.
func currentServices() (*Services, error) {
	if current != nil {
		return current, nil
	}
	if factory == nil {
		return nil, errors.New("services not configured")
	}

	s, err := factory(opts)
	if err != nil {
		return nil, fmt.Errorf("initialising services: %w", err)
	}
	logger.Debug("Using record store %s", s.StorePath)
	current = s
	return current, nil
}

func accountService() (driving.AccountService, error) {
	s, err := currentServices()
	if err != nil {
		return nil, err
	}
	if s.Accounts == nil {
		return nil, errors.New("account service not configured")
	}
	return s.Accounts, nil
}

// sessionServices returns services able to run a login.
func sessionServices() (*Services, error) {
	s, err := currentServices()
	if err != nil {
		return nil, err
	}
	if s.Accounts == nil {
		return nil, errors.New("account service not configured")
	}
	if s.NewGuard == nil {
		return nil, errors.New("login guard not configured")
	}
	return s, nil
}

func closeServices() {
	if current == nil || current.Close == nil {
		return
	}
	if err := current.Close(); err != nil {
		logger.Error("closing services: %v", err)
	}
}
