package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/passline/internal/core/ports/driving"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change passline settings stored in config.toml.

Keys:
  store.backend              file or sqlite
  store.path                 record file path
  store.sqlite_path          sqlite database path
  account.strict_create      refuse invalid initial passwords (true/false)
  account.fallback_password  password stored when the chosen one is invalid
  session.max_attempts       login attempts before giving up
  session.retry_interval_ms  minimum delay between login attempts`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func settingsService() (driving.SettingsService, error) {
	s, err := currentServices()
	if err != nil {
		return nil, err
	}
	if s.Settings == nil {
		return nil, errors.New("settings service not configured")
	}
	return s.Settings, nil
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}

	settings, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Store]")
	cmd.Printf("  Backend: %s\n", settings.Store.Backend.Description())
	cmd.Printf("  Path: %s\n", valueOrDefault(settings.Store.Path))
	cmd.Printf("  SQLite Path: %s\n", valueOrDefault(settings.Store.SQLitePath))
	if current != nil && current.StorePath != "" {
		cmd.Printf("  In Use: %s\n", current.StorePath)
	}
	cmd.Println()

	cmd.Println("[Account]")
	cmd.Printf("  Strict Create: %t\n", settings.Account.StrictCreate)
	cmd.Printf("  Fallback Password: %s\n", settings.Account.FallbackPassword)
	cmd.Println()

	cmd.Println("[Session]")
	cmd.Printf("  Max Attempts: %d\n", settings.Session.MaxAttempts)
	cmd.Printf("  Retry Interval: %dms\n", settings.Session.RetryIntervalMillis)

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}

	if err := svc.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("%s = %s\n", args[0], args[1])
	return nil
}

func valueOrDefault(v string) string {
	if v == "" {
		return "(default)"
	}
	return v
}
