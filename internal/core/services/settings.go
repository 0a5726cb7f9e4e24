package services

import (
	"fmt"
	"strconv"

	"github.com/custodia-labs/passline/internal/core/domain"
	"github.com/custodia-labs/passline/internal/core/ports/driven"
	"github.com/custodia-labs/passline/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyStoreBackend     = "store.backend"
	KeyStorePath        = "store.path"
	KeyStoreSQLitePath  = "store.sqlite_path"
	KeyStrictCreate     = "account.strict_create"
	KeyFallbackPassword = "account.fallback_password"
	KeyMaxAttempts      = "session.max_attempts"
	KeyRetryInterval    = "session.retry_interval_ms"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
// Missing or invalid stored values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Store: domain.StoreSettings{
			Backend:    s.getBackend(defaults.Store.Backend),
			Path:       s.configStore.GetString(KeyStorePath),
			SQLitePath: s.configStore.GetString(KeyStoreSQLitePath),
		},
		Account: domain.AccountSettings{
			StrictCreate:     s.getBool(KeyStrictCreate, defaults.Account.StrictCreate),
			FallbackPassword: s.getFallback(defaults.Account.FallbackPassword),
		},
		Session: domain.SessionSettings{
			MaxAttempts:         s.getPositiveInt(KeyMaxAttempts, defaults.Session.MaxAttempts),
			RetryIntervalMillis: s.getPositiveInt(KeyRetryInterval, defaults.Session.RetryIntervalMillis),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	values := []struct {
		key   string
		value any
	}{
		{KeyStoreBackend, settings.Store.Backend.String()},
		{KeyStorePath, settings.Store.Path},
		{KeyStoreSQLitePath, settings.Store.SQLitePath},
		{KeyStrictCreate, settings.Account.StrictCreate},
		{KeyFallbackPassword, settings.Account.FallbackPassword},
		{KeyMaxAttempts, settings.Session.MaxAttempts},
		{KeyRetryInterval, settings.Session.RetryIntervalMillis},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return nil
}

// Set updates a single setting from its string form.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	switch key {
	case KeyStoreBackend:
		settings.Store.Backend = domain.StoreBackend(value)
	case KeyStorePath:
		settings.Store.Path = value
	case KeyStoreSQLitePath:
		settings.Store.SQLitePath = value
	case KeyStrictCreate:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		settings.Account.StrictCreate = b
	case KeyFallbackPassword:
		settings.Account.FallbackPassword = value
	case KeyMaxAttempts, KeyRetryInterval:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		if key == KeyMaxAttempts {
			settings.Session.MaxAttempts = n
		} else {
			settings.Session.RetryIntervalMillis = n
		}
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	return s.Save(settings)
}

// Keys returns the configuration keys accepted by Set.
func (s *SettingsService) Keys() []string {
	return []string{
		KeyStoreBackend,
		KeyStorePath,
		KeyStoreSQLitePath,
		KeyStrictCreate,
		KeyFallbackPassword,
		KeyMaxAttempts,
		KeyRetryInterval,
	}
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getBackend(defaultVal domain.StoreBackend) domain.StoreBackend {
	backend := domain.StoreBackend(s.configStore.GetString(KeyStoreBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getFallback(defaultVal string) string {
	val := s.configStore.GetString(KeyFallbackPassword)
	if val == "" || !domain.ValidatePassword(val).Valid() {
		return defaultVal
	}
	return val
}
