package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/passline/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/passline/internal/core/domain"
)

func TestNewSettingsService(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())
	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, service.GetDefaults(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set(KeyStoreBackend, "sqlite")
	_ = store.Set(KeyStorePath, "/data/password.txt")
	_ = store.Set(KeyStrictCreate, true)
	_ = store.Set(KeyFallbackPassword, "temp@9999")
	_ = store.Set(KeyMaxAttempts, int64(5))
	_ = store.Set(KeyRetryInterval, int64(250))

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.Equal(t, domain.StoreBackendSQLite, settings.Store.Backend)
	assert.Equal(t, "/data/password.txt", settings.Store.Path)
	assert.True(t, settings.Account.StrictCreate)
	assert.Equal(t, "temp@9999", settings.Account.FallbackPassword)
	assert.Equal(t, 5, settings.Session.MaxAttempts)
	assert.Equal(t, 250, settings.Session.RetryIntervalMillis)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set(KeyStoreBackend, "redis")
	_ = store.Set(KeyFallbackPassword, "weak")
	_ = store.Set(KeyMaxAttempts, -1)

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Store.Backend, settings.Store.Backend)
	assert.Equal(t, defaults.Account.FallbackPassword, settings.Account.FallbackPassword)
	assert.Equal(t, defaults.Session.MaxAttempts, settings.Session.MaxAttempts)
}

func TestSettingsService_Save(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings := domain.DefaultAppSettings()
	settings.Store.Backend = domain.StoreBackendSQLite
	settings.Session.MaxAttempts = 4

	require.NoError(t, service.Save(&settings))

	assert.Equal(t, "sqlite", store.GetString(KeyStoreBackend))
	assert.Equal(t, 4, store.GetInt(KeyMaxAttempts))
	assert.Equal(t, "user@1234", store.GetString(KeyFallbackPassword))
}

func TestSettingsService_Save_Invalid(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings := domain.DefaultAppSettings()
	settings.Account.FallbackPassword = "short"

	err := service.Save(&settings)
	assert.ErrorIs(t, err, domain.ErrPolicyViolation)
	_, ok := store.Get(KeyFallbackPassword)
	assert.False(t, ok)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
		check   func(t *testing.T, s *domain.AppSettings)
	}{
		{
			name:  "Backend",
			key:   KeyStoreBackend,
			value: "sqlite",
			check: func(t *testing.T, s *domain.AppSettings) {
				assert.Equal(t, domain.StoreBackendSQLite, s.Store.Backend)
			},
		},
		{
			name:  "Strict create",
			key:   KeyStrictCreate,
			value: "true",
			check: func(t *testing.T, s *domain.AppSettings) {
				assert.True(t, s.Account.StrictCreate)
			},
		},
		{
			name:  "Max attempts",
			key:   KeyMaxAttempts,
			value: "5",
			check: func(t *testing.T, s *domain.AppSettings) {
				assert.Equal(t, 5, s.Session.MaxAttempts)
			},
		},
		{
			name:  "Retry interval",
			key:   KeyRetryInterval,
			value: "100",
			check: func(t *testing.T, s *domain.AppSettings) {
				assert.Equal(t, 100, s.Session.RetryIntervalMillis)
			},
		},
		{name: "Unknown backend", key: KeyStoreBackend, value: "redis", wantErr: true},
		{name: "Bad bool", key: KeyStrictCreate, value: "maybe", wantErr: true},
		{name: "Bad int", key: KeyMaxAttempts, value: "three", wantErr: true},
		{name: "Zero attempts", key: KeyMaxAttempts, value: "0", wantErr: true},
		{name: "Weak fallback", key: KeyFallbackPassword, value: "abc", wantErr: true},
		{name: "Unknown key", key: "search.mode", value: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore())

			err := service.Set(tt.key, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			settings, err := service.Get()
			require.NoError(t, err)
			tt.check(t, settings)
		})
	}
}

func TestSettingsService_Keys(t *testing.T) {
	keys := NewSettingsService(memory.NewConfigStore()).Keys()
	assert.Contains(t, keys, KeyStoreBackend)
	assert.Contains(t, keys, KeyMaxAttempts)
	assert.Len(t, keys, 7)
}
