package domain

const unknownDescription = "Unknown"

// StoreBackend selects which RecordStore implementation persists records.
type StoreBackend string

// Available store backends.
const (
	// StoreBackendFile keeps records in the line-oriented text file.
	StoreBackendFile StoreBackend = "file"

	// StoreBackendSQLite keeps records in a SQLite database.
	StoreBackendSQLite StoreBackend = "sqlite"
)

// IsValid returns true if the backend is recognised.
func (b StoreBackend) IsValid() bool {
	switch b {
	case StoreBackendFile, StoreBackendSQLite:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StoreBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StoreBackend) Description() string {
	switch b {
	case StoreBackendFile:
		return "Text file (username,password, per line)"
	case StoreBackendSQLite:
		return "SQLite database"
	default:
		return unknownDescription
	}
}

// AllStoreBackends returns all available backends.
func AllStoreBackends() []StoreBackend {
	return []StoreBackend{StoreBackendFile, StoreBackendSQLite}
}

// DefaultFallbackPassword is substituted for an invalid initial password
// when strict account creation is disabled.
const DefaultFallbackPassword = "user@1234"

// DefaultMaxAttempts is the default login retry budget.
const DefaultMaxAttempts = 3

// StoreSettings configures record persistence.
type StoreSettings struct {
	// Backend selects the store implementation.
	Backend StoreBackend
	// Path is the record file path. Empty means the default location.
	Path string
	// SQLitePath is the database path for the sqlite backend.
	SQLitePath string
}

// AccountSettings configures account creation.
type AccountSettings struct {
	// StrictCreate refuses an invalid initial password instead of
	// substituting FallbackPassword.
	StrictCreate bool
	// FallbackPassword is the cleartext substituted for invalid initial passwords.
	FallbackPassword string
}

// SessionSettings configures the interactive login loop.
type SessionSettings struct {
	// MaxAttempts is the number of password attempts before giving up.
	MaxAttempts int
	// RetryIntervalMillis paces attempts after a failure. Zero disables pacing.
	RetryIntervalMillis int
}

// AppSettings holds all application settings.
type AppSettings struct {
	Store   StoreSettings
	Account AccountSettings
	Session SessionSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Store: StoreSettings{
			Backend: StoreBackendFile,
		},
		Account: AccountSettings{
			StrictCreate:     false,
			FallbackPassword: DefaultFallbackPassword,
		},
		Session: SessionSettings{
			MaxAttempts:         DefaultMaxAttempts,
			RetryIntervalMillis: 0,
		},
	}
}

// Validate checks that the settings are internally consistent.
func (s AppSettings) Validate() error {
	if !s.Store.Backend.IsValid() {
		return ErrInvalidInput
	}
	if s.Session.MaxAttempts < 1 || s.Session.RetryIntervalMillis < 0 {
		return ErrInvalidInput
	}
	return ValidatePassword(s.Account.FallbackPassword).Err()
}
