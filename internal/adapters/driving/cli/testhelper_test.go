package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/custodia-labs/passline/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/passline/internal/core/domain"
	"github.com/custodia-labs/passline/internal/core/ports/driving"
	"github.com/custodia-labs/passline/internal/core/services"
)

// testServices wires real services over in-memory stores.
func testServices(settings domain.AccountSettings, records ...domain.Record) (*Services, *memory.RecordStore) {
	store := memory.NewRecordStore(records...)
	return &Services{
		Accounts: services.NewAccountService(store, settings),
		Settings: services.NewSettingsService(memory.NewConfigStore()),
		NewGuard: func() driving.LoginGuard {
			return services.NewLoginGuard(domain.SessionSettings{MaxAttempts: 3})
		},
		StorePath: store.Path(),
	}, store
}

func defaultServices(records ...domain.Record) (*Services, *memory.RecordStore) {
	return testServices(domain.DefaultAppSettings().Account, records...)
}

// runCLI executes the root command with input on stdin and returns
// everything written to stdout and stderr.
func runCLI(t *testing.T, s *Services, input string, args ...string) (string, error) {
	t.Helper()

	if args == nil {
		args = []string{}
	}

	out := new(bytes.Buffer)
	SetServices(s)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)

	t.Cleanup(func() {
		SetServices(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		opts = Options{}
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func aliceRecord() domain.Record {
	return domain.Record{Username: "alice", ObfuscatedPassword: domain.Encode("Abc12345!")}
}
