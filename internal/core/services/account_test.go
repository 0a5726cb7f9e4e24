package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/passline/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/passline/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/passline/internal/core/domain"
)

func newTestAccountService(records ...domain.Record) (*AccountService, *memory.RecordStore) {
	store := memory.NewRecordStore(records...)
	return NewAccountService(store, domain.DefaultAppSettings().Account), store
}

func TestAccountService_NilStore(t *testing.T) {
	service := NewAccountService(nil, domain.AccountSettings{})
	ctx := context.Background()

	_, err := service.CreateAccount(ctx, "alice", "Abc12345!")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)

	_, err = service.LoadAccount(ctx, "alice")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)

	_, err = service.ListUsernames(ctx)
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}

func TestAccountService_CreateAndAuthenticate(t *testing.T) {
	service, store := newTestAccountService()
	ctx := context.Background()

	result, err := service.CreateAccount(ctx, "alice", "Abc12345!")
	require.NoError(t, err)
	require.NotNil(t, result.Account)
	assert.False(t, result.FallbackUsed)
	assert.True(t, result.Policy.Valid())
	assert.Equal(t, domain.AccountAuthenticated, result.Account.State())

	stored, err := store.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.Encode("Abc12345!"), stored)

	loaded, err := service.LoadAccount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.AccountAnonymous, loaded.State())
	assert.False(t, loaded.Authenticate("wrong"))
	assert.Equal(t, domain.AccountAnonymous, loaded.State())
	assert.True(t, loaded.Authenticate("Abc12345!"))
	assert.Equal(t, domain.AccountAuthenticated, loaded.State())
}

func TestAccountService_ChangePassword_PolicyViolationLeavesStoreUnchanged(t *testing.T) {
	service, store := newTestAccountService()
	ctx := context.Background()

	result, err := service.CreateAccount(ctx, "alice", "Abc12345!")
	require.NoError(t, err)
	before, err := store.List(ctx)
	require.NoError(t, err)

	err = result.Account.ChangePassword(ctx, "short")
	require.Error(t, err)

	var violation *domain.PolicyViolation
	require.True(t, errors.As(err, &violation))
	assert.Equal(t, []domain.PolicyRule{domain.RuleMinLength, domain.RuleDigit, domain.RuleSpecial}, violation.Rules)

	after, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, domain.Encode("Abc12345!"), result.Account.ViewEncoded())
}

func TestAccountService_ChangePassword_Success(t *testing.T) {
	service, store := newTestAccountService(
		domain.Record{Username: "bob", ObfuscatedPassword: domain.Encode("bob@1234x")},
		domain.Record{Username: "alice", ObfuscatedPassword: domain.Encode("user@1234")},
	)
	ctx := context.Background()

	account, err := service.LoadAccount(ctx, "alice")
	require.NoError(t, err)

	// Allowed without authenticating first.
	require.NoError(t, account.ChangePassword(ctx, "newPass@1"))
	assert.Equal(t, domain.Encode("newPass@1"), account.ViewEncoded())
	assert.Equal(t, "newPass@1", account.ViewDecoded())

	stored, err := store.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.Encode("newPass@1"), stored)

	other, err := store.FindByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.Encode("bob@1234x"), other)
}

func TestAccountService_ChangePassword_StoreFailureKeepsOldValue(t *testing.T) {
	service, store := newTestAccountService(domain.Record{Username: "alice", ObfuscatedPassword: domain.Encode("user@1234")})
	ctx := context.Background()

	account, err := service.LoadAccount(ctx, "alice")
	require.NoError(t, err)

	store.FailWrites = true
	err = account.ChangePassword(ctx, "newPass@1")
	assert.ErrorIs(t, err, domain.ErrStoreIO)
	assert.Equal(t, "user@1234", account.ViewDecoded())
}

func TestAccountService_ChangePassword_RecordVanished(t *testing.T) {
	store := memory.NewRecordStore()
	account := &Account{store: store, username: "ghost", obfuscated: domain.Encode("user@1234")}

	err := account.ChangePassword(context.Background(), "newPass@1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "user@1234", account.ViewDecoded())
}

func TestAccountService_CreateAccount_FallbackSubstitution(t *testing.T) {
	service, store := newTestAccountService()
	ctx := context.Background()

	result, err := service.CreateAccount(ctx, "alice", "password")
	require.NoError(t, err)

	assert.True(t, result.FallbackUsed)
	assert.Equal(t, "user@1234", result.FallbackPassword)
	assert.Equal(t, []domain.PolicyRule{domain.RuleDigit, domain.RuleSpecial}, result.Policy.Failed)
	assert.Equal(t, "user@1234", result.Account.ViewDecoded())

	stored, err := store.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.Encode("user@1234"), stored)

	// A second user falling back to the same password is not a collision.
	second, err := service.CreateAccount(ctx, "bob", "x")
	require.NoError(t, err)
	assert.True(t, second.FallbackUsed)
}

func TestAccountService_CreateAccount_StrictRejectsInvalidPassword(t *testing.T) {
	store := memory.NewRecordStore()
	service := NewAccountService(store, domain.AccountSettings{StrictCreate: true})
	ctx := context.Background()

	_, err := service.CreateAccount(ctx, "alice", "password")
	assert.ErrorIs(t, err, domain.ErrPolicyViolation)

	exists, err := store.Exists(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAccountService_CreateAccount_Duplicate(t *testing.T) {
	service, _ := newTestAccountService(domain.Record{Username: "alice", ObfuscatedPassword: domain.Encode("user@1234")})

	_, err := service.CreateAccount(context.Background(), "alice", "Abc12345!")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestAccountService_CreateAccount_PasswordInUse(t *testing.T) {
	service, _ := newTestAccountService(domain.Record{Username: "bob", ObfuscatedPassword: domain.Encode("Abc12345!")})

	_, err := service.CreateAccount(context.Background(), "alice", "Abc12345!")
	assert.ErrorIs(t, err, domain.ErrPasswordInUse)
}

func TestAccountService_CreateAccount_InvalidUsername(t *testing.T) {
	service, store := newTestAccountService()
	ctx := context.Background()

	for _, name := range []string{"", "al,ice", "ali\nce"} {
		_, err := service.CreateAccount(ctx, name, "Abc12345!")
		assert.ErrorIs(t, err, domain.ErrInvalidUsername, name)
	}

	records, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAccountService_CreateAccount_StoreFailure(t *testing.T) {
	service, store := newTestAccountService()
	store.FailWrites = true

	_, err := service.CreateAccount(context.Background(), "alice", "Abc12345!")
	assert.ErrorIs(t, err, domain.ErrStoreIO)
}

func TestAccountService_LoadAccount_NotFound(t *testing.T) {
	service, _ := newTestAccountService()

	_, err := service.LoadAccount(context.Background(), "alice")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAccountService_ListUsernames(t *testing.T) {
	service, _ := newTestAccountService(
		domain.Record{Username: "carol", ObfuscatedPassword: "c"},
		domain.Record{Username: "alice", ObfuscatedPassword: "a"},
	)

	names, err := service.ListUsernames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"carol", "alice"}, names)
}

func TestAccountService_CheckPolicy(t *testing.T) {
	service, _ := newTestAccountService()

	assert.True(t, service.CheckPolicy("user@1234").Valid())
	assert.False(t, service.CheckPolicy("password").Valid())
}

func TestAccount_Persist(t *testing.T) {
	ctx := context.Background()

	t.Run("Updates existing record", func(t *testing.T) {
		store := memory.NewRecordStore(domain.Record{Username: "alice", ObfuscatedPassword: "old"})
		account := &Account{store: store, username: "alice", obfuscated: domain.Encode("user@1234")}

		require.NoError(t, account.Persist(ctx))

		records, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.Record{{Username: "alice", ObfuscatedPassword: domain.Encode("user@1234")}}, records)
	})

	t.Run("Appends missing record", func(t *testing.T) {
		store := memory.NewRecordStore()
		account := &Account{store: store, username: "alice", obfuscated: domain.Encode("user@1234")}

		require.NoError(t, account.Persist(ctx))
		require.NoError(t, account.Persist(ctx))

		records, err := store.List(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})
}

func TestAccount_Logout(t *testing.T) {
	service, _ := newTestAccountService(domain.Record{Username: "alice", ObfuscatedPassword: domain.Encode("user@1234")})
	ctx := context.Background()

	account, err := service.LoadAccount(ctx, "alice")
	require.NoError(t, err)
	require.True(t, account.Authenticate("user@1234"))

	account.Logout()
	assert.Equal(t, domain.AccountLoggedOut, account.State())
	assert.False(t, account.Authenticate("user@1234"))
	assert.ErrorIs(t, account.ChangePassword(ctx, "newPass@1"), domain.ErrLoggedOut)
	assert.ErrorIs(t, account.Persist(ctx), domain.ErrLoggedOut)
}

func TestAccountService_UnstorablePasswordRejectedBeforeStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "password.txt")
	store, err := file.NewRecordStore(path)
	require.NoError(t, err)
	service := NewAccountService(store, domain.DefaultAppSettings().Account)
	ctx := context.Background()

	assert.True(t, service.CheckPolicy("Xyz98765@").Valid())

	_, err = service.CreateAccount(ctx, "carol", "Xyz98765@")
	assert.ErrorIs(t, err, domain.ErrUnstorable)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	result, err := service.CreateAccount(ctx, "carol", "Abc12345!")
	require.NoError(t, err)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	err = result.Account.ChangePassword(ctx, "Passw0rd?1@")
	assert.ErrorIs(t, err, domain.ErrUnstorable)
	assert.Equal(t, domain.Encode("Abc12345!"), result.Account.ViewEncoded())

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestAccountService_UnstorableCheckedInStrictAndLegacyMode(t *testing.T) {
	ctx := context.Background()

	strict := NewAccountService(memory.NewRecordStore(), domain.AccountSettings{StrictCreate: true})
	_, err := strict.CreateAccount(ctx, "alice", "Xyz98765@")
	assert.ErrorIs(t, err, domain.ErrUnstorable)

	// An invalid password falls back before the check, so it still succeeds.
	legacy, store := newTestAccountService()
	result, err := legacy.CreateAccount(ctx, "alice", "pass8")
	require.NoError(t, err)
	assert.True(t, result.FallbackUsed)

	stored, err := store.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.Encode(domain.DefaultFallbackPassword), stored)
}
