package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/passline/internal/core/domain"
	"github.com/custodia-labs/passline/internal/core/ports/driven"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore is an in-memory implementation of driven.RecordStore.
// Records are kept in insertion order, mirroring the file store.
type RecordStore struct {
	mu      sync.RWMutex
	records []domain.Record

	// FailWrites makes Append and UpdateByUsername fail with domain.ErrStoreIO.
	FailWrites bool
}

// NewRecordStore creates a new in-memory record store seeded with records.
func NewRecordStore(records ...domain.Record) *RecordStore {
	return &RecordStore{
		records: append([]domain.Record(nil), records...),
	}
}

// FindByUsername returns the password of the first matching record.
func (s *RecordStore) FindByUsername(_ context.Context, username string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.Username == username {
			return r.ObfuscatedPassword, nil
		}
	}
	return "", domain.ErrNotFound
}

// Exists reports whether a record with username exists.
func (s *RecordStore) Exists(ctx context.Context, username string) (bool, error) {
	_, err := s.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// ObfuscatedPasswordInUse reports whether any record stores value.
func (s *RecordStore) ObfuscatedPasswordInUse(_ context.Context, value string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ObfuscatedPassword == value {
			return true, nil
		}
	}
	return false, nil
}

// Append adds a record at the end.
func (s *RecordStore) Append(_ context.Context, record domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return domain.ErrStoreIO
	}
	s.records = append(s.records, record)
	return nil
}

// UpdateByUsername replaces the first matching record's password.
func (s *RecordStore) UpdateByUsername(_ context.Context, username, obfuscatedPassword string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return false, domain.ErrStoreIO
	}
	for i := range s.records {
		if s.records[i].Username == username {
			s.records[i].ObfuscatedPassword = obfuscatedPassword
			return true, nil
		}
	}
	return false, nil
}

// List returns a copy of all records.
func (s *RecordStore) List(_ context.Context) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Record(nil), s.records...), nil
}

// Path returns the storage location.
func (s *RecordStore) Path() string {
	return ":memory:"
}
