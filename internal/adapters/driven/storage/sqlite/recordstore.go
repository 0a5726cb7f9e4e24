package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/passline/internal/core/domain"
	"github.com/custodia-labs/passline/internal/core/ports/driven"
	"github.com/custodia-labs/passline/internal/logger"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore implements driven.RecordStore over the records table.
type RecordStore struct {
	db *DB
}

// NewRecordStore opens the database at path, applies migrations and returns
// a record store over it. If path is empty, defaults to ~/.passline/records.db.
func NewRecordStore(path string) (*RecordStore, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &RecordStore{db: db}, nil
}

// NewRecordStoreWithDB returns a record store over an already migrated database.
func NewRecordStoreWithDB(db *DB) *RecordStore {
	return &RecordStore{db: db}
}

// Close closes the underlying database.
func (s *RecordStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *RecordStore) Path() string {
	return s.db.Path()
}

// FindByUsername returns the stored password for username.
func (s *RecordStore) FindByUsername(ctx context.Context, username string) (string, error) {
	var password string
	err := s.db.Reader.QueryRowContext(ctx,
		`SELECT password FROM records WHERE username = ?`, username).Scan(&password)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", storeErr("find record", err)
	}
	return password, nil
}

// Exists reports whether a record with username exists.
func (s *RecordStore) Exists(ctx context.Context, username string) (bool, error) {
	var n int
	err := s.db.Reader.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM records WHERE username = ?`, username).Scan(&n)
	if err != nil {
		return false, storeErr("check record", err)
	}
	return n > 0, nil
}

// ObfuscatedPasswordInUse reports whether any record stores value.
func (s *RecordStore) ObfuscatedPasswordInUse(ctx context.Context, value string) (bool, error) {
	var n int
	err := s.db.Reader.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM records WHERE password = ?`, value).Scan(&n)
	if err != nil {
		return false, storeErr("check password", err)
	}
	return n > 0, nil
}

// Append inserts record. A second record for the same username is rejected
// with domain.ErrAlreadyExists.
func (s *RecordStore) Append(ctx context.Context, record domain.Record) error {
	if record.Username == "" || record.ObfuscatedPassword == "" {
		return fmt.Errorf("%w: empty username or password", domain.ErrInvalidInput)
	}

	_, err := s.db.Writer.ExecContext(ctx,
		`INSERT INTO records (username, password) VALUES (?, ?)`,
		record.Username, record.ObfuscatedPassword)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("record %q: %w", record.Username, domain.ErrAlreadyExists)
		}
		return storeErr("insert record", err)
	}

	logger.Debug("Inserted record for %q into %s", record.Username, s.db.Path())
	return nil
}

// UpdateByUsername replaces the password of username's record.
func (s *RecordStore) UpdateByUsername(ctx context.Context, username, obfuscatedPassword string) (bool, error) {
	if obfuscatedPassword == "" {
		return false, fmt.Errorf("%w: empty password", domain.ErrInvalidInput)
	}

	res, err := s.db.Writer.ExecContext(ctx,
		`UPDATE records SET password = ? WHERE username = ?`, obfuscatedPassword, username)
	if err != nil {
		return false, storeErr("update record", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storeErr("update record", err)
	}

	logger.Debug("Updated %d record(s) for %q in %s", n, username, s.db.Path())
	return n > 0, nil
}

// List returns all records in insertion order.
func (s *RecordStore) List(ctx context.Context) ([]domain.Record, error) {
	rows, err := s.db.Reader.QueryContext(ctx, `SELECT username, password FROM records ORDER BY seq`)
	if err != nil {
		return nil, storeErr("list records", err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		var r domain.Record
		if err := rows.Scan(&r.Username, &r.ObfuscatedPassword); err != nil {
			return nil, storeErr("scan record", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list records", err)
	}
	return records, nil
}

// storeErr wraps a database failure as domain.ErrStoreIO.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStoreIO, op, err)
}
