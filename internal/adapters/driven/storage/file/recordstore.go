package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"

	"github.com/custodia-labs/passline/internal/core/domain"
	"github.com/custodia-labs/passline/internal/core/ports/driven"
	"github.com/custodia-labs/passline/internal/logger"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// DefaultFileName is the record file name used when no path is configured.
const DefaultFileName = "password.txt"

// RecordStore is a line-oriented text file of credential records.
// Mutations through one RecordStore are serialised; other processes writing
// the same file are not coordinated with.
type RecordStore struct {
	mu   sync.Mutex
	path string
}

// NewRecordStore creates a record store backed by path.
// If path is empty, defaults to ~/.passline/password.txt.
// The file itself is created lazily on the first append.
func NewRecordStore(path string) (*RecordStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".passline", DefaultFileName)
	}
	return &RecordStore{path: path}, nil
}

// Path returns the record file path.
func (s *RecordStore) Path() string {
	return s.path
}

// FindByUsername returns the password of the first record matching username.
func (s *RecordStore) FindByUsername(ctx context.Context, username string) (string, error) {
	var found string
	err := s.scan(ctx, func(r domain.Record) bool {
		if r.Username == username {
			found = r.ObfuscatedPassword
			return false
		}
		return true
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", domain.ErrNotFound
	}
	return found, nil
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
func (s *RecordStore) ObfuscatedPasswordInUse(ctx context.Context, value string) (bool, error) {
	var inUse bool
	err := s.scan(ctx, func(r domain.Record) bool {
		if r.ObfuscatedPassword == value {
			inUse = true
			return false
		}
		return true
	})
	return inUse, err
}

// List returns all well-formed records in file order.
func (s *RecordStore) List(ctx context.Context) ([]domain.Record, error) {
	var records []domain.Record
	err := s.scan(ctx, func(r domain.Record) bool {
		records = append(records, r)
		return true
	})
	return records, err
}

// Append writes record as a new line at the end of the file, creating the
// file and its directory if needed.
func (s *RecordStore) Append(ctx context.Context, record domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkStorable(record.ObfuscatedPassword); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("%w: creating directory: %w", domain.ErrStoreIO, err)
	}

	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %w", domain.ErrStoreIO, s.path, err)
	}
	defer f.Close()

	line := formatRecord(record.Username, record.ObfuscatedPassword)
	needsNewline, err := endsWithoutNewline(f)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %w", domain.ErrStoreIO, s.path, err)
	}
	if needsNewline {
		line = "\n" + line
	}

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("%w: writing %s: %w", domain.ErrStoreIO, s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %w", domain.ErrStoreIO, s.path, err)
	}

	logger.Debug("Appended record for %q to %s", record.Username, s.path)
	return nil
}

// UpdateByUsername rewrites the file with the first record matching username
// replaced. All other lines are copied byte for byte. The original file is
// only replaced once the temporary copy has been fully written and closed.
func (s *RecordStore) UpdateByUsername(ctx context.Context, username, obfuscatedPassword string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := checkStorable(obfuscatedPassword); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmpPath, updated, err := s.rewrite(ctx, username, obfuscatedPassword)
	if err != nil {
		return false, err
	}
	if !updated {
		logger.Debug("No record for %q in %s, file left unchanged", username, s.path)
		return false, nil
	}

	if err := atomic.ReplaceFile(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return false, fmt.Errorf("%w: replacing %s: %w", domain.ErrStoreIO, s.path, err)
	}

	logger.Debug("Updated record for %q in %s", username, s.path)
	return true, nil
}

// rewrite copies the record file into a new temporary file with the matching
// line replaced. Both files are closed before it returns. The temporary file
// is removed unless it holds an update, in which case its path is returned.
func (s *RecordStore) rewrite(ctx context.Context, username, obfuscatedPassword string) (string, bool, error) {
	in, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: opening %s: %w", domain.ErrStoreIO, s.path, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", false, fmt.Errorf("%w: stat %s: %w", domain.ErrStoreIO, s.path, err)
	}

	tmpPath := filepath.Join(filepath.Dir(s.path), "."+filepath.Base(s.path)+"."+uuid.NewString()+".tmp")
	out, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return "", false, fmt.Errorf("%w: creating temporary file: %w", domain.ErrStoreIO, err)
	}

	// The create mode is subject to umask.
	copyErr := out.Chmod(info.Mode().Perm())

	var updated bool
	if copyErr == nil {
		updated, copyErr = copyReplacing(ctx, in, out, username, obfuscatedPassword)
	}
	if copyErr == nil {
		copyErr = out.Sync()
	}
	closeErr := out.Close()

	if copyErr != nil || closeErr != nil || !updated {
		_ = os.Remove(tmpPath)
		if copyErr != nil {
			return "", false, fmt.Errorf("%w: rewriting %s: %w", domain.ErrStoreIO, s.path, copyErr)
		}
		if closeErr != nil {
			return "", false, fmt.Errorf("%w: closing temporary file: %w", domain.ErrStoreIO, closeErr)
		}
		return "", false, nil
	}

	return tmpPath, true, nil
}

// copyReplacing streams lines from r to w, substituting the first record
// whose username matches.
func copyReplacing(ctx context.Context, r io.Reader, w io.Writer, username, obfuscatedPassword string) (bool, error) {
	reader := bufio.NewReader(r)
	writer := bufio.NewWriter(w)
	updated := false

	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		raw, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return false, readErr
		}
		if raw == "" {
			break
		}

		out := raw
		if !updated {
			if rec, ok := parseRecord(raw); ok && rec.Username == username {
				out = formatRecord(username, obfuscatedPassword)
				updated = true
			}
		}
		if _, err := writer.WriteString(out); err != nil {
			return false, err
		}

		if readErr == io.EOF {
			break
		}
	}

	return updated, writer.Flush()
}

// scan calls fn for each well-formed record until fn returns false.
// A missing file is an empty store.
func (s *RecordStore) scan(ctx context.Context, fn func(domain.Record) bool) error {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: opening %s: %w", domain.ErrStoreIO, s.path, err)
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return fmt.Errorf("%w: reading %s: %w", domain.ErrStoreIO, s.path, readErr)
		}
		if rec, ok := parseRecord(raw); ok {
			if !fn(rec) {
				return nil
			}
		}
		if readErr == io.EOF {
			return nil
		}
	}
}

// parseRecord extracts the first two comma-separated fields of a line.
// Lines with an empty username or password are not records.
func parseRecord(line string) (domain.Record, bool) {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	username, rest, _ := strings.Cut(line, domain.RecordDelimiter)
	password, _, _ := strings.Cut(rest, domain.RecordDelimiter)
	if username == "" || password == "" {
		return domain.Record{}, false
	}
	return domain.Record{Username: username, ObfuscatedPassword: password}, true
}

func formatRecord(username, obfuscatedPassword string) string {
	return username + domain.RecordDelimiter + obfuscatedPassword + domain.RecordDelimiter + "\n"
}

// checkStorable rejects values the line format cannot represent.
// Plaintext '8' and '?' obfuscate to '\n' and '\r'.
func checkStorable(obfuscatedPassword string) error {
	if obfuscatedPassword == "" {
		return fmt.Errorf("%w: empty password", domain.ErrInvalidInput)
	}
	if strings.ContainsAny(obfuscatedPassword, domain.RecordDelimiter+"\r\n") {
		return fmt.Errorf("%w: %w: password contains a character that encodes to a delimiter",
			domain.ErrInvalidInput, domain.ErrUnstorable)
	}
	return nil
}

// endsWithoutNewline reports whether f is non-empty and its last byte is not '\n'.
func endsWithoutNewline(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return false, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false, err
	}
	return last[0] != '\n', nil
}
