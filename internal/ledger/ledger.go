package ledger

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Entry records the state of one artifact when its stage last produced or
// verified it.
type Entry struct {
	Slide     int
	Kind      string
	SHA256    string
	ModTime   time.Time
	UpdatedAt time.Time
}

// Store manages ledger persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS artifacts (
	slide      INTEGER NOT NULL,
	kind       TEXT    NOT NULL,
	sha256     TEXT    NOT NULL,
	mtime_unix INTEGER NOT NULL,
	updated_at TEXT    NOT NULL,
	PRIMARY KEY (slide, kind)
);
`

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the ledger database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init ledger schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record hashes the artifact file and upserts its ledger row.
func (s *Store) Record(ctx context.Context, slide int, kind, artifactPath string) error {
	digest, mtime, err := hashFile(artifactPath)
	if err != nil {
		return fmt.Errorf("hash artifact: %w", err)
	}
	const query = `
INSERT INTO artifacts (slide, kind, sha256, mtime_unix, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (slide, kind) DO UPDATE SET
	sha256 = excluded.sha256,
	mtime_unix = excluded.mtime_unix,
	updated_at = excluded.updated_at
`
	return s.execWithRetry(ctx, query, slide, kind, digest, mtime.Unix(), time.Now().UTC().Format(time.RFC3339))
}

// Lookup returns the ledger entry for the given artifact, if recorded.
func (s *Store) Lookup(ctx context.Context, slide int, kind string) (Entry, bool, error) {
	const query = `SELECT slide, kind, sha256, mtime_unix, updated_at FROM artifacts WHERE slide = ? AND kind = ?`
	row := s.db.QueryRowContext(ensureContext(ctx), query, slide, kind)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	return entry, true, nil
}

// List returns all ledger entries ordered by slide then kind.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	const query = `SELECT slide, kind, sha256, mtime_unix, updated_at FROM artifacts ORDER BY slide, kind`
	rows, err := s.db.QueryContext(ensureContext(ctx), query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		entry     Entry
		mtimeUnix int64
		updatedAt string
	)
	if err := row.Scan(&entry.Slide, &entry.Kind, &entry.SHA256, &mtimeUnix, &updatedAt); err != nil {
		return Entry{}, err
	}
	entry.ModTime = time.Unix(mtimeUnix, 0).UTC()
	if parsed, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		entry.UpdatedAt = parsed
	}
	return entry, nil
}

func hashFile(path string) (string, time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", time.Time{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		return "", time.Time{}, err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", time.Time{}, err
	}
	return hex.EncodeToString(hasher.Sum(nil)), info.ModTime(), nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		_, lastErr = s.db.ExecContext(ctx, query, args...)
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
