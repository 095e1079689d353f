// Package cache remembers which files were already verified to be in dependency order.
package cache

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"deporder/internal/errors"
)

const schemaVersion = 1

// Store is a SQLite-backed checksum cache. Only content that was in order under a given
// options fingerprint is recorded, so a hit means the file can be skipped.
type Store struct {
	conn   *sql.DB
	logger *slog.Logger
	dbPath string
	now    func() time.Time
}

// Entry is one cached file.
type Entry struct {
	Path      string
	Checksum  string
	Options   string
	CheckedAt time.Time
}

// Stats summarizes the cache contents.
type Stats struct {
	Path      string    `json:"path" yaml:"path" toml:"path"`
	Entries   int       `json:"entries" yaml:"entries" toml:"entries"`
	Oldest    time.Time `json:"oldest,omitzero" yaml:"oldest,omitempty" toml:"oldest"`
	Newest    time.Time `json:"newest,omitzero" yaml:"newest,omitempty" toml:"newest"`
	SizeBytes int64     `json:"sizeBytes" yaml:"sizeBytes" toml:"sizeBytes"`
}

// Open opens or creates the cache database at dbPath.
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, errors.Wrap(errors.CacheUnavailable, "create cache directory", err).WithPath(dbPath)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(errors.CacheUnavailable, "open cache database", err).WithPath(dbPath)
	}
	// Workers share one connection; SQLite serializes writers anyway.
	conn.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, errors.Wrap(errors.CacheUnavailable, "set pragma", err).WithPath(dbPath)
		}
	}

	store := &Store{
		conn:   conn,
		logger: logger,
		dbPath: dbPath,
		now:    time.Now,
	}
	if err := store.initializeSchema(); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(errors.CacheUnavailable, "initialize cache schema", err).WithPath(dbPath)
	}

	logger.Debug("Opened checksum cache", "path", dbPath)
	return store, nil
}

// initializeSchema creates the tables, discarding a cache written by another schema.
func (s *Store) initializeSchema() error {
	var current int
	err := s.conn.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&current)
	if err == nil && current != schemaVersion {
		s.logger.Info("Discarding checksum cache with old schema", "path", s.dbPath, "version", current)
		if _, err := s.conn.Exec("DROP TABLE IF EXISTS file_checksums; DROP TABLE IF EXISTS schema_version;"); err != nil {
			return err
		}
	}

	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS file_checksums (
			path TEXT PRIMARY KEY,
			checksum TEXT NOT NULL,
			options TEXT NOT NULL,
			checked_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_checksums_checked_at ON file_checksums(checked_at);

		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);
		INSERT OR REPLACE INTO schema_version (version) VALUES (%d);
	`, schemaVersion)

	_, err = s.conn.Exec(schema)
	return err
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Lookup reports whether path was recorded with this checksum and options fingerprint.
func (s *Store) Lookup(ctx context.Context, path, checksum, options string) (bool, error) {
	var stored, storedOpts string
	err := s.conn.QueryRowContext(ctx, `
		SELECT checksum, options FROM file_checksums WHERE path = ?
	`, path).Scan(&stored, &storedOpts)

	if stderrors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup %s: %w", path, err)
	}
	return stored == checksum && storedOpts == options, nil
}

// Get returns the entry for path, or nil when there is none.
func (s *Store) Get(ctx context.Context, path string) (*Entry, error) {
	var e Entry
	var checkedAt int64
	err := s.conn.QueryRowContext(ctx, `
		SELECT path, checksum, options, checked_at FROM file_checksums WHERE path = ?
	`, path).Scan(&e.Path, &e.Checksum, &e.Options, &checkedAt)

	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e.CheckedAt = time.Unix(0, checkedAt).UTC()
	return &e, nil
}

// Record saves or updates the checksum for path.
func (s *Store) Record(ctx context.Context, path, checksum, options string) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO file_checksums (path, checksum, options, checked_at)
		VALUES (?, ?, ?, ?)
	`, path, checksum, options, s.now().UnixNano())
	if err != nil {
		return fmt.Errorf("record %s: %w", path, err)
	}
	return nil
}

// Forget drops the entry for path.
func (s *Store) Forget(ctx context.Context, path string) error {
	_, err := s.conn.ExecContext(ctx, "DELETE FROM file_checksums WHERE path = ?", path)
	return err
}

// Prune removes entries checked longer ago than olderThan.
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.now().Add(-olderThan).UnixNano()

	result, err := s.conn.ExecContext(ctx, "DELETE FROM file_checksums WHERE checked_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune checksum cache: %w", err)
	}
	return result.RowsAffected()
}

// Clear removes all entries.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	result, err := s.conn.ExecContext(ctx, "DELETE FROM file_checksums")
	if err != nil {
		return 0, fmt.Errorf("failed to clear checksum cache: %w", err)
	}
	return result.RowsAffected()
}

// Stats summarizes the cache.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{Path: s.dbPath}

	var oldest, newest sql.NullInt64
	err := s.conn.QueryRowContext(ctx, `
		SELECT COUNT(*), MIN(checked_at), MAX(checked_at) FROM file_checksums
	`).Scan(&stats.Entries, &oldest, &newest)
	if err != nil {
		return nil, err
	}
	if oldest.Valid {
		stats.Oldest = time.Unix(0, oldest.Int64).UTC()
	}
	if newest.Valid {
		stats.Newest = time.Unix(0, newest.Int64).UTC()
	}
	if info, err := os.Stat(s.dbPath); err == nil {
		stats.SizeBytes = info.Size()
	}
	return stats, nil
}
