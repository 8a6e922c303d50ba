// Package sqlite implements persistent credential storage on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/veldt-labs/boxrag-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/veldt-labs/boxrag-cli/internal/core/domain"
	"github.com/veldt-labs/boxrag-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.CredentialsStore = (*Store)(nil)

// Store keeps the Box account credentials in a local SQLite database so
// authentication survives between runs.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.boxrag/data/boxrag.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".boxrag", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "boxrag.db")

	// WAL mode keeps concurrent reads cheap
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Load retrieves the stored credentials. Returns domain.ErrNotFound
// when no account has authenticated yet.
func (s *Store) Load(ctx context.Context) (*domain.Credentials, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, login, access_token, refresh_token, expiry, updated_at
		FROM credentials WHERE id = 1
	`)

	var creds domain.Credentials
	var expiry sql.NullTime
	err := row.Scan(&creds.UserID, &creds.Login, &creds.AccessToken,
		&creds.RefreshToken, &expiry, &creds.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}
	if expiry.Valid {
		creds.Expiry = expiry.Time
	}

	return &creds, nil
}

// Save stores or replaces the credentials.
func (s *Store) Save(ctx context.Context, creds *domain.Credentials) error {
	if creds == nil || creds.AccessToken == "" {
		return fmt.Errorf("%w: credentials need an access token", domain.ErrInvalidInput)
	}

	updatedAt := creds.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	var expiry any
	if !creds.Expiry.IsZero() {
		expiry = creds.Expiry.UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (id, user_id, login, access_token, refresh_token, expiry, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			login = excluded.login,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expiry = excluded.expiry,
			updated_at = excluded.updated_at
	`, creds.UserID, creds.Login, creds.AccessToken, creds.RefreshToken, expiry, updatedAt)
	if err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	return nil
}

// Clear removes the stored credentials. Clearing an empty store is not
// an error.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM credentials WHERE id = 1"); err != nil {
		return fmt.Errorf("clearing credentials: %w", err)
	}
	return nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_credentials.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}
