package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	mapio "github.com/matzehuels/wayfinder/pkg/io"
	"github.com/matzehuels/wayfinder/pkg/world"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS maps (
	name TEXT PRIMARY KEY,
	document TEXT NOT NULL,
	revision TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);
`

// SQLiteStore keeps all maps in one SQLite database, one row per map.
// Each save stamps the row with a fresh revision UUID.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// maps table exists. Use ":memory:" for a throwaway database.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, unavailable(err, "open sqlite %s", path)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, unavailable(err, "create maps table in %s", path)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Save upserts the document for name.
func (s *SQLiteStore) Save(ctx context.Context, name string, snap world.Snapshot) error {
	name, err := NormalizeName(name)
	if err != nil {
		return err
	}
	data, err := mapio.Marshal(snap)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO maps (name, document, revision, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			document = excluded.document,
			revision = excluded.revision,
			updated_at = excluded.updated_at
	`, name, string(data), uuid.NewString(), s.now().UnixMilli())
	if err != nil {
		return unavailable(err, "save map %q", name)
	}
	return nil
}

// Load reads and decodes the document for name.
func (s *SQLiteStore) Load(ctx context.Context, name string) (world.Snapshot, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return world.Snapshot{}, err
	}

	var document string
	err = s.db.QueryRowContext(ctx, `SELECT document FROM maps WHERE name = ?`, name).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return world.Snapshot{}, notFound(name)
	}
	if err != nil {
		return world.Snapshot{}, unavailable(err, "load map %q", name)
	}
	return mapio.Unmarshal([]byte(document))
}

// List returns every stored map sorted by name.
func (s *SQLiteStore) List(ctx context.Context) ([]MapInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, length(CAST(document AS BLOB)), updated_at FROM maps ORDER BY name`)
	if err != nil {
		return nil, unavailable(err, "list maps")
	}
	defer rows.Close()

	maps := []MapInfo{}
	for rows.Next() {
		var (
			name    string
			size    int
			updated int64
		)
		if err := rows.Scan(&name, &size, &updated); err != nil {
			return nil, unavailable(err, "list maps")
		}
		maps = append(maps, newInfo(name, size, time.UnixMilli(updated)))
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err, "list maps")
	}
	return maps, nil
}

// Revision returns the revision stamp of the last save of name.
func (s *SQLiteStore) Revision(ctx context.Context, name string) (string, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return "", err
	}
	var rev string
	err = s.db.QueryRowContext(ctx, `SELECT revision FROM maps WHERE name = ?`, name).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return "", notFound(name)
	}
	if err != nil {
		return "", unavailable(err, "read revision of %q", name)
	}
	return rev, nil
}

// putRaw stores a document without encoding it. Used by tests.
func (s *SQLiteStore) putRaw(ctx context.Context, name, document string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO maps (name, document, revision, updated_at) VALUES (?, ?, ?, ?)`,
		name, document, uuid.NewString(), s.now().UnixMilli())
	return err
}

// Close closes the database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ Store = (*SQLiteStore)(nil)
