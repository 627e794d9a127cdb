package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	mapio "github.com/matzehuels/wayfinder/pkg/io"
	"github.com/matzehuels/wayfinder/pkg/world"
)

// FileStore keeps each map as a JSON file in a directory.
// Writes go to a temporary file that is renamed into place, so a crash
// never leaves a half-written map behind.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a file store rooted at dir ("." when empty).
// The directory is created if it doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, unavailable(err, "create maps dir %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory holding the map files.
func (s *FileStore) Dir() string { return s.dir }

// Path returns the file path for the map called name.
func (s *FileStore) Path(name string) (string, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name), nil
}

// Save writes snap to <dir>/<name> atomically.
func (s *FileStore) Save(ctx context.Context, name string, snap world.Snapshot) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	data, err := mapio.Marshal(snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".wayfinder-*.tmp")
	if err != nil {
		return unavailable(err, "create temp file in %s", s.dir)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return unavailable(err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return unavailable(err, "write %s", path)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return unavailable(err, "write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return unavailable(err, "replace %s", path)
	}
	return nil
}

// Load reads and decodes <dir>/<name>.
func (s *FileStore) Load(ctx context.Context, name string) (world.Snapshot, error) {
	path, err := s.Path(name)
	if err != nil {
		return world.Snapshot{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return mapio.ImportJSON(path)
}

// List returns the *.json files in the directory.
func (s *FileStore) List(ctx context.Context) ([]MapInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []MapInfo{}, nil
		}
		return nil, unavailable(err, "read maps dir %s", s.dir)
	}

	maps := []MapInfo{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Extension) || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		maps = append(maps, newInfo(entry.Name(), int(info.Size()), info.ModTime()))
	}
	slices.SortFunc(maps, func(a, b MapInfo) int { return strings.Compare(a.Name, b.Name) })
	return maps, nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
