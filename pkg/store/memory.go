package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	mapio "github.com/matzehuels/wayfinder/pkg/io"
	"github.com/matzehuels/wayfinder/pkg/world"
)

// MemoryStore keeps encoded maps in process memory.
// Useful for testing or when nothing should touch disk.
type MemoryStore struct {
	mu   sync.RWMutex
	maps map[string]memoryEntry
	now  func() time.Time
}

type memoryEntry struct {
	document []byte
	modified time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{maps: make(map[string]memoryEntry), now: time.Now}
}

// Save encodes snap and stores it under name.
func (s *MemoryStore) Save(ctx context.Context, name string, snap world.Snapshot) error {
	name, err := NormalizeName(name)
	if err != nil {
		return err
	}
	data, err := mapio.Marshal(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maps[name] = memoryEntry{document: data, modified: s.now()}
	return nil
}

// Load decodes the map stored under name.
func (s *MemoryStore) Load(ctx context.Context, name string) (world.Snapshot, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return world.Snapshot{}, err
	}
	s.mu.RLock()
	entry, ok := s.maps[name]
	s.mu.RUnlock()
	if !ok {
		return world.Snapshot{}, notFound(name)
	}
	return mapio.Unmarshal(entry.document)
}

// List returns all stored maps sorted by name.
func (s *MemoryStore) List(ctx context.Context) ([]MapInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	maps := make([]MapInfo, 0, len(s.maps))
	for name, entry := range s.maps {
		maps = append(maps, newInfo(name, len(entry.document), entry.modified))
	}
	slices.SortFunc(maps, func(a, b MapInfo) int { return strings.Compare(a.Name, b.Name) })
	return maps, nil
}

// Put stores a raw document under name without decoding it.
// Tests use it to plant malformed content.
func (s *MemoryStore) Put(name string, document []byte) error {
	name, err := NormalizeName(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maps[name] = memoryEntry{document: slices.Clone(document), modified: s.now()}
	return nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
