// Package store persists world maps.
//
// A map is saved and loaded as one JSON document (see package io) under a
// name. The package defines narrow capability interfaces so callers can
// depend on only what they use, plus adapters for several backends:
//
//   - [FileStore]: one JSON file per map in a directory (the default)
//   - [MemoryStore]: in-process, for tests and throwaway sessions
//   - [SQLiteStore]: a single SQLite database file
//   - [RedisStore]: shared storage in Redis
//   - [MongoStore]: shared storage in MongoDB
//
// Every adapter stores the exact same document bytes, so maps can be copied
// between backends without conversion.
//
// # Names
//
// Map names follow the map_data.json file convention: a name without
// an extension gets ".json" appended, so "world" and "world.json" refer to the
// same map on every backend. Names are validated with
// [errors.ValidateMapName] and may not contain path separators.
//
// # Errors
//
// Load fails with STORAGE_NOT_FOUND when nothing is stored under the name and
// STORAGE_MALFORMED when the stored document cannot be decoded into a
// consistent map. Backend connectivity problems surface as STORAGE_UNAVAILABLE.
//
// [errors.ValidateMapName]: github.com/matzehuels/wayfinder/pkg/errors.ValidateMapName
package store

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/wayfinder/pkg/config"
	errs "github.com/matzehuels/wayfinder/pkg/errors"
	"github.com/matzehuels/wayfinder/pkg/world"
)

// ModifiedLayout is the time layout of [MapInfo.Modified].
const ModifiedLayout = "2006-01-02 15:04:05"

// Extension is appended to map names that have none.
const Extension = ".json"

// Saver writes a map snapshot under a name, replacing any previous version.
type Saver interface {
	Save(ctx context.Context, name string, snap world.Snapshot) error
}

// Loader reads the map stored under a name.
type Loader interface {
	Load(ctx context.Context, name string) (world.Snapshot, error)
}

// Lister enumerates stored maps, sorted by name. An empty store yields an
// empty slice, not an error.
type Lister interface {
	List(ctx context.Context) ([]MapInfo, error)
}

// Store is the full persistence port.
type Store interface {
	Saver
	Loader
	Lister
	io.Closer
}

// MapInfo describes one stored map.
type MapInfo struct {
	Name     string
	SizeKB   float64 // document size in KiB
	Modified string  // local time in ModifiedLayout, empty when unknown
}

// NormalizeName validates name and appends [Extension] when it has no
// extension.
func NormalizeName(name string) (string, error) {
	if err := errs.ValidateMapName(name); err != nil {
		return "", err
	}
	if filepath.Ext(name) == "" {
		name += Extension
	}
	return name, nil
}

// Open creates the store selected by cfg.Backend.
// Unknown backends fail with INVALID_INPUT.
func Open(ctx context.Context, cfg config.Store) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case config.BackendFile, "":
		return NewFileStore(cfg.Dir)
	case config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendSQLite:
		return NewSQLiteStore(ctx, cfg.SQLitePath)
	case config.BackendRedis:
		return NewRedisStore(ctx, RedisConfig{Addr: cfg.RedisAddr, Prefix: cfg.RedisPrefix})
	case config.BackendMongo:
		return NewMongoStore(ctx, MongoConfig{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
	default:
		return nil, errs.New(errs.ErrCodeInvalidInput, "unknown store backend %q", cfg.Backend)
	}
}

func newInfo(name string, size int, modified time.Time) MapInfo {
	info := MapInfo{Name: name, SizeKB: float64(size) / 1024}
	if !modified.IsZero() {
		info.Modified = modified.Local().Format(ModifiedLayout)
	}
	return info
}

func notFound(name string) error {
	return errs.New(errs.ErrCodeStorageNotFound, "map %q not found", name)
}

func unavailable(err error, format string, args ...any) error {
	return errs.Wrap(errs.ErrCodeStorageUnavailable, err, format, args...)
}
