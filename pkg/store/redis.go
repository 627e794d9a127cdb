package store

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	mapio "github.com/matzehuels/wayfinder/pkg/io"
	"github.com/matzehuels/wayfinder/pkg/world"
)

// RedisConfig configures [NewRedisStore].
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // key prefix, e.g. "wayfinder:"
}

// RedisStore keeps maps in Redis.
//
// Layout:
//   - <prefix>map:<name>  string holding the JSON document
//   - <prefix>maps        hash of name -> metadata JSON, used by List
//
// Both keys are written in one MULTI/EXEC transaction.
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

type redisMeta struct {
	Size      int       `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
	Revision  string    `json:"revision"`
}

// NewRedisStore connects to Redis and verifies the connection with PING.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, unavailable(err, "connect to redis at %s", cfg.Addr)
	}
	return newRedisStore(client, cfg.Prefix), nil
}

func newRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

func (s *RedisStore) docKey(name string) string { return s.prefix + "map:" + name }
func (s *RedisStore) indexKey() string          { return s.prefix + "maps" }

// Save writes the document and its index entry.
func (s *RedisStore) Save(ctx context.Context, name string, snap world.Snapshot) error {
	name, err := NormalizeName(name)
	if err != nil {
		return err
	}
	data, err := mapio.Marshal(snap)
	if err != nil {
		return err
	}
	meta, err := json.Marshal(redisMeta{Size: len(data), UpdatedAt: s.now().UTC(), Revision: uuid.NewString()})
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.docKey(name), data, 0)
		pipe.HSet(ctx, s.indexKey(), name, meta)
		return nil
	})
	if err != nil {
		return unavailable(err, "save map %q", name)
	}
	return nil
}

// Load reads and decodes the document for name.
func (s *RedisStore) Load(ctx context.Context, name string) (world.Snapshot, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return world.Snapshot{}, err
	}
	data, err := s.client.Get(ctx, s.docKey(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return world.Snapshot{}, notFound(name)
	}
	if err != nil {
		return world.Snapshot{}, unavailable(err, "load map %q", name)
	}
	return mapio.Unmarshal(data)
}

// List reads the index hash. Entries with unreadable metadata are listed
// by name only.
func (s *RedisStore) List(ctx context.Context) ([]MapInfo, error) {
	index, err := s.client.HGetAll(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, unavailable(err, "list maps")
	}
	maps := make([]MapInfo, 0, len(index))
	for name, raw := range index {
		maps = append(maps, redisInfo(name, raw))
	}
	slices.SortFunc(maps, func(a, b MapInfo) int { return strings.Compare(a.Name, b.Name) })
	return maps, nil
}

// redisInfo builds the listing entry for one index field.
func redisInfo(name, raw string) MapInfo {
	var meta redisMeta
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return MapInfo{Name: name}
	}
	return newInfo(name, meta.Size, meta.UpdatedAt)
}

// Close closes the Redis client.
func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
