package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mapio "github.com/matzehuels/wayfinder/pkg/io"
	"github.com/matzehuels/wayfinder/pkg/world"
)

// MongoCollection is the collection holding one document per map.
const MongoCollection = "maps"

// MongoConfig configures [NewMongoStore].
type MongoConfig struct {
	URI      string
	Database string
}

// MongoStore keeps maps in a MongoDB collection. The map name is the
// document _id and the JSON map is stored verbatim as a string, so the
// bytes round-trip exactly.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

type mongoRecord struct {
	Name      string    `bson:"_id"`
	Document  string    `bson:"document"`
	Revision  string    `bson:"revision"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, unavailable(err, "connect to mongo at %s", cfg.URI)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, unavailable(err, "connect to mongo at %s", cfg.URI)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(MongoCollection),
		now:    time.Now,
	}, nil
}

// Save upserts the record for name.
func (s *MongoStore) Save(ctx context.Context, name string, snap world.Snapshot) error {
	name, err := NormalizeName(name)
	if err != nil {
		return err
	}
	data, err := mapio.Marshal(snap)
	if err != nil {
		return err
	}
	rec := mongoRecord{
		Name:      name,
		Document:  string(data),
		Revision:  uuid.NewString(),
		UpdatedAt: s.now().UTC(),
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": name}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return unavailable(err, "save map %q", name)
	}
	return nil
}

// Load reads and decodes the record for name.
func (s *MongoStore) Load(ctx context.Context, name string) (world.Snapshot, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return world.Snapshot{}, err
	}
	var rec mongoRecord
	err = s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return world.Snapshot{}, notFound(name)
	}
	if err != nil {
		return world.Snapshot{}, unavailable(err, "load map %q", name)
	}
	return mapio.Unmarshal([]byte(rec.Document))
}

// List returns every stored map sorted by name.
func (s *MongoStore) List(ctx context.Context) ([]MapInfo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, unavailable(err, "list maps")
	}
	var recs []mongoRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, unavailable(err, "list maps")
	}
	maps := make([]MapInfo, 0, len(recs))
	for _, rec := range recs {
		maps = append(maps, newInfo(rec.Name, len(rec.Document), rec.UpdatedAt))
	}
	return maps, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
