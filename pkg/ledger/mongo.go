package ledger

import (
	"context"
	stderrors "errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/onlyonestudio/onlyone/pkg/errors"
)

// MongoStore keeps the ledger in a MongoDB collection, for teams running
// the pipeline from more than one machine against a shared drop.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// MongoConfig configures the connection.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// NewMongoStore connects and ensures the slug uniqueness index.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Collection == "" {
		cfg.Collection = "products"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connecting to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "pinging mongodb")
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "creating slug index")
	}

	return &MongoStore{client: client, collection: coll}, nil
}

// Create inserts a new entry. The unique index turns duplicate slugs into
// an invalid-input error.
func (s *MongoStore) Create(ctx context.Context, e *Entry) error {
	_, err := s.collection.InsertOne(ctx, e)
	if mongo.IsDuplicateKeyError(err) {
		return errors.New(errors.ErrCodeInvalidInput, "entry already exists for slug %q", e.Slug)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "inserting entry %q", e.Slug)
	}
	return nil
}

// Get returns one entry by slug.
func (s *MongoStore) Get(ctx context.Context, slug string) (*Entry, error) {
	var e Entry
	err := s.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&e)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeEntryNotFound, "no entry for slug %q", slug)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetching entry %q", slug)
	}
	return &e, nil
}

// Update replaces an existing entry.
func (s *MongoStore) Update(ctx context.Context, e *Entry) error {
	res, err := s.collection.ReplaceOne(ctx, bson.M{"slug": e.Slug}, e)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "updating entry %q", e.Slug)
	}
	if res.MatchedCount == 0 {
		return errors.New(errors.ErrCodeEntryNotFound, "no entry for slug %q", e.Slug)
	}
	return nil
}

// List returns all entries ordered by insertion time.
func (s *MongoStore) List(ctx context.Context) ([]*Entry, error) {
	cur, err := s.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "listing entries")
	}
	defer cur.Close(ctx)

	var out []*Entry
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "decoding entries")
	}
	return out, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
