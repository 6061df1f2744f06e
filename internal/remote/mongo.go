package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"comeback/internal/core"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const trackerCollection = "tracker_data"

// defaultTimeout bounds every remote operation; expiry surfaces as a
// transport failure per the store contract.
const defaultTimeout = 10 * time.Second

// trackerDoc is the stored row: the ledger travels as its JSON text so the
// document codec stays in one place.
type trackerDoc struct {
	UserID    string    `bson:"_id"`
	Data      string    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type MongoStore struct {
	col     *mongo.Collection
	timeout time.Duration
}

var _ Store = (*MongoStore)(nil)
var _ Lister = (*MongoStore)(nil)

// NewMongoStore connects and pings the document database.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect document store: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping document store: %w", err)
	}
	return &MongoStore{
		col:     client.Database(database).Collection(trackerCollection),
		timeout: defaultTimeout,
	}, nil
}

// NewMongoStoreWithCollection wraps an existing collection handle.
func NewMongoStoreWithCollection(col *mongo.Collection) *MongoStore {
	return &MongoStore{col: col, timeout: defaultTimeout}
}

// NewMongoStoreFromDatabase wraps an existing database handle, sharing its
// client with other stores.
func NewMongoStoreFromDatabase(db *mongo.Database) *MongoStore {
	return NewMongoStoreWithCollection(db.Collection(trackerCollection))
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.col.Database().Client().Disconnect(ctx)
}

func (s *MongoStore) Read(ctx context.Context, userID string) (*core.Ledger, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var row trackerDoc
	err := s.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&row)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read remote document for %s: %w", userID, err)
	}
	doc, err := core.DecodeLedger([]byte(row.Data))
	if err != nil {
		return nil, false, fmt.Errorf("decode remote document for %s: %w", userID, err)
	}
	return doc, true, nil
}

func (s *MongoStore) Write(ctx context.Context, userID string, doc *core.Ledger) error {
	data, err := doc.Encode()
	if err != nil {
		return fmt.Errorf("encode remote document for %s: %w", userID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	row := trackerDoc{UserID: userID, Data: string(data), UpdatedAt: time.Now().UTC()}
	_, err = s.col.ReplaceOne(ctx, bson.M{"_id": userID}, row, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert remote document for %s: %w", userID, err)
	}
	return nil
}

// UpdatedSince lists users whose document was written at or after since.
func (s *MongoStore) UpdatedSince(ctx context.Context, since time.Time) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cur, err := s.col.Find(ctx,
		bson.M{"updated_at": bson.M{"$gte": since.UTC()}},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("list updated documents: %w", err)
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var row struct {
			UserID string `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode updated document id: %w", err)
		}
		ids = append(ids, row.UserID)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list updated documents: %w", err)
	}
	return ids, nil
}
