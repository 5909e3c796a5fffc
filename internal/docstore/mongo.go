package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store over a MongoDB database.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a MongoDB connection and pings it. The returned store
// must be closed at shutdown.
func Connect(ctx context.Context, uri, database string) (*MongoStore, error) {
	if uri == "" {
		return nil, errors.New("docstore: mongodb uri is required")
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("docstore: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("docstore: ping: %w", err)
	}
	return &MongoStore{client: client, db: client.Database(database)}, nil
}

func (s *MongoStore) InsertOne(ctx context.Context, collection string, doc Document) (string, error) {
	res, err := s.db.Collection(collection).InsertOne(ctx, bson.M(doc))
	if err != nil {
		return "", fmt.Errorf("docstore: insert into %s: %w", collection, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}

func (s *MongoStore) FindOne(ctx context.Context, collection string, filter Filter) (Document, error) {
	var doc bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M(filter)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("docstore: find one in %s: %w", collection, err)
	}
	return Document(doc), nil
}

func (s *MongoStore) Find(ctx context.Context, collection string, filter Filter, opts *FindOptions) ([]Document, error) {
	findOpts := options.Find()
	if opts != nil {
		if len(opts.Sort) > 0 {
			sort := bson.D{}
			for _, s := range opts.Sort {
				dir := 1
				if s.Desc {
					dir = -1
				}
				sort = append(sort, bson.E{Key: s.Field, Value: dir})
			}
			findOpts.SetSort(sort)
		}
		if opts.Limit > 0 {
			findOpts.SetLimit(opts.Limit)
		}
	}

	cursor, err := s.db.Collection(collection).Find(ctx, bson.M(filter), findOpts)
	if err != nil {
		return nil, fmt.Errorf("docstore: find in %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var docs []Document
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("docstore: decode from %s: %w", collection, err)
		}
		docs = append(docs, Document(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("docstore: cursor in %s: %w", collection, err)
	}
	return docs, nil
}

func (s *MongoStore) UpdateOne(ctx context.Context, collection string, filter Filter, update Update) (int64, error) {
	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M(filter), bson.M{"$set": bson.M(update)})
	if err != nil {
		return 0, fmt.Errorf("docstore: update one in %s: %w", collection, err)
	}
	// Matched, not modified: a no-op update of an existing document
	// still counts as found.
	return res.MatchedCount, nil
}

func (s *MongoStore) UpdateMany(ctx context.Context, collection string, filter Filter, update Update) (int64, error) {
	res, err := s.db.Collection(collection).UpdateMany(ctx, bson.M(filter), bson.M{"$set": bson.M(update)})
	if err != nil {
		return 0, fmt.Errorf("docstore: update many in %s: %w", collection, err)
	}
	return res.MatchedCount, nil
}

func (s *MongoStore) DeleteOne(ctx context.Context, collection string, filter Filter) (int64, error) {
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M(filter))
	if err != nil {
		return 0, fmt.Errorf("docstore: delete one in %s: %w", collection, err)
	}
	return res.DeletedCount, nil
}

func (s *MongoStore) DeleteMany(ctx context.Context, collection string, filter Filter) (int64, error) {
	res, err := s.db.Collection(collection).DeleteMany(ctx, bson.M(filter))
	if err != nil {
		return 0, fmt.Errorf("docstore: delete many in %s: %w", collection, err)
	}
	return res.DeletedCount, nil
}

// Close releases the connection pool.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
