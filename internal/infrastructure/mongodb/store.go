// Package mongodb is the MongoDB docstore backend. Each docstore
// collection maps to one MongoDB collection; document ids live in _id.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/docstore"
)

var naturalOrder = bson.D{{Key: "$natural", Value: 1}}

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials uri and pings the primary.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb: connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb: ping: %w", err)
	}
	return &Store{client: client, db: client.Database(database)}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Collection(name string) docstore.Collection {
	return &collection{c: s.db.Collection(name)}
}

// WithinTx runs fn in a multi-document transaction. The server must be a
// replica set or sharded cluster.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx docstore.Store) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("mongodb: start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, s)
	})
	return err
}

// EnsureUnique creates a unique index on field in the named collection.
func (s *Store) EnsureUnique(ctx context.Context, collection, field string) error {
	_, err := s.db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongodb: index %s.%s: %w", collection, field, err)
	}
	return nil
}

type collection struct {
	c *mongo.Collection
}

func (c *collection) FindByID(ctx context.Context, id string, out any) error {
	return c.findOne(ctx, bson.M{"_id": id}, out)
}

func (c *collection) FindByIDs(ctx context.Context, ids []string, out any) error {
	return c.findAll(ctx, bson.M{"_id": bson.M{"$in": ids}}, out)
}

func (c *collection) FindOne(ctx context.Context, filter docstore.Filter, out any) error {
	return c.findOne(ctx, toBSON(filter), out)
}

func (c *collection) FindMany(ctx context.Context, filter docstore.Filter, out any) error {
	return c.findAll(ctx, toBSON(filter), out)
}

func (c *collection) Insert(ctx context.Context, id string, doc any) error {
	_, err := c.c.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return docstore.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("mongodb: insert %s/%s: %w", c.c.Name(), id, err)
	}
	return nil
}

func (c *collection) Replace(ctx context.Context, id string, expectedVersion int64, doc any) error {
	res, err := c.c.ReplaceOne(ctx, bson.M{"_id": id, "version": expectedVersion}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return docstore.ErrDuplicate
		}
		return fmt.Errorf("mongodb: replace %s/%s: %w", c.c.Name(), id, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	n, err := c.c.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongodb: replace %s/%s: %w", c.c.Name(), id, err)
	}
	if n == 0 {
		return docstore.ErrNotFound
	}
	return docstore.ErrConflict
}

func (c *collection) DeleteByID(ctx context.Context, id string) error {
	return c.deleteOne(ctx, bson.M{"_id": id})
}

func (c *collection) DeleteOne(ctx context.Context, filter docstore.Filter) error {
	return c.deleteOne(ctx, toBSON(filter))
}

func (c *collection) findOne(ctx context.Context, filter bson.M, out any) error {
	err := c.c.FindOne(ctx, filter, options.FindOne().SetSort(naturalOrder)).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return docstore.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("mongodb: find in %s: %w", c.c.Name(), err)
	}
	return nil
}

func (c *collection) findAll(ctx context.Context, filter bson.M, out any) error {
	cur, err := c.c.Find(ctx, filter, options.Find().SetSort(naturalOrder))
	if err != nil {
		return fmt.Errorf("mongodb: find in %s: %w", c.c.Name(), err)
	}
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("mongodb: decode %s: %w", c.c.Name(), err)
	}
	return nil
}

func (c *collection) deleteOne(ctx context.Context, filter bson.M) error {
	res, err := c.c.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("mongodb: delete from %s: %w", c.c.Name(), err)
	}
	if res.DeletedCount == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func toBSON(filter docstore.Filter) bson.M {
	out := make(bson.M, len(filter))
	for k, v := range filter {
		out[k] = v
	}
	return out
}
