// internal/app/system/docstore/mongo.go
package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/clubhub/internal/app/system/txn"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Mongo is the MongoDB-backed Store. Document ids are stored as strings;
// generated ids are ObjectID hex strings.
type Mongo struct {
	db  *mongo.Database
	log *zap.Logger
}

// NewMongo wraps a database handle.
func NewMongo(db *mongo.Database, logger *zap.Logger) *Mongo {
	return &Mongo{db: db, log: logger}
}

// Database returns the underlying database handle.
func (s *Mongo) Database() *mongo.Database {
	return s.db
}

func (s *Mongo) Get(ctx context.Context, coll, id string, out any) error {
	err := s.db.Collection(coll).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (s *Mongo) Exists(ctx context.Context, coll, id string) (bool, error) {
	n, err := s.db.Collection(coll).CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Mongo) Set(ctx context.Context, coll, id string, doc any) error {
	m, err := toM(doc)
	if err != nil {
		return err
	}
	m["_id"] = id
	_, err = s.db.Collection(coll).ReplaceOne(ctx, bson.M{"_id": id}, m, options.Replace().SetUpsert(true))
	return err
}

func (s *Mongo) Add(ctx context.Context, coll string, doc any) (string, error) {
	m, err := toM(doc)
	if err != nil {
		return "", err
	}
	id := primitive.NewObjectID().Hex()
	m["_id"] = id
	if _, err := s.db.Collection(coll).InsertOne(ctx, m); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Mongo) Update(ctx context.Context, coll, id string, fields map[string]any) error {
	res, err := s.db.Collection(coll).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Mongo) Delete(ctx context.Context, coll, id string) error {
	_, err := s.db.Collection(coll).DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *Mongo) Query(ctx context.Context, coll string, q Query, out any) error {
	opts := options.Find()
	if len(q.Order) > 0 {
		sort := bson.D{}
		for _, o := range q.Order {
			dir := 1
			if o.Desc {
				dir = -1
			}
			sort = append(sort, bson.E{Key: o.Field, Value: dir})
		}
		opts.SetSort(sort)
	}
	cur, err := s.db.Collection(coll).Find(ctx, filterDoc(q.Filters), opts)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

func (s *Mongo) Count(ctx context.Context, coll string, filters ...Filter) (int64, error) {
	return s.db.Collection(coll).CountDocuments(ctx, filterDoc(filters))
}

// Ping checks that the server is reachable.
func (s *Mongo) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

func (s *Mongo) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	return txn.Run(ctx, s.db, s.log, fn)
}

func filterDoc(filters []Filter) bson.D {
	d := bson.D{}
	for _, f := range filters {
		d = append(d, bson.E{Key: f.Field, Value: f.Value})
	}
	return d
}

// toM converts a tagged struct into a bson.M so the id can be forced.
func toM(doc any) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("docstore: marshal: %w", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("docstore: unmarshal: %w", err)
	}
	return m, nil
}
