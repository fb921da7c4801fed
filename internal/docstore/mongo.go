// Aerys - Location Tracking and Map Layer Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aerys

package docstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tomtom215/aerys/internal/metrics"
)

// DefaultObjectIDFields are stored as native ObjectIDs in MongoDB and
// exposed as hex strings to callers.
var DefaultObjectIDFields = []string{IDField, "layer_id"}

// MongoOptions configures OpenMongo.
type MongoOptions struct {
	URI      string
	Database string
	Timeout  time.Duration

	// ObjectIDFields defaults to DefaultObjectIDFields.
	ObjectIDFields []string
}

// MongoStore implements Store on a MongoDB database.
type MongoStore struct {
	client   *mongo.Client
	db       *mongo.Database
	timeout  time.Duration
	oidField map[string]bool
}

// OpenMongo connects to MongoDB and verifies the connection with a ping.
func OpenMongo(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	clientOpts := options.Client().
		ApplyURI(opts.URI).
		SetServerSelectionTimeout(opts.Timeout).
		SetConnectTimeout(opts.Timeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	s := NewMongoStore(client, opts.Database, opts.ObjectIDFields)
	s.timeout = opts.Timeout

	if err := s.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// NewMongoStore wraps an existing client.
func NewMongoStore(client *mongo.Client, database string, objectIDFields []string) *MongoStore {
	if len(objectIDFields) == 0 {
		objectIDFields = DefaultObjectIDFields
	}
	fields := make(map[string]bool, len(objectIDFields))
	for _, f := range objectIDFields {
		fields[f] = true
	}
	return &MongoStore{
		client:   client,
		db:       client.Database(database),
		timeout:  10 * time.Second,
		oidField: fields,
	}
}

func (s *MongoStore) observe(op, collection string, start time.Time, err error) {
	metrics.RecordStoreOperation("mongo", op, collection, time.Since(start), err)
}

func (s *MongoStore) InsertOne(ctx context.Context, collection string, doc Document) (id string, err error) {
	defer func(start time.Time) { s.observe("insert_one", collection, start, err) }(time.Now())

	bdoc := s.toBSON(doc)
	if _, ok := bdoc[IDField]; !ok {
		bdoc[IDField] = primitive.NewObjectID()
	}

	res, err := s.db.Collection(collection).InsertOne(ctx, bdoc)
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	switch v := res.InsertedID.(type) {
	case primitive.ObjectID:
		return v.Hex(), nil
	case string:
		return v, nil
	default:
		return fmt.Sprint(v), nil
	}
}

func (s *MongoStore) Find(ctx context.Context, collection string, filter Filter) (docs []Document, err error) {
	defer func(start time.Time) { s.observe("find", collection, start, err) }(time.Now())

	cursor, err := s.db.Collection(collection).Find(ctx, s.toBSON(Document(filter)))
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}
	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", collection, err)
	}

	docs = make([]Document, 0, len(raw))
	for _, m := range raw {
		docs = append(docs, fromBSONDocument(m))
	}
	return docs, nil
}

func (s *MongoStore) FindOne(ctx context.Context, collection string, filter Filter) (doc Document, err error) {
	defer func(start time.Time) { s.observe("find_one", collection, start, err) }(time.Now())

	var m bson.M
	err = s.db.Collection(collection).FindOne(ctx, s.toBSON(Document(filter))).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find one in %s: %w", collection, err)
	}
	return fromBSONDocument(m), nil
}

func (s *MongoStore) UpdateOne(ctx context.Context, collection string, filter Filter, set Document) (res UpdateResult, err error) {
	defer func(start time.Time) { s.observe("update_one", collection, start, err) }(time.Now())

	if _, ok := set[IDField]; ok {
		return UpdateResult{}, fmt.Errorf("update of %s is not allowed", IDField)
	}
	update := bson.M{"$set": s.toBSON(set)}

	r, err := s.db.Collection(collection).UpdateOne(ctx, s.toBSON(Document(filter)), update)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("update in %s: %w", collection, err)
	}
	return UpdateResult{MatchedCount: r.MatchedCount, ModifiedCount: r.ModifiedCount}, nil
}

func (s *MongoStore) DeleteOne(ctx context.Context, collection string, filter Filter) (deleted int64, err error) {
	defer func(start time.Time) { s.observe("delete_one", collection, start, err) }(time.Now())

	r, err := s.db.Collection(collection).DeleteOne(ctx, s.toBSON(Document(filter)))
	if err != nil {
		return 0, fmt.Errorf("delete in %s: %w", collection, err)
	}
	return r.DeletedCount, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping mongodb: %w", err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// toBSON copies doc, converting hex strings in ObjectID fields to
// primitive.ObjectID. Strings that are not valid ObjectIDs are kept as-is.
func (s *MongoStore) toBSON(doc Document) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		if str, ok := v.(string); ok && s.oidField[k] {
			if oid, err := primitive.ObjectIDFromHex(str); err == nil {
				out[k] = oid
				continue
			}
		}
		out[k] = toBSONValue(v)
	}
	return out
}

// toBSONValue replaces json.Number values, which BSON would store as
// strings, with int64 when the number is integral and in range, else float64.
func toBSONValue(v interface{}) interface{} {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[k] = toBSONValue(e)
		}
		return out
	case Document:
		return toBSONValue(map[string]interface{}(t))
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = toBSONValue(e)
		}
		return out
	default:
		return v
	}
}

func fromBSONDocument(m bson.M) Document {
	doc := make(Document, len(m))
	for k, v := range m {
		doc[k] = fromBSON(v)
	}
	return doc
}

// fromBSON maps decoded BSON values onto the JSON types Document promises.
func fromBSON(v interface{}) interface{} {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case bson.M:
		return map[string]interface{}(fromBSONDocument(t))
	case map[string]interface{}:
		return map[string]interface{}(fromBSONDocument(bson.M(t)))
	case bson.D:
		out := make(map[string]interface{}, len(t))
		for _, e := range t {
			out[e.Key] = fromBSON(e.Value)
		}
		return out
	case bson.A:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = fromBSON(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = fromBSON(e)
		}
		return out
	case int32:
		return json.Number(strconv.FormatInt(int64(t), 10))
	case int64:
		return json.Number(strconv.FormatInt(t, 10))
	case int:
		return json.Number(strconv.Itoa(t))
	case primitive.DateTime:
		return t.Time().UTC().Format(time.RFC3339Nano)
	case primitive.Decimal128:
		return t.String()
	case primitive.Null, primitive.Undefined:
		return nil
	default:
		return v
	}
}
