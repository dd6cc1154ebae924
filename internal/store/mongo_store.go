package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// mongoUnauthorized is the server error code for authorization failures.
const mongoUnauthorized = 13

// MongoStore keeps each collection in a MongoDB collection of the same name.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// ConnectMongo dials MongoDB and verifies the connection.
func ConnectMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{client: client, db: client.Database(database)}, nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Create inserts a new document under a generated id.
func (s *MongoStore) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	id := uuid.NewString()
	doc := bson.M{}
	for key, value := range fields {
		doc[key] = value
	}
	doc["_id"] = id
	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return "", wrapErr("create", collection, "", classifyMongoErr(err))
	}
	return id, nil
}

// Get fetches a document by id.
func (s *MongoStore) Get(ctx context.Context, collection, id string) (Record, error) {
	var doc bson.M
	if err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return Record{}, wrapErr("get", collection, id, classifyMongoErr(err))
	}
	return mongoRecord(doc), nil
}

// List returns the documents of a collection using the server-side sort.
func (s *MongoStore) List(ctx context.Context, collection string, order ...Order) ([]Record, error) {
	opts := options.Find()
	if len(order) > 0 {
		sort := bson.D{}
		for _, o := range order {
			direction := 1
			if o.Desc {
				direction = -1
			}
			sort = append(sort, bson.E{Key: o.Field, Value: direction})
		}
		opts.SetSort(sort)
	}

	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, wrapErr("list", collection, "", classifyMongoErr(err))
	}
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, wrapErr("list", collection, "", classifyMongoErr(err))
	}

	records := make([]Record, 0, len(docs))
	for _, doc := range docs {
		records = append(records, mongoRecord(doc))
	}
	return records, nil
}

// Update merges partial into the stored document with $set.
func (s *MongoStore) Update(ctx context.Context, collection, id string, partial Fields) error {
	set := bson.M{}
	for key, value := range partial {
		if key == "_id" {
			continue
		}
		set[key] = value
	}
	if len(set) == 0 {
		_, err := s.Get(ctx, collection, id)
		return err
	}
	result, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return wrapErr("update", collection, id, classifyMongoErr(err))
	}
	if result.MatchedCount == 0 {
		return wrapErr("update", collection, id, ErrNotFound)
	}
	return nil
}

// Set replaces the document, creating it when it does not exist yet.
func (s *MongoStore) Set(ctx context.Context, collection, id string, fields Fields) error {
	doc := bson.M{}
	for key, value := range fields {
		doc[key] = value
	}
	doc["_id"] = id
	_, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	return wrapErr("set", collection, id, classifyMongoErr(err))
}

// Delete removes a document.
func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	result, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrapErr("delete", collection, id, classifyMongoErr(err))
	}
	if result.DeletedCount == 0 {
		return wrapErr("delete", collection, id, ErrNotFound)
	}
	return nil
}

func classifyMongoErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) && serverErr.HasErrorCode(mongoUnauthorized) {
		return errors.Join(ErrPermissionDenied, err)
	}
	return err
}

func mongoRecord(doc bson.M) Record {
	id, _ := doc["_id"].(string)
	fields := make(Fields, len(doc))
	for key, value := range doc {
		if key == "_id" {
			continue
		}
		fields[key] = normalizeBSON(value)
	}
	return Record{ID: id, Fields: fields}
}

// normalizeBSON converts driver-specific values into plain Go values so the
// services can decode them the same way as sqlite documents.
func normalizeBSON(value any) any {
	switch v := value.(type) {
	case bson.DateTime:
		return v.Time().UTC()
	case bson.M:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = normalizeBSON(item)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(v))
		for _, elem := range v {
			out[elem.Key] = normalizeBSON(elem.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeBSON(item)
		}
		return out
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	}
	return value
}
