package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/amishk599/jobsweep/internal/model"
)

// MongoSink upserts records into a MongoDB collection keyed by url.
type MongoSink struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoSink connects to uri and ensures a unique index on url.
func NewMongoSink(ctx context.Context, uri, database, collection string) (*MongoSink, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	coll := client.Database(database).Collection(collection)
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "url", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := coll.Indexes().CreateOne(ctx, index); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("creating url index: %w", err)
	}

	return &MongoSink{client: client, collection: coll}, nil
}

// Append replaces or inserts every record of the batch in one unordered
// bulk write.
func (s *MongoSink) Append(ctx context.Context, records []model.JobRecord) error {
	if len(records) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(records))
	for _, rec := range records {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"url": rec.URL}).
			SetReplacement(document(ctx, rec)).
			SetUpsert(true))
	}

	if _, err := s.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("writing %d records to mongodb: %w", len(records), err)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoSink) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// document renders rec as a BSON document: the pruned record keys plus the
// run id.
func document(ctx context.Context, rec model.JobRecord) bson.M {
	doc := bson.M{}
	for k, v := range rec.Map() {
		doc[k] = v
	}
	if runID := model.RunIDFromContext(ctx); runID != "" {
		doc["run_id"] = runID
	}
	return doc
}
