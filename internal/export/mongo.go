// internal/export/mongo.go
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/law-makers/headlines/internal/engine"
	"github.com/law-makers/headlines/pkg/models"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSink stores records as documents in a MongoDB collection
type MongoSink struct {
	client     *mongo.Client
	collection *mongo.Collection
	count      int
}

// NewMongoSink connects to uri and verifies the server is reachable
func NewMongoSink(ctx context.Context, uri, database, collection string) (*MongoSink, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	return &MongoSink{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

// Store inserts one document per record. An empty set is an ExportError.
func (s *MongoSink) Store(ctx context.Context, records []models.Record) (int, error) {
	target := "mongodb://" + s.collection.Database().Name() + "/" + s.collection.Name()
	if len(records) == 0 {
		return 0, engine.NewExportError(target, engine.ErrNoData)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	res, err := s.collection.InsertMany(ctx, toDocuments(records))
	if err != nil {
		return 0, engine.NewExportError(target, fmt.Errorf("mongodb insert: %w", err))
	}

	s.count += len(res.InsertedIDs)
	log.Info().Str("target", target).Int("records", len(res.InsertedIDs)).Int("total", s.count).Msg("Records stored")
	return len(res.InsertedIDs), nil
}

// Close disconnects from the server
func (s *MongoSink) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// toDocuments keeps field order and stores scraped_at as a BSON date
func toDocuments(records []models.Record) []any {
	docs := make([]any, len(records))
	for i, r := range records {
		doc := make(bson.D, 0, len(r.Fields)+2)
		for _, f := range r.Fields {
			var v any
			if f.Value != nil {
				v = *f.Value
			}
			doc = append(doc, bson.E{Key: f.Name, Value: v})
		}
		doc = append(doc,
			bson.E{Key: models.FieldSource, Value: r.Source},
			bson.E{Key: models.FieldScrapedAt, Value: r.ScrapedAt},
		)
		docs[i] = doc
	}
	return docs
}
