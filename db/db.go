package db

import (
	"context"
	"time"

	"smartkop/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// Store is the backing-store handle. It is constructed once in main and
// passed down explicitly; it is the sole serialization point between
// requests.
type Store struct {
	Client   *mongo.Client
	Users    *mongo.Collection
	Products *mongo.Collection
	Orders   *mongo.Collection
}

// New connects to MongoDB and prepares the collections.
func New(ctx context.Context, cfg config.Config) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	database := client.Database(cfg.MongoDB)
	s := &Store{
		Client:   client,
		Users:    database.Collection("users"),
		Products: database.Collection("products"),
		Orders:   database.Collection("orders"),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// ensureIndexes creates the unique email index that backs duplicate
// registration detection.
func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}
