// Package mongo implements the auth store on a MongoDB users collection.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tabkeep/authd/internal/auth/store"
)

const usersCollection = "users"

type Store struct {
	client *mongo.Client
	db     *mongo.Database
	users  *usersRepo
}

// NewStore connects to the given MongoDB URI and binds to dbName.
func NewStore(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}

	db := client.Database(dbName)
	return &Store{
		client: client,
		db:     db,
		users:  &usersRepo{coll: db.Collection(usersCollection)},
	}, nil
}

func (s *Store) Users() store.Users { return s.users }

// EnsureIndexes creates the unique email index. The store relies on this
// index, not application-level checks, to win signup races for the same
// email.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongo: create email index: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
