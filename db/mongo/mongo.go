package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"kpslogistics/db"
)

// MongoDB owns the client shared by every Mongo repository.
type MongoDB struct {
	Client *mongo.Client
	URL    string
	Name   string
}

func NewMongoDB(url, name string) *MongoDB {
	return &MongoDB{URL: url, Name: name}
}

func (m *MongoDB) Connect(ctx context.Context) error {
	if m.URL == "" {
		return errors.New("mongo.Connect: MONGO_URL not set")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(m.URL))
	if err != nil {
		return fmt.Errorf("mongo.Connect: %w", err)
	}
	m.Client = client
	return m.Ping(ctx)
}

func (m *MongoDB) Ping(ctx context.Context) error {
	if m.Client == nil {
		return errors.New("mongo.Ping: not connected")
	}
	if err := m.Client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo.Ping: %w", err)
	}
	return nil
}

// Database returns the application database handle.
func (m *MongoDB) Database() *mongo.Database {
	return m.Client.Database(m.Name)
}

func (m *MongoDB) Disconnect() error {
	if m.Client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.Client.Disconnect(ctx)
}

var _ db.DB = (*MongoDB)(nil)
