package database

import (
	"context"
	"time"

	"earning-bot/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection       = "users"
	withdrawalsCollection = "withdrawals"
)

// Mongo holds the client and the bot database.
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// ConnectMongo establishes a pooled connection and verifies it with a ping.
func ConnectMongo(ctx context.Context, uri, dbName string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(100).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(30 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetTimeout(15 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("✅ connected to MongoDB", "db", dbName)
	return &Mongo{Client: client, DB: client.Database(dbName)}, nil
}

// Disconnect closes the connection gracefully.
func (m *Mongo) Disconnect() error {
	if m == nil || m.Client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return m.Client.Disconnect(ctx)
}

func (m *Mongo) Users() *mongo.Collection {
	return m.DB.Collection(usersCollection)
}

func (m *Mongo) Withdrawals() *mongo.Collection {
	return m.DB.Collection(withdrawalsCollection)
}

// HealthCheck verifies the connection is alive.
func (m *Mongo) HealthCheck(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return mongo.ErrClientDisconnected
	}
	return m.Client.Ping(ctx, nil)
}
