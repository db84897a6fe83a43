package common

import (
	"context"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	EnvTestMongoURI = "TEST_MONGO_URI"
	DatabaseName    = "rezerv_test"
)

type MongoHelper struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// NewMongoHelper connects to the Mongo instance named by TEST_MONGO_URI.
// The suite is skipped when the variable is unset or the instance is
// unreachable, so plain unit test runs never depend on infrastructure.
// Approval tests need a replica set for transactions.
func NewMongoHelper(t *testing.T) *MongoHelper {
	t.Helper()

	uri := os.Getenv(EnvTestMongoURI)
	if uri == "" {
		t.Skipf("skipping integration test: %s not set", EnvTestMongoURI)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("skipping integration test: cannot connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Skipf("skipping integration test: cannot ping MongoDB: %v", err)
	}

	return &MongoHelper{
		Client:   client,
		Database: client.Database(DatabaseName),
	}
}

func (m *MongoHelper) DropDatabase(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := m.Database.Drop(ctx); err != nil {
		t.Logf("warning: failed to drop test database: %v", err)
	}
}

func (m *MongoHelper) Close(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.Client.Disconnect(ctx); err != nil {
		t.Logf("warning: failed to disconnect from MongoDB: %v", err)
	}
}
