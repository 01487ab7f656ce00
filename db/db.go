package db

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var MongoClient *mongo.Client
var MongoDatabase *mongo.Database

// GetCollection returns a collection by name
func GetCollection(collectionName string) *mongo.Collection {
	return MongoDatabase.Collection(collectionName)
}

// extractDBName parses the database name from the URI, defaulting to "lumi"
func extractDBName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "lumi"
	}
	if u.Path != "" && u.Path != "/" {
		return u.Path[1:] // Trim leading '/'
	}
	return "lumi"
}

// ConnectMongoDB establishes a connection to MongoDB using the provided URI
func ConnectMongoDB(uri string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Verify connection with a ping
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	MongoClient = client
	dbName := extractDBName(uri)
	log.Printf("Using database: %s", dbName)

	MongoDatabase = client.Database(dbName)
	return nil
}

// EnsureIndexes creates the indexes the query paths depend on:
// leaderboard (xp desc), per-user penalty/PR lookups, unique emails,
// and the overdue-session scan used by the missed-workout sweep.
func EnsureIndexes(ctx context.Context) error {
	users := GetCollection("users")
	if _, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "gamification.xp", Value: -1}},
		},
	}); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	sessions := GetCollection("workout_sessions")
	if _, err := sessions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "scheduledDate", Value: 1}},
	}); err != nil {
		return fmt.Errorf("failed to create session index: %w", err)
	}

	accountability := GetCollection("accountability_records")
	if _, err := accountability.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create accountability index: %w", err)
	}

	records := GetCollection("personal_records")
	if _, err := records.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "achievedAt", Value: -1}},
	}); err != nil {
		return fmt.Errorf("failed to create personal record index: %w", err)
	}

	return nil
}
