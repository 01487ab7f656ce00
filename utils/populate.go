package utils

import (
	"context"
	"log"
	"time"

	"lumi/db"
	"lumi/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PopulateTestUsers inserts sample users into the database for local
// development. Duplicate-email failures are ignored on re-runs.
func PopulateTestUsers() {
	collection := db.GetCollection("users")

	hash, err := HashPassword("password123")
	if err != nil {
		log.Printf("Failed to hash seed password: %v", err)
		return
	}

	users := []models.User{
		{
			ID:           primitive.NewObjectID(),
			Email:        "alice@example.com",
			PasswordHash: hash,
			DisplayName:  "Alice Johnson",
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		},
		{
			ID:           primitive.NewObjectID(),
			Email:        "bob@example.com",
			PasswordHash: hash,
			DisplayName:  "Bob Smith",
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		},
		{
			ID:           primitive.NewObjectID(),
			Email:        "carol@example.com",
			PasswordHash: hash,
			DisplayName:  "Carol Davis",
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		},
	}

	for _, user := range users {
		collection.InsertOne(context.Background(), user)
	}
}
