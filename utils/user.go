package utils

import (
	"context"
	"time"

	"codefolio/db"
	"codefolio/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PopulateTestUsers inserts sample users with linked handles into the database.
// Skips seeding when the collection already has data.
func PopulateTestUsers() {
	collection := db.MongoDatabase.Collection("users")

	count, _ := collection.CountDocuments(context.Background(), bson.M{})
	if count > 0 {
		return
	}

	users := []models.User{
		{
			ID:          primitive.NewObjectID(),
			Email:       "alice@example.com",
			DisplayName: "Alice Johnson",
			Bio:         "Daily grinder, mostly graphs",
			Platforms: models.PlatformUsernames{
				models.PlatformLeetCode:   "alice_j",
				models.PlatformCodeForces: "alicej",
			},
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		{
			ID:          primitive.NewObjectID(),
			Email:       "bob@example.com",
			DisplayName: "Bob Smith",
			Bio:         "Contest regular",
			Platforms: models.PlatformUsernames{
				models.PlatformCodeChef:      "bobsmith",
				models.PlatformGeeksForGeeks: "bobsmith42",
			},
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		{
			ID:          primitive.NewObjectID(),
			Email:       "carol@example.com",
			DisplayName: "Carol Davis",
			Bio:         "Learning DP one wrong answer at a time",
			Platforms:   models.PlatformUsernames{},
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		},
	}

	for _, user := range users {
		collection.InsertOne(context.Background(), user)
	}
}
