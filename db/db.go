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

	"codefolio/models"
)

var MongoClient *mongo.Client
var MongoDatabase *mongo.Database

// GetCollection returns a collection by name
func GetCollection(collectionName string) *mongo.Collection {
	return MongoDatabase.Collection(collectionName)
}

// extractDBName parses the database name from the URI, defaulting to "codefolio"
func extractDBName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "codefolio"
	}
	if u.Path != "" && u.Path != "/" {
		return u.Path[1:] // Trim leading '/'
	}
	return "codefolio"
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

// GetUserByEmail fetches one user record by email.
func GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := MongoDatabase.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("no user found for email: %s", email)
		}
		return nil, err
	}
	return &user, nil
}

// GetPlatformUsernames reads a user's platform-username map. The aggregation
// layer treats this as read-only input.
func GetPlatformUsernames(ctx context.Context, email string) (models.PlatformUsernames, error) {
	user, err := GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.Platforms == nil {
		return models.PlatformUsernames{}, nil
	}
	return user.Platforms, nil
}

// SetPlatformUsername writes or clears one entry of a user's platform map.
func SetPlatformUsername(ctx context.Context, email string, platform models.Platform, username string) error {
	field := fmt.Sprintf("platforms.%s", platform)
	var update bson.M
	if username == "" {
		update = bson.M{"$unset": bson.M{field: ""}, "$set": bson.M{"updatedAt": time.Now().UTC()}}
	} else {
		update = bson.M{"$set": bson.M{field: username, "updatedAt": time.Now().UTC()}}
	}
	_, err := MongoDatabase.Collection("users").UpdateOne(ctx, bson.M{"email": email}, update)
	if err != nil {
		log.Printf("Error updating platform username: %v", err)
		return err
	}
	return nil
}

// SaveMessage appends one direct message.
func SaveMessage(ctx context.Context, msg models.Message) error {
	_, err := MongoDatabase.Collection("messages").InsertOne(ctx, msg)
	if err != nil {
		log.Printf("Error saving message: %v", err)
		return err
	}
	return nil
}

// GetConversation returns the messages exchanged between two users, oldest
// first. Timestamp sort is the only ordering promise.
func GetConversation(ctx context.Context, userA, userB string, limit int64) ([]models.Message, error) {
	filter := bson.M{"$or": []bson.M{
		{"from": userA, "to": userB},
		{"from": userB, "to": userA},
	}}
	opts := options.Find().SetSort(bson.M{"sentAt": 1})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := MongoDatabase.Collection("messages").Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
