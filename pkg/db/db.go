package db

import (
	"context"
	"fmt"

	"flairbot/pkg/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client wraps the MongoDB client and the flair assignment collection
type Client struct {
	mongoClient *mongo.Client
	database    *mongo.Database
	collection  *mongo.Collection
}

// NewClient creates a new database client
func NewClient(connectionString, databaseName, collectionName string) *Client {
	clientOptions := options.Client().ApplyURI(connectionString)
	mongoClient, err := mongo.Connect(context.Background(), clientOptions)
	if err != nil {
		// Return client with nil - error will be caught during Connect()
		return &Client{}
	}

	database := mongoClient.Database(databaseName)
	collection := database.Collection(collectionName)

	return &Client{
		mongoClient: mongoClient,
		database:    database,
		collection:  collection,
	}
}

// Connect establishes connection to MongoDB
func (c *Client) Connect(ctx context.Context) error {
	if c.mongoClient == nil {
		return fmt.Errorf("mongo client not initialized")
	}
	return c.mongoClient.Ping(ctx, nil)
}

// Close closes the MongoDB connection
func (c *Client) Close(ctx context.Context) error {
	if c.mongoClient == nil {
		return nil
	}
	return c.mongoClient.Disconnect(ctx)
}

// SaveAssignment saves a flair assignment. Saving the same author twice in one run
// overwrites the earlier record.
func (c *Client) SaveAssignment(ctx context.Context, assignment *domain.FlairAssignment) error {
	if c.collection == nil {
		return fmt.Errorf("collection not initialized")
	}

	filter := bson.M{"run_id": assignment.RunID, "author": assignment.Author}
	update := bson.M{"$set": assignment}
	opts := options.Update().SetUpsert(true)

	_, err := c.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// GetAssignments returns every assignment recorded for author, newest first
func (c *Client) GetAssignments(ctx context.Context, author string) ([]domain.FlairAssignment, error) {
	if c.collection == nil {
		return nil, fmt.Errorf("collection not initialized")
	}

	opts := options.Find().SetSort(bson.D{{Key: "applied_at", Value: -1}})
	cursor, err := c.collection.Find(ctx, bson.M{"author": author}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer cursor.Close(ctx)

	var assignments []domain.FlairAssignment
	if err := cursor.All(ctx, &assignments); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return assignments, nil
}
