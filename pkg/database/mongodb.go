package database

import (
	"context"
	"fmt"
	"time"

	"jammanage-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
	"go.uber.org/zap"
)

// Connect establishes the MongoDB connection and bootstraps the indexes the
// application-level invariants rely on.
func Connect(mongoURI string, log *zap.Logger) (*mongo.Database, error) {
	cs, err := connstring.ParseAndValidate(mongoURI)
	if err != nil {
		return nil, fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	dbName := cs.Database
	if dbName == "" {
		dbName = "jammanage"
	}

	db := client.Database(dbName)
	if err := createIndexes(db); err != nil {
		log.Warn("failed to create indexes", zap.Error(err))
	}

	log.Info("connected to MongoDB", zap.String("database", dbName))
	return db, nil
}

// createIndexes sets up the constraint backstops: the service layer's
// pre-write probes close the common case, the unique indexes close the
// concurrent-writer race.
func createIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	vehicleIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// One published used vehicle per (reg_no, state).
			Keys: bson.D{{Key: "reg_no", Value: 1}, {Key: "state", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.M{
				"condition": models.ConditionUsed,
				"status":    models.StatusPublished,
			}),
		},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "make_id", Value: 1}}},
		{Keys: bson.D{{Key: "model_id", Value: 1}}},
		{Keys: bson.D{{Key: "condition", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "model_year", Value: 1}}},
		{Keys: bson.D{{Key: "asking_price", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	if _, err := db.Collection("vehicles").Indexes().CreateMany(ctx, vehicleIndexes); err != nil {
		return fmt.Errorf("vehicle indexes: %w", err)
	}

	featureMapIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "vehicle_id", Value: 1}, {Key: "feature_tag_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "feature_tag_id", Value: 1}}},
	}
	if _, err := db.Collection("vehicle_feature_map").Indexes().CreateMany(ctx, featureMapIndexes); err != nil {
		return fmt.Errorf("feature map indexes: %w", err)
	}

	// Name uniqueness is scoped to the parent for models and variants; the
	// same compound index works for unscoped kinds because parent_id is
	// simply absent there.
	for _, kind := range models.TaxonomyKinds {
		taxonomyIndexes := []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "parent_id", Value: 1}, {Key: "name", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		}
		if _, err := db.Collection(kind.Collection).Indexes().CreateMany(ctx, taxonomyIndexes); err != nil {
			return fmt.Errorf("%s indexes: %w", kind.Collection, err)
		}
	}

	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}

	serviceCenterIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "type_id", Value: 1}}},
		{Keys: bson.D{{Key: "state", Value: 1}}},
	}
	if _, err := db.Collection("service_centers").Indexes().CreateMany(ctx, serviceCenterIndexes); err != nil {
		return fmt.Errorf("service center indexes: %w", err)
	}

	return nil
}

// Disconnect closes the MongoDB connection.
func Disconnect(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return client.Disconnect(ctx)
}

// Health checks the database connection.
func Health(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return db.Client().Ping(ctx, nil)
}
