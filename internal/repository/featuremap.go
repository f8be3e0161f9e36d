package repository

import (
	"context"
	"time"

	"jammanage-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// FeatureMapRepository manages the vehicle <-> feature tag join collection.
type FeatureMapRepository struct {
	collection *mongo.Collection
}

func NewFeatureMapRepository(db *mongo.Database) *FeatureMapRepository {
	return &FeatureMapRepository{
		collection: db.Collection("vehicle_feature_map"),
	}
}

// Replace drops every association for the vehicle and inserts one row per tag
// id. An empty tagIDs clears the set. Re-applying the same list is a no-op in
// effect, so a failed sync is repaired by retrying the same patch.
func (r *FeatureMapRepository) Replace(ctx context.Context, vehicleID primitive.ObjectID, tagIDs []primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.collection.DeleteMany(ctx, bson.M{"vehicle_id": vehicleID}); err != nil {
		return err
	}

	if len(tagIDs) == 0 {
		return nil
	}

	now := time.Now()
	docs := make([]interface{}, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		docs = append(docs, models.VehicleFeatureMap{
			VehicleID:    vehicleID,
			FeatureTagID: tagID,
			CreatedAt:    now,
		})
	}

	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// TagIDs returns the feature tag ids currently associated with the vehicle.
func (r *FeatureMapRepository) TagIDs(ctx context.Context, vehicleID primitive.ObjectID) ([]primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"vehicle_id": vehicleID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ids []primitive.ObjectID
	for cursor.Next(ctx) {
		var row models.VehicleFeatureMap
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.FeatureTagID)
	}

	return ids, cursor.Err()
}
