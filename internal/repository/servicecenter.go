package repository

import (
	"context"
	"time"

	"jammanage-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ServiceCenterListFilter carries list-endpoint query parameters.
type ServiceCenterListFilter struct {
	Search string
	Status string
	TypeID primitive.ObjectID
	State  string
	Page   int
	Limit  int
}

type ServiceCenterRepository struct {
	collection *mongo.Collection
}

func NewServiceCenterRepository(db *mongo.Database) *ServiceCenterRepository {
	return &ServiceCenterRepository{
		collection: db.Collection("service_centers"),
	}
}

func (r *ServiceCenterRepository) Create(ctx context.Context, center *models.ServiceCenter) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, center)
	if err != nil {
		return err
	}

	center.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *ServiceCenterRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.ServiceCenter, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var center models.ServiceCenter
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&center)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &center, nil
}

func (r *ServiceCenterRepository) List(ctx context.Context, f ServiceCenterListFilter) ([]*models.ServiceCenter, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Search != "" {
		filter["name"] = primitive.Regex{Pattern: regexQuoteMeta(f.Search), Options: "i"}
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if !f.TypeID.IsZero() {
		filter["type_id"] = f.TypeID
	}
	if f.State != "" {
		filter["state"] = f.State
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var centers []*models.ServiceCenter
	for cursor.Next(ctx) {
		var center models.ServiceCenter
		if err := cursor.Decode(&center); err != nil {
			return nil, 0, err
		}
		centers = append(centers, &center)
	}

	return centers, total, cursor.Err()
}

func (r *ServiceCenterRepository) Update(ctx context.Context, id primitive.ObjectID, center *models.ServiceCenter) (*models.ServiceCenter, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	center.ID = id
	center.UpdatedAt = time.Now()

	result := r.collection.FindOneAndReplace(
		ctx,
		bson.M{"_id": id},
		center,
		options.FindOneAndReplace().SetReturnDocument(options.After),
	)

	var updated models.ServiceCenter
	if err := result.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &updated, nil
}

func (r *ServiceCenterRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
