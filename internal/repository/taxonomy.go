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

// TaxonomyListFilter carries list-endpoint query parameters for lookup
// collections.
type TaxonomyListFilter struct {
	Search   string
	Status   string
	ParentID primitive.ObjectID
	Page     int
	Limit    int
}

// TaxonomyRepository serves one lookup collection; one instance exists per
// kind in models.TaxonomyKinds.
type TaxonomyRepository struct {
	collection *mongo.Collection
}

func NewTaxonomyRepository(db *mongo.Database, collection string) *TaxonomyRepository {
	return &TaxonomyRepository{
		collection: db.Collection(collection),
	}
}

func (r *TaxonomyRepository) Create(ctx context.Context, entry *models.Taxonomy) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return err
	}

	entry.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *TaxonomyRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Taxonomy, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var entry models.Taxonomy
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &entry, nil
}

// FindByName probes for a name collision within the parent scope. parentID is
// the zero ObjectID for unscoped kinds.
func (r *TaxonomyRepository) FindByName(ctx context.Context, name string, parentID, excludeID primitive.ObjectID) (*models.Taxonomy, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{"name": name}
	if !parentID.IsZero() {
		filter["parent_id"] = parentID
	}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}

	var entry models.Taxonomy
	err := r.collection.FindOne(ctx, filter).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &entry, nil
}

func (r *TaxonomyRepository) List(ctx context.Context, f TaxonomyListFilter) ([]*models.Taxonomy, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Search != "" {
		filter["name"] = primitive.Regex{Pattern: regexQuoteMeta(f.Search), Options: "i"}
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if !f.ParentID.IsZero() {
		filter["parent_id"] = f.ParentID
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
		limit = 50
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

	var entries []*models.Taxonomy
	for cursor.Next(ctx) {
		var entry models.Taxonomy
		if err := cursor.Decode(&entry); err != nil {
			return nil, 0, err
		}
		entries = append(entries, &entry)
	}

	return entries, total, cursor.Err()
}

func (r *TaxonomyRepository) Update(ctx context.Context, id primitive.ObjectID, entry *models.Taxonomy) (*models.Taxonomy, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":        entry.Name,
		"description": entry.Description,
		"status":      entry.Status,
		"updated_at":  time.Now(),
	}}

	result := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Taxonomy
	if err := result.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &updated, nil
}

func (r *TaxonomyRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
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

// IncrementUsage adjusts the denormalized usage_count by delta. Callers pass
// a negative delta when a reference is dropped.
func (r *TaxonomyRepository) IncrementUsage(ctx context.Context, id primitive.ObjectID, delta int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"usage_count": delta}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
