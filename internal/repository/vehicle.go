package repository

import (
	"context"
	"errors"
	"time"

	"jammanage-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("not found")

const queryTimeout = 10 * time.Second

// VehicleListFilter carries the list endpoint's query parameters.
type VehicleListFilter struct {
	Search    string
	MakeID    primitive.ObjectID
	ModelID   primitive.ObjectID
	Condition string
	Status    string
	YearMin   int
	YearMax   int
	PriceMin  float64
	PriceMax  float64
	SortBy    string
	SortDir   string
	Page      int
	Limit     int

	// PublishedOnly restricts reads to published, visible records for the
	// public site.
	PublishedOnly bool
}

type VehicleRepository struct {
	collection *mongo.Collection
}

func NewVehicleRepository(db *mongo.Database) *VehicleRepository {
	return &VehicleRepository{
		collection: db.Collection("vehicles"),
	}
}

func (r *VehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, vehicle)
	if err != nil {
		return err
	}

	vehicle.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *VehicleRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var vehicle models.Vehicle
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&vehicle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &vehicle, nil
}

func (r *VehicleRepository) FindBySlug(ctx context.Context, slug string, excludeID primitive.ObjectID) (*models.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{"slug": slug}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}

	var vehicle models.Vehicle
	err := r.collection.FindOne(ctx, filter).Decode(&vehicle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &vehicle, nil
}

// FindPublishedUsedByReg looks for another published, used vehicle carrying
// the same registration number in the same state.
func (r *VehicleRepository) FindPublishedUsedByReg(ctx context.Context, regNo, state string, excludeID primitive.ObjectID) (*models.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{
		"reg_no":    regNo,
		"state":     state,
		"condition": models.ConditionUsed,
		"status":    models.StatusPublished,
	}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}

	var vehicle models.Vehicle
	err := r.collection.FindOne(ctx, filter).Decode(&vehicle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &vehicle, nil
}

// Update replaces the stored document with the merged record and returns what
// was written.
func (r *VehicleRepository) Update(ctx context.Context, id primitive.ObjectID, vehicle *models.Vehicle) (*models.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	vehicle.ID = id
	vehicle.UpdatedAt = time.Now()

	result := r.collection.FindOneAndReplace(
		ctx,
		bson.M{"_id": id},
		vehicle,
		options.FindOneAndReplace().SetReturnDocument(options.After),
	)

	var updated models.Vehicle
	if err := result.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &updated, nil
}

func (r *VehicleRepository) List(ctx context.Context, f VehicleListFilter) ([]*models.Vehicle, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := listFilterQuery(f)

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
		SetSort(listSort(f)).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var vehicles []*models.Vehicle
	for cursor.Next(ctx) {
		var vehicle models.Vehicle
		if err := cursor.Decode(&vehicle); err != nil {
			return nil, 0, err
		}
		vehicles = append(vehicles, &vehicle)
	}

	return vehicles, total, cursor.Err()
}

func listFilterQuery(f VehicleListFilter) bson.M {
	filter := bson.M{}

	if f.PublishedOnly {
		filter["visibility"] = true
		filter["status"] = bson.M{"$in": []string{models.StatusPublished, models.StatusReserved}}
	} else if f.Status != "" {
		filter["status"] = f.Status
	}

	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexQuoteMeta(f.Search), Options: "i"}
		filter["$or"] = []bson.M{
			{"title": pattern},
			{"slug": pattern},
			{"reg_no": pattern},
		}
	}
	if !f.MakeID.IsZero() {
		filter["make_id"] = f.MakeID
	}
	if !f.ModelID.IsZero() {
		filter["model_id"] = f.ModelID
	}
	if f.Condition != "" {
		filter["condition"] = f.Condition
	}

	year := bson.M{}
	if f.YearMin > 0 {
		year["$gte"] = f.YearMin
	}
	if f.YearMax > 0 {
		year["$lte"] = f.YearMax
	}
	if len(year) > 0 {
		filter["model_year"] = year
	}

	price := bson.M{}
	if f.PriceMin > 0 {
		price["$gte"] = f.PriceMin
	}
	if f.PriceMax > 0 {
		price["$lte"] = f.PriceMax
	}
	if len(price) > 0 {
		filter["asking_price"] = price
	}

	return filter
}

// sortFields whitelists sortable columns so callers cannot sort on arbitrary
// document paths.
var sortFields = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"modelYear":   "model_year",
	"askingPrice": "asking_price",
	"title":       "title",
}

func listSort(f VehicleListFilter) bson.D {
	field, ok := sortFields[f.SortBy]
	if !ok {
		field = "created_at"
	}
	dir := -1
	if f.SortDir == "asc" {
		dir = 1
	}
	return bson.D{{Key: field, Value: dir}}
}

// regexQuoteMeta escapes regex metacharacters in user-supplied search text.
func regexQuoteMeta(s string) string {
	const special = `\.+*?()|[]{}^$`
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		for j := 0; j < len(special); j++ {
			if s[i] == special[j] {
				out = append(out, '\\')
				break
			}
		}
		out = append(out, s[i])
	}
	return string(out)
}

// IsDuplicateKey reports whether err is a unique-index violation, the storage
// layer's backstop for the slug and (reg_no, state) invariants.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
