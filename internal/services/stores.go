package services

import (
	"context"

	"jammanage-backend/internal/models"
	"jammanage-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store interfaces decouple services from Mongo so tests can run against
// in-memory fakes. The repository package provides the real implementations.

type VehicleStore interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error)
	FindBySlug(ctx context.Context, slug string, excludeID primitive.ObjectID) (*models.Vehicle, error)
	FindPublishedUsedByReg(ctx context.Context, regNo, state string, excludeID primitive.ObjectID) (*models.Vehicle, error)
	Update(ctx context.Context, id primitive.ObjectID, vehicle *models.Vehicle) (*models.Vehicle, error)
	List(ctx context.Context, f repository.VehicleListFilter) ([]*models.Vehicle, int64, error)
}

type TaxonomyStore interface {
	Create(ctx context.Context, entry *models.Taxonomy) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Taxonomy, error)
	FindByName(ctx context.Context, name string, parentID, excludeID primitive.ObjectID) (*models.Taxonomy, error)
	List(ctx context.Context, f repository.TaxonomyListFilter) ([]*models.Taxonomy, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, entry *models.Taxonomy) (*models.Taxonomy, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	IncrementUsage(ctx context.Context, id primitive.ObjectID, delta int64) error
}

type FeatureMapStore interface {
	Replace(ctx context.Context, vehicleID primitive.ObjectID, tagIDs []primitive.ObjectID) error
	TagIDs(ctx context.Context, vehicleID primitive.ObjectID) ([]primitive.ObjectID, error)
}

type ServiceCenterStore interface {
	Create(ctx context.Context, center *models.ServiceCenter) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.ServiceCenter, error)
	List(ctx context.Context, f repository.ServiceCenterListFilter) ([]*models.ServiceCenter, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, center *models.ServiceCenter) (*models.ServiceCenter, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAll(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ListingCache invalidates cached public listings after writes. pkg/cache
// provides the Redis-backed implementation; a nil cache is skipped.
type ListingCache interface {
	InvalidateVehicle(id string) error
	InvalidateListings() error
}
