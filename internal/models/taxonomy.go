package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Taxonomy statuses.
const (
	TaxonomyActive   = "active"
	TaxonomyInactive = "inactive"
)

// Taxonomy is the shared document shape for every lookup collection: makes,
// models, variants, body types, axle configs, fuel types, emission norms,
// transmissions, feature tags, vehicle brands, service center types and
// service types. ParentID is set only for scoped kinds (a model belongs to a
// make, a variant to a model).
type Taxonomy struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Status      string             `bson:"status" json:"status"`
	UsageCount  int64              `bson:"usage_count" json:"usageCount"`
	ParentID    primitive.ObjectID `bson:"parent_id,omitempty" json:"parentId,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// TaxonomyKind describes one lookup collection and its parent scope.
type TaxonomyKind struct {
	// Slug used in routes, e.g. "body-types".
	Slug string
	// Mongo collection name.
	Collection string
	// Human label for messages, e.g. "body type".
	Label string
	// Slug of the parent kind, empty when names are globally unique.
	ParentKind string
}

// TaxonomyKinds lists every lookup collection served by the taxonomy API, in
// route order.
var TaxonomyKinds = []TaxonomyKind{
	{Slug: "makes", Collection: "makes", Label: "make"},
	{Slug: "models", Collection: "vehicle_models", Label: "model", ParentKind: "makes"},
	{Slug: "variants", Collection: "variants", Label: "variant", ParentKind: "models"},
	{Slug: "body-types", Collection: "body_types", Label: "body type"},
	{Slug: "axle-configs", Collection: "axle_configs", Label: "axle configuration"},
	{Slug: "fuel-types", Collection: "fuel_types", Label: "fuel type"},
	{Slug: "emission-norms", Collection: "emission_norms", Label: "emission norm"},
	{Slug: "transmissions", Collection: "transmissions", Label: "transmission"},
	{Slug: "feature-tags", Collection: "feature_tags", Label: "feature tag"},
	{Slug: "vehicle-brands", Collection: "vehicle_brands", Label: "vehicle brand"},
	{Slug: "service-center-types", Collection: "service_center_types", Label: "service center type"},
	{Slug: "service-types", Collection: "service_types", Label: "service type"},
}

// TaxonomyKindBySlug looks up a kind by its route slug.
func TaxonomyKindBySlug(slug string) (TaxonomyKind, bool) {
	for _, k := range TaxonomyKinds {
		if k.Slug == slug {
			return k, true
		}
	}
	return TaxonomyKind{}, false
}
