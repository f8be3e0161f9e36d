package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServiceCenter is an independent entity, not coupled to the vehicle
// lifecycle. Brands and service types are many-to-many references into their
// taxonomy collections.
type ServiceCenter struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name           string               `bson:"name" json:"name"`
	TypeID         primitive.ObjectID   `bson:"type_id,omitempty" json:"typeId,omitempty"`
	BrandIDs       []primitive.ObjectID `bson:"brand_ids,omitempty" json:"brandIds,omitempty"`
	ServiceTypeIDs []primitive.ObjectID `bson:"service_type_ids,omitempty" json:"serviceTypeIds,omitempty"`
	AddressLine    string               `bson:"address_line,omitempty" json:"addressLine,omitempty"`
	City           string               `bson:"city,omitempty" json:"city,omitempty"`
	State          string               `bson:"state,omitempty" json:"state,omitempty"`
	Pincode        string               `bson:"pincode,omitempty" json:"pincode,omitempty"`
	Phone          string               `bson:"phone,omitempty" json:"phone,omitempty"`
	Email          string               `bson:"email,omitempty" json:"email,omitempty"`
	Status         string               `bson:"status" json:"status"`
	CreatedAt      time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time            `bson:"updated_at" json:"updatedAt"`
}
