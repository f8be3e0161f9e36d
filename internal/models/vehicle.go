package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vehicle lifecycle statuses.
const (
	StatusDraft         = "draft"
	StatusPendingReview = "pending_review"
	StatusPublished     = "published"
	StatusReserved      = "reserved"
	StatusSold          = "sold"
	StatusArchived      = "archived"
)

// Vehicle conditions.
const (
	ConditionNew  = "new"
	ConditionUsed = "used"
)

type Vehicle struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Slug  string             `bson:"slug" json:"slug"`
	Title string             `bson:"title" json:"title"`

	// Classification
	Condition      string             `bson:"condition" json:"condition"`
	MakeID         primitive.ObjectID `bson:"make_id,omitempty" json:"makeId,omitempty"`
	ModelID        primitive.ObjectID `bson:"model_id,omitempty" json:"modelId,omitempty"`
	VariantID      primitive.ObjectID `bson:"variant_id,omitempty" json:"variantId,omitempty"`
	BodyTypeID     primitive.ObjectID `bson:"body_type_id,omitempty" json:"bodyTypeId,omitempty"`
	AxleConfigID   primitive.ObjectID `bson:"axle_config_id,omitempty" json:"axleConfigId,omitempty"`
	FuelTypeID     primitive.ObjectID `bson:"fuel_type_id,omitempty" json:"fuelTypeId,omitempty"`
	EmissionNormID primitive.ObjectID `bson:"emission_norm_id,omitempty" json:"emissionNormId,omitempty"`
	TransmissionID primitive.ObjectID `bson:"transmission_id,omitempty" json:"transmissionId,omitempty"`
	ModelYear      int                `bson:"model_year" json:"modelYear"`

	// Dimensions (mm unless noted, weights in kg)
	WheelbaseMM      float64 `bson:"wheelbase_mm,omitempty" json:"wheelbaseMm,omitempty"`
	GVWKg            float64 `bson:"gvw_kg,omitempty" json:"gvwKg,omitempty"`
	GCWKg            float64 `bson:"gcw_kg,omitempty" json:"gcwKg,omitempty"`
	PayloadKg        float64 `bson:"payload_kg,omitempty" json:"payloadKg,omitempty"`
	OverallLengthMM  float64 `bson:"overall_length_mm,omitempty" json:"overallLengthMm,omitempty"`
	OverallWidthMM   float64 `bson:"overall_width_mm,omitempty" json:"overallWidthMm,omitempty"`
	OverallHeightMM  float64 `bson:"overall_height_mm,omitempty" json:"overallHeightMm,omitempty"`
	LoadBodyLengthMM float64 `bson:"load_body_length_mm,omitempty" json:"loadBodyLengthMm,omitempty"`
	LoadBodyWidthMM  float64 `bson:"load_body_width_mm,omitempty" json:"loadBodyWidthMm,omitempty"`
	LoadBodyHeightMM float64 `bson:"load_body_height_mm,omitempty" json:"loadBodyHeightMm,omitempty"`
	TurningRadiusMM  float64 `bson:"turning_radius_mm,omitempty" json:"turningRadiusMm,omitempty"`

	// Engine / drivetrain
	EngineCC        int     `bson:"engine_cc,omitempty" json:"engineCc,omitempty"`
	PowerHP         float64 `bson:"power_hp,omitempty" json:"powerHp,omitempty"`
	PowerKW         float64 `bson:"power_kw,omitempty" json:"powerKw,omitempty"`
	TorqueNM        float64 `bson:"torque_nm,omitempty" json:"torqueNm,omitempty"`
	GearCount       int     `bson:"gear_count,omitempty" json:"gearCount,omitempty"`
	FinalDriveRatio float64 `bson:"final_drive_ratio,omitempty" json:"finalDriveRatio,omitempty"`

	// Commercial. VendorPrice and TargetMargin are internal and must never
	// appear on the public site; PublicView strips them.
	AskingPrice      float64 `bson:"asking_price,omitempty" json:"askingPrice,omitempty"`
	Negotiable       bool    `bson:"negotiable" json:"negotiable"`
	FinanceAvailable bool    `bson:"finance_available" json:"financeAvailable"`
	GSTSlab          string  `bson:"gst_slab,omitempty" json:"gstSlab,omitempty"`
	VendorPrice      float64 `bson:"vendor_price,omitempty" json:"vendorPrice,omitempty"`
	TargetMargin     float64 `bson:"target_margin,omitempty" json:"targetMargin,omitempty"`

	// Location / contact
	City          string  `bson:"city,omitempty" json:"city,omitempty"`
	State         string  `bson:"state,omitempty" json:"state,omitempty"`
	Pincode       string  `bson:"pincode,omitempty" json:"pincode,omitempty"`
	Lat           float64 `bson:"lat,omitempty" json:"lat,omitempty"`
	Lng           float64 `bson:"lng,omitempty" json:"lng,omitempty"`
	ContactPhone  string  `bson:"contact_phone,omitempty" json:"contactPhone,omitempty"`
	WhatsAppPhone string  `bson:"whatsapp_phone,omitempty" json:"whatsappPhone,omitempty"`

	// Used-vehicle registration and compliance
	RegNo             string     `bson:"reg_no,omitempty" json:"regNo,omitempty"`
	RegDate           *time.Time `bson:"reg_date,omitempty" json:"regDate,omitempty"`
	OwnershipCount    int        `bson:"ownership_count,omitempty" json:"ownershipCount,omitempty"`
	InsuranceType     string     `bson:"insurance_type,omitempty" json:"insuranceType,omitempty"`
	InsuranceExpiry   *time.Time `bson:"insurance_expiry,omitempty" json:"insuranceExpiry,omitempty"`
	FitnessExpiry     *time.Time `bson:"fitness_expiry,omitempty" json:"fitnessExpiry,omitempty"`
	PUCExpiry         *time.Time `bson:"puc_expiry,omitempty" json:"pucExpiry,omitempty"`
	PermitStates      []string   `bson:"permit_states,omitempty" json:"permitStates,omitempty"`
	HypothecationBank string     `bson:"hypothecation_bank,omitempty" json:"hypothecationBank,omitempty"`

	// Media / SEO
	CoverURL        string   `bson:"cover_url,omitempty" json:"coverUrl,omitempty"`
	Gallery         []string `bson:"gallery,omitempty" json:"gallery,omitempty"`
	VideoURL        string   `bson:"video_url,omitempty" json:"videoUrl,omitempty"`
	BrochureURL     string   `bson:"brochure_url,omitempty" json:"brochureUrl,omitempty"`
	Watermark       bool     `bson:"watermark" json:"watermark"`
	MetaTitle       string   `bson:"meta_title,omitempty" json:"metaTitle,omitempty"`
	MetaDescription string   `bson:"meta_description,omitempty" json:"metaDescription,omitempty"`

	// Lifecycle
	Status        string             `bson:"status" json:"status"`
	Visibility    bool               `bson:"visibility" json:"visibility"`
	ReservedUntil *time.Time         `bson:"reserved_until,omitempty" json:"reservedUntil,omitempty"`
	KeySpecs      string             `bson:"key_specs" json:"keySpecs"`
	CreatedBy     primitive.ObjectID `bson:"created_by,omitempty" json:"createdBy,omitempty"`
	UpdatedBy     primitive.ObjectID `bson:"updated_by,omitempty" json:"updatedBy,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updatedAt"`
}

// PublicVehicle is the shape served to the marketing site. Internal commercial
// fields (vendor price, target margin) are intentionally absent.
type PublicVehicle struct {
	ID               primitive.ObjectID `json:"id"`
	Slug             string             `json:"slug"`
	Title            string             `json:"title"`
	Condition        string             `json:"condition"`
	ModelYear        int                `json:"modelYear"`
	KeySpecs         string             `json:"keySpecs"`
	AskingPrice      float64            `json:"askingPrice,omitempty"`
	Negotiable       bool               `json:"negotiable"`
	FinanceAvailable bool               `json:"financeAvailable"`
	City             string             `json:"city,omitempty"`
	State            string             `json:"state,omitempty"`
	ContactPhone     string             `json:"contactPhone,omitempty"`
	WhatsAppPhone    string             `json:"whatsappPhone,omitempty"`
	CoverURL         string             `json:"coverUrl,omitempty"`
	Gallery          []string           `json:"gallery,omitempty"`
	VideoURL         string             `json:"videoUrl,omitempty"`
	BrochureURL      string             `json:"brochureUrl,omitempty"`
	MetaTitle        string             `json:"metaTitle,omitempty"`
	MetaDescription  string             `json:"metaDescription,omitempty"`
	Status           string             `json:"status"`
}

// PublicView strips internal-only fields for the marketing site. A reserved
// vehicle whose hold has lapsed is reported as published again; the stored
// status is left alone.
func (v *Vehicle) PublicView(now time.Time) *PublicVehicle {
	status := v.Status
	if status == StatusReserved && v.ReservedUntil != nil && v.ReservedUntil.Before(now) {
		status = StatusPublished
	}

	return &PublicVehicle{
		ID:               v.ID,
		Slug:             v.Slug,
		Title:            v.Title,
		Condition:        v.Condition,
		ModelYear:        v.ModelYear,
		KeySpecs:         v.KeySpecs,
		AskingPrice:      v.AskingPrice,
		Negotiable:       v.Negotiable,
		FinanceAvailable: v.FinanceAvailable,
		City:             v.City,
		State:            v.State,
		ContactPhone:     v.ContactPhone,
		WhatsAppPhone:    v.WhatsAppPhone,
		CoverURL:         v.CoverURL,
		Gallery:          v.Gallery,
		VideoURL:         v.VideoURL,
		BrochureURL:      v.BrochureURL,
		MetaTitle:        v.MetaTitle,
		MetaDescription:  v.MetaDescription,
		Status:           status,
	}
}

// VehicleFeatureMap links a vehicle to a feature tag. The whole set for a
// vehicle is replaced whenever a patch carries featureTagIds.
type VehicleFeatureMap struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VehicleID    primitive.ObjectID `bson:"vehicle_id" json:"vehicleId"`
	FeatureTagID primitive.ObjectID `bson:"feature_tag_id" json:"featureTagId"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
}
