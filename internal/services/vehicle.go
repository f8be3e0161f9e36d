package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jammanage-backend/internal/models"
	"jammanage-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// TaxonomyStores bundles the lookup stores the vehicle lifecycle resolves
// relations against.
type TaxonomyStores struct {
	Makes         TaxonomyStore
	VehicleModels TaxonomyStore
	Variants      TaxonomyStore
	BodyTypes     TaxonomyStore
	AxleConfigs   TaxonomyStore
	FuelTypes     TaxonomyStore
	EmissionNorms TaxonomyStore
	Transmissions TaxonomyStore
	FeatureTags   TaxonomyStore
}

type VehicleService struct {
	vehicles   VehicleStore
	taxonomies TaxonomyStores
	features   FeatureMapStore
	cache      ListingCache
	logger     *zap.Logger
}

func NewVehicleService(vehicles VehicleStore, taxonomies TaxonomyStores, features FeatureMapStore, logger *zap.Logger) *VehicleService {
	return &VehicleService{
		vehicles:   vehicles,
		taxonomies: taxonomies,
		features:   features,
		logger:     logger,
	}
}

// SetListingCache attaches the public-listing cache; a nil cache disables
// invalidation.
func (s *VehicleService) SetListingCache(cache ListingCache) {
	s.cache = cache
}

type CreateVehicleRequest struct {
	Title     string `json:"title,omitempty"`
	Slug      string `json:"slug,omitempty"`
	Condition string `json:"condition" validate:"required,oneof=new used"`

	MakeID         string `json:"makeId,omitempty" validate:"omitempty,len=24,hexadecimal"`
	ModelID        string `json:"modelId,omitempty" validate:"omitempty,len=24,hexadecimal"`
	VariantID      string `json:"variantId,omitempty" validate:"omitempty,len=24,hexadecimal"`
	BodyTypeID     string `json:"bodyTypeId,omitempty" validate:"omitempty,len=24,hexadecimal"`
	AxleConfigID   string `json:"axleConfigId,omitempty" validate:"omitempty,len=24,hexadecimal"`
	FuelTypeID     string `json:"fuelTypeId,omitempty" validate:"omitempty,len=24,hexadecimal"`
	EmissionNormID string `json:"emissionNormId,omitempty" validate:"omitempty,len=24,hexadecimal"`
	TransmissionID string `json:"transmissionId,omitempty" validate:"omitempty,len=24,hexadecimal"`
	ModelYear      int    `json:"modelYear,omitempty" validate:"omitempty,min=1900,max=2100"`

	WheelbaseMM      float64 `json:"wheelbaseMm,omitempty" validate:"omitempty,min=0"`
	GVWKg            float64 `json:"gvwKg,omitempty" validate:"omitempty,min=0"`
	GCWKg            float64 `json:"gcwKg,omitempty" validate:"omitempty,min=0"`
	PayloadKg        float64 `json:"payloadKg,omitempty" validate:"omitempty,min=0"`
	OverallLengthMM  float64 `json:"overallLengthMm,omitempty" validate:"omitempty,min=0"`
	OverallWidthMM   float64 `json:"overallWidthMm,omitempty" validate:"omitempty,min=0"`
	OverallHeightMM  float64 `json:"overallHeightMm,omitempty" validate:"omitempty,min=0"`
	LoadBodyLengthMM float64 `json:"loadBodyLengthMm,omitempty" validate:"omitempty,min=0"`
	LoadBodyWidthMM  float64 `json:"loadBodyWidthMm,omitempty" validate:"omitempty,min=0"`
	LoadBodyHeightMM float64 `json:"loadBodyHeightMm,omitempty" validate:"omitempty,min=0"`
	TurningRadiusMM  float64 `json:"turningRadiusMm,omitempty" validate:"omitempty,min=0"`

	EngineCC        int     `json:"engineCc,omitempty" validate:"omitempty,min=0"`
	PowerHP         float64 `json:"powerHp,omitempty" validate:"omitempty,min=0"`
	PowerKW         float64 `json:"powerKw,omitempty" validate:"omitempty,min=0"`
	TorqueNM        float64 `json:"torqueNm,omitempty" validate:"omitempty,min=0"`
	GearCount       int     `json:"gearCount,omitempty" validate:"omitempty,min=0"`
	FinalDriveRatio float64 `json:"finalDriveRatio,omitempty" validate:"omitempty,min=0"`

	AskingPrice      float64 `json:"askingPrice,omitempty" validate:"omitempty,min=0"`
	Negotiable       bool    `json:"negotiable,omitempty"`
	FinanceAvailable bool    `json:"financeAvailable,omitempty"`
	GSTSlab          string  `json:"gstSlab,omitempty"`
	VendorPrice      float64 `json:"vendorPrice,omitempty" validate:"omitempty,min=0"`
	TargetMargin     float64 `json:"targetMargin,omitempty" validate:"omitempty,min=0"`

	City          string  `json:"city,omitempty"`
	State         string  `json:"state,omitempty"`
	Pincode       string  `json:"pincode,omitempty" validate:"omitempty,len=6,numeric"`
	Lat           float64 `json:"lat,omitempty" validate:"omitempty,min=-90,max=90"`
	Lng           float64 `json:"lng,omitempty" validate:"omitempty,min=-180,max=180"`
	ContactPhone  string  `json:"contactPhone,omitempty"`
	WhatsAppPhone string  `json:"whatsappPhone,omitempty"`

	RegNo             string     `json:"regNo,omitempty"`
	RegDate           *time.Time `json:"regDate,omitempty"`
	OwnershipCount    int        `json:"ownershipCount,omitempty" validate:"omitempty,min=0"`
	InsuranceType     string     `json:"insuranceType,omitempty"`
	InsuranceExpiry   *time.Time `json:"insuranceExpiry,omitempty"`
	FitnessExpiry     *time.Time `json:"fitnessExpiry,omitempty"`
	PUCExpiry         *time.Time `json:"pucExpiry,omitempty"`
	PermitStates      []string   `json:"permitStates,omitempty"`
	HypothecationBank string     `json:"hypothecationBank,omitempty"`

	CoverURL        string   `json:"coverUrl,omitempty" validate:"omitempty,url"`
	Gallery         []string `json:"gallery,omitempty" validate:"omitempty,dive,url"`
	VideoURL        string   `json:"videoUrl,omitempty" validate:"omitempty,url"`
	BrochureURL     string   `json:"brochureUrl,omitempty" validate:"omitempty,url"`
	Watermark       bool     `json:"watermark,omitempty"`
	MetaTitle       string   `json:"metaTitle,omitempty"`
	MetaDescription string   `json:"metaDescription,omitempty"`

	Status        string     `json:"status,omitempty" validate:"omitempty,oneof=draft pending_review published reserved sold archived"`
	Visibility    *bool      `json:"visibility,omitempty"`
	ReservedUntil *time.Time `json:"reservedUntil,omitempty"`

	FeatureTagIDs []string `json:"featureTagIds,omitempty" validate:"omitempty,dive,len=24,hexadecimal"`
}

// UpdateVehicleRequest is a partial patch. Pointer fields distinguish "leave
// alone" (nil) from "set to zero value". A nil FeatureTagIDs leaves the
// association set untouched; an empty list clears it.
type UpdateVehicleRequest struct {
	Title     *string `json:"title,omitempty"`
	Slug      *string `json:"slug,omitempty"`
	Condition *string `json:"condition,omitempty" validate:"omitempty,oneof=new used"`

	MakeID         *string `json:"makeId,omitempty" validate:"omitempty,len=24,hexadecimal"`
	ModelID        *string `json:"modelId,omitempty" validate:"omitempty,len=24,hexadecimal"`
	VariantID      *string `json:"variantId,omitempty" validate:"omitempty,len=24,hexadecimal"`
	BodyTypeID     *string `json:"bodyTypeId,omitempty" validate:"omitempty,len=24,hexadecimal"`
	AxleConfigID   *string `json:"axleConfigId,omitempty" validate:"omitempty,len=24,hexadecimal"`
	FuelTypeID     *string `json:"fuelTypeId,omitempty" validate:"omitempty,len=24,hexadecimal"`
	EmissionNormID *string `json:"emissionNormId,omitempty" validate:"omitempty,len=24,hexadecimal"`
	TransmissionID *string `json:"transmissionId,omitempty" validate:"omitempty,len=24,hexadecimal"`
	ModelYear      *int    `json:"modelYear,omitempty" validate:"omitempty,min=1900,max=2100"`

	WheelbaseMM      *float64 `json:"wheelbaseMm,omitempty" validate:"omitempty,min=0"`
	GVWKg            *float64 `json:"gvwKg,omitempty" validate:"omitempty,min=0"`
	GCWKg            *float64 `json:"gcwKg,omitempty" validate:"omitempty,min=0"`
	PayloadKg        *float64 `json:"payloadKg,omitempty" validate:"omitempty,min=0"`
	OverallLengthMM  *float64 `json:"overallLengthMm,omitempty" validate:"omitempty,min=0"`
	OverallWidthMM   *float64 `json:"overallWidthMm,omitempty" validate:"omitempty,min=0"`
	OverallHeightMM  *float64 `json:"overallHeightMm,omitempty" validate:"omitempty,min=0"`
	LoadBodyLengthMM *float64 `json:"loadBodyLengthMm,omitempty" validate:"omitempty,min=0"`
	LoadBodyWidthMM  *float64 `json:"loadBodyWidthMm,omitempty" validate:"omitempty,min=0"`
	LoadBodyHeightMM *float64 `json:"loadBodyHeightMm,omitempty" validate:"omitempty,min=0"`
	TurningRadiusMM  *float64 `json:"turningRadiusMm,omitempty" validate:"omitempty,min=0"`

	EngineCC        *int     `json:"engineCc,omitempty" validate:"omitempty,min=0"`
	PowerHP         *float64 `json:"powerHp,omitempty" validate:"omitempty,min=0"`
	PowerKW         *float64 `json:"powerKw,omitempty" validate:"omitempty,min=0"`
	TorqueNM        *float64 `json:"torqueNm,omitempty" validate:"omitempty,min=0"`
	GearCount       *int     `json:"gearCount,omitempty" validate:"omitempty,min=0"`
	FinalDriveRatio *float64 `json:"finalDriveRatio,omitempty" validate:"omitempty,min=0"`

	AskingPrice      *float64 `json:"askingPrice,omitempty" validate:"omitempty,min=0"`
	Negotiable       *bool    `json:"negotiable,omitempty"`
	FinanceAvailable *bool    `json:"financeAvailable,omitempty"`
	GSTSlab          *string  `json:"gstSlab,omitempty"`
	VendorPrice      *float64 `json:"vendorPrice,omitempty" validate:"omitempty,min=0"`
	TargetMargin     *float64 `json:"targetMargin,omitempty" validate:"omitempty,min=0"`

	City          *string  `json:"city,omitempty"`
	State         *string  `json:"state,omitempty"`
	Pincode       *string  `json:"pincode,omitempty" validate:"omitempty,len=6,numeric"`
	Lat           *float64 `json:"lat,omitempty" validate:"omitempty,min=-90,max=90"`
	Lng           *float64 `json:"lng,omitempty" validate:"omitempty,min=-180,max=180"`
	ContactPhone  *string  `json:"contactPhone,omitempty"`
	WhatsAppPhone *string  `json:"whatsappPhone,omitempty"`

	RegNo             *string    `json:"regNo,omitempty"`
	RegDate           *time.Time `json:"regDate,omitempty"`
	OwnershipCount    *int       `json:"ownershipCount,omitempty" validate:"omitempty,min=0"`
	InsuranceType     *string    `json:"insuranceType,omitempty"`
	InsuranceExpiry   *time.Time `json:"insuranceExpiry,omitempty"`
	FitnessExpiry     *time.Time `json:"fitnessExpiry,omitempty"`
	PUCExpiry         *time.Time `json:"pucExpiry,omitempty"`
	PermitStates      *[]string  `json:"permitStates,omitempty"`
	HypothecationBank *string    `json:"hypothecationBank,omitempty"`

	CoverURL        *string   `json:"coverUrl,omitempty" validate:"omitempty,url"`
	Gallery         *[]string `json:"gallery,omitempty" validate:"omitempty,dive,url"`
	VideoURL        *string   `json:"videoUrl,omitempty" validate:"omitempty,url"`
	BrochureURL     *string   `json:"brochureUrl,omitempty" validate:"omitempty,url"`
	Watermark       *bool     `json:"watermark,omitempty"`
	MetaTitle       *string   `json:"metaTitle,omitempty"`
	MetaDescription *string   `json:"metaDescription,omitempty"`

	Status        *string    `json:"status,omitempty" validate:"omitempty,oneof=draft pending_review published reserved sold archived"`
	Visibility    *bool      `json:"visibility,omitempty"`
	ReservedUntil *time.Time `json:"reservedUntil,omitempty"`

	FeatureTagIDs *[]string `json:"featureTagIds,omitempty" validate:"omitempty,dive,len=24,hexadecimal"`
}

// VehicleDetail is a vehicle with its feature-tag associations attached.
type VehicleDetail struct {
	*models.Vehicle
	FeatureTagIDs []string `json:"featureTagIds"`
}

// Create runs the full lifecycle pipeline for a new record: resolve
// relations, derive title/slug/keySpecs, gate publishing, guard duplicate
// registrations, then perform a single write followed by the feature-tag
// sync.
func (s *VehicleService) Create(ctx context.Context, req *CreateVehicleRequest, actor primitive.ObjectID) (*VehicleDetail, error) {
	vehicle := &models.Vehicle{ID: primitive.NewObjectID()}
	if err := applyCreateRequest(vehicle, req); err != nil {
		return nil, err
	}
	if vehicle.Status == "" {
		vehicle.Status = models.StatusDraft
	}

	names, err := s.resolveRelations(ctx, vehicle)
	if err != nil {
		return nil, err
	}

	if vehicle.Title == "" {
		vehicle.Title = deriveTitle(vehicle.ModelYear, names)
	}
	base := req.Slug
	if base == "" {
		base = vehicle.Title
	}
	slug := slugify(base)
	if slug == "" {
		// Degenerate all-punctuation title: fall back to the record id.
		slug = vehicle.ID.Hex()
	}
	vehicle.Slug = slug

	if vehicle.Status == models.StatusPublished {
		if missing := missingPublishFields(vehicle); len(missing) > 0 {
			return nil, &PublishGateError{Missing: missing}
		}
	}
	if err := s.checkDuplicateRegistration(ctx, vehicle, primitive.NilObjectID); err != nil {
		return nil, err
	}

	vehicle.Slug, err = s.ensureUniqueSlug(ctx, vehicle.Slug, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}

	vehicle.KeySpecs = buildKeySpecs(vehicle.EngineCC, vehicle.GVWKg, names)
	now := time.Now()
	vehicle.CreatedBy = actor
	vehicle.UpdatedBy = actor
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now

	if err := s.vehicles.Create(ctx, vehicle); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, &ConflictError{Message: "a vehicle with this slug or registration already exists"}
		}
		return nil, err
	}

	s.bumpUsage(ctx, nil, vehicle)

	tagIDs, err := s.syncFeatureTags(ctx, vehicle.ID, req.FeatureTagIDs)
	if err != nil {
		return nil, err
	}

	s.invalidate(vehicle)
	return &VehicleDetail{Vehicle: vehicle, FeatureTagIDs: tagIDs}, nil
}

// Update merges the patch over the stored record and re-runs the lifecycle
// pipeline. The publish gate evaluates the merged view; nothing is written on
// rejection.
func (s *VehicleService) Update(ctx context.Context, id string, req *UpdateVehicleRequest, actor primitive.ObjectID) (*VehicleDetail, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	existing, err := s.vehicles.FindByID(ctx, oid)
	if err != nil {
		return nil, translateStoreErr(err, "vehicle")
	}

	merged := *existing
	if err := applyUpdateRequest(&merged, req); err != nil {
		return nil, err
	}

	names, err := s.resolveRelations(ctx, &merged)
	if err != nil {
		return nil, err
	}

	if merged.Title == "" {
		merged.Title = deriveTitle(merged.ModelYear, names)
	}
	if req.Slug != nil {
		slug := slugify(*req.Slug)
		if slug == "" {
			slug = merged.ID.Hex()
		}
		merged.Slug = slug
	}
	if merged.Slug == "" {
		merged.Slug = merged.ID.Hex()
	}

	if merged.Status == models.StatusPublished {
		if missing := missingPublishFields(&merged); len(missing) > 0 {
			return nil, &PublishGateError{Missing: missing}
		}
	}
	if err := s.checkDuplicateRegistration(ctx, &merged, oid); err != nil {
		return nil, err
	}

	if merged.Slug != existing.Slug {
		merged.Slug, err = s.ensureUniqueSlug(ctx, merged.Slug, oid)
		if err != nil {
			return nil, err
		}
	}

	merged.KeySpecs = buildKeySpecs(merged.EngineCC, merged.GVWKg, names)
	merged.UpdatedBy = actor

	updated, err := s.vehicles.Update(ctx, oid, &merged)
	if err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, &ConflictError{Message: "a vehicle with this slug or registration already exists"}
		}
		return nil, translateStoreErr(err, "vehicle")
	}

	s.bumpUsage(ctx, existing, updated)

	var tagIDs []string
	if req.FeatureTagIDs != nil {
		tagIDs, err = s.syncFeatureTags(ctx, oid, *req.FeatureTagIDs)
		if err != nil {
			return nil, err
		}
	} else {
		tagIDs, err = s.featureTagIDs(ctx, oid)
		if err != nil {
			return nil, err
		}
	}

	s.invalidate(updated)
	return &VehicleDetail{Vehicle: updated, FeatureTagIDs: tagIDs}, nil
}

// Archive soft-retires a vehicle; the record is kept for referential
// integrity.
func (s *VehicleService) Archive(ctx context.Context, id string, actor primitive.ObjectID) error {
	status := models.StatusArchived
	_, err := s.Update(ctx, id, &UpdateVehicleRequest{Status: &status}, actor)
	return err
}

func (s *VehicleService) Get(ctx context.Context, id string) (*VehicleDetail, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	vehicle, err := s.vehicles.FindByID(ctx, oid)
	if err != nil {
		return nil, translateStoreErr(err, "vehicle")
	}

	tagIDs, err := s.featureTagIDs(ctx, oid)
	if err != nil {
		return nil, err
	}

	return &VehicleDetail{Vehicle: vehicle, FeatureTagIDs: tagIDs}, nil
}

func (s *VehicleService) List(ctx context.Context, f repository.VehicleListFilter) ([]*models.Vehicle, int64, error) {
	return s.vehicles.List(ctx, f)
}

// ListPublic serves the marketing site: published, visible records only,
// stripped of internal fields.
func (s *VehicleService) ListPublic(ctx context.Context, f repository.VehicleListFilter) ([]*models.PublicVehicle, int64, error) {
	f.PublishedOnly = true
	vehicles, total, err := s.vehicles.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	public := make([]*models.PublicVehicle, 0, len(vehicles))
	for _, v := range vehicles {
		public = append(public, v.PublicView(now))
	}
	return public, total, nil
}

func (s *VehicleService) GetPublicBySlug(ctx context.Context, slug string) (*models.PublicVehicle, error) {
	vehicle, err := s.vehicles.FindBySlug(ctx, slug, primitive.NilObjectID)
	if err != nil {
		return nil, translateStoreErr(err, "vehicle")
	}
	if !vehicle.Visibility || (vehicle.Status != models.StatusPublished && vehicle.Status != models.StatusReserved) {
		return nil, fmt.Errorf("%w: vehicle %q", ErrNotFound, slug)
	}
	return vehicle.PublicView(time.Now()), nil
}

// ensureUniqueSlug probes the store for collisions and suffixes -1, -2, ...
// until the candidate is free. The unique index on slug remains the
// authoritative backstop against concurrent writers.
func (s *VehicleService) ensureUniqueSlug(ctx context.Context, base string, excludeID primitive.ObjectID) (string, error) {
	candidate := base
	for i := 1; ; i++ {
		_, err := s.vehicles.FindBySlug(ctx, candidate, excludeID)
		if errors.Is(err, repository.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// missingPublishFields returns the name of every required field the merged
// record is missing for publication. Used vehicles additionally require a
// registration number.
func missingPublishFields(v *models.Vehicle) []string {
	var missing []string
	if v.Condition == "" {
		missing = append(missing, "condition")
	}
	if v.MakeID.IsZero() {
		missing = append(missing, "makeId")
	}
	if v.ModelID.IsZero() {
		missing = append(missing, "modelId")
	}
	if v.ModelYear == 0 {
		missing = append(missing, "modelYear")
	}
	if v.BodyTypeID.IsZero() {
		missing = append(missing, "bodyTypeId")
	}
	if v.AxleConfigID.IsZero() {
		missing = append(missing, "axleConfigId")
	}
	if v.City == "" {
		missing = append(missing, "city")
	}
	if v.State == "" {
		missing = append(missing, "state")
	}
	if v.Pincode == "" {
		missing = append(missing, "pincode")
	}
	if v.AskingPrice == 0 {
		missing = append(missing, "askingPrice")
	}
	if v.CoverURL == "" {
		missing = append(missing, "coverUrl")
	}
	if v.Slug == "" {
		missing = append(missing, "slug")
	}
	if v.Condition == models.ConditionUsed && v.RegNo == "" {
		missing = append(missing, "regNo")
	}
	return missing
}

// checkDuplicateRegistration enforces at most one published used vehicle per
// (regNo, state) pair. The partial unique index backstops the race window.
func (s *VehicleService) checkDuplicateRegistration(ctx context.Context, v *models.Vehicle, excludeID primitive.ObjectID) error {
	if v.Condition != models.ConditionUsed || v.Status != models.StatusPublished {
		return nil
	}
	if v.RegNo == "" || v.State == "" {
		return nil
	}

	dup, err := s.vehicles.FindPublishedUsedByReg(ctx, v.RegNo, v.State, excludeID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return &ConflictError{
		Message: fmt.Sprintf("registration %s is already published in %s by %q", v.RegNo, v.State, dup.Title),
	}
}

// resolveRelations verifies every referenced taxonomy entry exists and
// collects the names derived fields need.
func (s *VehicleService) resolveRelations(ctx context.Context, v *models.Vehicle) (relationNames, error) {
	var names relationNames
	var err error

	resolve := func(store TaxonomyStore, id primitive.ObjectID, label string) (string, error) {
		if id.IsZero() {
			return "", nil
		}
		entry, findErr := store.FindByID(ctx, id)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrNotFound) {
				return "", fmt.Errorf("%w: %s %s", ErrNotFound, label, id.Hex())
			}
			return "", findErr
		}
		return entry.Name, nil
	}

	if names.Make, err = resolve(s.taxonomies.Makes, v.MakeID, "make"); err != nil {
		return names, err
	}
	if names.Model, err = resolve(s.taxonomies.VehicleModels, v.ModelID, "model"); err != nil {
		return names, err
	}
	if names.Variant, err = resolve(s.taxonomies.Variants, v.VariantID, "variant"); err != nil {
		return names, err
	}
	if names.BodyType, err = resolve(s.taxonomies.BodyTypes, v.BodyTypeID, "body type"); err != nil {
		return names, err
	}
	if names.AxleConfig, err = resolve(s.taxonomies.AxleConfigs, v.AxleConfigID, "axle configuration"); err != nil {
		return names, err
	}
	if names.EmissionNorm, err = resolve(s.taxonomies.EmissionNorms, v.EmissionNormID, "emission norm"); err != nil {
		return names, err
	}
	if _, err = resolve(s.taxonomies.FuelTypes, v.FuelTypeID, "fuel type"); err != nil {
		return names, err
	}
	if _, err = resolve(s.taxonomies.Transmissions, v.TransmissionID, "transmission"); err != nil {
		return names, err
	}

	return names, nil
}

// bumpUsage maintains the denormalized usageCount on every taxonomy entry a
// vehicle references. Count drift is tolerable, so failures are logged rather
// than propagated.
func (s *VehicleService) bumpUsage(ctx context.Context, old, new *models.Vehicle) {
	adjust := func(store TaxonomyStore, oldID, newID primitive.ObjectID) {
		if store == nil || oldID == newID {
			return
		}
		if !oldID.IsZero() {
			if err := store.IncrementUsage(ctx, oldID, -1); err != nil {
				s.logger.Warn("usage count decrement failed", zap.String("id", oldID.Hex()), zap.Error(err))
			}
		}
		if !newID.IsZero() {
			if err := store.IncrementUsage(ctx, newID, 1); err != nil {
				s.logger.Warn("usage count increment failed", zap.String("id", newID.Hex()), zap.Error(err))
			}
		}
	}

	var o models.Vehicle
	if old != nil {
		o = *old
	}
	adjust(s.taxonomies.Makes, o.MakeID, new.MakeID)
	adjust(s.taxonomies.VehicleModels, o.ModelID, new.ModelID)
	adjust(s.taxonomies.Variants, o.VariantID, new.VariantID)
	adjust(s.taxonomies.BodyTypes, o.BodyTypeID, new.BodyTypeID)
	adjust(s.taxonomies.AxleConfigs, o.AxleConfigID, new.AxleConfigID)
	adjust(s.taxonomies.FuelTypes, o.FuelTypeID, new.FuelTypeID)
	adjust(s.taxonomies.EmissionNorms, o.EmissionNormID, new.EmissionNormID)
	adjust(s.taxonomies.Transmissions, o.TransmissionID, new.TransmissionID)
}

// syncFeatureTags replaces the vehicle's feature-tag association set and
// keeps feature-tag usage counts in step. tagIDs may be empty to clear.
func (s *VehicleService) syncFeatureTags(ctx context.Context, vehicleID primitive.ObjectID, tagIDs []string) ([]string, error) {
	newIDs := make([]primitive.ObjectID, 0, len(tagIDs))
	for _, raw := range tagIDs {
		oid, err := parseObjectID(raw)
		if err != nil {
			return nil, err
		}
		if _, err := s.taxonomies.FeatureTags.FindByID(ctx, oid); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: feature tag %s", ErrNotFound, raw)
			}
			return nil, err
		}
		newIDs = append(newIDs, oid)
	}

	oldIDs, err := s.features.TagIDs(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	if err := s.features.Replace(ctx, vehicleID, newIDs); err != nil {
		return nil, err
	}

	oldSet := make(map[primitive.ObjectID]bool, len(oldIDs))
	for _, id := range oldIDs {
		oldSet[id] = true
	}
	newSet := make(map[primitive.ObjectID]bool, len(newIDs))
	for _, id := range newIDs {
		newSet[id] = true
	}
	for _, id := range oldIDs {
		if !newSet[id] {
			if err := s.taxonomies.FeatureTags.IncrementUsage(ctx, id, -1); err != nil {
				s.logger.Warn("feature tag usage decrement failed", zap.String("id", id.Hex()), zap.Error(err))
			}
		}
	}
	for _, id := range newIDs {
		if !oldSet[id] {
			if err := s.taxonomies.FeatureTags.IncrementUsage(ctx, id, 1); err != nil {
				s.logger.Warn("feature tag usage increment failed", zap.String("id", id.Hex()), zap.Error(err))
			}
		}
	}

	out := make([]string, 0, len(newIDs))
	for _, id := range newIDs {
		out = append(out, id.Hex())
	}
	return out, nil
}

func (s *VehicleService) featureTagIDs(ctx context.Context, vehicleID primitive.ObjectID) ([]string, error) {
	ids, err := s.features.TagIDs(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out, nil
}

func (s *VehicleService) invalidate(v *models.Vehicle) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateVehicle(v.ID.Hex()); err != nil {
		s.logger.Warn("cache invalidation failed", zap.String("vehicle", v.ID.Hex()), zap.Error(err))
	}
	if err := s.cache.InvalidateListings(); err != nil {
		s.logger.Warn("listing cache invalidation failed", zap.Error(err))
	}
}

func applyCreateRequest(v *models.Vehicle, req *CreateVehicleRequest) error {
	var err error
	v.Title = req.Title
	v.Condition = req.Condition

	if v.MakeID, err = parseOptionalID(req.MakeID); err != nil {
		return err
	}
	if v.ModelID, err = parseOptionalID(req.ModelID); err != nil {
		return err
	}
	if v.VariantID, err = parseOptionalID(req.VariantID); err != nil {
		return err
	}
	if v.BodyTypeID, err = parseOptionalID(req.BodyTypeID); err != nil {
		return err
	}
	if v.AxleConfigID, err = parseOptionalID(req.AxleConfigID); err != nil {
		return err
	}
	if v.FuelTypeID, err = parseOptionalID(req.FuelTypeID); err != nil {
		return err
	}
	if v.EmissionNormID, err = parseOptionalID(req.EmissionNormID); err != nil {
		return err
	}
	if v.TransmissionID, err = parseOptionalID(req.TransmissionID); err != nil {
		return err
	}
	v.ModelYear = req.ModelYear

	v.WheelbaseMM = req.WheelbaseMM
	v.GVWKg = req.GVWKg
	v.GCWKg = req.GCWKg
	v.PayloadKg = req.PayloadKg
	v.OverallLengthMM = req.OverallLengthMM
	v.OverallWidthMM = req.OverallWidthMM
	v.OverallHeightMM = req.OverallHeightMM
	v.LoadBodyLengthMM = req.LoadBodyLengthMM
	v.LoadBodyWidthMM = req.LoadBodyWidthMM
	v.LoadBodyHeightMM = req.LoadBodyHeightMM
	v.TurningRadiusMM = req.TurningRadiusMM

	v.EngineCC = req.EngineCC
	v.PowerHP = req.PowerHP
	v.PowerKW = req.PowerKW
	v.TorqueNM = req.TorqueNM
	v.GearCount = req.GearCount
	v.FinalDriveRatio = req.FinalDriveRatio

	v.AskingPrice = req.AskingPrice
	v.Negotiable = req.Negotiable
	v.FinanceAvailable = req.FinanceAvailable
	v.GSTSlab = req.GSTSlab
	v.VendorPrice = req.VendorPrice
	v.TargetMargin = req.TargetMargin

	v.City = req.City
	v.State = req.State
	v.Pincode = req.Pincode
	v.Lat = req.Lat
	v.Lng = req.Lng
	v.ContactPhone = req.ContactPhone
	v.WhatsAppPhone = req.WhatsAppPhone

	v.RegNo = req.RegNo
	v.RegDate = req.RegDate
	v.OwnershipCount = req.OwnershipCount
	v.InsuranceType = req.InsuranceType
	v.InsuranceExpiry = req.InsuranceExpiry
	v.FitnessExpiry = req.FitnessExpiry
	v.PUCExpiry = req.PUCExpiry
	v.PermitStates = req.PermitStates
	v.HypothecationBank = req.HypothecationBank

	v.CoverURL = req.CoverURL
	v.Gallery = req.Gallery
	v.VideoURL = req.VideoURL
	v.BrochureURL = req.BrochureURL
	v.Watermark = req.Watermark
	v.MetaTitle = req.MetaTitle
	v.MetaDescription = req.MetaDescription

	v.Status = req.Status
	if req.Visibility != nil {
		v.Visibility = *req.Visibility
	} else {
		v.Visibility = true
	}
	v.ReservedUntil = req.ReservedUntil

	return nil
}

func applyUpdateRequest(v *models.Vehicle, req *UpdateVehicleRequest) error {
	if req.Title != nil {
		v.Title = *req.Title
	}
	if req.Condition != nil {
		v.Condition = *req.Condition
	}

	setID := func(dst *primitive.ObjectID, src *string) error {
		if src == nil {
			return nil
		}
		id, err := parseOptionalID(*src)
		if err != nil {
			return err
		}
		*dst = id
		return nil
	}
	if err := setID(&v.MakeID, req.MakeID); err != nil {
		return err
	}
	if err := setID(&v.ModelID, req.ModelID); err != nil {
		return err
	}
	if err := setID(&v.VariantID, req.VariantID); err != nil {
		return err
	}
	if err := setID(&v.BodyTypeID, req.BodyTypeID); err != nil {
		return err
	}
	if err := setID(&v.AxleConfigID, req.AxleConfigID); err != nil {
		return err
	}
	if err := setID(&v.FuelTypeID, req.FuelTypeID); err != nil {
		return err
	}
	if err := setID(&v.EmissionNormID, req.EmissionNormID); err != nil {
		return err
	}
	if err := setID(&v.TransmissionID, req.TransmissionID); err != nil {
		return err
	}
	if req.ModelYear != nil {
		v.ModelYear = *req.ModelYear
	}

	if req.WheelbaseMM != nil {
		v.WheelbaseMM = *req.WheelbaseMM
	}
	if req.GVWKg != nil {
		v.GVWKg = *req.GVWKg
	}
	if req.GCWKg != nil {
		v.GCWKg = *req.GCWKg
	}
	if req.PayloadKg != nil {
		v.PayloadKg = *req.PayloadKg
	}
	if req.OverallLengthMM != nil {
		v.OverallLengthMM = *req.OverallLengthMM
	}
	if req.OverallWidthMM != nil {
		v.OverallWidthMM = *req.OverallWidthMM
	}
	if req.OverallHeightMM != nil {
		v.OverallHeightMM = *req.OverallHeightMM
	}
	if req.LoadBodyLengthMM != nil {
		v.LoadBodyLengthMM = *req.LoadBodyLengthMM
	}
	if req.LoadBodyWidthMM != nil {
		v.LoadBodyWidthMM = *req.LoadBodyWidthMM
	}
	if req.LoadBodyHeightMM != nil {
		v.LoadBodyHeightMM = *req.LoadBodyHeightMM
	}
	if req.TurningRadiusMM != nil {
		v.TurningRadiusMM = *req.TurningRadiusMM
	}

	if req.EngineCC != nil {
		v.EngineCC = *req.EngineCC
	}
	if req.PowerHP != nil {
		v.PowerHP = *req.PowerHP
	}
	if req.PowerKW != nil {
		v.PowerKW = *req.PowerKW
	}
	if req.TorqueNM != nil {
		v.TorqueNM = *req.TorqueNM
	}
	if req.GearCount != nil {
		v.GearCount = *req.GearCount
	}
	if req.FinalDriveRatio != nil {
		v.FinalDriveRatio = *req.FinalDriveRatio
	}

	if req.AskingPrice != nil {
		v.AskingPrice = *req.AskingPrice
	}
	if req.Negotiable != nil {
		v.Negotiable = *req.Negotiable
	}
	if req.FinanceAvailable != nil {
		v.FinanceAvailable = *req.FinanceAvailable
	}
	if req.GSTSlab != nil {
		v.GSTSlab = *req.GSTSlab
	}
	if req.VendorPrice != nil {
		v.VendorPrice = *req.VendorPrice
	}
	if req.TargetMargin != nil {
		v.TargetMargin = *req.TargetMargin
	}

	if req.City != nil {
		v.City = *req.City
	}
	if req.State != nil {
		v.State = *req.State
	}
	if req.Pincode != nil {
		v.Pincode = *req.Pincode
	}
	if req.Lat != nil {
		v.Lat = *req.Lat
	}
	if req.Lng != nil {
		v.Lng = *req.Lng
	}
	if req.ContactPhone != nil {
		v.ContactPhone = *req.ContactPhone
	}
	if req.WhatsAppPhone != nil {
		v.WhatsAppPhone = *req.WhatsAppPhone
	}

	if req.RegNo != nil {
		v.RegNo = *req.RegNo
	}
	if req.RegDate != nil {
		v.RegDate = req.RegDate
	}
	if req.OwnershipCount != nil {
		v.OwnershipCount = *req.OwnershipCount
	}
	if req.InsuranceType != nil {
		v.InsuranceType = *req.InsuranceType
	}
	if req.InsuranceExpiry != nil {
		v.InsuranceExpiry = req.InsuranceExpiry
	}
	if req.FitnessExpiry != nil {
		v.FitnessExpiry = req.FitnessExpiry
	}
	if req.PUCExpiry != nil {
		v.PUCExpiry = req.PUCExpiry
	}
	if req.PermitStates != nil {
		v.PermitStates = *req.PermitStates
	}
	if req.HypothecationBank != nil {
		v.HypothecationBank = *req.HypothecationBank
	}

	if req.CoverURL != nil {
		v.CoverURL = *req.CoverURL
	}
	if req.Gallery != nil {
		v.Gallery = *req.Gallery
	}
	if req.VideoURL != nil {
		v.VideoURL = *req.VideoURL
	}
	if req.BrochureURL != nil {
		v.BrochureURL = *req.BrochureURL
	}
	if req.Watermark != nil {
		v.Watermark = *req.Watermark
	}
	if req.MetaTitle != nil {
		v.MetaTitle = *req.MetaTitle
	}
	if req.MetaDescription != nil {
		v.MetaDescription = *req.MetaDescription
	}

	if req.Status != nil {
		v.Status = *req.Status
	}
	if req.Visibility != nil {
		v.Visibility = *req.Visibility
	}
	if req.ReservedUntil != nil {
		v.ReservedUntil = req.ReservedUntil
	}

	return nil
}

func parseObjectID(s string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return oid, nil
}

// parseOptionalID treats "" as the nil id so patches can clear a reference.
func parseOptionalID(s string) (primitive.ObjectID, error) {
	if s == "" {
		return primitive.NilObjectID, nil
	}
	return parseObjectID(s)
}

func translateStoreErr(err error, label string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, label)
	}
	return err
}
