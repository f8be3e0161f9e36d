package services

import (
	"context"
	"errors"
	"testing"

	"jammanage-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type vehicleTestEnv struct {
	svc      *VehicleService
	store    *fakeVehicleStore
	features *fakeFeatureMapStore

	makes         *fakeTaxonomyStore
	vehicleModels *fakeTaxonomyStore
	bodyTypes     *fakeTaxonomyStore
	axleConfigs   *fakeTaxonomyStore
	emissionNorms *fakeTaxonomyStore
	featureTags   *fakeTaxonomyStore

	makeID     primitive.ObjectID
	modelID    primitive.ObjectID
	bodyTypeID primitive.ObjectID
	axleID     primitive.ObjectID
	normID     primitive.ObjectID
}

func newVehicleTestEnv() *vehicleTestEnv {
	env := &vehicleTestEnv{
		store:         newFakeVehicleStore(),
		features:      newFakeFeatureMapStore(),
		makes:         newFakeTaxonomyStore(),
		vehicleModels: newFakeTaxonomyStore(),
		bodyTypes:     newFakeTaxonomyStore(),
		axleConfigs:   newFakeTaxonomyStore(),
		emissionNorms: newFakeTaxonomyStore(),
		featureTags:   newFakeTaxonomyStore(),
	}

	env.makeID = env.makes.seed("Tata")
	env.modelID = env.vehicleModels.seed("LPT 3118")
	env.bodyTypeID = env.bodyTypes.seed("Truck")
	env.axleID = env.axleConfigs.seed("6x2")
	env.normID = env.emissionNorms.seed("BS6")

	env.svc = NewVehicleService(env.store, TaxonomyStores{
		Makes:         env.makes,
		VehicleModels: env.vehicleModels,
		Variants:      newFakeTaxonomyStore(),
		BodyTypes:     env.bodyTypes,
		AxleConfigs:   env.axleConfigs,
		FuelTypes:     newFakeTaxonomyStore(),
		EmissionNorms: env.emissionNorms,
		Transmissions: newFakeTaxonomyStore(),
		FeatureTags:   env.featureTags,
	}, env.features, zap.NewNop())

	return env
}

// publishableReq returns a request that clears the publish gate.
func (env *vehicleTestEnv) publishableReq() *CreateVehicleRequest {
	return &CreateVehicleRequest{
		Condition:      models.ConditionNew,
		Status:         models.StatusPublished,
		MakeID:         env.makeID.Hex(),
		ModelID:        env.modelID.Hex(),
		BodyTypeID:     env.bodyTypeID.Hex(),
		AxleConfigID:   env.axleID.Hex(),
		EmissionNormID: env.normID.Hex(),
		ModelYear:      2023,
		EngineCC:       5660,
		GVWKg:          31000,
		AskingPrice:    2850000,
		City:           "Jammu",
		State:          "Jammu and Kashmir",
		Pincode:        "180001",
		CoverURL:       "https://cdn.example.com/lpt3118.jpg",
	}
}

func TestCreateDerivesTitleSlugAndKeySpecs(t *testing.T) {
	env := newVehicleTestEnv()

	detail, err := env.svc.Create(context.Background(), env.publishableReq(), primitive.NewObjectID())
	require.NoError(t, err)

	assert.Equal(t, "2023 Tata LPT 3118 6x2 Truck", detail.Title)
	assert.Equal(t, "2023-tata-lpt-3118-6x2-truck", detail.Slug)
	assert.Equal(t, "5660cc • 6x2 • 31t GVW • BS6", detail.KeySpecs)
	assert.True(t, detail.Visibility)

	// Referenced taxonomy entries picked up a usage count.
	assert.Equal(t, int64(1), env.makes.usage(env.makeID))
	assert.Equal(t, int64(1), env.vehicleModels.usage(env.modelID))
	assert.Equal(t, int64(1), env.bodyTypes.usage(env.bodyTypeID))
}

func TestCreateSlugCollisionSuffixes(t *testing.T) {
	env := newVehicleTestEnv()
	ctx := context.Background()
	actor := primitive.NewObjectID()

	first, err := env.svc.Create(ctx, env.publishableReq(), actor)
	require.NoError(t, err)
	second, err := env.svc.Create(ctx, env.publishableReq(), actor)
	require.NoError(t, err)
	third, err := env.svc.Create(ctx, env.publishableReq(), actor)
	require.NoError(t, err)

	assert.Equal(t, "2023-tata-lpt-3118-6x2-truck", first.Slug)
	assert.Equal(t, "2023-tata-lpt-3118-6x2-truck-1", second.Slug)
	assert.Equal(t, "2023-tata-lpt-3118-6x2-truck-2", third.Slug)
}

func TestCreateDegenerateSlugFallsBackToID(t *testing.T) {
	env := newVehicleTestEnv()

	detail, err := env.svc.Create(context.Background(), &CreateVehicleRequest{
		Condition: models.ConditionNew,
		Title:     "!!??",
	}, primitive.NewObjectID())
	require.NoError(t, err)

	assert.Equal(t, detail.ID.Hex(), detail.Slug)
}

func TestPublishGateListsMissingFields(t *testing.T) {
	env := newVehicleTestEnv()

	_, err := env.svc.Create(context.Background(), &CreateVehicleRequest{
		Condition: models.ConditionNew,
		Status:    models.StatusPublished,
	}, primitive.NewObjectID())

	var gateErr *PublishGateError
	require.ErrorAs(t, err, &gateErr)
	assert.Contains(t, gateErr.Missing, "makeId")
	assert.Contains(t, gateErr.Missing, "modelId")
	assert.Contains(t, gateErr.Missing, "modelYear")
	assert.Contains(t, gateErr.Missing, "askingPrice")
	assert.Contains(t, gateErr.Missing, "coverUrl")
	assert.NotContains(t, gateErr.Missing, "condition")
	// The slug falls back to the record id, so it is never the blocker here.
	assert.NotContains(t, gateErr.Missing, "slug")
}

func TestPublishGateRequiresRegNoForUsed(t *testing.T) {
	env := newVehicleTestEnv()

	req := env.publishableReq()
	req.Condition = models.ConditionUsed

	_, err := env.svc.Create(context.Background(), req, primitive.NewObjectID())

	var gateErr *PublishGateError
	require.ErrorAs(t, err, &gateErr)
	assert.Equal(t, []string{"regNo"}, gateErr.Missing)
}

func TestSparseDraftSkipsPublishGate(t *testing.T) {
	env := newVehicleTestEnv()

	detail, err := env.svc.Create(context.Background(), &CreateVehicleRequest{
		Condition: models.ConditionNew,
	}, primitive.NewObjectID())
	require.NoError(t, err)

	assert.Equal(t, models.StatusDraft, detail.Status)
}

func TestDuplicateRegistrationGuard(t *testing.T) {
	env := newVehicleTestEnv()
	ctx := context.Background()
	actor := primitive.NewObjectID()

	req := env.publishableReq()
	req.Condition = models.ConditionUsed
	req.RegNo = "JK02AB1234"

	first, err := env.svc.Create(ctx, req, actor)
	require.NoError(t, err)

	// A second published used vehicle with the same plate in the same state
	// is rejected.
	_, err = env.svc.Create(ctx, req, actor)
	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)

	// The same plate in another state is fine.
	otherState := env.publishableReq()
	otherState.Condition = models.ConditionUsed
	otherState.RegNo = "JK02AB1234"
	otherState.State = "Punjab"
	_, err = env.svc.Create(ctx, otherState, actor)
	require.NoError(t, err)

	// Archiving the first frees the pair for re-publication.
	require.NoError(t, env.svc.Archive(ctx, first.ID.Hex(), actor))
	_, err = env.svc.Create(ctx, req, actor)
	require.NoError(t, err)
}

func TestUpdatePatchSemantics(t *testing.T) {
	env := newVehicleTestEnv()
	ctx := context.Background()
	actor := primitive.NewObjectID()

	created, err := env.svc.Create(ctx, env.publishableReq(), actor)
	require.NoError(t, err)

	// A patch touching one field leaves the rest alone.
	price := 2650000.0
	updated, err := env.svc.Update(ctx, created.ID.Hex(), &UpdateVehicleRequest{AskingPrice: &price}, actor)
	require.NoError(t, err)
	assert.Equal(t, price, updated.AskingPrice)
	assert.Equal(t, created.Slug, updated.Slug)
	assert.Equal(t, created.City, updated.City)

	// An explicit empty string clears; demote to draft first so the gate
	// does not object.
	draft := models.StatusDraft
	empty := ""
	updated, err = env.svc.Update(ctx, created.ID.Hex(), &UpdateVehicleRequest{Status: &draft, City: &empty}, actor)
	require.NoError(t, err)
	assert.Equal(t, "", updated.City)
}

func TestUpdateClearingRequiredFieldBlocksWhilePublished(t *testing.T) {
	env := newVehicleTestEnv()
	ctx := context.Background()
	actor := primitive.NewObjectID()

	created, err := env.svc.Create(ctx, env.publishableReq(), actor)
	require.NoError(t, err)

	empty := ""
	_, err = env.svc.Update(ctx, created.ID.Hex(), &UpdateVehicleRequest{City: &empty}, actor)

	var gateErr *PublishGateError
	require.ErrorAs(t, err, &gateErr)
	assert.Equal(t, []string{"city"}, gateErr.Missing)

	// Nothing was written.
	stored, err := env.svc.Get(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Jammu", stored.City)
}

func TestUpdateSlugOnlyReslugifiedWhenSupplied(t *testing.T) {
	env := newVehicleTestEnv()
	ctx := context.Background()
	actor := primitive.NewObjectID()

	created, err := env.svc.Create(ctx, env.publishableReq(), actor)
	require.NoError(t, err)

	custom := "Custom Listing Name!"
	updated, err := env.svc.Update(ctx, created.ID.Hex(), &UpdateVehicleRequest{Slug: &custom}, actor)
	require.NoError(t, err)
	assert.Equal(t, "custom-listing-name", updated.Slug)

	// A later unrelated patch keeps the custom slug.
	price := 100000.0
	updated, err = env.svc.Update(ctx, created.ID.Hex(), &UpdateVehicleRequest{AskingPrice: &price}, actor)
	require.NoError(t, err)
	assert.Equal(t, "custom-listing-name", updated.Slug)
}

func TestFeatureTagSync(t *testing.T) {
	env := newVehicleTestEnv()
	ctx := context.Background()
	actor := primitive.NewObjectID()

	tagA := env.featureTags.seed("ABS")
	tagB := env.featureTags.seed("Power Steering")
	tagC := env.featureTags.seed("AC Cabin")

	req := env.publishableReq()
	req.FeatureTagIDs = []string{tagA.Hex(), tagB.Hex()}
	created, err := env.svc.Create(ctx, req, actor)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{tagA.Hex(), tagB.Hex()}, created.FeatureTagIDs)
	assert.Equal(t, int64(1), env.featureTags.usage(tagA))
	assert.Equal(t, int64(1), env.featureTags.usage(tagB))

	// Replacing the set adjusts only the entries that changed.
	newSet := []string{tagB.Hex(), tagC.Hex()}
	updated, err := env.svc.Update(ctx, created.ID.Hex(), &UpdateVehicleRequest{FeatureTagIDs: &newSet}, actor)
	require.NoError(t, err)
	assert.ElementsMatch(t, newSet, updated.FeatureTagIDs)
	assert.Equal(t, int64(0), env.featureTags.usage(tagA))
	assert.Equal(t, int64(1), env.featureTags.usage(tagB))
	assert.Equal(t, int64(1), env.featureTags.usage(tagC))

	// A patch that omits featureTagIds leaves the associations alone.
	price := 1.0
	updated, err = env.svc.Update(ctx, created.ID.Hex(), &UpdateVehicleRequest{AskingPrice: &price}, actor)
	require.NoError(t, err)
	assert.ElementsMatch(t, newSet, updated.FeatureTagIDs)

	// An explicit empty list clears the set.
	cleared := []string{}
	updated, err = env.svc.Update(ctx, created.ID.Hex(), &UpdateVehicleRequest{FeatureTagIDs: &cleared}, actor)
	require.NoError(t, err)
	assert.Empty(t, updated.FeatureTagIDs)
	assert.Equal(t, int64(0), env.featureTags.usage(tagB))
	assert.Equal(t, int64(0), env.featureTags.usage(tagC))
}

func TestCreateRejectsUnknownRelation(t *testing.T) {
	env := newVehicleTestEnv()

	req := env.publishableReq()
	req.MakeID = primitive.NewObjectID().Hex()

	_, err := env.svc.Create(context.Background(), req, primitive.NewObjectID())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGetPublicBySlugHidesUnpublished(t *testing.T) {
	env := newVehicleTestEnv()
	ctx := context.Background()
	actor := primitive.NewObjectID()

	req := env.publishableReq()
	req.Status = models.StatusDraft
	created, err := env.svc.Create(ctx, req, actor)
	require.NoError(t, err)

	_, err = env.svc.GetPublicBySlug(ctx, created.Slug)
	assert.True(t, errors.Is(err, ErrNotFound))

	published := models.StatusPublished
	_, err = env.svc.Update(ctx, created.ID.Hex(), &UpdateVehicleRequest{Status: &published}, actor)
	require.NoError(t, err)

	public, err := env.svc.GetPublicBySlug(ctx, created.Slug)
	require.NoError(t, err)
	assert.Equal(t, created.Slug, public.Slug)
}

func TestUpdateRelationSwapAdjustsUsageCounts(t *testing.T) {
	env := newVehicleTestEnv()
	ctx := context.Background()
	actor := primitive.NewObjectID()

	created, err := env.svc.Create(ctx, env.publishableReq(), actor)
	require.NoError(t, err)

	otherMake := env.makes.seed("Ashok Leyland")
	hex := otherMake.Hex()
	_, err = env.svc.Update(ctx, created.ID.Hex(), &UpdateVehicleRequest{MakeID: &hex}, actor)
	require.NoError(t, err)

	assert.Equal(t, int64(0), env.makes.usage(env.makeID))
	assert.Equal(t, int64(1), env.makes.usage(otherMake))
}
