package services

import (
	"context"
	"errors"
	"testing"

	"jammanage-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var makeKind = models.TaxonomyKind{Slug: "makes", Collection: "makes", Label: "make"}
var modelKind = models.TaxonomyKind{Slug: "models", Collection: "vehicle_models", Label: "model", ParentKind: "makes"}

func TestTaxonomyCreateAndDuplicateName(t *testing.T) {
	store := newFakeTaxonomyStore()
	svc := NewTaxonomyService(makeKind, store, nil, zap.NewNop())
	ctx := context.Background()

	entry, err := svc.Create(ctx, &CreateTaxonomyRequest{Name: "  Tata  "})
	require.NoError(t, err)
	assert.Equal(t, "Tata", entry.Name)
	assert.Equal(t, models.TaxonomyActive, entry.Status)

	_, err = svc.Create(ctx, &CreateTaxonomyRequest{Name: "Tata"})
	var conflictErr *ConflictError
	assert.ErrorAs(t, err, &conflictErr)
}

func TestScopedKindRequiresParent(t *testing.T) {
	makes := newFakeTaxonomyStore()
	store := newFakeTaxonomyStore()
	svc := NewTaxonomyService(modelKind, store, makes, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreateTaxonomyRequest{Name: "LPT 3118"})
	assert.Error(t, err)

	parent := makes.seed("Tata")
	entry, err := svc.Create(ctx, &CreateTaxonomyRequest{Name: "LPT 3118", ParentID: parent.Hex()})
	require.NoError(t, err)
	assert.Equal(t, parent, entry.ParentID)
}

func TestScopedNameUniquePerParent(t *testing.T) {
	makes := newFakeTaxonomyStore()
	store := newFakeTaxonomyStore()
	svc := NewTaxonomyService(modelKind, store, makes, zap.NewNop())
	ctx := context.Background()

	tata := makes.seed("Tata")
	leyland := makes.seed("Ashok Leyland")

	_, err := svc.Create(ctx, &CreateTaxonomyRequest{Name: "3118", ParentID: tata.Hex()})
	require.NoError(t, err)

	// Same name under the same parent conflicts.
	_, err = svc.Create(ctx, &CreateTaxonomyRequest{Name: "3118", ParentID: tata.Hex()})
	var conflictErr *ConflictError
	assert.ErrorAs(t, err, &conflictErr)

	// Same name under another parent is fine.
	_, err = svc.Create(ctx, &CreateTaxonomyRequest{Name: "3118", ParentID: leyland.Hex()})
	assert.NoError(t, err)
}

func TestRenameLockedWhileInUse(t *testing.T) {
	store := newFakeTaxonomyStore()
	svc := NewTaxonomyService(makeKind, store, nil, zap.NewNop())
	ctx := context.Background()

	entry, err := svc.Create(ctx, &CreateTaxonomyRequest{Name: "Tata"})
	require.NoError(t, err)

	require.NoError(t, store.IncrementUsage(ctx, entry.ID, 3))

	rename := "Tata Motors"
	_, err = svc.Update(ctx, entry.ID.Hex(), &UpdateTaxonomyRequest{Name: &rename})
	var renameErr *RenameInUseError
	require.ErrorAs(t, err, &renameErr)
	assert.Equal(t, int64(3), renameErr.Count)

	// Description and status stay editable while in use.
	desc := "Commercial vehicle manufacturer"
	inactive := models.TaxonomyInactive
	updated, err := svc.Update(ctx, entry.ID.Hex(), &UpdateTaxonomyRequest{Description: &desc, Status: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Tata", updated.Name)
	assert.Equal(t, desc, updated.Description)
	assert.Equal(t, inactive, updated.Status)

	// Once nothing references it the rename goes through.
	require.NoError(t, store.IncrementUsage(ctx, entry.ID, -3))
	updated, err = svc.Update(ctx, entry.ID.Hex(), &UpdateTaxonomyRequest{Name: &rename})
	require.NoError(t, err)
	assert.Equal(t, "Tata Motors", updated.Name)
}

func TestDeleteUnusedRemovesInUseDeactivates(t *testing.T) {
	store := newFakeTaxonomyStore()
	svc := NewTaxonomyService(makeKind, store, nil, zap.NewNop())
	ctx := context.Background()

	unused, err := svc.Create(ctx, &CreateTaxonomyRequest{Name: "Force"})
	require.NoError(t, err)

	msg, err := svc.Delete(ctx, unused.ID.Hex())
	require.NoError(t, err)
	assert.Contains(t, msg, "deleted")
	_, err = svc.Get(ctx, unused.ID.Hex())
	assert.True(t, errors.Is(err, ErrNotFound))

	inUse, err := svc.Create(ctx, &CreateTaxonomyRequest{Name: "Eicher"})
	require.NoError(t, err)
	require.NoError(t, store.IncrementUsage(ctx, inUse.ID, 2))

	msg, err = svc.Delete(ctx, inUse.ID.Hex())
	require.NoError(t, err)
	assert.Contains(t, msg, "deactivated")

	kept, err := svc.Get(ctx, inUse.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.TaxonomyInactive, kept.Status)
}
