package services

import (
	"context"

	"jammanage-backend/internal/models"
	"jammanage-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory store fakes. They mirror the repository semantics closely enough
// for the lifecycle pipeline: ErrNotFound sentinels, excludeID filters and
// replace-style updates.

type fakeVehicleStore struct {
	vehicles map[primitive.ObjectID]*models.Vehicle
}

func newFakeVehicleStore() *fakeVehicleStore {
	return &fakeVehicleStore{vehicles: make(map[primitive.ObjectID]*models.Vehicle)}
}

func (f *fakeVehicleStore) Create(_ context.Context, vehicle *models.Vehicle) error {
	if vehicle.ID.IsZero() {
		vehicle.ID = primitive.NewObjectID()
	}
	stored := *vehicle
	f.vehicles[vehicle.ID] = &stored
	return nil
}

func (f *fakeVehicleStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	v, ok := f.vehicles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *v
	return &out, nil
}

func (f *fakeVehicleStore) FindBySlug(_ context.Context, slug string, excludeID primitive.ObjectID) (*models.Vehicle, error) {
	for _, v := range f.vehicles {
		if v.Slug == slug && v.ID != excludeID {
			out := *v
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeVehicleStore) FindPublishedUsedByReg(_ context.Context, regNo, state string, excludeID primitive.ObjectID) (*models.Vehicle, error) {
	for _, v := range f.vehicles {
		if v.RegNo == regNo && v.State == state &&
			v.Condition == models.ConditionUsed && v.Status == models.StatusPublished &&
			v.ID != excludeID {
			out := *v
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeVehicleStore) Update(_ context.Context, id primitive.ObjectID, vehicle *models.Vehicle) (*models.Vehicle, error) {
	if _, ok := f.vehicles[id]; !ok {
		return nil, repository.ErrNotFound
	}
	stored := *vehicle
	stored.ID = id
	f.vehicles[id] = &stored
	out := stored
	return &out, nil
}

func (f *fakeVehicleStore) List(_ context.Context, filter repository.VehicleListFilter) ([]*models.Vehicle, int64, error) {
	var out []*models.Vehicle
	for _, v := range f.vehicles {
		if filter.PublishedOnly {
			if !v.Visibility {
				continue
			}
			if v.Status != models.StatusPublished && v.Status != models.StatusReserved {
				continue
			}
		} else if filter.Status != "" && v.Status != filter.Status {
			continue
		}
		copy := *v
		out = append(out, &copy)
	}
	return out, int64(len(out)), nil
}

type fakeTaxonomyStore struct {
	entries map[primitive.ObjectID]*models.Taxonomy
}

func newFakeTaxonomyStore() *fakeTaxonomyStore {
	return &fakeTaxonomyStore{entries: make(map[primitive.ObjectID]*models.Taxonomy)}
}

func (f *fakeTaxonomyStore) seed(name string) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.entries[id] = &models.Taxonomy{ID: id, Name: name, Status: models.TaxonomyActive}
	return id
}

func (f *fakeTaxonomyStore) usage(id primitive.ObjectID) int64 {
	if e, ok := f.entries[id]; ok {
		return e.UsageCount
	}
	return 0
}

func (f *fakeTaxonomyStore) Create(_ context.Context, entry *models.Taxonomy) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	stored := *entry
	f.entries[entry.ID] = &stored
	return nil
}

func (f *fakeTaxonomyStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Taxonomy, error) {
	e, ok := f.entries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *e
	return &out, nil
}

func (f *fakeTaxonomyStore) FindByName(_ context.Context, name string, parentID, excludeID primitive.ObjectID) (*models.Taxonomy, error) {
	for _, e := range f.entries {
		if e.Name == name && e.ParentID == parentID && e.ID != excludeID {
			out := *e
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeTaxonomyStore) List(_ context.Context, _ repository.TaxonomyListFilter) ([]*models.Taxonomy, int64, error) {
	var out []*models.Taxonomy
	for _, e := range f.entries {
		copy := *e
		out = append(out, &copy)
	}
	return out, int64(len(out)), nil
}

func (f *fakeTaxonomyStore) Update(_ context.Context, id primitive.ObjectID, entry *models.Taxonomy) (*models.Taxonomy, error) {
	if _, ok := f.entries[id]; !ok {
		return nil, repository.ErrNotFound
	}
	stored := *entry
	stored.ID = id
	f.entries[id] = &stored
	out := stored
	return &out, nil
}

func (f *fakeTaxonomyStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.entries[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.entries, id)
	return nil
}

func (f *fakeTaxonomyStore) IncrementUsage(_ context.Context, id primitive.ObjectID, delta int64) error {
	e, ok := f.entries[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.UsageCount += delta
	return nil
}

type fakeFeatureMapStore struct {
	tags map[primitive.ObjectID][]primitive.ObjectID
}

func newFakeFeatureMapStore() *fakeFeatureMapStore {
	return &fakeFeatureMapStore{tags: make(map[primitive.ObjectID][]primitive.ObjectID)}
}

func (f *fakeFeatureMapStore) Replace(_ context.Context, vehicleID primitive.ObjectID, tagIDs []primitive.ObjectID) error {
	f.tags[vehicleID] = append([]primitive.ObjectID(nil), tagIDs...)
	return nil
}

func (f *fakeFeatureMapStore) TagIDs(_ context.Context, vehicleID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return append([]primitive.ObjectID(nil), f.tags[vehicleID]...), nil
}
