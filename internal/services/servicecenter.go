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

// ServiceCenterService manages service centers and keeps usage counts on the
// brand and service-type taxonomies they reference.
type ServiceCenterService struct {
	centers      ServiceCenterStore
	centerTypes  TaxonomyStore
	brands       TaxonomyStore
	serviceTypes TaxonomyStore
	logger       *zap.Logger
}

func NewServiceCenterService(centers ServiceCenterStore, centerTypes, brands, serviceTypes TaxonomyStore, logger *zap.Logger) *ServiceCenterService {
	return &ServiceCenterService{
		centers:      centers,
		centerTypes:  centerTypes,
		brands:       brands,
		serviceTypes: serviceTypes,
		logger:       logger,
	}
}

type CreateServiceCenterRequest struct {
	Name           string   `json:"name" validate:"required,min=1,max=150"`
	TypeID         string   `json:"typeId,omitempty" validate:"omitempty,len=24,hexadecimal"`
	BrandIDs       []string `json:"brandIds,omitempty" validate:"omitempty,dive,len=24,hexadecimal"`
	ServiceTypeIDs []string `json:"serviceTypeIds,omitempty" validate:"omitempty,dive,len=24,hexadecimal"`
	AddressLine    string   `json:"addressLine,omitempty"`
	City           string   `json:"city,omitempty"`
	State          string   `json:"state,omitempty"`
	Pincode        string   `json:"pincode,omitempty" validate:"omitempty,len=6,numeric"`
	Phone          string   `json:"phone,omitempty"`
	Email          string   `json:"email,omitempty" validate:"omitempty,email"`
	Status         string   `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

type UpdateServiceCenterRequest struct {
	Name           *string   `json:"name,omitempty" validate:"omitempty,min=1,max=150"`
	TypeID         *string   `json:"typeId,omitempty" validate:"omitempty,len=24,hexadecimal"`
	BrandIDs       *[]string `json:"brandIds,omitempty" validate:"omitempty,dive,len=24,hexadecimal"`
	ServiceTypeIDs *[]string `json:"serviceTypeIds,omitempty" validate:"omitempty,dive,len=24,hexadecimal"`
	AddressLine    *string   `json:"addressLine,omitempty"`
	City           *string   `json:"city,omitempty"`
	State          *string   `json:"state,omitempty"`
	Pincode        *string   `json:"pincode,omitempty" validate:"omitempty,len=6,numeric"`
	Phone          *string   `json:"phone,omitempty"`
	Email          *string   `json:"email,omitempty" validate:"omitempty,email"`
	Status         *string   `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

func (s *ServiceCenterService) Create(ctx context.Context, req *CreateServiceCenterRequest) (*models.ServiceCenter, error) {
	typeID, err := parseOptionalID(req.TypeID)
	if err != nil {
		return nil, err
	}
	if !typeID.IsZero() {
		if _, err := s.centerTypes.FindByID(ctx, typeID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: service center type %s", ErrNotFound, req.TypeID)
			}
			return nil, err
		}
	}

	brandIDs, err := s.resolveRefs(ctx, s.brands, req.BrandIDs, "vehicle brand")
	if err != nil {
		return nil, err
	}
	serviceTypeIDs, err := s.resolveRefs(ctx, s.serviceTypes, req.ServiceTypeIDs, "service type")
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.TaxonomyActive
	}

	now := time.Now()
	center := &models.ServiceCenter{
		Name:           req.Name,
		TypeID:         typeID,
		BrandIDs:       brandIDs,
		ServiceTypeIDs: serviceTypeIDs,
		AddressLine:    req.AddressLine,
		City:           req.City,
		State:          req.State,
		Pincode:        req.Pincode,
		Phone:          req.Phone,
		Email:          req.Email,
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.centers.Create(ctx, center); err != nil {
		return nil, err
	}

	s.adjustRefs(ctx, s.brands, nil, brandIDs)
	s.adjustRefs(ctx, s.serviceTypes, nil, serviceTypeIDs)

	return center, nil
}

func (s *ServiceCenterService) Get(ctx context.Context, id string) (*models.ServiceCenter, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	center, err := s.centers.FindByID(ctx, oid)
	if err != nil {
		return nil, translateStoreErr(err, "service center")
	}
	return center, nil
}

func (s *ServiceCenterService) List(ctx context.Context, f repository.ServiceCenterListFilter) ([]*models.ServiceCenter, int64, error) {
	return s.centers.List(ctx, f)
}

func (s *ServiceCenterService) Update(ctx context.Context, id string, req *UpdateServiceCenterRequest) (*models.ServiceCenter, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	existing, err := s.centers.FindByID(ctx, oid)
	if err != nil {
		return nil, translateStoreErr(err, "service center")
	}

	merged := *existing
	if req.Name != nil {
		merged.Name = *req.Name
	}
	if req.TypeID != nil {
		typeID, err := parseOptionalID(*req.TypeID)
		if err != nil {
			return nil, err
		}
		if !typeID.IsZero() {
			if _, err := s.centerTypes.FindByID(ctx, typeID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, fmt.Errorf("%w: service center type %s", ErrNotFound, *req.TypeID)
				}
				return nil, err
			}
		}
		merged.TypeID = typeID
	}
	if req.BrandIDs != nil {
		ids, err := s.resolveRefs(ctx, s.brands, *req.BrandIDs, "vehicle brand")
		if err != nil {
			return nil, err
		}
		merged.BrandIDs = ids
	}
	if req.ServiceTypeIDs != nil {
		ids, err := s.resolveRefs(ctx, s.serviceTypes, *req.ServiceTypeIDs, "service type")
		if err != nil {
			return nil, err
		}
		merged.ServiceTypeIDs = ids
	}
	if req.AddressLine != nil {
		merged.AddressLine = *req.AddressLine
	}
	if req.City != nil {
		merged.City = *req.City
	}
	if req.State != nil {
		merged.State = *req.State
	}
	if req.Pincode != nil {
		merged.Pincode = *req.Pincode
	}
	if req.Phone != nil {
		merged.Phone = *req.Phone
	}
	if req.Email != nil {
		merged.Email = *req.Email
	}
	if req.Status != nil {
		merged.Status = *req.Status
	}

	updated, err := s.centers.Update(ctx, oid, &merged)
	if err != nil {
		return nil, translateStoreErr(err, "service center")
	}

	if req.BrandIDs != nil {
		s.adjustRefs(ctx, s.brands, existing.BrandIDs, updated.BrandIDs)
	}
	if req.ServiceTypeIDs != nil {
		s.adjustRefs(ctx, s.serviceTypes, existing.ServiceTypeIDs, updated.ServiceTypeIDs)
	}

	return updated, nil
}

func (s *ServiceCenterService) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	existing, err := s.centers.FindByID(ctx, oid)
	if err != nil {
		return translateStoreErr(err, "service center")
	}

	if err := s.centers.Delete(ctx, oid); err != nil {
		return translateStoreErr(err, "service center")
	}

	s.adjustRefs(ctx, s.brands, existing.BrandIDs, nil)
	s.adjustRefs(ctx, s.serviceTypes, existing.ServiceTypeIDs, nil)
	return nil
}

func (s *ServiceCenterService) resolveRefs(ctx context.Context, store TaxonomyStore, raw []string, label string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, r := range raw {
		oid, err := parseObjectID(r)
		if err != nil {
			return nil, err
		}
		if _, err := store.FindByID(ctx, oid); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s %s", ErrNotFound, label, r)
			}
			return nil, err
		}
		ids = append(ids, oid)
	}
	return ids, nil
}

// adjustRefs diffs the old and new reference sets and nudges usage counts.
func (s *ServiceCenterService) adjustRefs(ctx context.Context, store TaxonomyStore, old, new []primitive.ObjectID) {
	oldSet := make(map[primitive.ObjectID]bool, len(old))
	for _, id := range old {
		oldSet[id] = true
	}
	newSet := make(map[primitive.ObjectID]bool, len(new))
	for _, id := range new {
		newSet[id] = true
	}
	for _, id := range old {
		if !newSet[id] {
			if err := store.IncrementUsage(ctx, id, -1); err != nil {
				s.logger.Warn("usage count decrement failed", zap.String("id", id.Hex()), zap.Error(err))
			}
		}
	}
	for _, id := range new {
		if !oldSet[id] {
			if err := store.IncrementUsage(ctx, id, 1); err != nil {
				s.logger.Warn("usage count increment failed", zap.String("id", id.Hex()), zap.Error(err))
			}
		}
	}
}
