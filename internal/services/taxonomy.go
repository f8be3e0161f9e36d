package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jammanage-backend/internal/models"
	"jammanage-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// TaxonomyService serves one lookup collection. The same rules apply to every
// kind: names are unique within the parent scope, entries referenced by
// vehicles cannot be renamed, and deleting an in-use entry deactivates it
// instead of removing it.
type TaxonomyService struct {
	kind    models.TaxonomyKind
	store   TaxonomyStore
	parents TaxonomyStore
	logger  *zap.Logger
}

// NewTaxonomyService builds the service for one kind. parents is nil for
// unscoped kinds.
func NewTaxonomyService(kind models.TaxonomyKind, store, parents TaxonomyStore, logger *zap.Logger) *TaxonomyService {
	return &TaxonomyService{
		kind:    kind,
		store:   store,
		parents: parents,
		logger:  logger,
	}
}

func (s *TaxonomyService) Kind() models.TaxonomyKind {
	return s.kind
}

type CreateTaxonomyRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	ParentID    string `json:"parentId,omitempty" validate:"omitempty,len=24,hexadecimal"`
}

type UpdateTaxonomyRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

func (s *TaxonomyService) Create(ctx context.Context, req *CreateTaxonomyRequest) (*models.Taxonomy, error) {
	name := strings.TrimSpace(req.Name)

	parentID, err := parseOptionalID(req.ParentID)
	if err != nil {
		return nil, err
	}
	if s.kind.ParentKind != "" {
		if parentID.IsZero() {
			return nil, fmt.Errorf("%w: %s requires a parent %s", ErrInvalidID, s.kind.Label, s.kind.ParentKind)
		}
		if _, err := s.parents.FindByID(ctx, parentID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent %s", ErrNotFound, parentID.Hex())
			}
			return nil, err
		}
	}

	if existing, err := s.store.FindByName(ctx, name, parentID, primitive.NilObjectID); err == nil && existing != nil {
		return nil, &ConflictError{Message: fmt.Sprintf("a %s named %q already exists", s.kind.Label, name)}
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.TaxonomyActive
	}

	now := time.Now()
	entry := &models.Taxonomy{
		Name:        name,
		Description: req.Description,
		Status:      status,
		ParentID:    parentID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Create(ctx, entry); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, &ConflictError{Message: fmt.Sprintf("a %s named %q already exists", s.kind.Label, name)}
		}
		return nil, err
	}

	return entry, nil
}

func (s *TaxonomyService) Get(ctx context.Context, id string) (*models.Taxonomy, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	entry, err := s.store.FindByID(ctx, oid)
	if err != nil {
		return nil, translateStoreErr(err, s.kind.Label)
	}
	return entry, nil
}

func (s *TaxonomyService) List(ctx context.Context, f repository.TaxonomyListFilter) ([]*models.Taxonomy, int64, error) {
	return s.store.List(ctx, f)
}

// Update applies the rename lock: once vehicles reference the entry its name
// is frozen; description and status stay editable.
func (s *TaxonomyService) Update(ctx context.Context, id string, req *UpdateTaxonomyRequest) (*models.Taxonomy, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.FindByID(ctx, oid)
	if err != nil {
		return nil, translateStoreErr(err, s.kind.Label)
	}

	merged := *existing
	if req.Name != nil {
		merged.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		merged.Description = *req.Description
	}
	if req.Status != nil {
		merged.Status = *req.Status
	}

	if merged.Name != existing.Name {
		if existing.UsageCount > 0 {
			return nil, &RenameInUseError{Label: s.kind.Label, Count: existing.UsageCount}
		}
		if dup, err := s.store.FindByName(ctx, merged.Name, existing.ParentID, oid); err == nil && dup != nil {
			return nil, &ConflictError{Message: fmt.Sprintf("a %s named %q already exists", s.kind.Label, merged.Name)}
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	updated, err := s.store.Update(ctx, oid, &merged)
	if err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, &ConflictError{Message: fmt.Sprintf("a %s named %q already exists", s.kind.Label, merged.Name)}
		}
		return nil, translateStoreErr(err, s.kind.Label)
	}
	return updated, nil
}

// Delete hard-removes an unused entry. An in-use entry is deactivated instead
// and the returned message says so; that path never errors.
func (s *TaxonomyService) Delete(ctx context.Context, id string) (string, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return "", err
	}

	existing, err := s.store.FindByID(ctx, oid)
	if err != nil {
		return "", translateStoreErr(err, s.kind.Label)
	}

	if existing.UsageCount == 0 {
		if err := s.store.Delete(ctx, oid); err != nil {
			return "", translateStoreErr(err, s.kind.Label)
		}
		return fmt.Sprintf("%s %q deleted", s.kind.Label, existing.Name), nil
	}

	merged := *existing
	merged.Status = models.TaxonomyInactive
	if _, err := s.store.Update(ctx, oid, &merged); err != nil {
		return "", translateStoreErr(err, s.kind.Label)
	}
	return fmt.Sprintf("%s %q is referenced by %d record(s); deactivated instead of removed", s.kind.Label, existing.Name, existing.UsageCount), nil
}
