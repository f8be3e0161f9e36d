package services

import (
	"context"
	"errors"
	"time"

	"jammanage-backend/internal/models"
	"jammanage-backend/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required,min=1,max=50"`
	LastName  string `json:"lastName" validate:"required,min=1,max=50"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      string `json:"role" validate:"required,oneof=owner staff"`
}

type UpdateUserRequest struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,min=1,max=50"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,min=1,max=50"`
	Role      *string `json:"role,omitempty" validate:"omitempty,oneof=owner staff"`
	Status    *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

func (s *UserService) Create(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	if existing, err := s.users.FindByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, &ConflictError{Message: "email already registered"}
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	now := time.Now()
	user := &models.User{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hashed),
		Role:      req.Role,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, &ConflictError{Message: "email already registered"}
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, oid)
	if err != nil {
		return nil, translateStoreErr(err, "user")
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.users.FindAll(ctx)
}

func (s *UserService) Update(ctx context.Context, id string, req *UpdateUserRequest) (*models.User, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	existing, err := s.users.FindByID(ctx, oid)
	if err != nil {
		return nil, translateStoreErr(err, "user")
	}

	merged := *existing
	if req.FirstName != nil {
		merged.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		merged.LastName = *req.LastName
	}
	if req.Role != nil {
		merged.Role = *req.Role
	}
	if req.Status != nil {
		merged.Status = *req.Status
	}

	updated, err := s.users.Update(ctx, oid, &merged)
	if err != nil {
		return nil, translateStoreErr(err, "user")
	}
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	return translateStoreErr(s.users.Delete(ctx, oid), "user")
}
