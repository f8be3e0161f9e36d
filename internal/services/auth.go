package services

import (
	"context"
	"errors"
	"time"

	"jammanage-backend/internal/models"
	jwtutil "jammanage-backend/pkg/jwt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both unknown accounts and bad passwords so the
// response does not reveal which one failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	users   UserStore
	jwtUtil *jwtutil.JWTUtil
}

func NewAuthService(users UserStore, jwtUtil *jwtutil.JWTUtil) *AuthService {
	return &AuthService{
		users:   users,
		jwtUtil: jwtUtil,
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User  *models.AuthUser `json:"user"`
	Token string           `json:"token"`
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Status != "active" {
		return nil, errors.New("account is not active")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLogin = &now
	if _, err := s.users.Update(ctx, user.ID, user); err != nil {
		// Login still succeeds when the last-login stamp fails to persist.
		_ = err
	}

	token, err := s.jwtUtil.GenerateToken(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		User: &models.AuthUser{
			ID:        user.ID.Hex(),
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Role:      user.Role,
		},
		Token: token,
	}, nil
}

func (s *AuthService) RefreshToken(tokenString string) (string, error) {
	newToken, err := s.jwtUtil.RefreshToken(tokenString)
	if err != nil {
		return "", errors.New("failed to refresh token")
	}
	return newToken, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*models.AuthUser, error) {
	oid, err := parseObjectID(userID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, oid)
	if err != nil {
		return nil, translateStoreErr(err, "user")
	}
	if user.Status != "active" {
		return nil, errors.New("account is not active")
	}
	return &models.AuthUser{
		ID:        user.ID.Hex(),
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
	}, nil
}
