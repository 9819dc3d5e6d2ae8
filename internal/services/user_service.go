package services

import (
	"context"
	"errors"

	"parcel-backend/internal/auth"
	"parcel-backend/internal/models"
)

type UserService struct {
	Repo       UserStore
	JWTManager *auth.JWTManager
}

func NewUserService(repo UserStore, jwtManager *auth.JWTManager) *UserService {
	return &UserService{
		Repo:       repo,
		JWTManager: jwtManager,
	}
}

func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	return s.Repo.Get(ctx, id)
}

// Login authenticates a user and returns JWT token
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, models.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, models.ErrAccountSuspended
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  user,
	}, nil
}
