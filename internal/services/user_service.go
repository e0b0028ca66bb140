package services

import (
	"context"
	"errors"
	"strings"

	"vyapar-backend/internal/auth"
	"vyapar-backend/internal/models"
	"vyapar-backend/internal/repositories"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

type UserService struct {
	userRepo   *repositories.UserRepository
	jwtManager *auth.JWTManager
}

func NewUserService(userRepo *repositories.UserRepository, jwtManager *auth.JWTManager) *UserService {
	return &UserService{userRepo: userRepo, jwtManager: jwtManager}
}

// Signup registers a user. The very first account becomes admin; later
// self-signups get the staff role.
func (s *UserService) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if len(req.Password) < 8 {
		return nil, ErrWeakPassword
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	count, err := s.userRepo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	role := "staff"
	if count == 0 {
		role = "admin"
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		return nil, err
	}

	return s.tokenResponse(&user)
}

// CreateUser lets an admin add an account with an explicit role.
func (s *UserService) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if len(req.Password) < 8 {
		return nil, ErrWeakPassword
	}
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	role := req.Role
	switch role {
	case "admin", "accountant", "staff":
	default:
		role = "staff"
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	return s.tokenResponse(user)
}

func (s *UserService) tokenResponse(user *models.User) (*models.AuthResponse, error) {
	token, err := s.jwtManager.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *UserService) Get(ctx context.Context, id int) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

func (s *UserService) SetActive(ctx context.Context, id int, active bool) error {
	return s.userRepo.SetActive(ctx, id, active)
}
