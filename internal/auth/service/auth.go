package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"rezerv/internal/auth"
	userserrors "rezerv/internal/users/errors"
	usersrepo "rezerv/internal/users/repository"
	"rezerv/pkg/config"
	apperrors "rezerv/pkg/errors"
	"rezerv/pkg/model"
)

// AuthService handles account registration and credential exchange. Login
// failures are deliberately indistinguishable: unknown email and wrong
// password produce the same error.
type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)
}

type authService struct {
	cfg      *config.Config
	users    usersrepo.UserRepository
	tokens   *auth.TokenManager
	validate *validator.Validate
}

func NewAuthService(cfg *config.Config, users usersrepo.UserRepository, tokens *auth.TokenManager) AuthService {
	return &authService{
		cfg:      cfg,
		users:    users,
		tokens:   tokens,
		validate: validator.New(),
	}
}

func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.Validation(err.Error(), nil)
	}

	hash, err := auth.HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.RoleUser,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("Email already registered")
		}
		return nil, apperrors.Internal("Failed to create user", err)
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token", err)
	}

	s.cfg.Log.Info("user registered", "user_id", user.ID, "email", user.Email)

	return &model.AuthResponse{Token: token, User: user}, nil
}

func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.Validation(err.Error(), nil)
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("Invalid email or password")
		}
		return nil, apperrors.Internal("Failed to load user", err)
	}

	if err := auth.ComparePassword(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token", err)
	}

	s.cfg.Log.Info("user logged in", "user_id", user.ID)

	return &model.AuthResponse{Token: token, User: user}, nil
}
