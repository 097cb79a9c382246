package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"rail-ticketing/internal/auth"
	"rail-ticketing/internal/errs"
	"rail-ticketing/internal/logger"
	"rail-ticketing/internal/models"
)

type DBLayer interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserRole(ctx context.Context, id, role string) error
	ListUsers(ctx context.Context, limit, offset int) ([]models.User, int, error)
}

type Service struct {
	DB     DBLayer
	Tokens *auth.TokenIssuer
	Logger *logger.Logger
}

func NewService(db DBLayer, tokens *auth.TokenIssuer, log *logger.Logger) *Service {
	return &Service{DB: db, Tokens: tokens, Logger: log}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

func (r RegisterRequest) validate() error {
	if !strings.Contains(r.Email, "@") {
		return errs.Validation("a valid email is required")
	}
	if len(r.Password) < 8 {
		return errs.Validation("password must be at least 8 characters")
	}
	if strings.TrimSpace(r.FullName) == "" {
		return errs.Validation("full_name is required")
	}
	return nil
}

// Register creates a PASSENGER account. Staff roles are granted separately
// by an admin via SetRole.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := s.DB.GetUserByEmail(ctx, email)
	if err != nil && errs.KindOf(err) != errs.KindNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, errs.Conflict("email %s is already registered", email)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		Role:         models.RolePassenger,
	}
	if err := s.DB.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.Logger.Info("AUTH", fmt.Sprintf("registered user %s", user.ID))
	return user, nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.DB.GetUserByEmail(ctx, email)
	if err != nil {
		if errs.KindOf(err) == errs.KindNotFound {
			return nil, errs.Unauthorized("invalid email or password")
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, errs.Unauthorized("invalid email or password")
	}

	token, err := s.Tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	return s.DB.GetUserByID(ctx, id)
}

// SetRole promotes or demotes an account. Admin only at the API layer.
func (s *Service) SetRole(ctx context.Context, id, role string) (*models.User, error) {
	switch role {
	case models.RoleAdmin, models.RoleOperator, models.RolePassenger:
	default:
		return nil, errs.Validation("role %q is not a known role", role)
	}

	user, err := s.DB.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.DB.UpdateUserRole(ctx, id, role); err != nil {
		return nil, err
	}
	user.Role = role
	s.Logger.Info("AUTH", fmt.Sprintf("set role of user %s to %s", id, role))
	return user, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]models.User, int, error) {
	return s.DB.ListUsers(ctx, limit, offset)
}

// EnsureAdmin creates the bootstrap admin account from configuration when
// no account with that email exists yet.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := s.DB.GetUserByEmail(ctx, email)
	if err != nil && errs.KindOf(err) != errs.KindNotFound {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FullName:     "Administrator",
		Role:         models.RoleAdmin,
	}
	if err := s.DB.CreateUser(ctx, admin); err != nil {
		return err
	}
	s.Logger.Info("AUTH", fmt.Sprintf("bootstrapped admin account %s", email))
	return nil
}
