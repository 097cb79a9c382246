package users_test

import (
	"context"
	"testing"
	"time"

	"rail-ticketing/internal/auth"
	"rail-ticketing/internal/errs"
	"rail-ticketing/internal/logger"
	"rail-ticketing/internal/models"
	"rail-ticketing/internal/users"
)

type MockUserDB struct {
	users   map[string]*models.User
	byEmail map[string]string
}

func NewMockUserDB() *MockUserDB {
	return &MockUserDB{
		users:   make(map[string]*models.User),
		byEmail: make(map[string]string),
	}
}

func (m *MockUserDB) CreateUser(_ context.Context, u *models.User) error {
	copied := *u
	m.users[u.ID] = &copied
	m.byEmail[u.Email] = u.ID
	return nil
}

func (m *MockUserDB) GetUserByID(_ context.Context, id string) (*models.User, error) {
	u, exists := m.users[id]
	if !exists {
		return nil, errs.NotFound("user %s not found", id)
	}
	copied := *u
	return &copied, nil
}

func (m *MockUserDB) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	id, exists := m.byEmail[email]
	if !exists {
		return nil, errs.NotFound("no user with email %s", email)
	}
	copied := *m.users[id]
	return &copied, nil
}

func (m *MockUserDB) UpdateUserRole(_ context.Context, id, role string) error {
	u, exists := m.users[id]
	if !exists {
		return errs.NotFound("user %s not found", id)
	}
	u.Role = role
	return nil
}

func (m *MockUserDB) ListUsers(_ context.Context, limit, offset int) ([]models.User, int, error) {
	var all []models.User
	for _, u := range m.users {
		all = append(all, *u)
	}
	total := len(all)
	if offset > len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func setupUserService() (*users.Service, *MockUserDB) {
	db := NewMockUserDB()
	issuer := auth.NewTokenIssuer("unit-test-secret", time.Hour)
	return users.NewService(db, issuer, logger.NewLogger()), db
}

func TestRegister(t *testing.T) {
	service, _ := setupUserService()
	ctx := context.Background()

	user, err := service.Register(ctx, users.RegisterRequest{
		Email:    "Passenger@Example.com",
		Password: "long-enough-password",
		FullName: "Test Passenger",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user.Email != "passenger@example.com" {
		t.Errorf("Expected email lowercased, got %s", user.Email)
	}
	if user.Role != models.RolePassenger {
		t.Errorf("Expected role %s, got %s", models.RolePassenger, user.Role)
	}
	if user.PasswordHash == "long-enough-password" {
		t.Error("Expected password to be hashed")
	}

	// Duplicate email is rejected regardless of case.
	_, err = service.Register(ctx, users.RegisterRequest{
		Email:    "passenger@example.com",
		Password: "long-enough-password",
		FullName: "Other",
	})
	if errs.KindOf(err) != errs.KindConflict {
		t.Errorf("Expected Conflict for duplicate email, got %v", err)
	}

	// Weak input is rejected.
	_, err = service.Register(ctx, users.RegisterRequest{Email: "not-an-email", Password: "short", FullName: ""})
	if errs.KindOf(err) != errs.KindValidation {
		t.Errorf("Expected Validation, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	service, _ := setupUserService()
	ctx := context.Background()

	if _, err := service.Register(ctx, users.RegisterRequest{
		Email:    "passenger@example.com",
		Password: "long-enough-password",
		FullName: "Test Passenger",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	result, err := service.Login(ctx, users.LoginRequest{
		Email:    "PASSENGER@example.com",
		Password: "long-enough-password",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Token == "" {
		t.Error("Expected a token")
	}
	if result.User.Email != "passenger@example.com" {
		t.Errorf("Unexpected user in result: %s", result.User.Email)
	}

	// Wrong password and unknown email both yield the same Unauthorized.
	if _, err := service.Login(ctx, users.LoginRequest{Email: "passenger@example.com", Password: "wrong"}); errs.KindOf(err) != errs.KindUnauthorized {
		t.Errorf("Expected Unauthorized for wrong password, got %v", err)
	}
	if _, err := service.Login(ctx, users.LoginRequest{Email: "nobody@example.com", Password: "whatever"}); errs.KindOf(err) != errs.KindUnauthorized {
		t.Errorf("Expected Unauthorized for unknown email, got %v", err)
	}
}

func TestSetRole(t *testing.T) {
	service, _ := setupUserService()
	ctx := context.Background()

	user, err := service.Register(ctx, users.RegisterRequest{
		Email:    "passenger@example.com",
		Password: "long-enough-password",
		FullName: "Test Passenger",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	updated, err := service.SetRole(ctx, user.ID, models.RoleOperator)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Role != models.RoleOperator {
		t.Errorf("Expected role %s, got %s", models.RoleOperator, updated.Role)
	}

	if _, err := service.SetRole(ctx, user.ID, "SUPERUSER"); errs.KindOf(err) != errs.KindValidation {
		t.Errorf("Expected Validation for unknown role, got %v", err)
	}
	if _, err := service.SetRole(ctx, "missing", models.RoleOperator); errs.KindOf(err) != errs.KindNotFound {
		t.Errorf("Expected NotFound for unknown user, got %v", err)
	}
}

func TestEnsureAdmin(t *testing.T) {
	service, db := setupUserService()
	ctx := context.Background()

	// No credentials configured: nothing happens.
	if err := service.EnsureAdmin(ctx, "", ""); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(db.users) != 0 {
		t.Errorf("Expected no users, got %d", len(db.users))
	}

	if err := service.EnsureAdmin(ctx, "admin@example.com", "bootstrap-password"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	admin, err := db.GetUserByEmail(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("Admin not created: %v", err)
	}
	if admin.Role != models.RoleAdmin {
		t.Errorf("Expected role %s, got %s", models.RoleAdmin, admin.Role)
	}

	// Idempotent on restart.
	if err := service.EnsureAdmin(ctx, "admin@example.com", "bootstrap-password"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(db.users) != 1 {
		t.Errorf("Expected 1 user after second bootstrap, got %d", len(db.users))
	}

	// Admin can log in with the bootstrap credentials.
	if _, err := service.Login(ctx, users.LoginRequest{Email: "admin@example.com", Password: "bootstrap-password"}); err != nil {
		t.Errorf("Expected admin login to succeed, got %v", err)
	}
}
