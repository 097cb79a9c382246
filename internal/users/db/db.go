package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"rail-ticketing/internal/errs"
	"rail-ticketing/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateUser(ctx context.Context, u *models.User) error {
	if _, err := d.Bun.NewInsert().Model(u).Exec(ctx); err != nil {
		return errs.Internal(err, "failed to create user")
	}
	return nil
}

func (d *DB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := d.Bun.NewSelect().
		Model(&u).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("user %s not found", id)
	}
	if err != nil {
		return nil, errs.Internal(err, "failed to load user %s", id)
	}
	return &u, nil
}

func (d *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := d.Bun.NewSelect().
		Model(&u).
		Where("email = ?", email).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("no user with email %s", email)
	}
	if err != nil {
		return nil, errs.Internal(err, "failed to load user by email")
	}
	return &u, nil
}

func (d *DB) UpdateUserRole(ctx context.Context, id, role string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.User)(nil)).
		Set("role = ?", role).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errs.Internal(err, "failed to update role of user %s", id)
	}
	return nil
}

func (d *DB) ListUsers(ctx context.Context, limit, offset int) ([]models.User, int, error) {
	var list []models.User
	total, err := d.Bun.NewSelect().
		Model(&list).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errs.Internal(err, "failed to list users")
	}
	return list, total, nil
}
