package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/uptrace/bun"

	"rail-ticketing/internal/errs"
	"rail-ticketing/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateTrain(ctx context.Context, train *models.Train) error {
	if _, err := d.Bun.NewInsert().Model(train).Exec(ctx); err != nil {
		return errs.Internal(err, "failed to create train")
	}
	return nil
}

func (d *DB) GetTrainByID(ctx context.Context, id string) (*models.Train, error) {
	var train models.Train
	err := d.Bun.NewSelect().
		Model(&train).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("train %s not found", id)
	}
	if err != nil {
		return nil, errs.Internal(err, "failed to load train %s", id)
	}
	return &train, nil
}

func (d *DB) GetTrainByName(ctx context.Context, name string) (*models.Train, error) {
	var train models.Train
	err := d.Bun.NewSelect().
		Model(&train).
		Where("lower(name) = ?", strings.ToLower(name)).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("train %q not found", name)
	}
	if err != nil {
		return nil, errs.Internal(err, "failed to load train by name")
	}
	return &train, nil
}

func (d *DB) UpdateTrain(ctx context.Context, train *models.Train) error {
	_, err := d.Bun.NewUpdate().
		Model(train).
		Column("name", "number").
		Where("id = ?", train.ID).
		Exec(ctx)
	if err != nil {
		return errs.Internal(err, "failed to update train %s", train.ID)
	}
	return nil
}

func (d *DB) DeleteTrain(ctx context.Context, id string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Train)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errs.Internal(err, "failed to delete train %s", id)
	}
	return nil
}

func (d *DB) SearchTrains(ctx context.Context, query string, limit, offset int) ([]models.Train, int, error) {
	var trains []models.Train
	q := d.Bun.NewSelect().Model(&trains).Order("name ASC")
	if query != "" {
		pattern := "%" + strings.ToLower(query) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("lower(name) LIKE ?", pattern).
				WhereOr("lower(number) LIKE ?", pattern)
		})
	}
	total, err := q.Limit(limit).Offset(offset).ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errs.Internal(err, "failed to search trains")
	}
	return trains, total, nil
}

func (d *DB) CreateCoach(ctx context.Context, coach *models.Coach) error {
	if _, err := d.Bun.NewInsert().Model(coach).Exec(ctx); err != nil {
		return errs.Internal(err, "failed to create coach")
	}
	return nil
}

func (d *DB) GetCoachByID(ctx context.Context, id string) (*models.Coach, error) {
	var coach models.Coach
	err := d.Bun.NewSelect().
		Model(&coach).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("coach %s not found", id)
	}
	if err != nil {
		return nil, errs.Internal(err, "failed to load coach %s", id)
	}
	return &coach, nil
}

func (d *DB) ListCoachesByTrain(ctx context.Context, trainID string) ([]models.Coach, error) {
	var coaches []models.Coach
	err := d.Bun.NewSelect().
		Model(&coaches).
		Where("train_id = ?", trainID).
		Order("coach_number ASC").
		Scan(ctx)
	if err != nil {
		return nil, errs.Internal(err, "failed to list coaches for train %s", trainID)
	}
	return coaches, nil
}

// DeleteCoach removes the coach together with its seats.
func (d *DB) DeleteCoach(ctx context.Context, id string) error {
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*models.Seat)(nil)).
			Where("coach_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().
			Model((*models.Coach)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		return err
	})
	if err != nil {
		return errs.Internal(err, "failed to delete coach %s", id)
	}
	return nil
}

func (d *DB) CreateSeats(ctx context.Context, seats []models.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	if _, err := d.Bun.NewInsert().Model(&seats).Exec(ctx); err != nil {
		return errs.Internal(err, "failed to create seats")
	}
	return nil
}

func (d *DB) ListSeatsByCoach(ctx context.Context, coachID string) ([]models.Seat, error) {
	var seats []models.Seat
	err := d.Bun.NewSelect().
		Model(&seats).
		Where("coach_id = ?", coachID).
		Order("seat_number ASC").
		Scan(ctx)
	if err != nil {
		return nil, errs.Internal(err, "failed to list seats for coach %s", coachID)
	}
	return seats, nil
}
