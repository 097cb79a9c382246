package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"rail-ticketing/internal/errs"
	"rail-ticketing/internal/models"
	"rail-ticketing/internal/schedule"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateSchedule(ctx context.Context, s *models.Schedule) error {
	if _, err := d.Bun.NewInsert().Model(s).Exec(ctx); err != nil {
		return errs.Internal(err, "failed to create schedule")
	}
	return nil
}

func (d *DB) GetScheduleByID(ctx context.Context, id string) (*models.Schedule, error) {
	var s models.Schedule
	err := d.Bun.NewSelect().
		Model(&s).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("schedule %s not found", id)
	}
	if err != nil {
		return nil, errs.Internal(err, "failed to load schedule %s", id)
	}
	return &s, nil
}

func (d *DB) UpdateSchedule(ctx context.Context, s *models.Schedule) error {
	_, err := d.Bun.NewUpdate().
		Model(s).
		Column("departure_time", "arrival_time", "status").
		Where("id = ?", s.ID).
		Exec(ctx)
	if err != nil {
		return errs.Internal(err, "failed to update schedule %s", s.ID)
	}
	return nil
}

func (d *DB) ListSchedules(ctx context.Context, filter schedule.Filter, limit, offset int) ([]models.Schedule, int, error) {
	var schedules []models.Schedule
	q := d.Bun.NewSelect().Model(&schedules).Order("departure_time ASC")
	if filter.TrainID != "" {
		q = q.Where("train_id = ?", filter.TrainID)
	}
	if filter.RouteID != "" {
		q = q.Where("route_id = ?", filter.RouteID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	total, err := q.Limit(limit).Offset(offset).ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errs.Internal(err, "failed to list schedules")
	}
	return schedules, total, nil
}
