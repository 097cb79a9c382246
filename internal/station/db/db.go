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

func (d *DB) CreateStation(ctx context.Context, station *models.Station) error {
	if _, err := d.Bun.NewInsert().Model(station).Exec(ctx); err != nil {
		return errs.Internal(err, "failed to create station")
	}
	return nil
}

func (d *DB) GetStationByID(ctx context.Context, id string) (*models.Station, error) {
	var station models.Station
	err := d.Bun.NewSelect().
		Model(&station).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("station %s not found", id)
	}
	if err != nil {
		return nil, errs.Internal(err, "failed to load station %s", id)
	}
	return &station, nil
}

func (d *DB) GetStationByCode(ctx context.Context, code string) (*models.Station, error) {
	var station models.Station
	err := d.Bun.NewSelect().
		Model(&station).
		Where("code = ?", code).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("station code %s not found", code)
	}
	if err != nil {
		return nil, errs.Internal(err, "failed to load station by code %s", code)
	}
	return &station, nil
}

func (d *DB) UpdateStation(ctx context.Context, station *models.Station) error {
	_, err := d.Bun.NewUpdate().
		Model(station).
		Column("name", "city").
		Where("id = ?", station.ID).
		Exec(ctx)
	if err != nil {
		return errs.Internal(err, "failed to update station %s", station.ID)
	}
	return nil
}

func (d *DB) DeleteStation(ctx context.Context, id string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Station)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errs.Internal(err, "failed to delete station %s", id)
	}
	return nil
}

func (d *DB) SearchStations(ctx context.Context, query string, limit, offset int) ([]models.Station, int, error) {
	var stations []models.Station
	q := d.Bun.NewSelect().Model(&stations).Order("code ASC")
	if query != "" {
		pattern := "%" + strings.ToLower(query) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("lower(code) LIKE ?", pattern).
				WhereOr("lower(name) LIKE ?", pattern).
				WhereOr("lower(city) LIKE ?", pattern)
		})
	}
	total, err := q.Limit(limit).Offset(offset).ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errs.Internal(err, "failed to search stations")
	}
	return stations, total, nil
}
