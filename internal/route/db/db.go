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

func (d *DB) CreateRoute(ctx context.Context, route *models.Route) error {
	if _, err := d.Bun.NewInsert().Model(route).Exec(ctx); err != nil {
		return errs.Internal(err, "failed to create route")
	}
	return nil
}

func (d *DB) GetRouteByID(ctx context.Context, id string) (*models.Route, error) {
	var route models.Route
	err := d.Bun.NewSelect().
		Model(&route).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("route %s not found", id)
	}
	if err != nil {
		return nil, errs.Internal(err, "failed to load route %s", id)
	}
	return &route, nil
}

func (d *DB) UpdateRoute(ctx context.Context, route *models.Route) error {
	_, err := d.Bun.NewUpdate().
		Model(route).
		Column("name").
		Where("id = ?", route.ID).
		Exec(ctx)
	if err != nil {
		return errs.Internal(err, "failed to update route %s", route.ID)
	}
	return nil
}

// DeleteRoute removes the route together with its fares.
func (d *DB) DeleteRoute(ctx context.Context, id string) error {
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*models.RoutePrice)(nil)).
			Where("route_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().
			Model((*models.Route)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		return err
	})
	if err != nil {
		return errs.Internal(err, "failed to delete route %s", id)
	}
	return nil
}

func (d *DB) SearchRoutes(ctx context.Context, query string, limit, offset int) ([]models.Route, int, error) {
	var routes []models.Route
	q := d.Bun.NewSelect().Model(&routes).Order("name ASC")
	if query != "" {
		pattern := "%" + strings.ToLower(query) + "%"
		q = q.Where("lower(name) LIKE ?", pattern)
	}
	total, err := q.Limit(limit).Offset(offset).ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errs.Internal(err, "failed to search routes")
	}
	return routes, total, nil
}

// UpsertRoutePrice replaces any previous fare for the same (route, coach class).
func (d *DB) UpsertRoutePrice(ctx context.Context, price *models.RoutePrice) error {
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*models.RoutePrice)(nil)).
			Where("route_id = ?", price.RouteID).
			Where("coach_type = ?", price.CoachType).
			Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewInsert().Model(price).Exec(ctx)
		return err
	})
	if err != nil {
		return errs.Internal(err, "failed to set fare for route %s", price.RouteID)
	}
	return nil
}

func (d *DB) ListRoutePrices(ctx context.Context, routeID string) ([]models.RoutePrice, error) {
	var prices []models.RoutePrice
	err := d.Bun.NewSelect().
		Model(&prices).
		Where("route_id = ?", routeID).
		Order("coach_type ASC").
		Scan(ctx)
	if err != nil {
		return nil, errs.Internal(err, "failed to list fares for route %s", routeID)
	}
	return prices, nil
}

func (d *DB) DeleteRoutePrice(ctx context.Context, routeID, coachType string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.RoutePrice)(nil)).
		Where("route_id = ?", routeID).
		Where("coach_type = ?", coachType).
		Exec(ctx)
	if err != nil {
		return errs.Internal(err, "failed to delete fare")
	}
	return nil
}
