package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"rail-ticketing/internal/models"
)

// liveTicketIndex is the storage-level guarantee behind the seat capacity
// invariant: at most one non-cancelled ticket per (schedule, seat). Valid on
// both PostgreSQL and SQLite.
const liveTicketIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS tickets_live_schedule_seat_idx
ON tickets (schedule_id, seat_id)
WHERE booking_status <> 'CANCELLED'`

const routeFareIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS route_prices_route_coach_type_idx
ON route_prices (route_id, coach_type)`

// Migrate creates all tables and indexes if they do not exist.
func Migrate(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.Station)(nil),
		(*models.Train)(nil),
		(*models.Coach)(nil),
		(*models.Seat)(nil),
		(*models.Route)(nil),
		(*models.RoutePrice)(nil),
		(*models.Schedule)(nil),
		(*models.Ticket)(nil),
		(*models.Payment)(nil),
		(*models.Voucher)(nil),
		(*models.User)(nil),
	}

	for _, table := range tables {
		if _, err := db.NewCreateTable().Model(table).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", table, err)
		}
	}

	for _, index := range []string{liveTicketIndex, routeFareIndex} {
		if _, err := db.ExecContext(ctx, index); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	return nil
}
