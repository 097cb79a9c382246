package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/uptrace/bun"

	"rail-ticketing/internal/errs"
	"rail-ticketing/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// isSeatConflict recognizes a violation of the live-ticket capacity index on
// both the production driver (postgres, class 23505 with the index name) and
// the sqlite test driver (which reports the indexed columns). The booking
// transaction also touches the booking_reference and payment ticket_id
// constraints; those are not seat conflicts.
func isSeatConflict(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == "tickets_live_schedule_seat_idx"
	}
	return strings.Contains(err.Error(), "tickets.schedule_id")
}

func (d *DB) GetScheduleByID(ctx context.Context, id string) (*models.Schedule, error) {
	var schedule models.Schedule
	err := d.Bun.NewSelect().
		Model(&schedule).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("schedule %s not found", id)
	}
	if err != nil {
		return nil, errs.Internal(err, "failed to load schedule %s", id)
	}
	return &schedule, nil
}

func (d *DB) GetSeatByID(ctx context.Context, id string) (*models.Seat, error) {
	var seat models.Seat
	err := d.Bun.NewSelect().
		Model(&seat).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("seat %s not found", id)
	}
	if err != nil {
		return nil, errs.Internal(err, "failed to load seat %s", id)
	}
	return &seat, nil
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

// GetLiveTicket returns the non-cancelled ticket holding (scheduleID, seatID),
// or nil when the seat is free.
func (d *DB) GetLiveTicket(ctx context.Context, scheduleID, seatID string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := d.Bun.NewSelect().
		Model(&ticket).
		Where("schedule_id = ?", scheduleID).
		Where("seat_id = ?", seatID).
		Where("booking_status <> ?", models.TicketStatusCancelled).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Internal(err, "failed to check seat occupancy")
	}
	return &ticket, nil
}

func (d *DB) GetRoutePrice(ctx context.Context, routeID, coachType string) (*models.RoutePrice, error) {
	var fare models.RoutePrice
	err := d.Bun.NewSelect().
		Model(&fare).
		Where("route_id = ?", routeID).
		Where("coach_type = ?", coachType).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("no fare configured for route %s coach class %s", routeID, coachType)
	}
	if err != nil {
		return nil, errs.Internal(err, "failed to load fare")
	}
	return &fare, nil
}

func (d *DB) GetVoucherByCode(ctx context.Context, code string) (*models.Voucher, error) {
	var voucher models.Voucher
	err := d.Bun.NewSelect().
		Model(&voucher).
		Where("code = ?", code).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("voucher %s not found", code)
	}
	if err != nil {
		return nil, errs.Internal(err, "failed to load voucher %s", code)
	}
	return &voucher, nil
}

// CreateTicketWithPayment inserts the pair inside one transaction: both rows
// commit or neither is visible. A violation of the live-ticket index surfaces
// as Conflict.
func (d *DB) CreateTicketWithPayment(ctx context.Context, ticket *models.Ticket, pay *models.Payment) error {
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(ticket).Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewInsert().Model(pay).Exec(ctx); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if isSeatConflict(err) {
			return errs.Conflict("seat %s is already booked for schedule %s", ticket.SeatID, ticket.ScheduleID)
		}
		return errs.Internal(err, "failed to persist booking")
	}
	return nil
}

func (d *DB) GetTicketByID(ctx context.Context, id string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := d.Bun.NewSelect().
		Model(&ticket).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("ticket %s not found", id)
	}
	if err != nil {
		return nil, errs.Internal(err, "failed to load ticket %s", id)
	}
	return &ticket, nil
}

func (d *DB) GetPaymentByTicketID(ctx context.Context, ticketID string) (*models.Payment, error) {
	var pay models.Payment
	err := d.Bun.NewSelect().
		Model(&pay).
		Where("ticket_id = ?", ticketID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("payment for ticket %s not found", ticketID)
	}
	if err != nil {
		return nil, errs.Internal(err, "failed to load payment for ticket %s", ticketID)
	}
	return &pay, nil
}

// MarkCheckedIn flips a BOOKED ticket to CHECKED_IN. Returns false when the
// ticket was not in BOOKED state anymore, which serializes racing check-in
// and cancellation on the same row.
func (d *DB) MarkCheckedIn(ctx context.Context, ticketID string, at time.Time) (bool, error) {
	res, err := d.Bun.NewUpdate().
		Model((*models.Ticket)(nil)).
		Set("booking_status = ?", models.TicketStatusCheckedIn).
		Set("checked_in_at = ?", at).
		Where("id = ?", ticketID).
		Where("booking_status = ?", models.TicketStatusBooked).
		Exec(ctx)
	if err != nil {
		return false, errs.Internal(err, "failed to check in ticket %s", ticketID)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, errs.Internal(err, "failed to check in ticket %s", ticketID)
	}
	return rows > 0, nil
}

// CancelTicketWithRefund cancels a BOOKED ticket and, when its payment is
// PAID, marks the payment REFUNDED in the same transaction. A ticket that
// is not BOOKED yields InvalidState.
func (d *DB) CancelTicketWithRefund(ctx context.Context, ticketID string) (*models.Ticket, *models.Payment, error) {
	var ticket models.Ticket
	var pay models.Payment

	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*models.Ticket)(nil)).
			Set("booking_status = ?", models.TicketStatusCancelled).
			Where("id = ?", ticketID).
			Where("booking_status = ?", models.TicketStatusBooked).
			Exec(ctx)
		if err != nil {
			return err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return errs.InvalidState("ticket %s is not in a cancellable state", ticketID)
		}

		if err := tx.NewSelect().Model(&ticket).Where("id = ?", ticketID).Scan(ctx); err != nil {
			return err
		}
		if err := tx.NewSelect().Model(&pay).Where("ticket_id = ?", ticketID).Scan(ctx); err != nil {
			return err
		}

		if pay.PaymentStatus == models.PaymentStatusPaid {
			pay.PaymentStatus = models.PaymentStatusRefunded
			if _, err := tx.NewUpdate().
				Model(&pay).
				Column("payment_status").
				Where("id = ?", pay.ID).
				Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errs.KindOf(err) != errs.KindInternal {
			return nil, nil, err
		}
		return nil, nil, errs.Internal(err, "failed to cancel ticket %s", ticketID)
	}
	return &ticket, &pay, nil
}

// RecordPayment moves a PENDING payment to the reported terminal status. The
// conditional update rejects a second report with InvalidState.
func (d *DB) RecordPayment(ctx context.Context, ticketID, status, method, providerRef string, at time.Time) (*models.Payment, error) {
	query := d.Bun.NewUpdate().
		Model((*models.Payment)(nil)).
		Set("payment_status = ?", status).
		Set("payment_method = ?", method).
		Set("provider_ref = ?", providerRef).
		Where("ticket_id = ?", ticketID).
		Where("payment_status = ?", models.PaymentStatusPending)
	if status == models.PaymentStatusPaid {
		query = query.Set("paid_at = ?", at)
	}
	res, err := query.Exec(ctx)
	if err != nil {
		return nil, errs.Internal(err, "failed to record payment for ticket %s", ticketID)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, errs.Internal(err, "failed to record payment for ticket %s", ticketID)
	}
	if rows == 0 {
		return nil, errs.InvalidState("payment for ticket %s is not pending", ticketID)
	}
	return d.GetPaymentByTicketID(ctx, ticketID)
}

func (d *DB) ListTicketsByUser(ctx context.Context, userID string, limit, offset int) ([]models.Ticket, int, error) {
	var tickets []models.Ticket
	total, err := d.Bun.NewSelect().
		Model(&tickets).
		Where("user_id = ?", userID).
		Order("booked_at DESC").
		Limit(limit).
		Offset(offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errs.Internal(err, "failed to list tickets for user %s", userID)
	}
	return tickets, total, nil
}
