package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rail-ticketing/internal/errs"
	"rail-ticketing/internal/logger"
	"rail-ticketing/internal/models"
	"rail-ticketing/internal/payment"
	"rail-ticketing/internal/utils"
)

type DBLayer interface {
	GetScheduleByID(ctx context.Context, id string) (*models.Schedule, error)
	GetSeatByID(ctx context.Context, id string) (*models.Seat, error)
	GetCoachByID(ctx context.Context, id string) (*models.Coach, error)
	GetLiveTicket(ctx context.Context, scheduleID, seatID string) (*models.Ticket, error)
	GetRoutePrice(ctx context.Context, routeID, coachType string) (*models.RoutePrice, error)
	GetVoucherByCode(ctx context.Context, code string) (*models.Voucher, error)
	CreateTicketWithPayment(ctx context.Context, ticket *models.Ticket, pay *models.Payment) error
	GetTicketByID(ctx context.Context, id string) (*models.Ticket, error)
	GetPaymentByTicketID(ctx context.Context, ticketID string) (*models.Payment, error)
	MarkCheckedIn(ctx context.Context, ticketID string, at time.Time) (bool, error)
	CancelTicketWithRefund(ctx context.Context, ticketID string) (*models.Ticket, *models.Payment, error)
	RecordPayment(ctx context.Context, ticketID, status, method, providerRef string, at time.Time) (*models.Payment, error)
	ListTicketsByUser(ctx context.Context, userID string, limit, offset int) ([]models.Ticket, int, error)
}

// SeatHold is a short-lived hold on a (schedule, seat) pair taken before the
// booking transaction. It narrows the race window; the partial unique index
// on tickets is what actually guarantees the capacity invariant.
type SeatHold interface {
	Hold(ctx context.Context, scheduleID, seatID, token string) (bool, error)
	Release(ctx context.Context, scheduleID, seatID, token string) error
}

type EventPublisher interface {
	PublishTicketBooked(ticket models.Ticket) error
	PublishTicketCheckedIn(ticket models.Ticket) error
	PublishTicketCancelled(ticket models.Ticket) error
	PublishPaymentRecorded(pay models.Payment) error
}

type Service struct {
	DB            DBLayer
	Holds         SeatHold
	Events        EventPublisher
	Gateway       payment.Gateway
	QR            *QRGenerator
	Logger        *logger.Logger
	CheckinCutoff time.Duration
}

func NewService(db DBLayer, holds SeatHold, events EventPublisher, gateway payment.Gateway, qr *QRGenerator, log *logger.Logger, checkinCutoff time.Duration) *Service {
	return &Service{
		DB:            db,
		Holds:         holds,
		Events:        events,
		Gateway:       gateway,
		QR:            qr,
		Logger:        log,
		CheckinCutoff: checkinCutoff,
	}
}

// BookingResult is the ticket/payment pair produced by a successful booking.
type BookingResult struct {
	Ticket  models.Ticket  `json:"ticket"`
	Payment models.Payment `json:"payment"`
}

// resolveRun resolves a (schedule, seat) pair to its full entity references.
// A cancelled schedule or a seat that is not on the schedule's train is
// reported as NotFound.
func (s *Service) resolveRun(ctx context.Context, scheduleID, seatID string) (*models.Schedule, *models.Seat, *models.Coach, error) {
	schedule, err := s.DB.GetScheduleByID(ctx, scheduleID)
	if err != nil {
		return nil, nil, nil, err
	}
	if schedule.Status == models.ScheduleStatusCancelled {
		return nil, nil, nil, errs.NotFound("schedule %s is cancelled", scheduleID)
	}

	seat, err := s.DB.GetSeatByID(ctx, seatID)
	if err != nil {
		return nil, nil, nil, err
	}

	coach, err := s.DB.GetCoachByID(ctx, seat.CoachID)
	if err != nil {
		return nil, nil, nil, err
	}
	if coach.TrainID != schedule.TrainID {
		return nil, nil, nil, errs.NotFound("seat %s is not on the train of schedule %s", seatID, scheduleID)
	}

	return schedule, seat, coach, nil
}

// CheckAvailability reports whether the seat is free for the schedule run.
// Read path, no side effects.
func (s *Service) CheckAvailability(ctx context.Context, scheduleID, seatID string) (bool, error) {
	if _, _, _, err := s.resolveRun(ctx, scheduleID, seatID); err != nil {
		return false, err
	}

	live, err := s.DB.GetLiveTicket(ctx, scheduleID, seatID)
	if err != nil {
		return false, err
	}
	return live == nil, nil
}

// Book allocates the seat on the schedule run to the user and persists the
// ticket/payment pair as one unit. A concurrent booking of the same pair
// loses with Conflict.
func (s *Service) Book(ctx context.Context, userID, scheduleID, seatID, voucherCode string) (*BookingResult, error) {
	if userID == "" || scheduleID == "" || seatID == "" {
		return nil, errs.Validation("user_id, schedule_id and seat_id are required")
	}

	schedule, seat, coach, err := s.resolveRun(ctx, scheduleID, seatID)
	if err != nil {
		return nil, err
	}
	if schedule.Status != models.ScheduleStatusScheduled {
		return nil, errs.InvalidState("schedule %s is %s and no longer bookable", scheduleID, schedule.Status)
	}

	live, err := s.DB.GetLiveTicket(ctx, scheduleID, seatID)
	if err != nil {
		return nil, err
	}
	if live != nil {
		return nil, errs.Conflict("seat %s is already booked for schedule %s", seatID, scheduleID)
	}

	reference := utils.GenerateBookingReference()

	if s.Holds != nil {
		held, err := s.Holds.Hold(ctx, scheduleID, seatID, reference)
		if err != nil {
			return nil, errs.Internal(err, "seat hold failed")
		}
		if !held {
			return nil, errs.Conflict("seat %s is being booked by another request", seatID)
		}
		defer func() {
			_ = s.Holds.Release(ctx, scheduleID, seatID, reference)
		}()
	}

	fare, err := s.DB.GetRoutePrice(ctx, schedule.RouteID, coach.CoachType)
	if err != nil {
		return nil, err
	}

	var discount float64
	if voucherCode != "" {
		voucher, err := s.DB.GetVoucherByCode(ctx, voucherCode)
		if err != nil {
			return nil, err
		}
		if !voucher.Usable(time.Now()) {
			return nil, errs.InvalidState("voucher %s is inactive or outside its validity window", voucherCode)
		}
		discount = voucher.DiscountAmount
	}

	finalAmount := fare.Price - discount
	if finalAmount < 0 {
		finalAmount = 0
	}

	now := time.Now()
	ticket := models.Ticket{
		ID:               uuid.NewString(),
		BookingReference: reference,
		ScheduleID:       schedule.ID,
		SeatID:           seat.ID,
		CoachID:          coach.ID,
		TrainID:          schedule.TrainID,
		UserID:           userID,
		BookingStatus:    models.TicketStatusBooked,
		Price:            fare.Price,
		BookedAt:         now,
	}

	if s.QR != nil {
		qrBytes, err := s.QR.GenerateEncryptedQR(ticket)
		if err != nil {
			return nil, errs.Internal(err, "failed to generate ticket QR")
		}
		ticket.QRCode = qrBytes
	}

	pay := models.Payment{
		ID:             uuid.NewString(),
		TicketID:       ticket.ID,
		OriginalAmount: fare.Price,
		DiscountAmount: discount,
		FinalAmount:    finalAmount,
		PaymentStatus:  models.PaymentStatusPending,
		CreatedAt:      now,
	}

	if err := s.DB.CreateTicketWithPayment(ctx, &ticket, &pay); err != nil {
		return nil, err
	}

	s.Logger.LogBooking("BOOK", ticket.ID, fmt.Sprintf("seat %s on schedule %s for user %s (%.2f)", seat.SeatNumber, schedule.ID, userID, finalAmount))

	if s.Events != nil {
		if err := s.Events.PublishTicketBooked(ticket); err != nil {
			s.Logger.Warn("KAFKA", fmt.Sprintf("Failed to publish ticket booked event: %v", err))
		}
	}

	return &BookingResult{Ticket: ticket, Payment: pay}, nil
}

// Checkin transitions a BOOKED ticket to CHECKED_IN. Check-in closes
// CheckinCutoff before the scheduled departure.
func (s *Service) Checkin(ctx context.Context, ticketID string) (*models.Ticket, error) {
	ticket, err := s.DB.GetTicketByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.BookingStatus != models.TicketStatusBooked {
		return nil, errs.InvalidState("ticket %s is %s, only booked tickets can check in", ticketID, ticket.BookingStatus)
	}

	schedule, err := s.DB.GetScheduleByID(ctx, ticket.ScheduleID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if !now.Before(schedule.DepartureTime.Add(-s.CheckinCutoff)) {
		return nil, errs.InvalidState("check-in for schedule %s is closed", schedule.ID)
	}

	// Conditional update: a racing check-in or cancellation loses here.
	ok, err := s.DB.MarkCheckedIn(ctx, ticketID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.InvalidState("ticket %s changed state concurrently", ticketID)
	}

	ticket.BookingStatus = models.TicketStatusCheckedIn
	ticket.CheckedInAt = now

	s.Logger.LogBooking("CHECKIN", ticket.ID, fmt.Sprintf("checked in at %s", now.Format(time.RFC3339)))

	if s.Events != nil {
		if err := s.Events.PublishTicketCheckedIn(*ticket); err != nil {
			s.Logger.Warn("KAFKA", fmt.Sprintf("Failed to publish check-in event: %v", err))
		}
	}

	return ticket, nil
}

// Cancel transitions a BOOKED ticket to CANCELLED. A PAID payment moves to
// REFUNDED in the same transaction; the refund notification to the gateway is
// best-effort after commit. A PENDING payment is left untouched.
func (s *Service) Cancel(ctx context.Context, ticketID string) (*BookingResult, error) {
	if _, err := s.DB.GetTicketByID(ctx, ticketID); err != nil {
		return nil, err
	}

	ticket, pay, err := s.DB.CancelTicketWithRefund(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	s.Logger.LogBooking("CANCEL", ticket.ID, fmt.Sprintf("cancelled, payment %s", pay.PaymentStatus))

	if pay.PaymentStatus == models.PaymentStatusRefunded && s.Gateway != nil {
		if err := s.Gateway.NotifyRefund(ctx, *pay); err != nil {
			s.Logger.Warn("PAYMENT", fmt.Sprintf("Refund notification failed for payment %s: %v", pay.ID, err))
		}
	}

	if s.Events != nil {
		if err := s.Events.PublishTicketCancelled(*ticket); err != nil {
			s.Logger.Warn("KAFKA", fmt.Sprintf("Failed to publish cancellation event: %v", err))
		}
	}

	return &BookingResult{Ticket: *ticket, Payment: *pay}, nil
}

// RecordPayment records the outcome reported by the payment collaborator:
// PENDING becomes PAID or FAILED.
func (s *Service) RecordPayment(ctx context.Context, ticketID, status, method, providerRef string) (*models.Payment, error) {
	if status != models.PaymentStatusPaid && status != models.PaymentStatusFailed {
		return nil, errs.Validation("payment status must be %s or %s", models.PaymentStatusPaid, models.PaymentStatusFailed)
	}

	ticket, err := s.DB.GetTicketByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.BookingStatus == models.TicketStatusCancelled {
		return nil, errs.InvalidState("ticket %s is cancelled", ticketID)
	}

	pay, err := s.DB.RecordPayment(ctx, ticketID, status, method, providerRef, time.Now())
	if err != nil {
		return nil, err
	}

	s.Logger.LogBooking("PAYMENT", ticketID, fmt.Sprintf("payment recorded as %s", status))

	if s.Events != nil {
		if err := s.Events.PublishPaymentRecorded(*pay); err != nil {
			s.Logger.Warn("KAFKA", fmt.Sprintf("Failed to publish payment event: %v", err))
		}
	}

	return pay, nil
}

// GetTicket returns a ticket with its payment.
func (s *Service) GetTicket(ctx context.Context, ticketID string) (*BookingResult, error) {
	ticket, err := s.DB.GetTicketByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	pay, err := s.DB.GetPaymentByTicketID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return &BookingResult{Ticket: *ticket, Payment: *pay}, nil
}

// ListUserTickets returns one page of the user's tickets, newest first.
func (s *Service) ListUserTickets(ctx context.Context, userID string, limit, offset int) ([]models.Ticket, int, error) {
	return s.DB.ListTicketsByUser(ctx, userID, limit, offset)
}
