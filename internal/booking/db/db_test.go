package db_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"rail-ticketing/internal/booking/db"
	"rail-ticketing/internal/database"
	"rail-ticketing/internal/errs"
	"rail-ticketing/internal/models"
)

func setupTestDB(t *testing.T) *db.DB {
	t.Helper()

	// A private in-memory database per test; one connection so every query
	// sees the same database.
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:")
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	if err := database.Migrate(context.Background(), bunDB); err != nil {
		t.Fatalf("Migration failed: %v", err)
	}

	t.Cleanup(func() { bunDB.Close() })
	return &db.DB{Bun: bunDB}
}

func newTicket(id, reference, scheduleID, seatID string) *models.Ticket {
	return &models.Ticket{
		ID:               id,
		BookingReference: reference,
		ScheduleID:       scheduleID,
		SeatID:           seatID,
		CoachID:          "coach1",
		TrainID:          "train1",
		UserID:           "user1",
		BookingStatus:    models.TicketStatusBooked,
		Price:            50.0,
		BookedAt:         time.Now(),
	}
}

func newPayment(id, ticketID string) *models.Payment {
	return &models.Payment{
		ID:             id,
		TicketID:       ticketID,
		OriginalAmount: 50.0,
		FinalAmount:    50.0,
		PaymentStatus:  models.PaymentStatusPending,
		CreatedAt:      time.Now(),
	}
}

func TestCreateTicketWithPayment(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	if err := d.CreateTicketWithPayment(ctx, newTicket("t1", "BR-1", "sched1", "seat1"), newPayment("p1", "t1")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	ticket, err := d.GetTicketByID(ctx, "t1")
	if err != nil {
		t.Fatalf("Failed to load ticket: %v", err)
	}
	if ticket.BookingStatus != models.TicketStatusBooked {
		t.Errorf("Expected status %s, got %s", models.TicketStatusBooked, ticket.BookingStatus)
	}

	pay, err := d.GetPaymentByTicketID(ctx, "t1")
	if err != nil {
		t.Fatalf("Failed to load payment: %v", err)
	}
	if pay.PaymentStatus != models.PaymentStatusPending {
		t.Errorf("Expected payment status %s, got %s", models.PaymentStatusPending, pay.PaymentStatus)
	}
}

func TestLiveTicketIndexRejectsDoubleBooking(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	if err := d.CreateTicketWithPayment(ctx, newTicket("t1", "BR-1", "sched1", "seat1"), newPayment("p1", "t1")); err != nil {
		t.Fatalf("First booking failed: %v", err)
	}

	err := d.CreateTicketWithPayment(ctx, newTicket("t2", "BR-2", "sched1", "seat1"), newPayment("p2", "t2"))
	if errs.KindOf(err) != errs.KindConflict {
		t.Fatalf("Expected Conflict for same (schedule, seat), got %v", err)
	}

	// Neither half of the failed pair is visible.
	if _, err := d.GetTicketByID(ctx, "t2"); errs.KindOf(err) != errs.KindNotFound {
		t.Errorf("Expected the conflicting ticket to be absent, got %v", err)
	}
	if _, err := d.GetPaymentByTicketID(ctx, "t2"); errs.KindOf(err) != errs.KindNotFound {
		t.Errorf("Expected the conflicting payment to be absent, got %v", err)
	}

	// A different seat or a different schedule is allowed.
	if err := d.CreateTicketWithPayment(ctx, newTicket("t3", "BR-3", "sched1", "seat2"), newPayment("p3", "t3")); err != nil {
		t.Errorf("Expected booking of another seat to succeed, got %v", err)
	}
	if err := d.CreateTicketWithPayment(ctx, newTicket("t4", "BR-4", "sched2", "seat1"), newPayment("p4", "t4")); err != nil {
		t.Errorf("Expected booking on another schedule to succeed, got %v", err)
	}
}

func TestDuplicateReferenceIsNotASeatConflict(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	if err := d.CreateTicketWithPayment(ctx, newTicket("t1", "BR-1", "sched1", "seat1"), newPayment("p1", "t1")); err != nil {
		t.Fatalf("Booking failed: %v", err)
	}

	// A reused booking reference on a free seat trips the reference
	// constraint, not the capacity index.
	err := d.CreateTicketWithPayment(ctx, newTicket("t2", "BR-1", "sched1", "seat2"), newPayment("p2", "t2"))
	if err == nil {
		t.Fatal("Expected an error for a duplicate booking reference")
	}
	if errs.KindOf(err) == errs.KindConflict {
		t.Errorf("Expected the duplicate reference not to be reported as a seat conflict, got %v", err)
	}
}

func TestCancelledSeatIsRebookable(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	if err := d.CreateTicketWithPayment(ctx, newTicket("t1", "BR-1", "sched1", "seat1"), newPayment("p1", "t1")); err != nil {
		t.Fatalf("First booking failed: %v", err)
	}

	ticket, pay, err := d.CancelTicketWithRefund(ctx, "t1")
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if ticket.BookingStatus != models.TicketStatusCancelled {
		t.Errorf("Expected status %s, got %s", models.TicketStatusCancelled, ticket.BookingStatus)
	}
	if pay.PaymentStatus != models.PaymentStatusPending {
		t.Errorf("Expected pending payment to stay %s, got %s", models.PaymentStatusPending, pay.PaymentStatus)
	}

	// The cancelled row no longer occupies the index slot.
	live, err := d.GetLiveTicket(ctx, "sched1", "seat1")
	if err != nil {
		t.Fatalf("GetLiveTicket failed: %v", err)
	}
	if live != nil {
		t.Error("Expected no live ticket after cancellation")
	}

	if err := d.CreateTicketWithPayment(ctx, newTicket("t2", "BR-2", "sched1", "seat1"), newPayment("p2", "t2")); err != nil {
		t.Errorf("Expected rebooking after cancel to succeed, got %v", err)
	}
}

func TestCancelRefundsPaidPayment(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	if err := d.CreateTicketWithPayment(ctx, newTicket("t1", "BR-1", "sched1", "seat1"), newPayment("p1", "t1")); err != nil {
		t.Fatalf("Booking failed: %v", err)
	}
	if _, err := d.RecordPayment(ctx, "t1", models.PaymentStatusPaid, "CARD", "pi_123", time.Now()); err != nil {
		t.Fatalf("Recording payment failed: %v", err)
	}

	_, pay, err := d.CancelTicketWithRefund(ctx, "t1")
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if pay.PaymentStatus != models.PaymentStatusRefunded {
		t.Errorf("Expected payment status %s, got %s", models.PaymentStatusRefunded, pay.PaymentStatus)
	}

	// A second cancel finds no BOOKED row.
	if _, _, err := d.CancelTicketWithRefund(ctx, "t1"); errs.KindOf(err) != errs.KindInvalidState {
		t.Errorf("Expected InvalidState for repeated cancel, got %v", err)
	}
}

func TestMarkCheckedIn(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	if err := d.CreateTicketWithPayment(ctx, newTicket("t1", "BR-1", "sched1", "seat1"), newPayment("p1", "t1")); err != nil {
		t.Fatalf("Booking failed: %v", err)
	}

	ok, err := d.MarkCheckedIn(ctx, "t1", time.Now())
	if err != nil {
		t.Fatalf("MarkCheckedIn failed: %v", err)
	}
	if !ok {
		t.Fatal("Expected first check-in to succeed")
	}

	// The conditional update matches no row the second time.
	ok, err = d.MarkCheckedIn(ctx, "t1", time.Now())
	if err != nil {
		t.Fatalf("MarkCheckedIn failed: %v", err)
	}
	if ok {
		t.Error("Expected second check-in to find no BOOKED row")
	}

	ticket, err := d.GetTicketByID(ctx, "t1")
	if err != nil {
		t.Fatalf("Failed to load ticket: %v", err)
	}
	if ticket.BookingStatus != models.TicketStatusCheckedIn {
		t.Errorf("Expected status %s, got %s", models.TicketStatusCheckedIn, ticket.BookingStatus)
	}
	if ticket.CheckedInAt.IsZero() {
		t.Error("Expected checked_in_at to be set")
	}
}

func TestRecordPaymentTransitions(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	if err := d.CreateTicketWithPayment(ctx, newTicket("t1", "BR-1", "sched1", "seat1"), newPayment("p1", "t1")); err != nil {
		t.Fatalf("Booking failed: %v", err)
	}

	pay, err := d.RecordPayment(ctx, "t1", models.PaymentStatusFailed, "CARD", "", time.Now())
	if err != nil {
		t.Fatalf("Recording payment failed: %v", err)
	}
	if pay.PaymentStatus != models.PaymentStatusFailed {
		t.Errorf("Expected status %s, got %s", models.PaymentStatusFailed, pay.PaymentStatus)
	}
	if !pay.PaidAt.IsZero() {
		t.Error("Expected paid_at to stay unset for a failed payment")
	}

	// Settled payments reject a second report.
	if _, err := d.RecordPayment(ctx, "t1", models.PaymentStatusPaid, "CARD", "", time.Now()); errs.KindOf(err) != errs.KindInvalidState {
		t.Errorf("Expected InvalidState for settled payment, got %v", err)
	}
}

func TestListTicketsByUser(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	for i, seat := range []string{"seat1", "seat2", "seat3"} {
		ticket := newTicket("t"+seat, "BR-"+seat, "sched1", seat)
		ticket.BookedAt = time.Now().Add(time.Duration(i) * time.Minute)
		if err := d.CreateTicketWithPayment(ctx, ticket, newPayment("p"+seat, ticket.ID)); err != nil {
			t.Fatalf("Booking failed: %v", err)
		}
	}

	tickets, total, err := d.ListTicketsByUser(ctx, "user1", 2, 0)
	if err != nil {
		t.Fatalf("Listing failed: %v", err)
	}
	if total != 3 {
		t.Errorf("Expected total 3, got %d", total)
	}
	if len(tickets) != 2 {
		t.Errorf("Expected page of 2, got %d", len(tickets))
	}
	// Newest first.
	if len(tickets) == 2 && tickets[0].BookedAt.Before(tickets[1].BookedAt) {
		t.Error("Expected tickets ordered newest first")
	}

	_, total, err = d.ListTicketsByUser(ctx, "nobody", 10, 0)
	if err != nil {
		t.Fatalf("Listing failed: %v", err)
	}
	if total != 0 {
		t.Errorf("Expected no tickets for unknown user, got %d", total)
	}
}
