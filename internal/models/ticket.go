package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	TicketStatusBooked    = "BOOKED"
	TicketStatusCheckedIn = "CHECKED_IN"
	TicketStatusCancelled = "CANCELLED"
)

// Ticket reserves exactly one seat on exactly one schedule run. At most one
// ticket per (schedule_id, seat_id) may be in a non-cancelled state; the
// partial unique index in database.Migrate enforces this.
type Ticket struct {
	bun.BaseModel `bun:"table:tickets"`

	ID               string    `bun:"id,pk" json:"id"`
	BookingReference string    `bun:"booking_reference,notnull,unique" json:"booking_reference"`
	ScheduleID       string    `bun:"schedule_id,notnull" json:"schedule_id"`
	SeatID           string    `bun:"seat_id,notnull" json:"seat_id"`
	CoachID          string    `bun:"coach_id,notnull" json:"coach_id"`
	TrainID          string    `bun:"train_id,notnull" json:"train_id"`
	UserID           string    `bun:"user_id,notnull" json:"user_id"`
	BookingStatus    string    `bun:"booking_status,notnull" json:"booking_status"`
	Price            float64   `bun:"price,notnull" json:"price"`
	QRCode           []byte    `bun:"qr_code,nullzero" json:"-"`
	BookedAt         time.Time `bun:"booked_at,notnull" json:"booked_at"`
	CheckedInAt      time.Time `bun:"checked_in_at,nullzero" json:"checked_in_at,omitempty"`
}
