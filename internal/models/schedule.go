package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	ScheduleStatusScheduled = "SCHEDULED"
	ScheduleStatusDeparted  = "DEPARTED"
	ScheduleStatusCancelled = "CANCELLED"
	ScheduleStatusCompleted = "COMPLETED"
)

// Schedule identifies one bookable run of one train over one route.
type Schedule struct {
	bun.BaseModel `bun:"table:schedules"`

	ID            string    `bun:"id,pk" json:"id"`
	TrainID       string    `bun:"train_id,notnull" json:"train_id"`
	RouteID       string    `bun:"route_id,notnull" json:"route_id"`
	DepartureTime time.Time `bun:"departure_time,notnull" json:"departure_time"`
	ArrivalTime   time.Time `bun:"arrival_time,notnull" json:"arrival_time"`
	Status        string    `bun:"status,notnull" json:"status"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// CanTransitionTo reports whether a schedule status change is legal.
// SCHEDULED may depart or cancel; DEPARTED may only complete.
func (s *Schedule) CanTransitionTo(status string) bool {
	switch s.Status {
	case ScheduleStatusScheduled:
		return status == ScheduleStatusDeparted || status == ScheduleStatusCancelled
	case ScheduleStatusDeparted:
		return status == ScheduleStatusCompleted
	}
	return false
}
