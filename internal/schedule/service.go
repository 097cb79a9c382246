package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rail-ticketing/internal/errs"
	"rail-ticketing/internal/models"
)

type DBLayer interface {
	CreateSchedule(ctx context.Context, schedule *models.Schedule) error
	GetScheduleByID(ctx context.Context, id string) (*models.Schedule, error)
	UpdateSchedule(ctx context.Context, schedule *models.Schedule) error
	ListSchedules(ctx context.Context, filter Filter, limit, offset int) ([]models.Schedule, int, error)
}

// TrainResolver and RouteResolver verify entity references at creation time.
type TrainResolver interface {
	GetTrainByID(ctx context.Context, id string) (*models.Train, error)
}

type RouteResolver interface {
	GetRouteByID(ctx context.Context, id string) (*models.Route, error)
}

type Service struct {
	DB     DBLayer
	Trains TrainResolver
	Routes RouteResolver
}

func NewService(db DBLayer, trains TrainResolver, routes RouteResolver) *Service {
	return &Service{DB: db, Trains: trains, Routes: routes}
}

// Filter selects schedules by exact identifiers and status.
type Filter struct {
	TrainID string
	RouteID string
	Status  string
}

type CreateScheduleRequest struct {
	TrainID       string    `json:"train_id"`
	RouteID       string    `json:"route_id"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
}

func (s *Service) Create(ctx context.Context, req CreateScheduleRequest) (*models.Schedule, error) {
	if req.TrainID == "" || req.RouteID == "" {
		return nil, errs.Validation("train_id and route_id are required")
	}
	if req.DepartureTime.IsZero() || req.ArrivalTime.IsZero() {
		return nil, errs.Validation("departure_time and arrival_time are required")
	}
	if !req.ArrivalTime.After(req.DepartureTime) {
		return nil, errs.Validation("arrival_time must be after departure_time")
	}

	if _, err := s.Trains.GetTrainByID(ctx, req.TrainID); err != nil {
		return nil, err
	}
	if _, err := s.Routes.GetRouteByID(ctx, req.RouteID); err != nil {
		return nil, err
	}

	schedule := &models.Schedule{
		ID:            uuid.NewString(),
		TrainID:       req.TrainID,
		RouteID:       req.RouteID,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		Status:        models.ScheduleStatusScheduled,
	}
	if err := s.DB.CreateSchedule(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Schedule, error) {
	return s.DB.GetScheduleByID(ctx, id)
}

type UpdateScheduleRequest struct {
	DepartureTime *time.Time `json:"departure_time,omitempty"`
	ArrivalTime   *time.Time `json:"arrival_time,omitempty"`
}

// Update adjusts timings; only SCHEDULED runs may be re-timed.
func (s *Service) Update(ctx context.Context, id string, req UpdateScheduleRequest) (*models.Schedule, error) {
	schedule, err := s.DB.GetScheduleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule.Status != models.ScheduleStatusScheduled {
		return nil, errs.InvalidState("schedule %s is %s and can no longer be re-timed", id, schedule.Status)
	}

	if req.DepartureTime != nil {
		schedule.DepartureTime = *req.DepartureTime
	}
	if req.ArrivalTime != nil {
		schedule.ArrivalTime = *req.ArrivalTime
	}
	if !schedule.ArrivalTime.After(schedule.DepartureTime) {
		return nil, errs.Validation("arrival_time must be after departure_time")
	}

	if err := s.DB.UpdateSchedule(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

// SetStatus applies a lifecycle transition: SCHEDULED may depart or cancel,
// DEPARTED may only complete.
func (s *Service) SetStatus(ctx context.Context, id, status string) (*models.Schedule, error) {
	switch status {
	case models.ScheduleStatusDeparted, models.ScheduleStatusCancelled, models.ScheduleStatusCompleted:
	default:
		return nil, errs.Validation("status %q is not a schedule status", status)
	}

	schedule, err := s.DB.GetScheduleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !schedule.CanTransitionTo(status) {
		return nil, errs.InvalidState("schedule %s cannot move from %s to %s", id, schedule.Status, status)
	}

	schedule.Status = status
	if err := s.DB.UpdateSchedule(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

func (s *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]models.Schedule, int, error) {
	if filter.Status != "" {
		switch filter.Status {
		case models.ScheduleStatusScheduled, models.ScheduleStatusDeparted,
			models.ScheduleStatusCancelled, models.ScheduleStatusCompleted:
		default:
			return nil, 0, errs.Validation("status %q is not a schedule status", filter.Status)
		}
	}
	return s.DB.ListSchedules(ctx, filter, limit, offset)
}
