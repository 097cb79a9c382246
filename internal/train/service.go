package train

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"rail-ticketing/internal/errs"
	"rail-ticketing/internal/models"
)

type DBLayer interface {
	CreateTrain(ctx context.Context, train *models.Train) error
	GetTrainByID(ctx context.Context, id string) (*models.Train, error)
	GetTrainByName(ctx context.Context, name string) (*models.Train, error)
	UpdateTrain(ctx context.Context, train *models.Train) error
	DeleteTrain(ctx context.Context, id string) error
	SearchTrains(ctx context.Context, query string, limit, offset int) ([]models.Train, int, error)

	CreateCoach(ctx context.Context, coach *models.Coach) error
	GetCoachByID(ctx context.Context, id string) (*models.Coach, error)
	ListCoachesByTrain(ctx context.Context, trainID string) ([]models.Coach, error)
	DeleteCoach(ctx context.Context, id string) error

	CreateSeats(ctx context.Context, seats []models.Seat) error
	ListSeatsByCoach(ctx context.Context, coachID string) ([]models.Seat, error)
}

type Service struct {
	DB DBLayer
}

func NewService(db DBLayer) *Service {
	return &Service{DB: db}
}

type CreateTrainRequest struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

func (s *Service) Create(ctx context.Context, req CreateTrainRequest) (*models.Train, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errs.Validation("name is required")
	}
	if strings.TrimSpace(req.Number) == "" {
		return nil, errs.Validation("number is required")
	}

	existing, err := s.DB.GetTrainByName(ctx, name)
	if err != nil && errs.KindOf(err) != errs.KindNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, errs.Conflict("train name %q already exists", name)
	}

	train := &models.Train{
		ID:     uuid.NewString(),
		Name:   name,
		Number: strings.TrimSpace(req.Number),
	}
	if err := s.DB.CreateTrain(ctx, train); err != nil {
		return nil, err
	}
	return train, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Train, error) {
	return s.DB.GetTrainByID(ctx, id)
}

type UpdateTrainRequest struct {
	Name   *string `json:"name,omitempty"`
	Number *string `json:"number,omitempty"`
}

func (s *Service) Update(ctx context.Context, id string, req UpdateTrainRequest) (*models.Train, error) {
	train, err := s.DB.GetTrainByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errs.Validation("name must not be empty")
		}
		if name != train.Name {
			existing, err := s.DB.GetTrainByName(ctx, name)
			if err != nil && errs.KindOf(err) != errs.KindNotFound {
				return nil, err
			}
			if existing != nil {
				return nil, errs.Conflict("train name %q already exists", name)
			}
			train.Name = name
		}
	}
	if req.Number != nil {
		if strings.TrimSpace(*req.Number) == "" {
			return nil, errs.Validation("number must not be empty")
		}
		train.Number = strings.TrimSpace(*req.Number)
	}

	if err := s.DB.UpdateTrain(ctx, train); err != nil {
		return nil, err
	}
	return train, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.DB.GetTrainByID(ctx, id); err != nil {
		return err
	}
	return s.DB.DeleteTrain(ctx, id)
}

func (s *Service) Search(ctx context.Context, query string, limit, offset int) ([]models.Train, int, error) {
	return s.DB.SearchTrains(ctx, strings.TrimSpace(query), limit, offset)
}

type AddCoachRequest struct {
	CoachNumber string   `json:"coach_number"`
	CoachType   string   `json:"coach_type"`
	SeatNumbers []string `json:"seat_numbers"`
}

// AddCoach attaches a coach and its seats to a train.
func (s *Service) AddCoach(ctx context.Context, trainID string, req AddCoachRequest) (*models.Coach, error) {
	if strings.TrimSpace(req.CoachNumber) == "" {
		return nil, errs.Validation("coach_number is required")
	}
	if !models.ValidCoachType(req.CoachType) {
		return nil, errs.Validation("coach_type %q is not a known coach class", req.CoachType)
	}

	if _, err := s.DB.GetTrainByID(ctx, trainID); err != nil {
		return nil, err
	}

	coach := &models.Coach{
		ID:          uuid.NewString(),
		TrainID:     trainID,
		CoachNumber: strings.TrimSpace(req.CoachNumber),
		CoachType:   req.CoachType,
	}
	if err := s.DB.CreateCoach(ctx, coach); err != nil {
		return nil, err
	}

	if len(req.SeatNumbers) > 0 {
		seats := make([]models.Seat, 0, len(req.SeatNumbers))
		for _, number := range req.SeatNumbers {
			if strings.TrimSpace(number) == "" {
				continue
			}
			seats = append(seats, models.Seat{
				ID:         uuid.NewString(),
				CoachID:    coach.ID,
				SeatNumber: strings.TrimSpace(number),
			})
		}
		if err := s.DB.CreateSeats(ctx, seats); err != nil {
			return nil, err
		}
	}

	return coach, nil
}

func (s *Service) ListCoaches(ctx context.Context, trainID string) ([]models.Coach, error) {
	if _, err := s.DB.GetTrainByID(ctx, trainID); err != nil {
		return nil, err
	}
	return s.DB.ListCoachesByTrain(ctx, trainID)
}

func (s *Service) ListSeats(ctx context.Context, coachID string) ([]models.Seat, error) {
	if _, err := s.DB.GetCoachByID(ctx, coachID); err != nil {
		return nil, err
	}
	return s.DB.ListSeatsByCoach(ctx, coachID)
}

func (s *Service) DeleteCoach(ctx context.Context, coachID string) error {
	if _, err := s.DB.GetCoachByID(ctx, coachID); err != nil {
		return err
	}
	return s.DB.DeleteCoach(ctx, coachID)
}
