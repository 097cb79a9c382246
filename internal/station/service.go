package station

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"rail-ticketing/internal/errs"
	"rail-ticketing/internal/models"
)

type DBLayer interface {
	CreateStation(ctx context.Context, station *models.Station) error
	GetStationByID(ctx context.Context, id string) (*models.Station, error)
	GetStationByCode(ctx context.Context, code string) (*models.Station, error)
	UpdateStation(ctx context.Context, station *models.Station) error
	DeleteStation(ctx context.Context, id string) error
	SearchStations(ctx context.Context, query string, limit, offset int) ([]models.Station, int, error)
}

type Service struct {
	DB DBLayer
}

func NewService(db DBLayer) *Service {
	return &Service{DB: db}
}

type CreateStationRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
	City string `json:"city"`
}

func (r CreateStationRequest) validate() []string {
	var problems []string
	if strings.TrimSpace(r.Code) == "" {
		problems = append(problems, "code is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		problems = append(problems, "name is required")
	}
	if strings.TrimSpace(r.City) == "" {
		problems = append(problems, "city is required")
	}
	return problems
}

func (s *Service) Create(ctx context.Context, req CreateStationRequest) (*models.Station, error) {
	if problems := req.validate(); len(problems) > 0 {
		return nil, errs.Validation("%s", strings.Join(problems, "; "))
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	existing, err := s.DB.GetStationByCode(ctx, code)
	if err != nil && errs.KindOf(err) != errs.KindNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, errs.Conflict("station code %s already exists", code)
	}

	station := &models.Station{
		ID:   uuid.NewString(),
		Code: code,
		Name: strings.TrimSpace(req.Name),
		City: strings.TrimSpace(req.City),
	}
	if err := s.DB.CreateStation(ctx, station); err != nil {
		return nil, err
	}
	return station, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Station, error) {
	return s.DB.GetStationByID(ctx, id)
}

type UpdateStationRequest struct {
	Name *string `json:"name,omitempty"`
	City *string `json:"city,omitempty"`
}

// Update applies only the fields present in the request.
func (s *Service) Update(ctx context.Context, id string, req UpdateStationRequest) (*models.Station, error) {
	station, err := s.DB.GetStationByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, errs.Validation("name must not be empty")
		}
		station.Name = strings.TrimSpace(*req.Name)
	}
	if req.City != nil {
		if strings.TrimSpace(*req.City) == "" {
			return nil, errs.Validation("city must not be empty")
		}
		station.City = strings.TrimSpace(*req.City)
	}

	if err := s.DB.UpdateStation(ctx, station); err != nil {
		return nil, err
	}
	return station, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.DB.GetStationByID(ctx, id); err != nil {
		return err
	}
	return s.DB.DeleteStation(ctx, id)
}

// Search matches the query case-insensitively against code, name and city.
// An empty query lists all stations.
func (s *Service) Search(ctx context.Context, query string, limit, offset int) ([]models.Station, int, error) {
	return s.DB.SearchStations(ctx, strings.TrimSpace(query), limit, offset)
}
