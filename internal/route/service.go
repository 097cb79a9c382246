package route

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"rail-ticketing/internal/errs"
	"rail-ticketing/internal/models"
)

type DBLayer interface {
	CreateRoute(ctx context.Context, route *models.Route) error
	GetRouteByID(ctx context.Context, id string) (*models.Route, error)
	UpdateRoute(ctx context.Context, route *models.Route) error
	DeleteRoute(ctx context.Context, id string) error
	SearchRoutes(ctx context.Context, query string, limit, offset int) ([]models.Route, int, error)

	UpsertRoutePrice(ctx context.Context, price *models.RoutePrice) error
	ListRoutePrices(ctx context.Context, routeID string) ([]models.RoutePrice, error)
	DeleteRoutePrice(ctx context.Context, routeID, coachType string) error
}

// StationResolver verifies that origin/destination references exist.
type StationResolver interface {
	GetStationByID(ctx context.Context, id string) (*models.Station, error)
}

type Service struct {
	DB       DBLayer
	Stations StationResolver
}

func NewService(db DBLayer, stations StationResolver) *Service {
	return &Service{DB: db, Stations: stations}
}

type CreateRouteRequest struct {
	Name                 string `json:"name"`
	OriginStationID      string `json:"origin_station_id"`
	DestinationStationID string `json:"destination_station_id"`
}

func (s *Service) Create(ctx context.Context, req CreateRouteRequest) (*models.Route, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, errs.Validation("name is required")
	}
	if req.OriginStationID == "" || req.DestinationStationID == "" {
		return nil, errs.Validation("origin_station_id and destination_station_id are required")
	}
	if req.OriginStationID == req.DestinationStationID {
		return nil, errs.Validation("origin and destination must differ")
	}

	if _, err := s.Stations.GetStationByID(ctx, req.OriginStationID); err != nil {
		return nil, err
	}
	if _, err := s.Stations.GetStationByID(ctx, req.DestinationStationID); err != nil {
		return nil, err
	}

	route := &models.Route{
		ID:                   uuid.NewString(),
		Name:                 strings.TrimSpace(req.Name),
		OriginStationID:      req.OriginStationID,
		DestinationStationID: req.DestinationStationID,
	}
	if err := s.DB.CreateRoute(ctx, route); err != nil {
		return nil, err
	}
	return route, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Route, error) {
	return s.DB.GetRouteByID(ctx, id)
}

type UpdateRouteRequest struct {
	Name *string `json:"name,omitempty"`
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRouteRequest) (*models.Route, error) {
	route, err := s.DB.GetRouteByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, errs.Validation("name must not be empty")
		}
		route.Name = strings.TrimSpace(*req.Name)
	}

	if err := s.DB.UpdateRoute(ctx, route); err != nil {
		return nil, err
	}
	return route, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.DB.GetRouteByID(ctx, id); err != nil {
		return err
	}
	return s.DB.DeleteRoute(ctx, id)
}

func (s *Service) Search(ctx context.Context, query string, limit, offset int) ([]models.Route, int, error) {
	return s.DB.SearchRoutes(ctx, strings.TrimSpace(query), limit, offset)
}

type SetFareRequest struct {
	CoachType string  `json:"coach_type"`
	Price     float64 `json:"price"`
}

// SetFare creates or replaces the fare for (route, coach class).
func (s *Service) SetFare(ctx context.Context, routeID string, req SetFareRequest) (*models.RoutePrice, error) {
	if !models.ValidCoachType(req.CoachType) {
		return nil, errs.Validation("coach_type %q is not a known coach class", req.CoachType)
	}
	if req.Price < 0 {
		return nil, errs.Validation("price must not be negative")
	}

	if _, err := s.DB.GetRouteByID(ctx, routeID); err != nil {
		return nil, err
	}

	price := &models.RoutePrice{
		ID:        uuid.NewString(),
		RouteID:   routeID,
		CoachType: req.CoachType,
		Price:     req.Price,
	}
	if err := s.DB.UpsertRoutePrice(ctx, price); err != nil {
		return nil, err
	}
	return price, nil
}

func (s *Service) ListFares(ctx context.Context, routeID string) ([]models.RoutePrice, error) {
	if _, err := s.DB.GetRouteByID(ctx, routeID); err != nil {
		return nil, err
	}
	return s.DB.ListRoutePrices(ctx, routeID)
}

func (s *Service) DeleteFare(ctx context.Context, routeID, coachType string) error {
	if _, err := s.DB.GetRouteByID(ctx, routeID); err != nil {
		return err
	}
	return s.DB.DeleteRoutePrice(ctx, routeID, coachType)
}
