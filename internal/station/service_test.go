package station_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"rail-ticketing/internal/errs"
	"rail-ticketing/internal/models"
	"rail-ticketing/internal/station"
)

type MockStationDB struct {
	stations     map[string]*models.Station
	byCode       map[string]string
	shouldFailOn string
	errorMsg     string
}

func NewMockStationDB() *MockStationDB {
	return &MockStationDB{
		stations: make(map[string]*models.Station),
		byCode:   make(map[string]string),
	}
}

func (m *MockStationDB) CreateStation(_ context.Context, s *models.Station) error {
	if m.shouldFailOn == "CreateStation" {
		return errors.New(m.errorMsg)
	}
	copied := *s
	m.stations[s.ID] = &copied
	m.byCode[s.Code] = s.ID
	return nil
}

func (m *MockStationDB) GetStationByID(_ context.Context, id string) (*models.Station, error) {
	s, exists := m.stations[id]
	if !exists {
		return nil, errs.NotFound("station %s not found", id)
	}
	copied := *s
	return &copied, nil
}

func (m *MockStationDB) GetStationByCode(_ context.Context, code string) (*models.Station, error) {
	id, exists := m.byCode[code]
	if !exists {
		return nil, errs.NotFound("station code %s not found", code)
	}
	copied := *m.stations[id]
	return &copied, nil
}

func (m *MockStationDB) UpdateStation(_ context.Context, s *models.Station) error {
	if _, exists := m.stations[s.ID]; !exists {
		return errs.NotFound("station %s not found", s.ID)
	}
	copied := *s
	m.stations[s.ID] = &copied
	return nil
}

func (m *MockStationDB) DeleteStation(_ context.Context, id string) error {
	s, exists := m.stations[id]
	if !exists {
		return errs.NotFound("station %s not found", id)
	}
	delete(m.byCode, s.Code)
	delete(m.stations, id)
	return nil
}

func (m *MockStationDB) SearchStations(_ context.Context, query string, limit, offset int) ([]models.Station, int, error) {
	var matched []models.Station
	for _, s := range m.stations {
		if query == "" ||
			strings.Contains(strings.ToLower(s.Code), strings.ToLower(query)) ||
			strings.Contains(strings.ToLower(s.Name), strings.ToLower(query)) ||
			strings.Contains(strings.ToLower(s.City), strings.ToLower(query)) {
			matched = append(matched, *s)
		}
	}
	total := len(matched)
	if offset > len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func TestCreateStation(t *testing.T) {
	db := NewMockStationDB()
	service := station.NewService(db)
	ctx := context.Background()

	created, err := service.Create(ctx, station.CreateStationRequest{
		Code: "nls",
		Name: "New Lakeside",
		City: "Lakeside",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if created.Code != "NLS" {
		t.Errorf("Expected code to be uppercased to NLS, got %s", created.Code)
	}
	if created.ID == "" {
		t.Error("Expected an ID to be assigned")
	}

	// Duplicate code is rejected.
	_, err = service.Create(ctx, station.CreateStationRequest{Code: "NLS", Name: "Other", City: "Other"})
	if errs.KindOf(err) != errs.KindConflict {
		t.Errorf("Expected Conflict for duplicate code, got %v", err)
	}

	// Missing fields are rejected.
	_, err = service.Create(ctx, station.CreateStationRequest{Code: "", Name: "", City: ""})
	if errs.KindOf(err) != errs.KindValidation {
		t.Errorf("Expected Validation for empty request, got %v", err)
	}
}

func TestUpdateStation(t *testing.T) {
	db := NewMockStationDB()
	service := station.NewService(db)
	ctx := context.Background()

	created, err := service.Create(ctx, station.CreateStationRequest{Code: "NLS", Name: "New Lakeside", City: "Lakeside"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	newName := "New Lakeside Central"
	updated, err := service.Update(ctx, created.ID, station.UpdateStationRequest{Name: &newName})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Name != newName {
		t.Errorf("Expected name %q, got %q", newName, updated.Name)
	}
	if updated.City != "Lakeside" {
		t.Errorf("Expected city untouched, got %q", updated.City)
	}

	empty := "  "
	if _, err := service.Update(ctx, created.ID, station.UpdateStationRequest{Name: &empty}); errs.KindOf(err) != errs.KindValidation {
		t.Errorf("Expected Validation for blank name, got %v", err)
	}

	if _, err := service.Update(ctx, "missing", station.UpdateStationRequest{Name: &newName}); errs.KindOf(err) != errs.KindNotFound {
		t.Errorf("Expected NotFound for unknown station, got %v", err)
	}
}

func TestDeleteStation(t *testing.T) {
	db := NewMockStationDB()
	service := station.NewService(db)
	ctx := context.Background()

	created, err := service.Create(ctx, station.CreateStationRequest{Code: "NLS", Name: "New Lakeside", City: "Lakeside"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := service.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := service.Get(ctx, created.ID); errs.KindOf(err) != errs.KindNotFound {
		t.Errorf("Expected NotFound after delete, got %v", err)
	}
	if err := service.Delete(ctx, created.ID); errs.KindOf(err) != errs.KindNotFound {
		t.Errorf("Expected NotFound for repeated delete, got %v", err)
	}
}

func TestSearchStations(t *testing.T) {
	db := NewMockStationDB()
	service := station.NewService(db)
	ctx := context.Background()

	for _, req := range []station.CreateStationRequest{
		{Code: "NLS", Name: "New Lakeside", City: "Lakeside"},
		{Code: "HBR", Name: "Harbor Junction", City: "Harborville"},
	} {
		if _, err := service.Create(ctx, req); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	results, total, err := service.Search(ctx, "harbor", 10, 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 1 || len(results) != 1 {
		t.Fatalf("Expected 1 match, got total=%d len=%d", total, len(results))
	}
	if results[0].Code != "HBR" {
		t.Errorf("Expected HBR, got %s", results[0].Code)
	}

	_, total, err = service.Search(ctx, "", 10, 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 2 {
		t.Errorf("Expected empty query to list all, got %d", total)
	}
}
