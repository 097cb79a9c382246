package train_test

import (
	"context"
	"testing"

	"rail-ticketing/internal/errs"
	"rail-ticketing/internal/models"
	"rail-ticketing/internal/train"
)

type MockTrainDB struct {
	trains  map[string]*models.Train
	byName  map[string]string
	coaches map[string]*models.Coach
	seats   map[string][]models.Seat
}

func NewMockTrainDB() *MockTrainDB {
	return &MockTrainDB{
		trains:  make(map[string]*models.Train),
		byName:  make(map[string]string),
		coaches: make(map[string]*models.Coach),
		seats:   make(map[string][]models.Seat),
	}
}

func (m *MockTrainDB) CreateTrain(_ context.Context, t *models.Train) error {
	copied := *t
	m.trains[t.ID] = &copied
	m.byName[t.Name] = t.ID
	return nil
}

func (m *MockTrainDB) GetTrainByID(_ context.Context, id string) (*models.Train, error) {
	t, exists := m.trains[id]
	if !exists {
		return nil, errs.NotFound("train %s not found", id)
	}
	copied := *t
	return &copied, nil
}

func (m *MockTrainDB) GetTrainByName(_ context.Context, name string) (*models.Train, error) {
	id, exists := m.byName[name]
	if !exists {
		return nil, errs.NotFound("train %q not found", name)
	}
	copied := *m.trains[id]
	return &copied, nil
}

func (m *MockTrainDB) UpdateTrain(_ context.Context, t *models.Train) error {
	old, exists := m.trains[t.ID]
	if !exists {
		return errs.NotFound("train %s not found", t.ID)
	}
	delete(m.byName, old.Name)
	copied := *t
	m.trains[t.ID] = &copied
	m.byName[t.Name] = t.ID
	return nil
}

func (m *MockTrainDB) DeleteTrain(_ context.Context, id string) error {
	t, exists := m.trains[id]
	if !exists {
		return errs.NotFound("train %s not found", id)
	}
	delete(m.byName, t.Name)
	delete(m.trains, id)
	return nil
}

func (m *MockTrainDB) SearchTrains(_ context.Context, query string, limit, offset int) ([]models.Train, int, error) {
	var all []models.Train
	for _, t := range m.trains {
		all = append(all, *t)
	}
	return all, len(all), nil
}

func (m *MockTrainDB) CreateCoach(_ context.Context, c *models.Coach) error {
	copied := *c
	m.coaches[c.ID] = &copied
	return nil
}

func (m *MockTrainDB) GetCoachByID(_ context.Context, id string) (*models.Coach, error) {
	c, exists := m.coaches[id]
	if !exists {
		return nil, errs.NotFound("coach %s not found", id)
	}
	copied := *c
	return &copied, nil
}

func (m *MockTrainDB) ListCoachesByTrain(_ context.Context, trainID string) ([]models.Coach, error) {
	var coaches []models.Coach
	for _, c := range m.coaches {
		if c.TrainID == trainID {
			coaches = append(coaches, *c)
		}
	}
	return coaches, nil
}

func (m *MockTrainDB) DeleteCoach(_ context.Context, id string) error {
	if _, exists := m.coaches[id]; !exists {
		return errs.NotFound("coach %s not found", id)
	}
	delete(m.coaches, id)
	delete(m.seats, id)
	return nil
}

func (m *MockTrainDB) CreateSeats(_ context.Context, seats []models.Seat) error {
	for _, s := range seats {
		m.seats[s.CoachID] = append(m.seats[s.CoachID], s)
	}
	return nil
}

func (m *MockTrainDB) ListSeatsByCoach(_ context.Context, coachID string) ([]models.Seat, error) {
	return m.seats[coachID], nil
}

func TestCreateTrain(t *testing.T) {
	service := train.NewService(NewMockTrainDB())
	ctx := context.Background()

	created, err := service.Create(ctx, train.CreateTrainRequest{Name: "Coastal Express", Number: "12301"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if created.ID == "" {
		t.Error("Expected an ID to be assigned")
	}

	_, err = service.Create(ctx, train.CreateTrainRequest{Name: "Coastal Express", Number: "99999"})
	if errs.KindOf(err) != errs.KindConflict {
		t.Errorf("Expected Conflict for duplicate name, got %v", err)
	}

	_, err = service.Create(ctx, train.CreateTrainRequest{Name: "  ", Number: ""})
	if errs.KindOf(err) != errs.KindValidation {
		t.Errorf("Expected Validation for blank fields, got %v", err)
	}
}

func TestAddCoach(t *testing.T) {
	db := NewMockTrainDB()
	service := train.NewService(db)
	ctx := context.Background()

	created, err := service.Create(ctx, train.CreateTrainRequest{Name: "Coastal Express", Number: "12301"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	coach, err := service.AddCoach(ctx, created.ID, train.AddCoachRequest{
		CoachNumber: "B1",
		CoachType:   models.CoachTypeThirdAC,
		SeatNumbers: []string{"1", "2", "3", "  ", "4"},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if coach.TrainID != created.ID {
		t.Errorf("Expected coach attached to train %s, got %s", created.ID, coach.TrainID)
	}

	seats, err := service.ListSeats(ctx, coach.ID)
	if err != nil {
		t.Fatalf("ListSeats failed: %v", err)
	}
	// Blank seat numbers are skipped.
	if len(seats) != 4 {
		t.Errorf("Expected 4 seats, got %d", len(seats))
	}

	_, err = service.AddCoach(ctx, created.ID, train.AddCoachRequest{CoachNumber: "B2", CoachType: "LUXURY"})
	if errs.KindOf(err) != errs.KindValidation {
		t.Errorf("Expected Validation for unknown coach class, got %v", err)
	}

	_, err = service.AddCoach(ctx, "missing", train.AddCoachRequest{CoachNumber: "B1", CoachType: models.CoachTypeSleeper})
	if errs.KindOf(err) != errs.KindNotFound {
		t.Errorf("Expected NotFound for unknown train, got %v", err)
	}
}

func TestDeleteCoach(t *testing.T) {
	db := NewMockTrainDB()
	service := train.NewService(db)
	ctx := context.Background()

	created, err := service.Create(ctx, train.CreateTrainRequest{Name: "Coastal Express", Number: "12301"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	coach, err := service.AddCoach(ctx, created.ID, train.AddCoachRequest{
		CoachNumber: "B1",
		CoachType:   models.CoachTypeSleeper,
		SeatNumbers: []string{"1", "2"},
	})
	if err != nil {
		t.Fatalf("AddCoach failed: %v", err)
	}

	if err := service.DeleteCoach(ctx, coach.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := service.ListSeats(ctx, coach.ID); errs.KindOf(err) != errs.KindNotFound {
		t.Errorf("Expected NotFound for deleted coach, got %v", err)
	}
}
