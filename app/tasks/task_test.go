package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fdubois/autodeal/app/database"
)

func TestTaskRetryBookkeeping(t *testing.T) {
	task := NewTask(TaskTypeReminderSweep)

	if task.GetID() == "" {
		t.Error("Expected generated task ID")
	}
	if task.GetType() != TaskTypeReminderSweep {
		t.Errorf("Expected reminder_sweep type, got '%s'", task.GetType())
	}
	if !task.CanRetry() {
		t.Error("Expected fresh task to allow retries")
	}

	for i := 0; i < DefaultMaxRetries; i++ {
		task.IncrementRetryCount()
	}
	if task.CanRetry() {
		t.Error("Expected retries to be exhausted")
	}
	if task.GetRetryCount() != DefaultMaxRetries {
		t.Errorf("Expected retry count %d, got %d", DefaultMaxRetries, task.GetRetryCount())
	}
}

type mockReminderRepo struct {
	overdue []database.Reminder
	err     error
}

func (m *mockReminderRepo) CreateReminder(r database.Reminder) (*database.Reminder, error) {
	return &r, nil
}
func (m *mockReminderRepo) GetAllReminders() ([]database.Reminder, error)           { return nil, nil }
func (m *mockReminderRepo) GetRemindersForSeller(string) ([]database.Reminder, error) { return nil, nil }
func (m *mockReminderRepo) GetRemindersForBuyer(string) ([]database.Reminder, error)  { return nil, nil }
func (m *mockReminderRepo) UpdateReminderStatus(string, string) (*database.Reminder, error) {
	return nil, nil
}
func (m *mockReminderRepo) GetTodoReminderCount() (int, error) { return len(m.overdue), nil }
func (m *mockReminderRepo) GetOverdueReminders(time.Time) ([]database.Reminder, error) {
	return m.overdue, m.err
}

func TestReminderSweepTask(t *testing.T) {
	repo := &mockReminderRepo{overdue: []database.Reminder{
		{ID: "r1", SellerID: "s1", Reason: "Rappeler", Date: time.Now().Add(-time.Hour)},
	}}

	task := NewReminderSweepTask(repo)
	task.Start()

	if err := task.Execute(context.Background()); err != nil {
		t.Errorf("Expected sweep to succeed, got %v", err)
	}

	repo.err = errors.New("database gone")
	if err := task.Execute(context.Background()); err == nil {
		t.Error("Expected error when reminder lookup fails")
	}
}

type mockBuyerRepo struct {
	buyers []database.Buyer
}

func (m *mockBuyerRepo) CreateBuyer(b database.Buyer, _ string, _ string) (*database.Buyer, error) {
	return &b, nil
}
func (m *mockBuyerRepo) GetBuyer(string) (*database.Buyer, error) { return nil, nil }
func (m *mockBuyerRepo) GetAllBuyers() ([]database.Buyer, error)  { return m.buyers, nil }
func (m *mockBuyerRepo) GetBuyerCount() (int, error)              { return len(m.buyers), nil }

type mockVehicleRepo struct {
	matches    []database.Vehicle
	matchCalls int
}

func (m *mockVehicleRepo) CreateVehicle(v database.Vehicle) (*database.Vehicle, error) { return &v, nil }
func (m *mockVehicleRepo) GetVehicle(string) (*database.Vehicle, error)                { return nil, nil }
func (m *mockVehicleRepo) GetAllVehicles() ([]database.Vehicle, error)                 { return nil, nil }
func (m *mockVehicleRepo) GetVehiclesForSeller(string) ([]database.Vehicle, error)     { return nil, nil }
func (m *mockVehicleRepo) GetAvailableVehicles() ([]database.Vehicle, error)           { return nil, nil }
func (m *mockVehicleRepo) FindMatching(string, int) ([]database.Vehicle, error) {
	m.matchCalls++
	return m.matches, nil
}
func (m *mockVehicleRepo) FindByAdOrURL(string, string) (*database.Vehicle, error) { return nil, nil }
func (m *mockVehicleRepo) UpdateVehicleStatus(string, string, string) (*database.Vehicle, error) {
	return nil, nil
}
func (m *mockVehicleRepo) DeleteVehicle(string) error    { return nil }
func (m *mockVehicleRepo) GetInStockCount() (int, error) { return 0, nil }

func TestMatchBuyersTask(t *testing.T) {
	buyerRepo := &mockBuyerRepo{buyers: []database.Buyer{
		{ID: "b1", FirstName: "Marie", LastName: "Martin", VehicleInterest: "golf diesel"},
		{ID: "b2", FirstName: "Luc", LastName: "Bernard"},
	}}
	vehicleRepo := &mockVehicleRepo{matches: []database.Vehicle{
		{ID: "v1", Make: "Volkswagen", Model: "Golf", Price: 18500},
	}}

	task := NewMatchBuyersTask(buyerRepo, vehicleRepo)
	task.Start()

	if err := task.Execute(context.Background()); err != nil {
		t.Errorf("Expected match task to succeed, got %v", err)
	}

	// Only the buyer with a stated interest triggers a lookup
	if vehicleRepo.matchCalls != 1 {
		t.Errorf("Expected 1 match lookup, got %d", vehicleRepo.matchCalls)
	}
}

func TestTaskExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	task := NewReminderSweepTask(&mockReminderRepo{})
	if err := task.Execute(ctx); err == nil {
		t.Error("Expected context cancellation error")
	}
}
