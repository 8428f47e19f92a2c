package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fdubois/autodeal/app/database"
)

// ReminderSweepTask surfaces overdue call reminders in the log so the
// dealership staff sees pending follow-ups without opening the reminder list.
type ReminderSweepTask struct {
	Task
	reminderRepo database.ReminderRepository
}

func NewReminderSweepTask(reminderRepo database.ReminderRepository) *ReminderSweepTask {
	return &ReminderSweepTask{
		Task:         NewTask(TaskTypeReminderSweep),
		reminderRepo: reminderRepo,
	}
}

func (t *ReminderSweepTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	reminders, err := t.reminderRepo.GetOverdueReminders(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to get overdue reminders: %w", err)
	}

	for _, reminder := range reminders {
		clientID := reminder.SellerID
		clientType := "seller"
		if clientID == "" {
			clientID = reminder.BuyerID
			clientType = "buyer"
		}

		slog.Warn("Reminder due",
			"reminder_id", reminder.ID,
			"client_type", clientType,
			"client_id", clientID,
			"reason", reminder.Reason,
			"due", reminder.Date.Format(time.RFC3339))
	}

	slog.Info("Task completed",
		"type", "ReminderSweep",
		"duration", t.GetDuration(),
		"due", len(reminders))

	return nil
}
