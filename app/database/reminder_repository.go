package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const reminderColumns = `id, COALESCE(seller_id, ''), COALESCE(buyer_id, ''), date, reason, notes, status, created_at, updated_at`

type reminderRepository struct {
	db *DB
}

// NewReminderRepository creates a new reminder repository
func NewReminderRepository(db *DB) ReminderRepository {
	return &reminderRepository{db: db}
}

func (r *reminderRepository) CreateReminder(reminder Reminder) (*Reminder, error) {
	now := time.Now().UTC()
	reminder.ID = uuid.NewString()
	reminder.CreatedAt = now
	reminder.UpdatedAt = now
	if reminder.Status == "" {
		reminder.Status = ReminderStatusTodo
	}

	_, err := r.db.Exec(`
		INSERT INTO reminders (id, seller_id, buyer_id, date, reason, notes, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, reminder.ID, nullIfEmpty(reminder.SellerID), nullIfEmpty(reminder.BuyerID),
		reminder.Date, reminder.Reason, reminder.Notes, reminder.Status,
		reminder.CreatedAt, reminder.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert reminder: %w", err)
	}

	return &reminder, nil
}

// GetAllReminders returns every reminder, TODO first, then by due date.
func (r *reminderRepository) GetAllReminders() ([]Reminder, error) {
	return r.queryReminders(`
		SELECT ` + reminderColumns + `
		FROM reminders
		ORDER BY CASE status
			WHEN 'TODO' THEN 0
			WHEN 'POSTPONED' THEN 1
			ELSE 2
		END, date ASC
	`)
}

func (r *reminderRepository) GetRemindersForSeller(sellerID string) ([]Reminder, error) {
	return r.queryReminders(`
		SELECT `+reminderColumns+`
		FROM reminders
		WHERE seller_id = ?
		ORDER BY date ASC
	`, sellerID)
}

func (r *reminderRepository) GetRemindersForBuyer(buyerID string) ([]Reminder, error) {
	return r.queryReminders(`
		SELECT `+reminderColumns+`
		FROM reminders
		WHERE buyer_id = ?
		ORDER BY date ASC
	`, buyerID)
}

func (r *reminderRepository) UpdateReminderStatus(id, status string) (*Reminder, error) {
	if !IsValidReminderStatus(status) {
		return nil, fmt.Errorf("invalid reminder status: %s", status)
	}

	_, err := r.db.Exec(`
		UPDATE reminders
		SET status = ?, updated_at = ?
		WHERE id = ?
	`, status, time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update reminder status: %w", err)
	}

	var reminder Reminder
	err = scanReminder(r.db.QueryRow(`
		SELECT `+reminderColumns+`
		FROM reminders
		WHERE id = ?
	`, id), &reminder)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("reminder not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}

	return &reminder, nil
}

func (r *reminderRepository) GetTodoReminderCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM reminders WHERE status = ?", ReminderStatusTodo).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get todo reminder count: %w", err)
	}
	return count, nil
}

func (r *reminderRepository) GetOverdueReminders(now time.Time) ([]Reminder, error) {
	return r.queryReminders(`
		SELECT `+reminderColumns+`
		FROM reminders
		WHERE status = ? AND date <= ?
		ORDER BY date ASC
	`, ReminderStatusTodo, now)
}

func (r *reminderRepository) queryReminders(query string, args ...any) ([]Reminder, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	var reminders []Reminder
	for rows.Next() {
		var reminder Reminder
		if err := scanReminder(rows, &reminder); err != nil {
			return nil, fmt.Errorf("failed to scan reminder row: %w", err)
		}
		reminders = append(reminders, reminder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reminder rows: %w", err)
	}

	return reminders, nil
}

func scanReminder(row rowScanner, reminder *Reminder) error {
	return row.Scan(
		&reminder.ID, &reminder.SellerID, &reminder.BuyerID, &reminder.Date,
		&reminder.Reason, &reminder.Notes, &reminder.Status,
		&reminder.CreatedAt, &reminder.UpdatedAt,
	)
}
