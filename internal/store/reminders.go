package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (s *SQLiteStore) CreateReminder(rem *Reminder) error {
	rem.ID = uuid.NewString()
	now := time.Now()
	rem.CreatedAt = now
	rem.UpdatedAt = now
	_, err := s.db.Exec(
		"INSERT INTO reminders (id, user_id, title, description, due_date, is_completed, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		rem.ID, rem.UserID, rem.Title, rem.Description, rem.DueDate, rem.IsCompleted, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert reminder: %w", err)
	}
	return nil
}

// ListRemindersByUser returns reminders soonest-due first. Overdue is derived
// here rather than stored: due_date in the past and not completed.
func (s *SQLiteStore) ListRemindersByUser(userID string) ([]Reminder, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, title, description, due_date, is_completed, created_at, updated_at FROM reminders WHERE user_id = ? ORDER BY due_date ASC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	var reminders []Reminder
	for rows.Next() {
		var rem Reminder
		if err := rows.Scan(&rem.ID, &rem.UserID, &rem.Title, &rem.Description, &rem.DueDate, &rem.IsCompleted, &rem.CreatedAt, &rem.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reminder row: %w", err)
		}
		rem.Overdue = rem.DueDate.Before(now) && !rem.IsCompleted
		reminders = append(reminders, rem)
	}
	return reminders, rows.Err()
}

func (s *SQLiteStore) CompleteReminder(reminderID, userID string) error {
	res, err := s.db.Exec(
		"UPDATE reminders SET is_completed = TRUE, updated_at = ? WHERE id = ? AND user_id = ?",
		time.Now(), reminderID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete reminder: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("reminder not found or not owned by user")
	}
	return nil
}

func (s *SQLiteStore) CountActiveReminders(userID string) (int, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM reminders WHERE user_id = ? AND is_completed = FALSE", userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reminders: %w", err)
	}
	return count, nil
}
