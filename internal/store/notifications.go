package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// notificationInsertBatch bounds the size of a single INSERT during the
// broadcast fan-out so the statement stays under SQLite's variable limit
// regardless of how many profiles are registered.
const notificationInsertBatch = 500

// InsertNotifications writes one notification row per user id, all carrying
// the same title and message, unread. The whole fan-out runs in one
// transaction: either every registered user gets the row or none do.
func (s *SQLiteStore) InsertNotifications(userIDs []string, title, message string) (int, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin notification transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	inserted := 0
	for start := 0; start < len(userIDs); start += notificationInsertBatch {
		end := start + notificationInsertBatch
		if end > len(userIDs) {
			end = len(userIDs)
		}
		batch := userIDs[start:end]

		placeholders := make([]string, 0, len(batch))
		args := make([]any, 0, len(batch)*6)
		for _, userID := range batch {
			placeholders = append(placeholders, "(?, ?, ?, ?, FALSE, ?)")
			args = append(args, uuid.NewString(), userID, title, message, now)
		}

		query := "INSERT INTO notifications (id, user_id, title, message, is_read, created_at) VALUES " +
			strings.Join(placeholders, ", ")
		if _, err := tx.Exec(query, args...); err != nil {
			return 0, fmt.Errorf("failed to insert notification batch: %w", err)
		}
		inserted += len(batch)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit notification transaction: %w", err)
	}
	return inserted, nil
}

func (s *SQLiteStore) ListNotificationsByUser(userID string) ([]Notification, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, title, message, is_read, created_at FROM notifications WHERE user_id = ? ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (s *SQLiteStore) MarkNotificationRead(notificationID, userID string) error {
	res, err := s.db.Exec(
		"UPDATE notifications SET is_read = TRUE WHERE id = ? AND user_id = ?",
		notificationID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("notification not found or not owned by user")
	}
	return nil
}

func (s *SQLiteStore) CountUnreadNotifications(userID string) (int, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = FALSE", userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}
