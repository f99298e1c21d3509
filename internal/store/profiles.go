package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (s *SQLiteStore) CreateProfile(email, passwordHash, fullName, role string) (*Profile, error) {
	id := uuid.NewString()
	now := time.Now()
	_, err := s.db.Exec(
		"INSERT INTO profiles (id, email, password_hash, full_name, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, email, passwordHash, fullName, role, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert profile: %w", err)
	}
	return s.GetProfileByID(id)
}

func (s *SQLiteStore) GetProfileByID(id string) (*Profile, error) {
	return s.scanProfile(s.db.QueryRow(
		"SELECT id, email, password_hash, full_name, phone, role, created_at, updated_at FROM profiles WHERE id = ?", id))
}

func (s *SQLiteStore) GetProfileByEmail(email string) (*Profile, error) {
	return s.scanProfile(s.db.QueryRow(
		"SELECT id, email, password_hash, full_name, phone, role, created_at, updated_at FROM profiles WHERE email = ?", email))
}

func (s *SQLiteStore) scanProfile(row *sql.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.FullName, &p.Phone, &p.Role, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Profile not found
		}
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}
	return &p, nil
}

func (s *SQLiteStore) UpdateProfile(id, fullName, phone string) error {
	res, err := s.db.Exec(
		"UPDATE profiles SET full_name = ?, phone = ?, updated_at = ? WHERE id = ?",
		fullName, phone, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("profile not found")
	}
	return nil
}

// ListProfileIDs returns the ids of every registered profile. Used by the
// broadcast fan-out, which is a point-in-time snapshot of the user base.
func (s *SQLiteStore) ListProfileIDs() ([]string, error) {
	rows, err := s.db.Query("SELECT id FROM profiles")
	if err != nil {
		return nil, fmt.Errorf("failed to query profile ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan profile id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
