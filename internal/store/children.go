package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (s *SQLiteStore) CreateChild(child *Child) error {
	child.ID = uuid.NewString()
	now := time.Now()
	child.CreatedAt = now
	child.UpdatedAt = now

	allergiesJSON, err := marshalAllergies(child.Allergies)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		`INSERT INTO children (id, parent_id, name, date_of_birth, gender, blood_type, allergies, medical_notes, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		child.ID, child.ParentID, child.Name, child.DateOfBirth, child.Gender,
		child.BloodType, allergiesJSON, child.MedicalNotes, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert child: %w", err)
	}
	return nil
}

// GetChildByID scopes the lookup to the owning parent: a child row is never
// visible to any other identity.
func (s *SQLiteStore) GetChildByID(childID, parentID string) (*Child, error) {
	row := s.db.QueryRow(
		`SELECT id, parent_id, name, date_of_birth, gender, blood_type, allergies, medical_notes, created_at, updated_at
         FROM children WHERE id = ? AND parent_id = ?`, childID, parentID)
	return scanChild(row)
}

func (s *SQLiteStore) ListChildrenByParent(parentID string) ([]Child, error) {
	rows, err := s.db.Query(
		`SELECT id, parent_id, name, date_of_birth, gender, blood_type, allergies, medical_notes, created_at, updated_at
         FROM children WHERE parent_id = ? ORDER BY created_at ASC`, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query children: %w", err)
	}
	defer rows.Close()

	var children []Child
	for rows.Next() {
		child, err := scanChildRows(rows)
		if err != nil {
			return nil, err
		}
		children = append(children, *child)
	}
	return children, rows.Err()
}

func (s *SQLiteStore) UpdateChild(child *Child) error {
	allergiesJSON, err := marshalAllergies(child.Allergies)
	if err != nil {
		return err
	}

	res, err := s.db.Exec(
		`UPDATE children SET name = ?, date_of_birth = ?, gender = ?, blood_type = ?, allergies = ?, medical_notes = ?, updated_at = ?
         WHERE id = ? AND parent_id = ?`,
		child.Name, child.DateOfBirth, child.Gender, child.BloodType, allergiesJSON,
		child.MedicalNotes, time.Now(), child.ID, child.ParentID,
	)
	if err != nil {
		return fmt.Errorf("failed to update child: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("child not found or not owned by parent")
	}
	return nil
}

// DeleteChild hard-deletes the child together with its vaccination and
// milestone records in one transaction. Non-recoverable.
func (s *SQLiteStore) DeleteChild(childID, parentID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM children WHERE id = ? AND parent_id = ?", childID, parentID)
	if err != nil {
		return fmt.Errorf("failed to delete child: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("child not found or not owned by parent")
	}

	if _, err := tx.Exec("DELETE FROM child_vaccinations WHERE child_id = ?", childID); err != nil {
		return fmt.Errorf("failed to delete child vaccinations: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM child_milestones WHERE child_id = ?", childID); err != nil {
		return fmt.Errorf("failed to delete child milestones: %w", err)
	}

	return tx.Commit()
}

func (s *SQLiteStore) CountChildrenByParent(parentID string) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM children WHERE parent_id = ?", parentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count children: %w", err)
	}
	return count, nil
}

func marshalAllergies(allergies []string) (*string, error) {
	if len(allergies) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(allergies)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal allergies: %w", err)
	}
	str := string(b)
	return &str, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChildFrom(scanner rowScanner) (*Child, error) {
	var child Child
	var allergiesJSON sql.NullString
	err := scanner.Scan(&child.ID, &child.ParentID, &child.Name, &child.DateOfBirth,
		&child.Gender, &child.BloodType, &allergiesJSON, &child.MedicalNotes,
		&child.CreatedAt, &child.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if allergiesJSON.Valid && allergiesJSON.String != "" {
		if err := json.Unmarshal([]byte(allergiesJSON.String), &child.Allergies); err != nil {
			return nil, fmt.Errorf("failed to unmarshal allergies for child %s: %w", child.ID, err)
		}
	}
	return &child, nil
}

func scanChild(row *sql.Row) (*Child, error) {
	child, err := scanChildFrom(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to query child: %w", err)
	}
	return child, nil
}

func scanChildRows(rows *sql.Rows) (*Child, error) {
	child, err := scanChildFrom(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan child row: %w", err)
	}
	return child, nil
}
