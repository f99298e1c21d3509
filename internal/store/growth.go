package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (s *SQLiteStore) GetVaccination(childID, vaccineName string) (*VaccinationRecord, error) {
	var rec VaccinationRecord
	err := s.db.QueryRow(
		"SELECT id, child_id, vaccine_name, completed, completed_at FROM child_vaccinations WHERE child_id = ? AND vaccine_name = ?",
		childID, vaccineName,
	).Scan(&rec.ID, &rec.ChildID, &rec.VaccineName, &rec.Completed, &rec.CompletedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not recorded
		}
		return nil, fmt.Errorf("failed to query vaccination: %w", err)
	}
	return &rec, nil
}

func (s *SQLiteStore) AddVaccination(childID, vaccineName string) (*VaccinationRecord, error) {
	rec := VaccinationRecord{
		ID:          uuid.NewString(),
		ChildID:     childID,
		VaccineName: vaccineName,
		Completed:   true,
		CompletedAt: time.Now(),
	}
	_, err := s.db.Exec(
		"INSERT INTO child_vaccinations (id, child_id, vaccine_name, completed, completed_at) VALUES (?, ?, ?, ?, ?)",
		rec.ID, rec.ChildID, rec.VaccineName, rec.Completed, rec.CompletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert vaccination: %w", err)
	}
	return &rec, nil
}

func (s *SQLiteStore) RemoveVaccination(childID, vaccineName string) error {
	_, err := s.db.Exec(
		"DELETE FROM child_vaccinations WHERE child_id = ? AND vaccine_name = ?",
		childID, vaccineName,
	)
	if err != nil {
		return fmt.Errorf("failed to delete vaccination: %w", err)
	}
	return nil
}

// ListVaccinations returns the completed set most-recently-recorded first,
// matching the history view.
func (s *SQLiteStore) ListVaccinations(childID string) ([]VaccinationRecord, error) {
	rows, err := s.db.Query(
		"SELECT id, child_id, vaccine_name, completed, completed_at FROM child_vaccinations WHERE child_id = ? ORDER BY completed_at DESC",
		childID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query vaccinations: %w", err)
	}
	defer rows.Close()

	var records []VaccinationRecord
	for rows.Next() {
		var rec VaccinationRecord
		if err := rows.Scan(&rec.ID, &rec.ChildID, &rec.VaccineName, &rec.Completed, &rec.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vaccination row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) GetMilestone(childID, milestoneID string) (*MilestoneRecord, error) {
	var rec MilestoneRecord
	err := s.db.QueryRow(
		"SELECT id, child_id, milestone_id, category, age_range, description, achieved_at FROM child_milestones WHERE child_id = ? AND milestone_id = ?",
		childID, milestoneID,
	).Scan(&rec.ID, &rec.ChildID, &rec.MilestoneID, &rec.Category, &rec.AgeRange, &rec.Description, &rec.AchievedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not recorded
		}
		return nil, fmt.Errorf("failed to query milestone: %w", err)
	}
	return &rec, nil
}

func (s *SQLiteStore) AddMilestone(rec *MilestoneRecord) error {
	rec.ID = uuid.NewString()
	rec.AchievedAt = time.Now()
	_, err := s.db.Exec(
		"INSERT INTO child_milestones (id, child_id, milestone_id, category, age_range, description, achieved_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		rec.ID, rec.ChildID, rec.MilestoneID, rec.Category, rec.AgeRange, rec.Description, rec.AchievedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert milestone: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RemoveMilestone(childID, milestoneID string) error {
	_, err := s.db.Exec(
		"DELETE FROM child_milestones WHERE child_id = ? AND milestone_id = ?",
		childID, milestoneID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete milestone: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListMilestones(childID string) ([]MilestoneRecord, error) {
	rows, err := s.db.Query(
		"SELECT id, child_id, milestone_id, category, age_range, description, achieved_at FROM child_milestones WHERE child_id = ? ORDER BY achieved_at DESC",
		childID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query milestones: %w", err)
	}
	defer rows.Close()

	var records []MilestoneRecord
	for rows.Next() {
		var rec MilestoneRecord
		if err := rows.Scan(&rec.ID, &rec.ChildID, &rec.MilestoneID, &rec.Category, &rec.AgeRange, &rec.Description, &rec.AchievedAt); err != nil {
			return nil, fmt.Errorf("failed to scan milestone row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
