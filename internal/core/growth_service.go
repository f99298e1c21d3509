package core

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"tameny.app/tameny-server/internal/schedule"
	"tameny.app/tameny-server/internal/store"
)

var (
	ErrChildNotFound    = errors.New("child not found")
	ErrUnknownVaccine   = errors.New("vaccine is not part of the fixed schedule")
	ErrUnknownMilestone = errors.New("milestone is not part of the fixed schedule")
	ErrToggleInFlight   = errors.New("a toggle for this item is already in flight")
)

// GrowthService owns the two per-child checklists. Toggles are membership
// checked against the store, not blind inserts: there is no server-side
// idempotency below this layer, so the service also enforces that no two
// toggles for the same item run concurrently.
type GrowthService struct {
	dbStore *store.SQLiteStore
	logger  *zap.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewGrowthService(db *store.SQLiteStore, logger *zap.Logger) *GrowthService {
	return &GrowthService{
		dbStore:  db,
		logger:   logger,
		inflight: make(map[string]struct{}),
	}
}

func (s *GrowthService) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[key]; busy {
		return false
	}
	s.inflight[key] = struct{}{}
	return true
}

func (s *GrowthService) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, key)
}

func (s *GrowthService) verifyChild(userID, childID string) error {
	child, err := s.dbStore.GetChildByID(childID, userID)
	if err != nil {
		return fmt.Errorf("failed to verify child: %w", err)
	}
	if child == nil {
		return ErrChildNotFound
	}
	return nil
}

func (s *GrowthService) Vaccinations(userID, childID string) ([]store.VaccinationRecord, error) {
	if err := s.verifyChild(userID, childID); err != nil {
		return nil, err
	}
	return s.dbStore.ListVaccinations(childID)
}

type VaccinationToggleResult struct {
	VaccineName string                    `json:"vaccine_name"`
	Completed   bool                      `json:"completed"`
	Records     []store.VaccinationRecord `json:"records"`
}

// ToggleVaccination flips the completed state of one schedule entry. The
// response carries the authoritative record list so the caller replaces its
// local state rather than merging.
func (s *GrowthService) ToggleVaccination(userID, childID, vaccineName string) (*VaccinationToggleResult, error) {
	if err := s.verifyChild(userID, childID); err != nil {
		return nil, err
	}
	if !schedule.HasVaccine(vaccineName) {
		return nil, ErrUnknownVaccine
	}

	key := childID + "|vaccine|" + vaccineName
	if !s.acquire(key) {
		return nil, ErrToggleInFlight
	}
	defer s.release(key)

	existing, err := s.dbStore.GetVaccination(childID, vaccineName)
	if err != nil {
		return nil, err
	}

	completed := existing == nil
	if existing != nil {
		if err := s.dbStore.RemoveVaccination(childID, vaccineName); err != nil {
			return nil, err
		}
	} else {
		if _, err := s.dbStore.AddVaccination(childID, vaccineName); err != nil {
			return nil, err
		}
	}

	records, err := s.dbStore.ListVaccinations(childID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Vaccination toggled",
		zap.String("child_id", childID),
		zap.String("vaccine", vaccineName),
		zap.Bool("completed", completed))

	return &VaccinationToggleResult{
		VaccineName: vaccineName,
		Completed:   completed,
		Records:     records,
	}, nil
}

func (s *GrowthService) Milestones(userID, childID string) ([]store.MilestoneRecord, error) {
	if err := s.verifyChild(userID, childID); err != nil {
		return nil, err
	}
	return s.dbStore.ListMilestones(childID)
}

type MilestoneToggleResult struct {
	MilestoneID string                  `json:"milestone_id"`
	Achieved    bool                    `json:"achieved"`
	Records     []store.MilestoneRecord `json:"records"`
}

// ToggleMilestone flips the achieved state of one milestone, identified by
// its (age range, category, index) triple. The synthesized key is the sole
// join between the fixed schedule and persisted records.
func (s *GrowthService) ToggleMilestone(userID, childID, ageRange, category string, index int) (*MilestoneToggleResult, error) {
	if err := s.verifyChild(userID, childID); err != nil {
		return nil, err
	}

	item, ok := schedule.FindMilestone(ageRange, category, index)
	if !ok {
		return nil, ErrUnknownMilestone
	}
	milestoneID := schedule.MilestoneKey(ageRange, category, index)

	key := childID + "|milestone|" + milestoneID
	if !s.acquire(key) {
		return nil, ErrToggleInFlight
	}
	defer s.release(key)

	existing, err := s.dbStore.GetMilestone(childID, milestoneID)
	if err != nil {
		return nil, err
	}

	achieved := existing == nil
	if existing != nil {
		if err := s.dbStore.RemoveMilestone(childID, milestoneID); err != nil {
			return nil, err
		}
	} else {
		rec := store.MilestoneRecord{
			ChildID:     childID,
			MilestoneID: milestoneID,
			Category:    category,
			AgeRange:    ageRange,
			Description: item.Description,
		}
		if err := s.dbStore.AddMilestone(&rec); err != nil {
			return nil, err
		}
	}

	records, err := s.dbStore.ListMilestones(childID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Milestone toggled",
		zap.String("child_id", childID),
		zap.String("milestone_id", milestoneID),
		zap.Bool("achieved", achieved))

	return &MilestoneToggleResult{
		MilestoneID: milestoneID,
		Achieved:    achieved,
		Records:     records,
	}, nil
}
