package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"tameny.app/tameny-server/internal/schedule"
)

func TestToggleVaccinationRoundTrip(t *testing.T) {
	s := newTestStore(t)
	parent := newTestProfile(t, s, "parent@example.com")
	child := newTestChild(t, s, parent.ID, "سارة")

	svc := NewGrowthService(s, zap.NewNop())

	result, err := svc.ToggleVaccination(parent.ID, child.ID, "جدري الماء")
	require.NoError(t, err)
	assert.True(t, result.Completed)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "جدري الماء", result.Records[0].VaccineName)

	// Toggling again restores the starting state.
	result, err = svc.ToggleVaccination(parent.ID, child.ID, "جدري الماء")
	require.NoError(t, err)
	assert.False(t, result.Completed)
	assert.Empty(t, result.Records)
}

func TestToggleVaccinationRejectsUnknownName(t *testing.T) {
	s := newTestStore(t)
	parent := newTestProfile(t, s, "parent@example.com")
	child := newTestChild(t, s, parent.ID, "سارة")

	svc := NewGrowthService(s, zap.NewNop())

	_, err := svc.ToggleVaccination(parent.ID, child.ID, "لقاح غير موجود")
	assert.ErrorIs(t, err, ErrUnknownVaccine)
}

func TestGrowthOperationsRequireOwnership(t *testing.T) {
	s := newTestStore(t)
	owner := newTestProfile(t, s, "owner@example.com")
	other := newTestProfile(t, s, "other@example.com")
	child := newTestChild(t, s, owner.ID, "سارة")

	svc := NewGrowthService(s, zap.NewNop())

	_, err := svc.ToggleVaccination(other.ID, child.ID, "جدري الماء")
	assert.ErrorIs(t, err, ErrChildNotFound)

	_, err = svc.Vaccinations(other.ID, child.ID)
	assert.ErrorIs(t, err, ErrChildNotFound)

	_, err = svc.ToggleMilestone(other.ID, child.ID, "0-3 أشهر", schedule.CategoryPhysical, 0)
	assert.ErrorIs(t, err, ErrChildNotFound)

	_, err = svc.Milestones(other.ID, child.ID)
	assert.ErrorIs(t, err, ErrChildNotFound)
}

func TestToggleMilestoneRoundTrip(t *testing.T) {
	s := newTestStore(t)
	parent := newTestProfile(t, s, "parent@example.com")
	child := newTestChild(t, s, parent.ID, "سارة")

	svc := NewGrowthService(s, zap.NewNop())

	result, err := svc.ToggleMilestone(parent.ID, child.ID, "0-3 أشهر", schedule.CategoryPhysical, 1)
	require.NoError(t, err)
	assert.True(t, result.Achieved)
	assert.Equal(t, schedule.MilestoneKey("0-3 أشهر", schedule.CategoryPhysical, 1), result.MilestoneID)
	require.Len(t, result.Records, 1)

	// The description comes from the fixed schedule, not the request.
	item, ok := schedule.FindMilestone("0-3 أشهر", schedule.CategoryPhysical, 1)
	require.True(t, ok)
	assert.Equal(t, item.Description, result.Records[0].Description)

	result, err = svc.ToggleMilestone(parent.ID, child.ID, "0-3 أشهر", schedule.CategoryPhysical, 1)
	require.NoError(t, err)
	assert.False(t, result.Achieved)
	assert.Empty(t, result.Records)
}

func TestToggleMilestoneRejectsUnknownTriple(t *testing.T) {
	s := newTestStore(t)
	parent := newTestProfile(t, s, "parent@example.com")
	child := newTestChild(t, s, parent.ID, "سارة")

	svc := NewGrowthService(s, zap.NewNop())

	_, err := svc.ToggleMilestone(parent.ID, child.ID, "0-3 أشهر", schedule.CategoryPhysical, 99)
	assert.ErrorIs(t, err, ErrUnknownMilestone)

	_, err = svc.ToggleMilestone(parent.ID, child.ID, "0-3 أشهر", "cognitive", 0)
	assert.ErrorIs(t, err, ErrUnknownMilestone)
}

func TestToggleInFlightGuard(t *testing.T) {
	s := newTestStore(t)
	parent := newTestProfile(t, s, "parent@example.com")
	child := newTestChild(t, s, parent.ID, "سارة")

	svc := NewGrowthService(s, zap.NewNop())

	// Holding the key by hand simulates a toggle still in progress.
	key := child.ID + "|vaccine|جدري الماء"
	require.True(t, svc.acquire(key))

	_, err := svc.ToggleVaccination(parent.ID, child.ID, "جدري الماء")
	assert.ErrorIs(t, err, ErrToggleInFlight)

	svc.release(key)

	_, err = svc.ToggleVaccination(parent.ID, child.ID, "جدري الماء")
	assert.NoError(t, err, "released key should allow the toggle through")
}
