package schedule

import (
	"testing"
)

func TestMilestoneKeyIsStable(t *testing.T) {
	key := MilestoneKey("0-3 أشهر", CategoryPhysical, 0)
	want := "0-3-أشهر_physical_0"
	if key != want {
		t.Errorf("MilestoneKey() = %q, want %q", key, want)
	}

	// Same inputs must always produce the same bytes: persisted records
	// are matched by this key alone.
	for i := 0; i < 100; i++ {
		if got := MilestoneKey("0-3 أشهر", CategoryPhysical, 0); got != key {
			t.Fatalf("MilestoneKey() not deterministic: got %q, want %q", got, key)
		}
	}
}

func TestMilestoneKeyReplacesAllSpaces(t *testing.T) {
	key := MilestoneKey("10-12 شهر", CategorySocial, 2)
	want := "10-12-شهر_social_2"
	if key != want {
		t.Errorf("MilestoneKey() = %q, want %q", key, want)
	}
}

func TestMilestoneKeysAreUniqueAcrossSchedule(t *testing.T) {
	seen := make(map[string]string)
	for _, group := range Milestones {
		for i := range group.Physical {
			key := MilestoneKey(group.Age, CategoryPhysical, i)
			if prev, dup := seen[key]; dup {
				t.Errorf("duplicate milestone key %q (also produced by %s)", key, prev)
			}
			seen[key] = group.Age + "/" + CategoryPhysical
		}
		for i := range group.Social {
			key := MilestoneKey(group.Age, CategorySocial, i)
			if prev, dup := seen[key]; dup {
				t.Errorf("duplicate milestone key %q (also produced by %s)", key, prev)
			}
			seen[key] = group.Age + "/" + CategorySocial
		}
	}
}

func TestVaccineNamesAreGloballyUnique(t *testing.T) {
	// The name is the sole identifier of a persisted vaccination record,
	// so a name repeated across age groups would collapse two checklist
	// entries into one.
	seen := make(map[string]string)
	for _, group := range VaccinationSchedule {
		for _, v := range group.Vaccines {
			if prev, dup := seen[v.Name]; dup {
				t.Errorf("vaccine %q appears in both %q and %q", v.Name, prev, group.Age)
			}
			seen[v.Name] = group.Age
		}
	}
}

func TestFindMilestone(t *testing.T) {
	item, ok := FindMilestone("0-3 أشهر", CategoryPhysical, 0)
	if !ok {
		t.Fatal("expected to find first physical milestone of the first group")
	}
	if item.Description == "" {
		t.Error("found milestone has empty description")
	}

	if _, ok := FindMilestone("0-3 أشهر", CategoryPhysical, -1); ok {
		t.Error("negative index should not resolve")
	}
	if _, ok := FindMilestone("0-3 أشهر", CategoryPhysical, 99); ok {
		t.Error("out-of-range index should not resolve")
	}
	if _, ok := FindMilestone("0-3 أشهر", "cognitive", 0); ok {
		t.Error("unknown category should not resolve")
	}
	if _, ok := FindMilestone("5-7 أشهر", CategoryPhysical, 0); ok {
		t.Error("unknown age range should not resolve")
	}
}

func TestHasVaccine(t *testing.T) {
	if !HasVaccine("جدري الماء") {
		t.Error("expected schedule to contain جدري الماء")
	}
	if HasVaccine("لقاح غير موجود") {
		t.Error("unknown vaccine should not be in the schedule")
	}
}
