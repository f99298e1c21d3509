package store

import "testing"

func TestVaccinationAddGetRemove(t *testing.T) {
	s := newTestStore(t)
	parent := newTestProfile(t, s, "parent@example.com")
	child := newTestChild(t, s, parent.ID, "سارة")

	missing, err := s.GetVaccination(child.ID, "جدري الماء")
	if err != nil {
		t.Fatalf("GetVaccination failed: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for unrecorded vaccination")
	}

	rec, err := s.AddVaccination(child.ID, "جدري الماء")
	if err != nil {
		t.Fatalf("AddVaccination failed: %v", err)
	}
	if !rec.Completed {
		t.Error("new record should be completed")
	}

	got, err := s.GetVaccination(child.ID, "جدري الماء")
	if err != nil {
		t.Fatalf("GetVaccination failed: %v", err)
	}
	if got == nil || got.ID != rec.ID {
		t.Errorf("GetVaccination returned %+v, want id %s", got, rec.ID)
	}

	if err := s.RemoveVaccination(child.ID, "جدري الماء"); err != nil {
		t.Fatalf("RemoveVaccination failed: %v", err)
	}
	gone, err := s.GetVaccination(child.ID, "جدري الماء")
	if err != nil {
		t.Fatalf("GetVaccination failed: %v", err)
	}
	if gone != nil {
		t.Error("record still present after remove")
	}
}

func TestVaccinationUniquePerChild(t *testing.T) {
	s := newTestStore(t)
	parent := newTestProfile(t, s, "parent@example.com")
	child := newTestChild(t, s, parent.ID, "سارة")
	other := newTestChild(t, s, parent.ID, "يوسف")

	if _, err := s.AddVaccination(child.ID, "جدري الماء"); err != nil {
		t.Fatalf("AddVaccination failed: %v", err)
	}
	if _, err := s.AddVaccination(child.ID, "جدري الماء"); err == nil {
		t.Error("expected unique violation for duplicate (child, vaccine) pair")
	}
	// Same vaccine for a different child is fine.
	if _, err := s.AddVaccination(other.ID, "جدري الماء"); err != nil {
		t.Errorf("same vaccine for another child should insert: %v", err)
	}
}

func TestMilestoneAddGetRemove(t *testing.T) {
	s := newTestStore(t)
	parent := newTestProfile(t, s, "parent@example.com")
	child := newTestChild(t, s, parent.ID, "سارة")

	rec := MilestoneRecord{
		ChildID:     child.ID,
		MilestoneID: "0-3-أشهر_social_1",
		Category:    "social",
		AgeRange:    "0-3 أشهر",
		Description: "يهدأ عند سماع صوت مألوف",
	}
	if err := s.AddMilestone(&rec); err != nil {
		t.Fatalf("AddMilestone failed: %v", err)
	}
	if rec.ID == "" || rec.AchievedAt.IsZero() {
		t.Error("AddMilestone should populate id and achieved_at")
	}

	got, err := s.GetMilestone(child.ID, "0-3-أشهر_social_1")
	if err != nil {
		t.Fatalf("GetMilestone failed: %v", err)
	}
	if got == nil || got.Description != rec.Description {
		t.Errorf("GetMilestone returned %+v", got)
	}

	dup := rec
	if err := s.AddMilestone(&dup); err == nil {
		t.Error("expected unique violation for duplicate (child, milestone) pair")
	}

	if err := s.RemoveMilestone(child.ID, "0-3-أشهر_social_1"); err != nil {
		t.Fatalf("RemoveMilestone failed: %v", err)
	}
	gone, err := s.GetMilestone(child.ID, "0-3-أشهر_social_1")
	if err != nil {
		t.Fatalf("GetMilestone failed: %v", err)
	}
	if gone != nil {
		t.Error("record still present after remove")
	}
}

func TestListVaccinationsScopedByChild(t *testing.T) {
	s := newTestStore(t)
	parent := newTestProfile(t, s, "parent@example.com")
	a := newTestChild(t, s, parent.ID, "سارة")
	b := newTestChild(t, s, parent.ID, "يوسف")

	if _, err := s.AddVaccination(a.ID, "جدري الماء"); err != nil {
		t.Fatalf("AddVaccination failed: %v", err)
	}
	if _, err := s.AddVaccination(a.ID, "التهاب الكبد B"); err != nil {
		t.Fatalf("AddVaccination failed: %v", err)
	}

	recordsA, err := s.ListVaccinations(a.ID)
	if err != nil {
		t.Fatalf("ListVaccinations failed: %v", err)
	}
	if len(recordsA) != 2 {
		t.Errorf("got %d records for child a, want 2", len(recordsA))
	}

	recordsB, err := s.ListVaccinations(b.ID)
	if err != nil {
		t.Fatalf("ListVaccinations failed: %v", err)
	}
	if len(recordsB) != 0 {
		t.Errorf("got %d records for child b, want 0", len(recordsB))
	}
}
