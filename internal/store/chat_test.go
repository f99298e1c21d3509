package store

import (
	"testing"
)

func TestSessionCreateAndGet(t *testing.T) {
	s := newTestStore(t)
	parent := newTestProfile(t, s, "parent@example.com")

	prompt := "طفلي عنده سخونية"
	session, err := s.CreateSession(parent.ID, &prompt)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if session.Name != nil {
		t.Error("new session should have no name until one is derived")
	}

	got, err := s.GetSessionByID(session.ID, parent.ID)
	if err != nil {
		t.Fatalf("GetSessionByID failed: %v", err)
	}
	if got == nil || got.ID != session.ID {
		t.Fatalf("GetSessionByID returned %+v", got)
	}
	if got.InitialPrompt == nil || *got.InitialPrompt != prompt {
		t.Errorf("initial prompt lost: %+v", got.InitialPrompt)
	}
}

func TestSessionIsScopedToOwner(t *testing.T) {
	s := newTestStore(t)
	owner := newTestProfile(t, s, "owner@example.com")
	other := newTestProfile(t, s, "other@example.com")

	session, err := s.CreateSession(owner.ID, nil)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	got, err := s.GetSessionByID(session.ID, other.ID)
	if err != nil {
		t.Fatalf("GetSessionByID failed: %v", err)
	}
	if got != nil {
		t.Error("session must not be visible to another user")
	}

	if err := s.UpdateSessionName(session.ID, other.ID, "stolen"); err == nil {
		t.Error("another user must not be able to rename the session")
	}
}

func TestUpdateSessionName(t *testing.T) {
	s := newTestStore(t)
	parent := newTestProfile(t, s, "parent@example.com")
	session, err := s.CreateSession(parent.ID, nil)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if err := s.UpdateSessionName(session.ID, parent.ID, "سخونية الطفل"); err != nil {
		t.Fatalf("UpdateSessionName failed: %v", err)
	}

	got, err := s.GetSessionByID(session.ID, parent.ID)
	if err != nil {
		t.Fatalf("GetSessionByID failed: %v", err)
	}
	if got.Name == nil || *got.Name != "سخونية الطفل" {
		t.Errorf("name not updated: %+v", got.Name)
	}
}

func TestMessagesKeepInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	parent := newTestProfile(t, s, "parent@example.com")
	session, err := s.CreateSession(parent.ID, nil)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	contents := []string{"سؤال أول", "رد أول", "سؤال ثاني", "رد ثاني"}
	roles := []string{RoleMessageUser, RoleMessageAssistant, RoleMessageUser, RoleMessageAssistant}
	for i, content := range contents {
		msg := ChatMessage{SessionID: session.ID, Role: roles[i], Content: content}
		if err := s.CreateMessage(&msg); err != nil {
			t.Fatalf("CreateMessage failed: %v", err)
		}
	}

	messages, err := s.ListMessagesBySession(session.ID)
	if err != nil {
		t.Fatalf("ListMessagesBySession failed: %v", err)
	}
	if len(messages) != 4 {
		t.Fatalf("got %d messages, want 4", len(messages))
	}
	for i, msg := range messages {
		if msg.Content != contents[i] {
			t.Errorf("message %d = %q, want %q", i, msg.Content, contents[i])
		}
		if !msg.Persisted {
			t.Errorf("message %d should be marked persisted", i)
		}
	}
}

func TestGetLastNMessagesWindow(t *testing.T) {
	s := newTestStore(t)
	parent := newTestProfile(t, s, "parent@example.com")
	session, err := s.CreateSession(parent.ID, nil)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	contents := []string{"a", "b", "c", "d", "e"}
	for _, content := range contents {
		msg := ChatMessage{SessionID: session.ID, Role: RoleMessageUser, Content: content}
		if err := s.CreateMessage(&msg); err != nil {
			t.Fatalf("CreateMessage failed: %v", err)
		}
	}

	window, err := s.GetLastNMessages(session.ID, 3)
	if err != nil {
		t.Fatalf("GetLastNMessages failed: %v", err)
	}
	if len(window) != 3 {
		t.Fatalf("got %d messages, want 3", len(window))
	}
	// Most recent three, oldest first.
	want := []string{"c", "d", "e"}
	for i, msg := range window {
		if msg.Content != want[i] {
			t.Errorf("window[%d] = %q, want %q", i, msg.Content, want[i])
		}
	}
}

func TestMessageSourceChunksRoundTrip(t *testing.T) {
	s := newTestStore(t)
	parent := newTestProfile(t, s, "parent@example.com")
	session, err := s.CreateSession(parent.ID, nil)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	msg := ChatMessage{
		SessionID:    session.ID,
		Role:         RoleMessageAssistant,
		Content:      "إجابة",
		SourceChunks: []string{"مقتطف أول", "مقتطف ثاني"},
	}
	if err := s.CreateMessage(&msg); err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}

	messages, err := s.ListMessagesBySession(session.ID)
	if err != nil {
		t.Fatalf("ListMessagesBySession failed: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(messages))
	}
	if len(messages[0].SourceChunks) != 2 || messages[0].SourceChunks[1] != "مقتطف ثاني" {
		t.Errorf("source chunks lost in round trip: %v", messages[0].SourceChunks)
	}
}
