package core

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"tameny.app/tameny-server/internal/store"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestProfile(t *testing.T, s *store.SQLiteStore, email string) *store.Profile {
	t.Helper()
	profile, err := s.CreateProfile(email, "hash", "Test Parent", store.RoleParent)
	if err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	return profile
}

func newTestChild(t *testing.T, s *store.SQLiteStore, parentID, name string) *store.Child {
	t.Helper()
	child := &store.Child{ParentID: parentID, Name: name}
	if err := s.CreateChild(child); err != nil {
		t.Fatalf("CreateChild failed: %v", err)
	}
	return child
}

type mockLanguageModel struct {
	mock.Mock
}

func (m *mockLanguageModel) Reply(history []store.ChatMessage, knowledgeContext, question string) (string, error) {
	args := m.Called(history, knowledgeContext, question)
	return args.String(0), args.Error(1)
}

func (m *mockLanguageModel) Title(basis string) (string, error) {
	args := m.Called(basis)
	return args.String(0), args.Error(1)
}

func (m *mockLanguageModel) Embed(text string) ([]float32, error) {
	args := m.Called(text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

type mockRetriever struct {
	mock.Mock
}

func (m *mockRetriever) Retrieve(query string) ([]string, error) {
	args := m.Called(query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockPushSender struct {
	mock.Mock
}

func (m *mockPushSender) Send(title, message string) error {
	args := m.Called(title, message)
	return args.Error(0)
}
