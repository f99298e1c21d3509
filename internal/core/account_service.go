package core

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"tameny.app/tameny-server/internal/auth"
	"tameny.app/tameny-server/internal/store"
)

var (
	ErrAccountExists      = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type AccountService struct {
	dbStore *store.SQLiteStore
	logger  *zap.Logger
}

func NewAccountService(db *store.SQLiteStore, logger *zap.Logger) *AccountService {
	return &AccountService{dbStore: db, logger: logger}
}

// SignUp creates the profile row for a new account. A duplicate email is a
// classified failure so the caller can offer to switch to sign-in.
func (s *AccountService) SignUp(email, password, fullName string) (*store.Profile, error) {
	existing, err := s.dbStore.GetProfileByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return nil, ErrAccountExists
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile, err := s.dbStore.CreateProfile(email, hash, fullName, store.RoleParent)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.logger.Info("Account created", zap.String("profile_id", profile.ID))
	return profile, nil
}

// SignIn validates credentials. A missing account and a wrong password are
// deliberately indistinguishable to the caller.
func (s *AccountService) SignIn(email, password string) (*store.Profile, error) {
	profile, err := s.dbStore.GetProfileByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if profile == nil || !auth.CheckPasswordHash(password, profile.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return profile, nil
}

func (s *AccountService) Profile(profileID string) (*store.Profile, error) {
	return s.dbStore.GetProfileByID(profileID)
}

func (s *AccountService) UpdateProfile(profileID, fullName, phone string) (*store.Profile, error) {
	if err := s.dbStore.UpdateProfile(profileID, fullName, phone); err != nil {
		return nil, err
	}
	return s.dbStore.GetProfileByID(profileID)
}

// HasChildren resolves the onboarding flag. The route guard must only act on
// this after the identity itself has been resolved.
func (s *AccountService) HasChildren(profileID string) (bool, error) {
	count, err := s.dbStore.CountChildrenByParent(profileID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
