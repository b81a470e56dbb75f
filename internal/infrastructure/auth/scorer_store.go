package auth

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrScorerNotFound     = errors.New("scorer account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username is already taken")
)

// ScorerAccount is one registered scorekeeper.
type ScorerAccount struct {
	ID           string
	Username     string
	Name         string
	Role         string
	passwordHash []byte
}

// ScorerStore keeps scorer accounts in memory with bcrypt password
// hashes. Accounts are operational data, not game history, so they live
// outside the event store.
type ScorerStore struct {
	mu         sync.RWMutex
	byID       map[string]*ScorerAccount
	byUsername map[string]*ScorerAccount
}

func NewScorerStore() *ScorerStore {
	return &ScorerStore{
		byID:       make(map[string]*ScorerAccount),
		byUsername: make(map[string]*ScorerAccount),
	}
}

// Register creates a scorer account with a hashed password.
func (s *ScorerStore) Register(username, password, name, role string) (*ScorerAccount, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[username]; exists {
		return nil, ErrUsernameTaken
	}

	account := &ScorerAccount{
		ID:           uuid.New().String(),
		Username:     username,
		Name:         name,
		Role:         role,
		passwordHash: hash,
	}
	s.byID[account.ID] = account
	s.byUsername[username] = account
	return account, nil
}

// Authenticate verifies a username/password pair.
func (s *ScorerStore) Authenticate(username, password string) (*ScorerAccount, error) {
	s.mu.RLock()
	account, ok := s.byUsername[username]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(account.passwordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

// GetByID looks up an account by its ID.
func (s *ScorerStore) GetByID(id string) (*ScorerAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.byID[id]
	if !ok {
		return nil, ErrScorerNotFound
	}
	return account, nil
}
