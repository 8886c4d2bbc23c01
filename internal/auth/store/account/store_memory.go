package account

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"universitas/internal/auth/models"
	id "universitas/pkg/domain"
	"universitas/pkg/platform/sentinel"
)

// Error Contract:
// - ErrNotFound when the requested account does not exist
// - ErrAlreadyUsed when the email is taken
// - wrapped errors with context for infrastructure failures (Postgres only)

// InMemoryStore keeps accounts in process memory. It backs local runs and
// service tests; accounts are copied in and out so callers cannot mutate
// stored state.
type InMemoryStore struct {
	mu       sync.RWMutex
	accounts map[id.UserID]*models.Account
	byEmail  map[string]id.UserID
}

// NewInMemory constructs an empty in-memory account store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		accounts: make(map[id.UserID]*models.Account),
		byEmail:  make(map[string]id.UserID),
	}
}

func (s *InMemoryStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byEmail[email]
	return ok, nil
}

// Create inserts a new account. The email check and insert happen under one
// lock, so concurrent registrations of the same email yield one winner.
func (s *InMemoryStore) Create(_ context.Context, account *models.Account) error {
	if account == nil {
		return fmt.Errorf("account is required: %w", sentinel.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[account.Email]; taken {
		return fmt.Errorf("account email already registered: %w", sentinel.ErrAlreadyUsed)
	}
	if _, taken := s.accounts[account.ID]; taken {
		return fmt.Errorf("account id already exists: %w", sentinel.ErrAlreadyUsed)
	}
	s.accounts[account.ID] = clone(account)
	s.byEmail[account.Email] = account.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, userID id.UserID) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if account, ok := s.accounts[userID]; ok {
		return clone(account), nil
	}
	return nil, fmt.Errorf("account not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if userID, ok := s.byEmail[email]; ok {
		return clone(s.accounts[userID]), nil
	}
	return nil, fmt.Errorf("account not found: %w", sentinel.ErrNotFound)
}

// ListByRole returns accounts of one role, oldest first.
func (s *InMemoryStore) ListByRole(_ context.Context, role models.Role) ([]*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*models.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		if account.Role == role {
			result = append(result, clone(account))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].Email < result[j].Email
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// UpdateGrade sets or clears (nil) an account's grade and returns the updated account.
func (s *InMemoryStore) UpdateGrade(_ context.Context, userID id.UserID, grade *float64, at time.Time) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[userID]
	if !ok {
		return nil, fmt.Errorf("account not found: %w", sentinel.ErrNotFound)
	}
	account.Grade = copyGrade(grade)
	account.UpdatedAt = at
	return clone(account), nil
}

func clone(a *models.Account) *models.Account {
	c := *a
	c.Grade = copyGrade(a.Grade)
	return &c
}

func copyGrade(g *float64) *float64 {
	if g == nil {
		return nil
	}
	v := *g
	return &v
}
