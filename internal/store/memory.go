package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/geo-auth-be/internal/models"
)

// MemoryStore is an in-memory UserStore for tests and local development.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]models.User // by id
	byEmail map[string]string      // email -> id
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

// FindByEmail returns the user with the given email.
func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return cloneUser(s.users[id]), nil
}

// FindByID returns the user with the given id.
func (s *MemoryStore) FindByID(ctx context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return cloneUser(u), nil
}

// Create inserts a new user. The email check and insert happen under one lock.
func (s *MemoryStore) Create(ctx context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[user.Email]; taken {
		return models.User{}, ErrDuplicateKey
	}

	now := time.Now().UTC()
	user.ID = uuid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now
	user = cloneUser(user)

	s.users[user.ID] = user
	s.byEmail[user.Email] = user.ID
	return cloneUser(user), nil
}

// Save overwrites an existing user.
func (s *MemoryStore) Save(ctx context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.users[user.ID]
	if !ok {
		return models.User{}, ErrNotFound
	}
	if user.Email != prev.Email {
		if _, taken := s.byEmail[user.Email]; taken {
			return models.User{}, ErrDuplicateKey
		}
		delete(s.byEmail, prev.Email)
		s.byEmail[user.Email] = user.ID
	}

	user.CreatedAt = prev.CreatedAt
	user.UpdatedAt = time.Now().UTC()
	user = cloneUser(user)
	s.users[user.ID] = user
	return cloneUser(user), nil
}

// Count returns the number of stored users.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// cloneUser copies the location so callers cannot mutate stored state.
func cloneUser(u models.User) models.User {
	if u.Location != nil {
		loc := *u.Location
		u.Location = &loc
	}
	return u
}

var _ UserStore = (*MemoryStore)(nil)
