// Package mock provides in-memory repositories for handler tests.
package mock

import (
	"context"
	"sync"

	"github.com/garnizeh/placement/pkg/models"
	"github.com/garnizeh/placement/pkg/repository"
)

var _ repository.UserRepo = (*Users)(nil)

// Users is an in-memory UserRepo. Err, when set, is returned by every call.
type Users struct {
	mu      sync.Mutex
	byID    map[string]*models.User
	Err     error
	Lookups int
}

func NewUsers(users ...*models.User) *Users {
	m := &Users{byID: make(map[string]*models.User)}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

func (m *Users) CreateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.byID[u.ID] = u
	return nil
}

func (m *Users) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lookups++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.byID[id], nil
}

func (m *Users) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lookups++
	if m.Err != nil {
		return nil, m.Err
	}
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
