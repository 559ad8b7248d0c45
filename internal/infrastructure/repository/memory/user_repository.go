package memory

import (
	"context"
	"sync"
	"time"

	"github.com/padelista/padel-stats/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	items map[string]user.User
}

func NewUserRepository(users ...user.User) *UserRepository {
	items := make(map[string]user.User, len(users))
	for _, u := range users {
		items[u.ID] = u
	}

	return &UserRepository{items: items}
}

func (r *UserRepository) Create(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	r.items[u.ID] = u
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[userID]
	return u, ok, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if u.Email == email {
			return u, true, nil
		}
	}
	return user.User{}, false, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if u.Username == username {
			return u, true, nil
		}
	}
	return user.User{}, false, nil
}

func (r *UserRepository) ListByIDs(_ context.Context, userIDs []string) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.User, 0, len(userIDs))
	for _, userID := range userIDs {
		if u, ok := r.items[userID]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *UserRepository) UpdatePasswordHash(_ context.Context, userID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[userID]
	if !ok {
		return nil
	}
	u.PasswordHash = passwordHash
	r.items[userID] = u
	return nil
}
