package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/ordenes-api/internal/domain"
	"github.com/jhoicas/ordenes-api/internal/domain/entity"
	"github.com/jhoicas/ordenes-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct {
	s *Store
}

// Create guarda el usuario; el username es único.
func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.users[user.ID]; ok {
		return domain.ErrDuplicate
	}
	if _, ok := r.s.st.usernames[user.Username]; ok {
		return domain.ErrDuplicate
	}
	r.s.st.users[user.ID] = *user
	r.s.st.usernames[user.Username] = user.ID
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.st.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// GetByUsername devuelve (nil, nil) si no existe.
func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.st.usernames[username]
	if !ok {
		return nil, nil
	}
	u := r.s.st.users[id]
	return &u, nil
}

// List devuelve los usuarios por fecha de creación.
func (r *UserRepo) List(_ context.Context) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	list := make([]*entity.User, 0, len(r.s.st.users))
	for _, u := range r.s.st.users {
		u := u
		list = append(list, &u)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}
