package memory

import (
	"context"

	"users-api/internal/domain"
	"users-api/internal/repository"
)

// UserRepository keeps users in a slice in insertion order.
type UserRepository struct {
	users []domain.User
}

func NewUserRepository() repository.UserRepository {
	return &UserRepository{users: []domain.User{}}
}

func (r *UserRepository) Init(ctx context.Context) error {
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	idx := r.indexOf(id)
	if idx < 0 {
		return nil, repository.ErrUserNotFound
	}
	user := r.users[idx].Clone()
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	users := make([]domain.User, len(r.users))
	for i := range r.users {
		users[i] = r.users[i].Clone()
	}
	return users, nil
}

func (r *UserRepository) Insert(ctx context.Context, user domain.User) error {
	r.users = append(r.users, user.Clone())
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user domain.User) error {
	if idx := r.indexOf(user.ID); idx >= 0 {
		r.users[idx] = user.Clone()
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	idx := r.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	r.users = append(r.users[:idx], r.users[idx+1:]...)
	return true, nil
}

func (r *UserRepository) indexOf(id string) int {
	for i := range r.users {
		if r.users[i].ID == id {
			return i
		}
	}
	return -1
}
