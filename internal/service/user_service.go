package service

import (
	"context"
	"errors"
	"fmt"

	"users-api/internal/apperr"
	"users-api/internal/domain"
	"users-api/internal/repository"
	"users-api/internal/validator"
)

// UserService describes the user CRUD operations behind the HTTP API.
// Bodies are complete, fully read request payloads.
type UserService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	CreateUser(ctx context.Context, body []byte) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, body []byte) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err)
	}
	return user, nil
}

func (s *userService) CreateUser(ctx context.Context, body []byte) (*domain.User, error) {
	user, err := validator.ValidateCreatePayload(body)
	if err != nil {
		return nil, err
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// UpdateUser looks the user up before merging; the repository's Update
// ignores unknown ids, so the lookup is what produces the not-found error.
func (s *userService) UpdateUser(ctx context.Context, id string, body []byte) (*domain.User, error) {
	existing, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err)
	}

	updated, err := validator.ValidateUpdatePayload(body, *existing)
	if err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &updated, nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	removed, err := s.users.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !removed {
		return apperr.New(apperr.NotFoundUser, repository.ErrUserNotFound)
	}
	return nil
}

func lookupError(err error) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return apperr.New(apperr.NotFoundUser, err)
	}
	return fmt.Errorf("get user: %w", err)
}
