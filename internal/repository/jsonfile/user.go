package jsonfile

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/jsonfile"
)

type userRepository struct {
	mu   sync.Mutex
	path string
}

func NewUserRepository(path string) user.UserRepository {
	return &userRepository{path: path}
}

func (r *userRepository) load() ([]user.User, error) {
	var users []user.User
	if _, err := jsonfile.Load(r.path, &users); err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return users, nil
}

// GetByEmail implements user.UserRepository.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return user.User{}, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

// GetByID implements user.UserRepository.
func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return user.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

// Create implements user.UserRepository.
func (r *userRepository) Create(ctx context.Context, newUser user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return user.User{}, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, newUser.Email) {
			return user.User{}, user.ErrUserEmailExists
		}
	}

	users = append(users, newUser)
	if err := jsonfile.Save(r.path, users); err != nil {
		return user.User{}, fmt.Errorf("failed to save users: %w", err)
	}
	return newUser, nil
}

// Count implements user.UserRepository.
func (r *userRepository) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return 0, err
	}
	return len(users), nil
}
