package repository

import (
	"context"
	"log/slog"
	"strings"

	"github.com/segyhp/loan-desk/internal/domain"
	"github.com/segyhp/loan-desk/internal/store"
)

type userRepository struct {
	col *Collection[domain.User]
}

func NewUserRepository(kv store.KV, logger *slog.Logger) UserRepository {
	return &userRepository{col: NewCollection[domain.User](kv, KeyUsers, logger)}
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.col.Load(ctx)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	return r.col.Find(ctx, func(u domain.User) bool {
		return email != "" && strings.EqualFold(u.Email, email)
	})
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return r.col.Update(ctx, func(users []domain.User) ([]domain.User, error) {
		for _, u := range users {
			if strings.EqualFold(u.Email, user.Email) {
				return nil, ErrDuplicate
			}
		}
		return append(users, *user), nil
	})
}

// EnsureDefaultAdmin seeds admin when the user collection is empty. It
// reports whether the user was created.
func EnsureDefaultAdmin(ctx context.Context, users UserRepository, admin domain.User) (bool, error) {
	existing, err := users.List(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}
	if err := users.Create(ctx, &admin); err != nil {
		return false, err
	}
	return true, nil
}
