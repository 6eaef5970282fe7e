package services

import (
	"context"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/model"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/repository"
)

// UserService is the admin view over accounts: listing and the
// soft-activation toggle. Accounts are never deleted.
type UserService struct {
	Users *repository.UserRepository
}

func NewUserService(ur *repository.UserRepository) *UserService {
	return &UserService{Users: ur}
}

func (s *UserService) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	return s.Users.List(ctx, limit, offset)
}

func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}

func (s *UserService) Deactivate(ctx context.Context, id int64) error {
	return s.Users.SetActive(ctx, id, false)
}

func (s *UserService) Reactivate(ctx context.Context, id int64) error {
	return s.Users.SetActive(ctx, id, true)
}
