package services

import (
	"context"
	"errors"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/model"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/repository"
)

type NewsletterService struct {
	Subscriptions  *repository.NewsletterRepository
	EmailValidator EmailValidator
}

func NewNewsletterService(nr *repository.NewsletterRepository, validator EmailValidator) *NewsletterService {
	return &NewsletterService{Subscriptions: nr, EmailValidator: validator}
}

// Subscribe adds an email to the mailing list, re-activating a lapsed
// subscription. Returns model.ErrDuplicate when already subscribed.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) (int64, error) {
	email = normalizeEmail(email)
	if email == "" || !emailRegex.MatchString(email) {
		return 0, errors.New("invalid email format")
	}
	if s.EmailValidator != nil {
		if err := s.EmailValidator.Validate(ctx, email); err != nil {
			return 0, err
		}
	}
	return s.Subscriptions.Subscribe(ctx, email)
}

func (s *NewsletterService) Unsubscribe(ctx context.Context, email string) error {
	return s.Subscriptions.Unsubscribe(ctx, normalizeEmail(email))
}

func (s *NewsletterService) List(ctx context.Context, limit, offset int) ([]model.NewsletterSubscription, error) {
	return s.Subscriptions.List(ctx, limit, offset)
}
