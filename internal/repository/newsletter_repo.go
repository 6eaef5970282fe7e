package repository

import (
	"context"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/model"
)

type NewsletterRepository struct {
	DB DB
}

func NewNewsletterRepository(db DB) *NewsletterRepository {
	return &NewsletterRepository{DB: db}
}

func (r *NewsletterRepository) GetByEmail(ctx context.Context, email string) (*model.NewsletterSubscription, error) {
	var s model.NewsletterSubscription
	err := r.DB.QueryRow(ctx, `
		SELECT subscriptionid, email, is_subscribed, subscribed_at, unsubscribed_at
		FROM newsletter_subscriptions WHERE email=$1
	`, email).Scan(&s.SubscriptionID, &s.Email, &s.IsSubscribed, &s.SubscribedAt, &s.UnsubscribedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &s, nil
}

// Subscribe inserts a new subscription, or re-activates a lapsed one.
// Returns model.ErrDuplicate when the email is already actively subscribed.
func (r *NewsletterRepository) Subscribe(ctx context.Context, email string) (int64, error) {
	var id int64
	err := r.DB.QueryRow(ctx, `
		INSERT INTO newsletter_subscriptions (email)
		VALUES ($1)
		ON CONFLICT (email) DO UPDATE
			SET is_subscribed = TRUE, subscribed_at = now(), unsubscribed_at = NULL
			WHERE NOT newsletter_subscriptions.is_subscribed
		RETURNING subscriptionid
	`, email).Scan(&id)
	if err != nil {
		// no row returned means the conflict branch declined: already subscribed
		if mapError(err) == model.ErrNotFound {
			return 0, model.ErrDuplicate
		}
		return 0, mapError(err)
	}
	return id, nil
}

func (r *NewsletterRepository) Unsubscribe(ctx context.Context, email string) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE newsletter_subscriptions
		SET is_subscribed = FALSE, unsubscribed_at = now()
		WHERE email=$1 AND is_subscribed
	`, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *NewsletterRepository) List(ctx context.Context, limit, offset int) ([]model.NewsletterSubscription, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.DB.Query(ctx, `
		SELECT subscriptionid, email, is_subscribed, subscribed_at, unsubscribed_at
		FROM newsletter_subscriptions
		ORDER BY subscribed_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.NewsletterSubscription{}
	for rows.Next() {
		var s model.NewsletterSubscription
		if err := rows.Scan(&s.SubscriptionID, &s.Email, &s.IsSubscribed, &s.SubscribedAt, &s.UnsubscribedAt); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
