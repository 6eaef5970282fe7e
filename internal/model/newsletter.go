package model

import "time"

type NewsletterSubscription struct {
	SubscriptionID int64      `json:"subscriptionid"`
	Email          string     `json:"email"`
	IsSubscribed   bool       `json:"is_subscribed"`
	SubscribedAt   time.Time  `json:"subscribed_at"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at,omitempty"`
}
