package model

import "time"

type Tour struct {
	TourID       int64      `json:"tourid"`
	Slug         string     `json:"slug"`
	Title        string     `json:"title"`
	Summary      string     `json:"summary"`
	Description  string     `json:"description"`
	Destination  string     `json:"destination"`
	DurationDays int        `json:"duration_days"`
	Price        float64    `json:"price"`
	MaxGroupSize int        `json:"max_group_size"`
	CoverKey     *string    `json:"cover_key,omitempty"`
	IsFeatured   bool       `json:"is_featured"`
	IsPublished  bool       `json:"is_published"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"-"`
}
