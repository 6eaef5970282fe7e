package model

import "time"

type Testimonial struct {
	TestimonialID int64     `json:"testimonialid"`
	AuthorName    string    `json:"author_name"`
	Location      string    `json:"location,omitempty"`
	Rating        int       `json:"rating"`
	Content       string    `json:"content"`
	TourID        *int64    `json:"tourid,omitempty"`
	IsApproved    bool      `json:"is_approved"`
	CreatedAt     time.Time `json:"created_at"`
}
