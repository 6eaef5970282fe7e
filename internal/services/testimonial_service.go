package services

import (
	"context"
	"errors"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/model"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/repository"
)

type TestimonialService struct {
	Testimonials *repository.TestimonialRepository
	Tours        *repository.TourRepository
}

func NewTestimonialService(tr *repository.TestimonialRepository, tours *repository.TourRepository) *TestimonialService {
	return &TestimonialService{Testimonials: tr, Tours: tours}
}

// Submit stores a visitor testimonial; it stays hidden until approved.
func (s *TestimonialService) Submit(ctx context.Context, t *model.Testimonial) (int64, error) {
	if t.AuthorName == "" {
		return 0, errors.New("name is required")
	}
	if t.Content == "" {
		return 0, errors.New("content is required")
	}
	if t.Rating < 1 || t.Rating > 5 {
		return 0, errors.New("rating must be between 1 and 5")
	}
	if t.TourID != nil {
		if _, err := s.Tours.GetByID(ctx, *t.TourID); err != nil {
			return 0, errors.New("tour not found")
		}
	}
	t.IsApproved = false
	return s.Testimonials.Create(ctx, t)
}

func (s *TestimonialService) ListPublic(ctx context.Context, limit, offset int) ([]model.Testimonial, error) {
	return s.Testimonials.List(ctx, true, limit, offset)
}

func (s *TestimonialService) ListAll(ctx context.Context, limit, offset int) ([]model.Testimonial, error) {
	return s.Testimonials.List(ctx, false, limit, offset)
}

func (s *TestimonialService) Approve(ctx context.Context, id int64) error {
	return s.Testimonials.Approve(ctx, id)
}

func (s *TestimonialService) Delete(ctx context.Context, id int64) error {
	return s.Testimonials.Delete(ctx, id)
}
