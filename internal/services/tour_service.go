package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/model"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/repository"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type TourService struct {
	Tours *repository.TourRepository
}

func NewTourService(tr *repository.TourRepository) *TourService {
	return &TourService{Tours: tr}
}

// Slugify derives a URL slug from a title when none is supplied.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func (s *TourService) validate(t *model.Tour) error {
	if t.Title == "" {
		return errors.New("title is required")
	}
	if t.Destination == "" {
		return errors.New("destination is required")
	}
	if t.DurationDays <= 0 {
		return errors.New("duration must be positive")
	}
	if t.Price < 0 {
		return errors.New("price cannot be negative")
	}
	if t.MaxGroupSize <= 0 {
		t.MaxGroupSize = 16
	}
	if t.Slug == "" {
		t.Slug = Slugify(t.Title)
	}
	if !slugRegex.MatchString(t.Slug) {
		return errors.New("invalid slug")
	}
	return nil
}

// ListPublic returns published tours only.
func (s *TourService) ListPublic(ctx context.Context, destination string, featuredOnly bool, limit, offset int) ([]model.Tour, error) {
	return s.Tours.List(ctx, repository.TourFilter{
		Destination:   destination,
		FeaturedOnly:  featuredOnly,
		PublishedOnly: true,
		Limit:         limit,
		Offset:        offset,
	})
}

// ListAll is the admin view including unpublished tours.
func (s *TourService) ListAll(ctx context.Context, limit, offset int) ([]model.Tour, error) {
	return s.Tours.List(ctx, repository.TourFilter{Limit: limit, Offset: offset})
}

func (s *TourService) GetPublicBySlug(ctx context.Context, slug string) (*model.Tour, error) {
	t, err := s.Tours.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !t.IsPublished {
		return nil, model.ErrNotFound
	}
	return t, nil
}

func (s *TourService) Create(ctx context.Context, t *model.Tour) (int64, error) {
	if err := s.validate(t); err != nil {
		return 0, err
	}
	return s.Tours.Create(ctx, t)
}

func (s *TourService) Update(ctx context.Context, t *model.Tour) error {
	if err := s.validate(t); err != nil {
		return err
	}
	return s.Tours.Update(ctx, t)
}

func (s *TourService) Delete(ctx context.Context, id int64) error {
	return s.Tours.SoftDelete(ctx, id)
}
