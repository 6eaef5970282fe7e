package services

import (
	"context"
	"errors"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/model"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/repository"
)

type BlogService struct {
	Blogs *repository.BlogRepository
}

func NewBlogService(br *repository.BlogRepository) *BlogService {
	return &BlogService{Blogs: br}
}

func (s *BlogService) validate(b *model.Blog) error {
	if b.Title == "" {
		return errors.New("title is required")
	}
	if b.Content == "" {
		return errors.New("content is required")
	}
	if b.Slug == "" {
		b.Slug = Slugify(b.Title)
	}
	if !slugRegex.MatchString(b.Slug) {
		return errors.New("invalid slug")
	}
	return nil
}

func (s *BlogService) ListPublic(ctx context.Context, limit, offset int) ([]model.Blog, error) {
	return s.Blogs.List(ctx, true, limit, offset)
}

func (s *BlogService) ListAll(ctx context.Context, limit, offset int) ([]model.Blog, error) {
	return s.Blogs.List(ctx, false, limit, offset)
}

func (s *BlogService) GetPublicBySlug(ctx context.Context, slug string) (*model.Blog, error) {
	b, err := s.Blogs.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !b.IsPublished {
		return nil, model.ErrNotFound
	}
	return b, nil
}

func (s *BlogService) Create(ctx context.Context, b *model.Blog) (int64, error) {
	if err := s.validate(b); err != nil {
		return 0, err
	}
	return s.Blogs.Create(ctx, b)
}

// Update rejects edits to posts the editor does not own; admins may edit any.
func (s *BlogService) Update(ctx context.Context, b *model.Blog, editorID int64, editorRole string) error {
	existing, err := s.Blogs.GetByID(ctx, b.BlogID)
	if err != nil {
		return err
	}
	if editorRole != model.RoleAdmin && existing.AuthorID != editorID {
		return errors.New("editors can only update their own posts")
	}
	if err := s.validate(b); err != nil {
		return err
	}
	return s.Blogs.Update(ctx, b)
}

func (s *BlogService) Delete(ctx context.Context, id int64) error {
	return s.Blogs.Delete(ctx, id)
}
