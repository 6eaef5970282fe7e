package repository

import (
	"context"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/model"
)

type BlogRepository struct {
	DB DB
}

func NewBlogRepository(db DB) *BlogRepository {
	return &BlogRepository{DB: db}
}

const blogColumns = `blogid, slug, title, excerpt, content, authorid, cover_key,
		is_published, published_at, created_at, updated_at`

func scanBlog(row interface{ Scan(dest ...any) error }) (*model.Blog, error) {
	var b model.Blog
	err := row.Scan(&b.BlogID, &b.Slug, &b.Title, &b.Excerpt, &b.Content,
		&b.AuthorID, &b.CoverKey, &b.IsPublished, &b.PublishedAt,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &b, nil
}

func (r *BlogRepository) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]model.Blog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := `SELECT ` + blogColumns + ` FROM blogs`
	if publishedOnly {
		query += ` WHERE is_published`
	}
	query += ` ORDER BY COALESCE(published_at, created_at) DESC LIMIT $1 OFFSET $2`

	rows, err := r.DB.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Blog{}
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *b)
	}
	return list, rows.Err()
}

func (r *BlogRepository) GetBySlug(ctx context.Context, slug string) (*model.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE slug=$1`
	return scanBlog(r.DB.QueryRow(ctx, query, slug))
}

func (r *BlogRepository) GetByID(ctx context.Context, id int64) (*model.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE blogid=$1`
	return scanBlog(r.DB.QueryRow(ctx, query, id))
}

func (r *BlogRepository) Create(ctx context.Context, b *model.Blog) (int64, error) {
	var id int64
	query := `
		INSERT INTO blogs (slug, title, excerpt, content, authorid, cover_key,
			is_published, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CASE WHEN $7 THEN now() END)
		RETURNING blogid`
	err := r.DB.QueryRow(ctx, query,
		b.Slug, b.Title, b.Excerpt, b.Content, b.AuthorID, b.CoverKey, b.IsPublished).Scan(&id)
	if err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

func (r *BlogRepository) Update(ctx context.Context, b *model.Blog) error {
	query := `
		UPDATE blogs SET
			slug=$1, title=$2, excerpt=$3, content=$4, cover_key=$5,
			is_published=$6,
			published_at=CASE WHEN $6 AND published_at IS NULL THEN now() ELSE published_at END,
			updated_at=now()
		WHERE blogid=$7`
	tag, err := r.DB.Exec(ctx, query,
		b.Slug, b.Title, b.Excerpt, b.Content, b.CoverKey, b.IsPublished, b.BlogID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *BlogRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM blogs WHERE blogid=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
