package repository

import (
	"context"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/model"
)

type TestimonialRepository struct {
	DB DB
}

func NewTestimonialRepository(db DB) *TestimonialRepository {
	return &TestimonialRepository{DB: db}
}

const testimonialColumns = `testimonialid, author_name, location, rating, content,
		tourid, is_approved, created_at`

func scanTestimonial(row interface{ Scan(dest ...any) error }) (*model.Testimonial, error) {
	var t model.Testimonial
	err := row.Scan(&t.TestimonialID, &t.AuthorName, &t.Location, &t.Rating,
		&t.Content, &t.TourID, &t.IsApproved, &t.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &t, nil
}

func (r *TestimonialRepository) List(ctx context.Context, approvedOnly bool, limit, offset int) ([]model.Testimonial, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := `SELECT ` + testimonialColumns + ` FROM testimonials`
	if approvedOnly {
		query += ` WHERE is_approved`
	}
	query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.DB.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Testimonial{}
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *t)
	}
	return list, rows.Err()
}

func (r *TestimonialRepository) Create(ctx context.Context, t *model.Testimonial) (int64, error) {
	var id int64
	query := `
		INSERT INTO testimonials (author_name, location, rating, content, tourid)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING testimonialid`
	err := r.DB.QueryRow(ctx, query,
		t.AuthorName, t.Location, t.Rating, t.Content, t.TourID).Scan(&id)
	if err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

func (r *TestimonialRepository) Approve(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE testimonials SET is_approved=TRUE WHERE testimonialid=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *TestimonialRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx,
		`DELETE FROM testimonials WHERE testimonialid=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
