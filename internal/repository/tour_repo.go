package repository

import (
	"context"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/model"
)

type TourRepository struct {
	DB DB
}

func NewTourRepository(db DB) *TourRepository {
	return &TourRepository{DB: db}
}

const tourColumns = `tourid, slug, title, summary, description, destination,
		duration_days, price, max_group_size, cover_key, is_featured,
		is_published, created_at, updated_at, deleted_at`

func scanTour(row interface{ Scan(dest ...any) error }) (*model.Tour, error) {
	var t model.Tour
	err := row.Scan(&t.TourID, &t.Slug, &t.Title, &t.Summary, &t.Description,
		&t.Destination, &t.DurationDays, &t.Price, &t.MaxGroupSize, &t.CoverKey,
		&t.IsFeatured, &t.IsPublished, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &t, nil
}

// TourFilter narrows List results. Zero values mean "no filter".
type TourFilter struct {
	Destination   string
	FeaturedOnly  bool
	PublishedOnly bool
	Limit         int
	Offset        int
}

func (r *TourRepository) List(ctx context.Context, f TourFilter) ([]model.Tour, error) {
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := `SELECT ` + tourColumns + ` FROM tours WHERE deleted_at IS NULL`
	args := []any{}
	if f.PublishedOnly {
		query += ` AND is_published`
	}
	if f.FeaturedOnly {
		query += ` AND is_featured`
	}
	if f.Destination != "" {
		args = append(args, f.Destination)
		query += ` AND destination = $1`
	}
	args = append(args, limit, f.Offset)
	query += ` ORDER BY tourid DESC`
	if f.Destination != "" {
		query += ` LIMIT $2 OFFSET $3`
	} else {
		query += ` LIMIT $1 OFFSET $2`
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Tour{}
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *t)
	}
	return list, rows.Err()
}

func (r *TourRepository) GetByID(ctx context.Context, id int64) (*model.Tour, error) {
	query := `SELECT ` + tourColumns + ` FROM tours WHERE tourid=$1 AND deleted_at IS NULL`
	return scanTour(r.DB.QueryRow(ctx, query, id))
}

func (r *TourRepository) GetBySlug(ctx context.Context, slug string) (*model.Tour, error) {
	query := `SELECT ` + tourColumns + ` FROM tours WHERE slug=$1 AND deleted_at IS NULL`
	return scanTour(r.DB.QueryRow(ctx, query, slug))
}

func (r *TourRepository) Create(ctx context.Context, t *model.Tour) (int64, error) {
	var id int64
	query := `
		INSERT INTO tours
			(slug, title, summary, description, destination, duration_days,
			 price, max_group_size, cover_key, is_featured, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING tourid`
	err := r.DB.QueryRow(ctx, query,
		t.Slug, t.Title, t.Summary, t.Description, t.Destination, t.DurationDays,
		t.Price, t.MaxGroupSize, t.CoverKey, t.IsFeatured, t.IsPublished).Scan(&id)
	if err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

func (r *TourRepository) Update(ctx context.Context, t *model.Tour) error {
	query := `
		UPDATE tours SET
			slug=$1, title=$2, summary=$3, description=$4, destination=$5,
			duration_days=$6, price=$7, max_group_size=$8, cover_key=$9,
			is_featured=$10, is_published=$11, updated_at=now()
		WHERE tourid=$12 AND deleted_at IS NULL`
	tag, err := r.DB.Exec(ctx, query,
		t.Slug, t.Title, t.Summary, t.Description, t.Destination, t.DurationDays,
		t.Price, t.MaxGroupSize, t.CoverKey, t.IsFeatured, t.IsPublished, t.TourID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// SoftDelete hides a tour from every listing while keeping booking history intact.
func (r *TourRepository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE tours SET deleted_at=now() WHERE tourid=$1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
