package repository

import (
	"context"
	"time"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/model"
)

type OTPRepository struct {
	DB DB
}

func NewOTPRepository(db DB) *OTPRepository {
	return &OTPRepository{DB: db}
}

// Create stores a fresh code after invalidating any live code for the same
// (email, type), so at most one code per purpose is outstanding.
func (r *OTPRepository) Create(ctx context.Context, email, code string, otpType model.OTPType, expiresAt time.Time) (int64, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE otps SET is_used = TRUE
		WHERE email=$1 AND type=$2 AND NOT is_used
	`, email, otpType)
	if err != nil {
		return 0, err
	}

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO otps (email, code, type, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING otpid
	`, email, code, otpType, expiresAt).Scan(&id)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

// Consume marks a matching live code as used. The guard conditions and the
// flip happen in a single UPDATE so a code verifies exactly once even under
// concurrent attempts. Returns model.ErrNotFound when no code qualified.
func (r *OTPRepository) Consume(ctx context.Context, email, code string, otpType model.OTPType) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE otps SET is_used = TRUE
		WHERE email=$1 AND code=$2 AND type=$3
		  AND NOT is_used
		  AND expires_at > now()
		  AND attempts < $4
	`, email, code, otpType, model.OTPMaxAttempts)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// RegisterFailedAttempt charges a wrong guess against the outstanding code.
func (r *OTPRepository) RegisterFailedAttempt(ctx context.Context, email string, otpType model.OTPType) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE otps SET attempts = attempts + 1
		WHERE email=$1 AND type=$2 AND NOT is_used AND expires_at > now()
	`, email, otpType)
	return err
}

// DeleteExpired removes dead rows; the background sweeper stands in for a
// store-level expiry index.
func (r *OTPRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM otps WHERE expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
