package repository

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/model"
)

func newUserRepoWithMock(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewUserRepository(mock), mock
}

const setActiveQuery = `UPDATE users SET is_active=\$1, updated_at=now\(\) WHERE userid=\$2$`

func TestSetActive_Idempotent(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	ctx := context.Background()

	// deactivating twice succeeds both times; the update matches the row
	// whatever state it is already in
	mock.ExpectExec(setActiveQuery).
		WithArgs(false, int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(setActiveQuery).
		WithArgs(false, int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.SetActive(ctx, 7, false))
	require.NoError(t, repo.SetActive(ctx, 7, false))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetActive_MissingUser(t *testing.T) {
	repo, mock := newUserRepoWithMock(t)
	ctx := context.Background()

	mock.ExpectExec(setActiveQuery).
		WithArgs(true, int64(404)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SetActive(ctx, 404, true)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
