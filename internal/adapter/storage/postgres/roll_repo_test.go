package postgres

import (
	"context"
	"testing"
	"time"

	"dice-token-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollRepo_Append(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRollRepo(mock)
	rec := &domain.RollRecord{
		ID:          uuid.New(),
		Address:     "addr-1",
		Value:       4,
		TokenAmount: 40,
		Paid:        true,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO roll_history").
		WithArgs(rec.ID, rec.Address, rec.Value, rec.TokenAmount, rec.Paid, rec.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Append(context.Background(), tx, rec)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRollRepo_ListByAddress(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRollRepo(mock)
	now := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectQuery("SELECT .+ FROM roll_history WHERE address").
		WithArgs("addr-1", 20).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "address", "value", "token_amount", "paid", "created_at"}).
			AddRow(uuid.New(), "addr-1", 6, int64(60), true, now).
			AddRow(uuid.New(), "addr-1", 2, int64(2), false, now.Add(-time.Minute)))

	records, err := repo.ListByAddress(context.Background(), "addr-1", 20)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 6, records[0].Value)
	assert.Equal(t, int64(60), records[0].TokenAmount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
