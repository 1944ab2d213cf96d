package postgres

import (
	"context"
	"testing"
	"time"

	"dice-token-backend/internal/core/domain"
	"dice-token-backend/internal/core/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProfile(identity string) *domain.ReferralProfile {
	return &domain.ReferralProfile{
		Identity:  identity,
		Code:      domain.NewReferralCode(8),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func referralTestColumns() []string {
	return []string{"identity", "code", "referred_count", "reward_balance", "referred_by", "created_at"}
}

func profileRow(p *domain.ReferralProfile) *pgxmock.Rows {
	return pgxmock.NewRows(referralTestColumns()).AddRow(
		p.Identity, p.Code, p.ReferredCount, p.RewardBalance, p.ReferredBy, p.CreatedAt,
	)
}

func TestReferralRepo_GetByIdentity(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewReferralRepo(mock)
	p := newTestProfile("alice")

	mock.ExpectQuery("SELECT .+ FROM referral_profiles WHERE identity").
		WithArgs("alice").
		WillReturnRows(profileRow(p))

	result, err := repo.GetByIdentity(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, p.Code, result.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralRepo_GetByCode_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewReferralRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM referral_profiles WHERE code").
		WithArgs("NOPE2345").
		WillReturnRows(pgxmock.NewRows(referralTestColumns()))

	result, err := repo.GetByCode(context.Background(), "NOPE2345")
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewReferralRepo(mock)
	p := newTestProfile("alice")

	mock.ExpectExec("INSERT INTO referral_profiles").
		WithArgs(p.Identity, p.Code, p.ReferredCount, p.RewardBalance, p.ReferredBy, p.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), p)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralRepo_Create_DuplicateCode(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewReferralRepo(mock)
	p := newTestProfile("alice")

	mock.ExpectExec("INSERT INTO referral_profiles").
		WithArgs(p.Identity, p.Code, p.ReferredCount, p.RewardBalance, p.ReferredBy, p.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "referral_profiles_code_key"})

	err = repo.Create(context.Background(), p)
	assert.ErrorIs(t, err, ports.ErrDuplicateCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralRepo_Create_DuplicateIdentity(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewReferralRepo(mock)
	p := newTestProfile("alice")

	mock.ExpectExec("INSERT INTO referral_profiles").
		WithArgs(p.Identity, p.Code, p.ReferredCount, p.RewardBalance, p.ReferredBy, p.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "referral_profiles_pkey"})

	err = repo.Create(context.Background(), p)
	assert.ErrorIs(t, err, ports.ErrDuplicateIdentity)
	assert.NotErrorIs(t, err, ports.ErrDuplicateCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralRepo_IncrementCounters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewReferralRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE referral_profiles").
		WithArgs("alice").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.IncrementCounters(context.Background(), tx, "alice")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferralRepo_IncrementCounters_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewReferralRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE referral_profiles").
		WithArgs("ghost").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.IncrementCounters(context.Background(), tx, "ghost")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}
