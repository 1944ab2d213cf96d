package postgres

import (
	"context"
	"errors"
	"fmt"

	"dice-token-backend/internal/core/domain"
	"dice-token-backend/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// ReferralRepo implements ports.ReferralRepository.
type ReferralRepo struct {
	pool Pool
}

// NewReferralRepo creates a new ReferralRepo.
func NewReferralRepo(pool Pool) *ReferralRepo {
	return &ReferralRepo{pool: pool}
}

const referralColumns = `identity, code, referred_count, reward_balance, referred_by, created_at`

// GetByIdentity fetches a profile by identity.
func (r *ReferralRepo) GetByIdentity(ctx context.Context, identity string) (*domain.ReferralProfile, error) {
	query := `SELECT ` + referralColumns + ` FROM referral_profiles WHERE identity = $1`

	p := &domain.ReferralProfile{}
	err := r.pool.QueryRow(ctx, query, identity).Scan(
		&p.Identity, &p.Code, &p.ReferredCount, &p.RewardBalance, &p.ReferredBy, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile by identity: %w", err)
	}
	return p, nil
}

// GetByCode fetches a profile by its referral code.
func (r *ReferralRepo) GetByCode(ctx context.Context, code string) (*domain.ReferralProfile, error) {
	query := `SELECT ` + referralColumns + ` FROM referral_profiles WHERE code = $1`

	p := &domain.ReferralProfile{}
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&p.Identity, &p.Code, &p.ReferredCount, &p.RewardBalance, &p.ReferredBy, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile by code: %w", err)
	}
	return p, nil
}

// Create inserts a new profile. A unique violation on the code index comes
// back as ports.ErrDuplicateCode so the caller can redraw.
func (r *ReferralRepo) Create(ctx context.Context, p *domain.ReferralProfile) error {
	query := `INSERT INTO referral_profiles (` + referralColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		p.Identity, p.Code, p.ReferredCount, p.RewardBalance, p.ReferredBy, p.CreatedAt,
	)
	return mapInsertError(err)
}

// CreateInTx is Create inside an existing transaction.
func (r *ReferralRepo) CreateInTx(ctx context.Context, tx pgx.Tx, p *domain.ReferralProfile) error {
	query := `INSERT INTO referral_profiles (` + referralColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		p.Identity, p.Code, p.ReferredCount, p.RewardBalance, p.ReferredBy, p.CreatedAt,
	)
	return mapInsertError(err)
}

// IncrementCounters bumps referred_count and reward_balance by one within a
// transaction.
func (r *ReferralRepo) IncrementCounters(ctx context.Context, tx pgx.Tx, identity string) error {
	query := `UPDATE referral_profiles
		SET referred_count = referred_count + 1, reward_balance = reward_balance + 1
		WHERE identity = $1`

	tag, err := tx.Exec(ctx, query, identity)
	if err != nil {
		return fmt.Errorf("increment referral counters: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("referral profile not found: %s", identity)
	}
	return nil
}

// mapInsertError classifies unique violations by constraint: the identity
// primary key means the profile already exists (not retryable), anything else
// is a code collision the caller can redraw.
func mapInsertError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		if pgErr.ConstraintName == "referral_profiles_pkey" {
			return ports.ErrDuplicateIdentity
		}
		return ports.ErrDuplicateCode
	}
	return fmt.Errorf("insert referral profile: %w", err)
}
