package ports

import (
	"context"
	"errors"

	"dice-token-backend/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// ErrDuplicateCode is returned by ReferralRepository.Create when the drawn
// referral code already exists; callers retry with a fresh code.
var ErrDuplicateCode = errors.New("referral code already exists")

// ErrDuplicateIdentity is returned by ReferralRepository.Create when a profile
// for the identity already exists. Unlike a code collision this is not
// retryable: the caller lost a create race and must use the existing profile.
var ErrDuplicateIdentity = errors.New("referral identity already exists")

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx run inside transaction blocks for pessimistic locking.
type WalletRepository interface {
	Create(ctx context.Context, w *domain.Wallet) error
	GetByAddress(ctx context.Context, address string) (*domain.Wallet, error)
	GetByAddressForUpdate(ctx context.Context, tx pgx.Tx, address string) (*domain.Wallet, error)
	ListAddressesByOwner(ctx context.Context, userID string) ([]string, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, address string, balance int64) error
	// Credit and Debit are single-statement atomic adjustments. Both return
	// the updated wallet, or nil when no row qualified: for Credit that means
	// the wallet does not exist, for Debit it additionally covers an
	// insufficient balance (the UPDATE predicate requires balance >= amount).
	Credit(ctx context.Context, address string, amount int64) (*domain.Wallet, error)
	Debit(ctx context.Context, address string, amount int64) (*domain.Wallet, error)
}

// SelectionRepository persists each user's active wallet choice.
type SelectionRepository interface {
	Upsert(ctx context.Context, userID, address string) error
	// Get returns the selected address, or "" when the user has none.
	Get(ctx context.Context, userID string) (string, error)
}

// RollRepository persists the append-only roll history.
type RollRepository interface {
	Append(ctx context.Context, tx pgx.Tx, rec *domain.RollRecord) error
	ListByAddress(ctx context.Context, address string, limit int) ([]domain.RollRecord, error)
}

// ReferralRepository persists referral profiles. The code index is the
// unique constraint on the code column.
type ReferralRepository interface {
	GetByIdentity(ctx context.Context, identity string) (*domain.ReferralProfile, error)
	GetByCode(ctx context.Context, code string) (*domain.ReferralProfile, error)
	Create(ctx context.Context, p *domain.ReferralProfile) error
	CreateInTx(ctx context.Context, tx pgx.Tx, p *domain.ReferralProfile) error
	// IncrementCounters bumps referred_count and reward_balance by one.
	IncrementCounters(ctx context.Context, tx pgx.Tx, identity string) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
