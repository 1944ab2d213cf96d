package postgres

import (
	"context"
	"errors"
	"fmt"

	"dice-token-backend/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// Create inserts a new wallet into the database.
func (r *WalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	query := `INSERT INTO wallets (address, owner_id, seed, balance, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		w.Address, w.OwnerID, w.Seed, w.Balance, w.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// GetByAddress fetches a wallet by address (without locking).
func (r *WalletRepo) GetByAddress(ctx context.Context, address string) (*domain.Wallet, error) {
	query := `SELECT address, owner_id, seed, balance, created_at
		FROM wallets WHERE address = $1`

	w := &domain.Wallet{}
	err := r.pool.QueryRow(ctx, query, address).Scan(
		&w.Address, &w.OwnerID, &w.Seed, &w.Balance, &w.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet by address: %w", err)
	}
	return w, nil
}

// GetByAddressForUpdate fetches a wallet by address with pessimistic locking.
// This MUST be called within a transaction.
func (r *WalletRepo) GetByAddressForUpdate(ctx context.Context, tx pgx.Tx, address string) (*domain.Wallet, error) {
	query := `SELECT address, owner_id, seed, balance, created_at
		FROM wallets WHERE address = $1 FOR UPDATE`

	w := &domain.Wallet{}
	err := tx.QueryRow(ctx, query, address).Scan(
		&w.Address, &w.OwnerID, &w.Seed, &w.Balance, &w.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet for update: %w", err)
	}
	return w, nil
}

// ListAddressesByOwner returns the owner's wallet addresses in creation order.
func (r *WalletRepo) ListAddressesByOwner(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT address FROM wallets WHERE owner_id = $1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list wallets by owner: %w", err)
	}
	defer rows.Close()

	var addrs []string
	for rows.Next() {
		var addr string
		if err := rows.Scan(&addr); err != nil {
			return nil, fmt.Errorf("scan wallet address: %w", err)
		}
		addrs = append(addrs, addr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet addresses: %w", err)
	}
	return addrs, nil
}

// UpdateBalance sets a wallet's balance within a transaction.
func (r *WalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, address string, balance int64) error {
	query := `UPDATE wallets SET balance = $1 WHERE address = $2`

	tag, err := tx.Exec(ctx, query, balance, address)
	if err != nil {
		return fmt.Errorf("update wallet balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", address)
	}
	return nil
}

// Credit adds amount to the balance in a single atomic statement.
// Returns nil when the wallet does not exist.
func (r *WalletRepo) Credit(ctx context.Context, address string, amount int64) (*domain.Wallet, error) {
	query := `UPDATE wallets SET balance = balance + $1 WHERE address = $2
		RETURNING address, owner_id, seed, balance, created_at`

	w := &domain.Wallet{}
	err := r.pool.QueryRow(ctx, query, amount, address).Scan(
		&w.Address, &w.OwnerID, &w.Seed, &w.Balance, &w.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("credit wallet: %w", err)
	}
	return w, nil
}

// Debit subtracts amount from the balance in a single atomic statement. The
// predicate refuses updates that would drive the balance negative, so two
// concurrent debits can never both succeed on one funding. Returns nil when
// no row qualified: missing wallet or insufficient balance.
func (r *WalletRepo) Debit(ctx context.Context, address string, amount int64) (*domain.Wallet, error) {
	query := `UPDATE wallets SET balance = balance - $1
		WHERE address = $2 AND balance >= $1
		RETURNING address, owner_id, seed, balance, created_at`

	w := &domain.Wallet{}
	err := r.pool.QueryRow(ctx, query, amount, address).Scan(
		&w.Address, &w.OwnerID, &w.Seed, &w.Balance, &w.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("debit wallet: %w", err)
	}
	return w, nil
}
