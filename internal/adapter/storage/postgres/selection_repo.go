package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// SelectionRepo implements ports.SelectionRepository.
type SelectionRepo struct {
	pool Pool
}

// NewSelectionRepo creates a new SelectionRepo.
func NewSelectionRepo(pool Pool) *SelectionRepo {
	return &SelectionRepo{pool: pool}
}

// Upsert points the user's active selection at address, replacing any
// previous choice.
func (r *SelectionRepo) Upsert(ctx context.Context, userID, address string) error {
	query := `INSERT INTO user_wallet_selection (user_id, address, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET address = EXCLUDED.address, updated_at = NOW()`

	_, err := r.pool.Exec(ctx, query, userID, address)
	if err != nil {
		return fmt.Errorf("upsert selection: %w", err)
	}
	return nil
}

// Get returns the selected address, or "" when the user has none.
func (r *SelectionRepo) Get(ctx context.Context, userID string) (string, error) {
	query := `SELECT address FROM user_wallet_selection WHERE user_id = $1`

	var address string
	err := r.pool.QueryRow(ctx, query, userID).Scan(&address)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get selection: %w", err)
	}
	return address, nil
}
