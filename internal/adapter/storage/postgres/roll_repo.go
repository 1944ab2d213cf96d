package postgres

import (
	"context"
	"fmt"

	"dice-token-backend/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// RollRepo implements ports.RollRepository.
type RollRepo struct {
	pool Pool
}

// NewRollRepo creates a new RollRepo.
func NewRollRepo(pool Pool) *RollRepo {
	return &RollRepo{pool: pool}
}

// Append inserts one roll record inside the settlement transaction.
func (r *RollRepo) Append(ctx context.Context, tx pgx.Tx, rec *domain.RollRecord) error {
	query := `INSERT INTO roll_history (id, address, value, token_amount, paid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		rec.ID, rec.Address, rec.Value, rec.TokenAmount, rec.Paid, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert roll record: %w", err)
	}
	return nil
}

// ListByAddress returns the newest rolls for an address, most recent first.
func (r *RollRepo) ListByAddress(ctx context.Context, address string, limit int) ([]domain.RollRecord, error) {
	query := `SELECT id, address, value, token_amount, paid, created_at
		FROM roll_history WHERE address = $1
		ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, address, limit)
	if err != nil {
		return nil, fmt.Errorf("list rolls: %w", err)
	}
	defer rows.Close()

	var records []domain.RollRecord
	for rows.Next() {
		var rec domain.RollRecord
		if err := rows.Scan(
			&rec.ID, &rec.Address, &rec.Value, &rec.TokenAmount, &rec.Paid, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan roll record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roll records: %w", err)
	}
	return records, nil
}
