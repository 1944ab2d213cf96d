package domain

import (
	"time"

	"github.com/google/uuid"
)

// DiceSides is the number of faces on the simulated die.
const DiceSides = 6

// RollRecord is an append-only audit entry for one settled roll.
type RollRecord struct {
	ID          uuid.UUID `json:"id"`
	Address     string    `json:"address"`
	Value       int       `json:"value"` // 1..DiceSides
	TokenAmount int64     `json:"token_amount"`
	Paid        bool      `json:"paid"`
	CreatedAt   time.Time `json:"created_at"`
}

// RollKind distinguishes free and paid rolls for allowance accounting.
type RollKind string

const (
	RollKindFree RollKind = "free"
	RollKindPaid RollKind = "paid"
)

// Kind returns the allowance kind for a roll.
func Kind(isPaid bool) RollKind {
	if isPaid {
		return RollKindPaid
	}
	return RollKindFree
}
