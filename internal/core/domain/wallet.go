package domain

import (
	"time"

	"github.com/google/uuid"
)

// Wallet is a custodial token wallet. Address and Seed are generated once at
// creation and never change; Balance is mutated only through the ledger.
type Wallet struct {
	Address   string    `json:"address"`
	OwnerID   string    `json:"owner_user_id"`
	Seed      string    `json:"-"` // recovery secret, shown only at creation
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

// NewWallet creates a zero-balance wallet owned by ownerID with a fresh
// address and seed.
func NewWallet(ownerID string) *Wallet {
	return &Wallet{
		Address:   uuid.NewString(),
		OwnerID:   ownerID,
		Seed:      uuid.NewString(),
		Balance:   0,
		CreatedAt: time.Now().UTC(),
	}
}

// OwnedBy reports whether the wallet belongs to userID.
func (w *Wallet) OwnedBy(userID string) bool {
	return w.OwnerID == userID
}
