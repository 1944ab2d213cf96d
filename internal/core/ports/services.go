package ports

import (
	"context"

	"dice-token-backend/internal/core/domain"
)

// --- Service Ports (Business Logic) ---

// WalletService owns wallet records and per-user selection state.
type WalletService interface {
	// CreateWallet generates a fresh wallet and makes it the user's active selection.
	CreateWallet(ctx context.Context, userID string) (*domain.Wallet, error)
	// ListWallets returns the user's addresses in creation order.
	ListWallets(ctx context.Context, userID string) ([]string, error)
	// SelectWallet updates the active selection; the wallet must exist and
	// belong to userID.
	SelectWallet(ctx context.Context, userID, address string) (*domain.Wallet, error)
	// GetActiveWallet resolves the current selection. Returns (nil, nil) when
	// the user has no selection or the selected wallet has vanished.
	GetActiveWallet(ctx context.Context, userID string) (*domain.Wallet, error)
	// Credit and Debit adjust a wallet balance atomically. Debit fails rather
	// than drive the balance below zero.
	Credit(ctx context.Context, address string, amount int64) (*domain.Wallet, error)
	Debit(ctx context.Context, address string, amount int64) (*domain.Wallet, error)
}

// RollRequest holds validated input for one roll.
type RollRequest struct {
	UserID string
	IsPaid bool
}

// RollResult is the settled outcome of one roll.
type RollResult struct {
	Value       int
	TokenAmount int64
	Balance     int64
}

// RollService orchestrates rolls: allowance, wallet resolution, settlement.
type RollService interface {
	Roll(ctx context.Context, req RollRequest) (*RollResult, error)
	// History lists recent rolls for the user's active wallet.
	History(ctx context.Context, userID string, limit int) ([]domain.RollRecord, error)
}

// ReferralInfo pairs a profile with its rendered deep link.
type ReferralInfo struct {
	Profile *domain.ReferralProfile
	Link    string
}

// RedeemResult reports a successful redemption.
type RedeemResult struct {
	Referrer string
	Referred string
}

// ReferralService owns code issuance, redemption and reward attribution.
type ReferralService interface {
	// GetOrCreateProfile is idempotent: the first call issues a code,
	// subsequent calls return the same profile unchanged.
	GetOrCreateProfile(ctx context.Context, identity string) (*ReferralInfo, error)
	Redeem(ctx context.Context, code, newIdentity string) (*RedeemResult, error)
}

// RollAllowanceStore enforces per-user daily roll limits.
type RollAllowanceStore interface {
	// Consume counts one roll of the given kind for userID today and reports
	// whether it stayed within limit. A limit <= 0 means unlimited.
	Consume(ctx context.Context, userID string, kind domain.RollKind, limit int64) (bool, error)
}

// DiceRoller produces one die value in [1, domain.DiceSides].
type DiceRoller interface {
	Roll() int
}

// WalletConnector is the external wallet-connection collaborator. The core
// never depends on its events; status callbacks exist for the presentation
// layer only.
type WalletConnector interface {
	// Connect starts a pairing session and returns the pairing link.
	Connect(ctx context.Context, sessionID string) (string, error)
	// OnStatusChange registers a callback for session status transitions.
	OnStatusChange(sessionID string, fn func(status string))
}
