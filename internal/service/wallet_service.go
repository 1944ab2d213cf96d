package service

import (
	"context"
	"fmt"

	"dice-token-backend/internal/core/domain"
	"dice-token-backend/internal/core/ports"
	"dice-token-backend/pkg/apperror"

	"github.com/rs/zerolog"
)

// WalletServiceImpl implements ports.WalletService.
type WalletServiceImpl struct {
	walletRepo    ports.WalletRepository
	selectionRepo ports.SelectionRepository
	log           zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(
	walletRepo ports.WalletRepository,
	selectionRepo ports.SelectionRepository,
	log zerolog.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo:    walletRepo,
		selectionRepo: selectionRepo,
		log:           log,
	}
}

// CreateWallet generates a fresh wallet and makes it the user's active
// selection. The wallet row is persisted before the selection points at it,
// so a concurrent reader never observes a selection without its wallet.
func (s *WalletServiceImpl) CreateWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	w := domain.NewWallet(userID)

	if err := s.walletRepo.Create(ctx, w); err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("create wallet: %w", err))
	}
	if err := s.selectionRepo.Upsert(ctx, userID, w.Address); err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("select new wallet: %w", err))
	}

	s.log.Info().
		Str("user_id", userID).
		Str("address", w.Address).
		Msg("wallet created")

	return w, nil
}

// ListWallets returns the user's addresses in creation order.
func (s *WalletServiceImpl) ListWallets(ctx context.Context, userID string) ([]string, error) {
	addrs, err := s.walletRepo.ListAddressesByOwner(ctx, userID)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("list wallets: %w", err))
	}
	return addrs, nil
}

// SelectWallet updates the active selection. The wallet must exist and belong
// to userID; a foreign wallet is reported as not found, not as forbidden, so
// the response does not leak address existence.
func (s *WalletServiceImpl) SelectWallet(ctx context.Context, userID, address string) (*domain.Wallet, error) {
	w, err := s.walletRepo.GetByAddress(ctx, address)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("get wallet: %w", err))
	}
	if w == nil || !w.OwnedBy(userID) {
		return nil, apperror.ErrWalletNotFound()
	}

	if err := s.selectionRepo.Upsert(ctx, userID, address); err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("update selection: %w", err))
	}

	return w, nil
}

// GetActiveWallet resolves the current selection to a full record.
// Missing selections and dangling selections both return (nil, nil).
func (s *WalletServiceImpl) GetActiveWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	address, err := s.selectionRepo.Get(ctx, userID)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("get selection: %w", err))
	}
	if address == "" {
		return nil, nil
	}

	w, err := s.walletRepo.GetByAddress(ctx, address)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("get wallet: %w", err))
	}
	if w == nil {
		s.log.Warn().
			Str("user_id", userID).
			Str("address", address).
			Msg("selection references a missing wallet")
		return nil, nil
	}
	return w, nil
}

// Credit adds amount to a wallet balance atomically.
func (s *WalletServiceImpl) Credit(ctx context.Context, address string, amount int64) (*domain.Wallet, error) {
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	w, err := s.walletRepo.Credit(ctx, address, amount)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("credit wallet: %w", err))
	}
	if w == nil {
		return nil, apperror.ErrWalletNotFound()
	}
	return w, nil
}

// Debit subtracts amount from a wallet balance atomically. The repository
// refuses the update when it would drive the balance negative; a nil result
// is disambiguated with a follow-up read.
func (s *WalletServiceImpl) Debit(ctx context.Context, address string, amount int64) (*domain.Wallet, error) {
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	w, err := s.walletRepo.Debit(ctx, address, amount)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("debit wallet: %w", err))
	}
	if w != nil {
		return w, nil
	}

	existing, err := s.walletRepo.GetByAddress(ctx, address)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("get wallet: %w", err))
	}
	if existing == nil {
		return nil, apperror.ErrWalletNotFound()
	}
	return nil, apperror.ErrInsufficientFunds()
}
