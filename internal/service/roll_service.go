package service

import (
	"context"

	"dice-token-backend/internal/core/domain"
	"dice-token-backend/internal/core/ports"
	"dice-token-backend/pkg/apperror"

	"github.com/rs/zerolog"
)

// RollServiceImpl implements ports.RollService. It is a thin orchestration:
// allowance check, wallet resolution, then LedgerEngine settlement.
type RollServiceImpl struct {
	walletSvc ports.WalletService
	ledger    *LedgerEngine
	rollRepo  ports.RollRepository
	allowance ports.RollAllowanceStore
	freeLimit int64
	paidLimit int64
	log       zerolog.Logger
}

// NewRollService creates a new RollServiceImpl.
func NewRollService(
	walletSvc ports.WalletService,
	ledger *LedgerEngine,
	rollRepo ports.RollRepository,
	allowance ports.RollAllowanceStore,
	freeLimit, paidLimit int64,
	log zerolog.Logger,
) *RollServiceImpl {
	return &RollServiceImpl{
		walletSvc: walletSvc,
		ledger:    ledger,
		rollRepo:  rollRepo,
		allowance: allowance,
		freeLimit: freeLimit,
		paidLimit: paidLimit,
		log:       log,
	}
}

// Roll performs one roll for the user. An active wallet is required for paid
// rolls; free rolls work without one. Failures from the ledger propagate
// verbatim.
func (s *RollServiceImpl) Roll(ctx context.Context, req ports.RollRequest) (*ports.RollResult, error) {
	kind := domain.Kind(req.IsPaid)
	limit := s.freeLimit
	if req.IsPaid {
		limit = s.paidLimit
	}

	ok, err := s.allowance.Consume(ctx, req.UserID, kind, limit)
	if err != nil {
		// Allowance store outage degrades open: rolls stay available.
		s.log.Warn().Err(err).Str("user_id", req.UserID).Msg("allowance store unavailable, allowing roll")
	} else if !ok {
		return nil, apperror.ErrRollLimitReached()
	}

	wallet, err := s.walletSvc.GetActiveWallet(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if req.IsPaid && wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	address := ""
	if wallet != nil {
		address = wallet.Address
	}

	settlement, err := s.ledger.SettleRoll(ctx, address, req.IsPaid)
	if err != nil {
		return nil, err
	}

	return &ports.RollResult{
		Value:       settlement.Value,
		TokenAmount: settlement.TokenAmount,
		Balance:     settlement.NewBalance,
	}, nil
}

// History lists recent rolls for the user's active wallet.
func (s *RollServiceImpl) History(ctx context.Context, userID string, limit int) ([]domain.RollRecord, error) {
	wallet, err := s.walletSvc.GetActiveWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	records, err := s.rollRepo.ListByAddress(ctx, wallet.Address, limit)
	if err != nil {
		return nil, apperror.ErrStorageFailure(err)
	}
	return records, nil
}
