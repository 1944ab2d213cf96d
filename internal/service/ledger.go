package service

import (
	"context"
	crand "crypto/rand"
	"fmt"
	"math/big"
	"time"

	"dice-token-backend/internal/core/domain"
	"dice-token-backend/internal/core/ports"
	"dice-token-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CryptoDice implements ports.DiceRoller with crypto/rand so outcomes cannot
// be predicted from process state.
type CryptoDice struct{}

// Roll draws a uniform value in [1, domain.DiceSides].
func (CryptoDice) Roll() int {
	n, err := crand.Int(crand.Reader, big.NewInt(domain.DiceSides))
	if err != nil {
		panic(err) // crypto/rand never fails on supported platforms
	}
	return int(n.Int64()) + 1
}

// LedgerEngine enforces the economic rule for one roll: the balance mutation
// and the history append commit as one unit.
type LedgerEngine struct {
	walletRepo ports.WalletRepository
	rollRepo   ports.RollRepository
	transactor ports.DBTransactor
	dice       ports.DiceRoller
	fee        int64
	paidMult   int64
	freeMult   int64
	log        zerolog.Logger
}

// NewLedgerEngine creates a new LedgerEngine.
func NewLedgerEngine(
	walletRepo ports.WalletRepository,
	rollRepo ports.RollRepository,
	transactor ports.DBTransactor,
	dice ports.DiceRoller,
	fee, paidMult, freeMult int64,
	log zerolog.Logger,
) *LedgerEngine {
	return &LedgerEngine{
		walletRepo: walletRepo,
		rollRepo:   rollRepo,
		transactor: transactor,
		dice:       dice,
		fee:        fee,
		paidMult:   paidMult,
		freeMult:   freeMult,
		log:        log,
	}
}

// Settlement is the outcome of one settled roll.
type Settlement struct {
	Value       int
	TokenAmount int64
	NewBalance  int64
}

// SettleRoll draws the die and settles the outcome.
//
// Paid rolls require a wallet with balance >= fee; the fee is deducted and
// the winnings credited in the same transaction that appends the history row.
// Free rolls report the token amount informationally and never move a
// balance; with no wallet (address "") nothing is persisted at all.
func (e *LedgerEngine) SettleRoll(ctx context.Context, address string, isPaid bool) (*Settlement, error) {
	value := e.dice.Roll()

	mult := e.freeMult
	if isPaid {
		mult = e.paidMult
	}
	tokenAmount := int64(value) * mult

	if !isPaid && address == "" {
		return &Settlement{Value: value, TokenAmount: tokenAmount, NewBalance: 0}, nil
	}

	dbTx, err := e.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := e.walletRepo.GetByAddressForUpdate(ctx, dbTx, address)
	if err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	newBalance := wallet.Balance
	if isPaid {
		if wallet.Balance < e.fee {
			return nil, apperror.ErrInsufficientFunds()
		}
		newBalance = wallet.Balance - e.fee + tokenAmount
		if err := e.walletRepo.UpdateBalance(ctx, dbTx, address, newBalance); err != nil {
			return nil, apperror.ErrStorageFailure(fmt.Errorf("update balance: %w", err))
		}
	}

	rec := &domain.RollRecord{
		ID:          uuid.New(),
		Address:     address,
		Value:       value,
		TokenAmount: tokenAmount,
		Paid:        isPaid,
		CreatedAt:   time.Now().UTC(),
	}
	if err := e.rollRepo.Append(ctx, dbTx, rec); err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("append roll record: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrStorageFailure(fmt.Errorf("commit tx: %w", err))
	}

	e.log.Info().
		Str("address", address).
		Int("value", value).
		Int64("token_amount", tokenAmount).
		Int64("balance", newBalance).
		Bool("paid", isPaid).
		Msg("roll settled")

	return &Settlement{Value: value, TokenAmount: tokenAmount, NewBalance: newBalance}, nil
}
