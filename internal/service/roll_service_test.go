package service

import (
	"context"
	"errors"
	"testing"

	"dice-token-backend/internal/core/domain"
	"dice-token-backend/internal/core/ports"
	"dice-token-backend/internal/core/ports/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type rollTestDeps struct {
	svc        *RollServiceImpl
	ledger     *LedgerEngine
	walletSvc  *mocks.MockWalletService
	walletRepo *mocks.MockWalletRepository
	rollRepo   *mocks.MockRollRepository
	transactor *mocks.MockDBTransactor
	allowance  *mocks.MockRollAllowanceStore
	dice       *mocks.MockDiceRoller
	ctrl       *gomock.Controller
}

func setupRollService(t *testing.T) *rollTestDeps {
	ctrl := gomock.NewController(t)
	d := &rollTestDeps{
		walletSvc:  mocks.NewMockWalletService(ctrl),
		walletRepo: mocks.NewMockWalletRepository(ctrl),
		rollRepo:   mocks.NewMockRollRepository(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		allowance:  mocks.NewMockRollAllowanceStore(ctrl),
		dice:       mocks.NewMockDiceRoller(ctrl),
		ctrl:       ctrl,
	}
	d.ledger = NewLedgerEngine(
		d.walletRepo, d.rollRepo, d.transactor, d.dice,
		10, 10, 1, zerolog.Nop(),
	)
	d.svc = NewRollService(
		d.walletSvc, d.ledger, d.rollRepo, d.allowance,
		3, 50, zerolog.Nop(),
	)
	return d
}

// ==================== LedgerEngine Tests ====================

func TestLedgerEngine_SettleRoll_PaidSuccess(t *testing.T) {
	d := setupRollService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.dice.EXPECT().Roll().Return(3)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByAddressForUpdate(ctx, tx, "addr-1").Return(&domain.Wallet{
		Address: "addr-1", Balance: 10,
	}, nil)
	// 10 - 10 fee + 3*10 winnings = 30
	d.walletRepo.EXPECT().UpdateBalance(ctx, tx, "addr-1", int64(30)).Return(nil)
	d.rollRepo.EXPECT().Append(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ any, rec *domain.RollRecord) error {
			assert.Equal(t, "addr-1", rec.Address)
			assert.Equal(t, 3, rec.Value)
			assert.Equal(t, int64(30), rec.TokenAmount)
			assert.True(t, rec.Paid)
			return nil
		})

	got, err := d.ledger.SettleRoll(ctx, "addr-1", true)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Value)
	assert.Equal(t, int64(30), got.TokenAmount)
	assert.Equal(t, int64(30), got.NewBalance)
}

func TestLedgerEngine_SettleRoll_PaidInsufficientFunds(t *testing.T) {
	d := setupRollService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.dice.EXPECT().Roll().Return(6)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByAddressForUpdate(ctx, tx, "addr-1").Return(&domain.Wallet{
		Address: "addr-1", Balance: 9,
	}, nil)
	// No UpdateBalance, no Append: the balance stays untouched.

	got, err := d.ledger.SettleRoll(ctx, "addr-1", true)
	assert.Nil(t, got)
	assertAppError(t, err, "WAL_002")
}

func TestLedgerEngine_SettleRoll_FreeKeepsBalance(t *testing.T) {
	d := setupRollService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.dice.EXPECT().Roll().Return(5)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByAddressForUpdate(ctx, tx, "addr-1").Return(&domain.Wallet{
		Address: "addr-1", Balance: 100,
	}, nil)
	d.rollRepo.EXPECT().Append(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ any, rec *domain.RollRecord) error {
			assert.Equal(t, int64(5), rec.TokenAmount)
			assert.False(t, rec.Paid)
			return nil
		})

	got, err := d.ledger.SettleRoll(ctx, "addr-1", false)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.TokenAmount)
	assert.Equal(t, int64(100), got.NewBalance)
}

func TestLedgerEngine_SettleRoll_FreeWithoutWallet(t *testing.T) {
	d := setupRollService(t)
	defer d.ctrl.Finish()

	d.dice.EXPECT().Roll().Return(4)
	// No transactor call: nothing is persisted.

	got, err := d.ledger.SettleRoll(context.Background(), "", false)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Value)
	assert.Equal(t, int64(4), got.TokenAmount)
	assert.Equal(t, int64(0), got.NewBalance)
}

func TestLedgerEngine_SettleRoll_WalletGone(t *testing.T) {
	d := setupRollService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.dice.EXPECT().Roll().Return(2)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByAddressForUpdate(ctx, tx, "addr-gone").Return(nil, nil)

	got, err := d.ledger.SettleRoll(ctx, "addr-gone", true)
	assert.Nil(t, got)
	assertAppError(t, err, "WAL_001")
}

// ==================== Roll Tests ====================

func TestRollService_Roll_LimitReached(t *testing.T) {
	d := setupRollService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.allowance.EXPECT().Consume(ctx, "user-1", domain.RollKindFree, int64(3)).Return(false, nil)

	got, err := d.svc.Roll(ctx, ports.RollRequest{UserID: "user-1"})
	assert.Nil(t, got)
	assertAppError(t, err, "ROLL_001")
}

func TestRollService_Roll_AllowanceOutageDegradesOpen(t *testing.T) {
	d := setupRollService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.allowance.EXPECT().Consume(ctx, "user-1", domain.RollKindFree, int64(3)).
		Return(false, errors.New("redis down"))
	d.walletSvc.EXPECT().GetActiveWallet(ctx, "user-1").Return(nil, nil)
	d.dice.EXPECT().Roll().Return(6)

	got, err := d.svc.Roll(ctx, ports.RollRequest{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, 6, got.Value)
	assert.Equal(t, int64(6), got.TokenAmount)
}

func TestRollService_Roll_PaidRequiresActiveWallet(t *testing.T) {
	d := setupRollService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.allowance.EXPECT().Consume(ctx, "user-1", domain.RollKindPaid, int64(50)).Return(true, nil)
	d.walletSvc.EXPECT().GetActiveWallet(ctx, "user-1").Return(nil, nil)

	got, err := d.svc.Roll(ctx, ports.RollRequest{UserID: "user-1", IsPaid: true})
	assert.Nil(t, got)
	assertAppError(t, err, "WAL_001")
}

func TestRollService_Roll_PaidSuccess(t *testing.T) {
	d := setupRollService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.allowance.EXPECT().Consume(ctx, "user-1", domain.RollKindPaid, int64(50)).Return(true, nil)
	d.walletSvc.EXPECT().GetActiveWallet(ctx, "user-1").Return(&domain.Wallet{
		Address: "addr-1", OwnerID: "user-1", Balance: 50,
	}, nil)
	d.dice.EXPECT().Roll().Return(1)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.walletRepo.EXPECT().GetByAddressForUpdate(ctx, tx, "addr-1").Return(&domain.Wallet{
		Address: "addr-1", Balance: 50,
	}, nil)
	// 50 - 10 + 1*10 = 50
	d.walletRepo.EXPECT().UpdateBalance(ctx, tx, "addr-1", int64(50)).Return(nil)
	d.rollRepo.EXPECT().Append(ctx, tx, gomock.Any()).Return(nil)

	got, err := d.svc.Roll(ctx, ports.RollRequest{UserID: "user-1", IsPaid: true})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Value)
	assert.Equal(t, int64(10), got.TokenAmount)
	assert.Equal(t, int64(50), got.Balance)
}

// ==================== History Tests ====================

func TestRollService_History_NoActiveWallet(t *testing.T) {
	d := setupRollService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.walletSvc.EXPECT().GetActiveWallet(ctx, "user-1").Return(nil, nil)

	got, err := d.svc.History(ctx, "user-1", 20)
	assert.Nil(t, got)
	assertAppError(t, err, "WAL_001")
}

func TestRollService_History_Success(t *testing.T) {
	d := setupRollService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.walletSvc.EXPECT().GetActiveWallet(ctx, "user-1").Return(&domain.Wallet{
		Address: "addr-1", OwnerID: "user-1",
	}, nil)
	d.rollRepo.EXPECT().ListByAddress(ctx, "addr-1", 20).Return([]domain.RollRecord{
		{Address: "addr-1", Value: 6, TokenAmount: 60, Paid: true},
		{Address: "addr-1", Value: 2, TokenAmount: 2, Paid: false},
	}, nil)

	got, err := d.svc.History(ctx, "user-1", 20)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 6, got[0].Value)
}
