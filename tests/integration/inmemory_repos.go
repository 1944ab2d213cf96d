package integration

import (
	"context"
	"fmt"
	"sync"

	"dice-token-backend/internal/core/domain"
	"dice-token-backend/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory Wallet Repo ---

type inMemoryWalletRepo struct {
	mu      sync.RWMutex
	wallets map[string]*domain.Wallet
	order   []string
}

func newInMemoryWalletRepo() *inMemoryWalletRepo {
	return &inMemoryWalletRepo{wallets: make(map[string]*domain.Wallet)}
}

func copyWallet(w *domain.Wallet) *domain.Wallet {
	cp := *w
	return &cp
}

func (r *inMemoryWalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.wallets[w.Address]; ok {
		return fmt.Errorf("address already exists")
	}
	r.wallets[w.Address] = copyWallet(w)
	r.order = append(r.order, w.Address)
	return nil
}

func (r *inMemoryWalletRepo) GetByAddress(ctx context.Context, address string) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wallets[address]
	if !ok {
		return nil, nil
	}
	return copyWallet(w), nil
}

func (r *inMemoryWalletRepo) GetByAddressForUpdate(ctx context.Context, tx pgx.Tx, address string) (*domain.Wallet, error) {
	return r.GetByAddress(ctx, address)
}

func (r *inMemoryWalletRepo) ListAddressesByOwner(ctx context.Context, userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var addrs []string
	for _, addr := range r.order {
		if r.wallets[addr].OwnerID == userID {
			addrs = append(addrs, addr)
		}
	}
	return addrs, nil
}

func (r *inMemoryWalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, address string, balance int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[address]
	if !ok {
		return fmt.Errorf("wallet not found: %s", address)
	}
	w.Balance = balance
	return nil
}

func (r *inMemoryWalletRepo) Credit(ctx context.Context, address string, amount int64) (*domain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[address]
	if !ok {
		return nil, nil
	}
	w.Balance += amount
	return copyWallet(w), nil
}

func (r *inMemoryWalletRepo) Debit(ctx context.Context, address string, amount int64) (*domain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[address]
	if !ok || w.Balance < amount {
		return nil, nil
	}
	w.Balance -= amount
	return copyWallet(w), nil
}

// --- In-Memory Selection Repo ---

type inMemorySelectionRepo struct {
	mu         sync.RWMutex
	selections map[string]string
}

func newInMemorySelectionRepo() *inMemorySelectionRepo {
	return &inMemorySelectionRepo{selections: make(map[string]string)}
}

func (r *inMemorySelectionRepo) Upsert(ctx context.Context, userID, address string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selections[userID] = address
	return nil
}

func (r *inMemorySelectionRepo) Get(ctx context.Context, userID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.selections[userID], nil
}

// --- In-Memory Roll Repo ---

type inMemoryRollRepo struct {
	mu      sync.RWMutex
	records map[string][]domain.RollRecord
}

func newInMemoryRollRepo() *inMemoryRollRepo {
	return &inMemoryRollRepo{records: make(map[string][]domain.RollRecord)}
}

func (r *inMemoryRollRepo) Append(ctx context.Context, tx pgx.Tx, rec *domain.RollRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.Address] = append(r.records[rec.Address], *rec)
	return nil
}

func (r *inMemoryRollRepo) ListByAddress(ctx context.Context, address string, limit int) ([]domain.RollRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := r.records[address]
	// Newest first.
	out := make([]domain.RollRecord, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

// --- In-Memory Referral Repo ---

type inMemoryReferralRepo struct {
	mu       sync.RWMutex
	profiles map[string]*domain.ReferralProfile
	codes    map[string]string // code -> identity
}

func newInMemoryReferralRepo() *inMemoryReferralRepo {
	return &inMemoryReferralRepo{
		profiles: make(map[string]*domain.ReferralProfile),
		codes:    make(map[string]string),
	}
}

func copyProfile(p *domain.ReferralProfile) *domain.ReferralProfile {
	cp := *p
	return &cp
}

func (r *inMemoryReferralRepo) GetByIdentity(ctx context.Context, identity string) (*domain.ReferralProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[identity]
	if !ok {
		return nil, nil
	}
	return copyProfile(p), nil
}

func (r *inMemoryReferralRepo) GetByCode(ctx context.Context, code string) (*domain.ReferralProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	identity, ok := r.codes[code]
	if !ok {
		return nil, nil
	}
	return copyProfile(r.profiles[identity]), nil
}

func (r *inMemoryReferralRepo) Create(ctx context.Context, p *domain.ReferralProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createLocked(p)
}

func (r *inMemoryReferralRepo) CreateInTx(ctx context.Context, tx pgx.Tx, p *domain.ReferralProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createLocked(p)
}

func (r *inMemoryReferralRepo) createLocked(p *domain.ReferralProfile) error {
	if _, ok := r.profiles[p.Identity]; ok {
		return ports.ErrDuplicateIdentity
	}
	if _, ok := r.codes[p.Code]; ok {
		return ports.ErrDuplicateCode
	}
	r.profiles[p.Identity] = copyProfile(p)
	r.codes[p.Code] = p.Identity
	return nil
}

func (r *inMemoryReferralRepo) IncrementCounters(ctx context.Context, tx pgx.Tx, identity string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[identity]
	if !ok {
		return fmt.Errorf("referral profile not found: %s", identity)
	}
	p.ReferredCount++
	p.RewardBalance++
	return nil
}

// --- In-Memory Transactor (no-op tx) ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
