package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"music-promo-be/internal/entity"
	"music-promo-be/internal/repository/contract"
	"music-promo-be/internal/repository/specification"
	"music-promo-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// In-memory repositories backing the service tests. They honor the same
// conditional-write semantics as the SQL implementations: Decide and
// UpdateStatusIf only win when the current status matches, and the
// transaction store rejects duplicate idempotency keys.

type fakeStore struct {
	mu          sync.Mutex
	users       map[uuid.UUID]*entity.User
	items       map[uuid.UUID]*entity.ModerationItem
	txs         map[uuid.UUID]*entity.Transaction
	withdrawals map[uuid.UUID]*entity.WithdrawalRequest
	tiers       map[uuid.UUID]*entity.SubscriptionTier

	// txCreateFailures makes the next N transaction inserts fail with a
	// transient error.
	txCreateFailures int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       make(map[uuid.UUID]*entity.User),
		items:       make(map[uuid.UUID]*entity.ModerationItem),
		txs:         make(map[uuid.UUID]*entity.Transaction),
		withdrawals: make(map[uuid.UUID]*entity.WithdrawalRequest),
		tiers:       make(map[uuid.UUID]*entity.SubscriptionTier),
	}
}

func (s *fakeStore) factory() unitofwork.RepositoryFactory {
	return &fakeFactory{store: s}
}

type fakeFactory struct {
	store *fakeStore
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{store: f.store}
}

type fakeUnitOfWork struct {
	store *fakeStore
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository {
	return &fakeUserRepo{store: u.store}
}

func (u *fakeUnitOfWork) ModerationRepository() contract.ModerationRepository {
	return &fakeModerationRepo{store: u.store}
}

func (u *fakeUnitOfWork) TransactionRepository() contract.TransactionRepository {
	return &fakeTransactionRepo{store: u.store}
}

func (u *fakeUnitOfWork) WithdrawalRepository() contract.WithdrawalRepository {
	return &fakeWithdrawalRepo{store: u.store}
}

func (u *fakeUnitOfWork) TierRepository() contract.TierRepository {
	return &fakeTierRepo{store: u.store}
}

// matchers pull the filter values back out of the shared specifications.

func specID(specs []specification.Specification) (uuid.UUID, bool) {
	for _, s := range specs {
		if byID, ok := s.(specification.ByID); ok {
			return byID.ID, true
		}
	}
	return uuid.Nil, false
}

func specIdemKey(specs []specification.Specification) (string, bool) {
	for _, s := range specs {
		if byKey, ok := s.(specification.ByIdempotencyKey); ok {
			return byKey.Key, true
		}
	}
	return "", false
}

func specStatus(specs []specification.Specification) (string, bool) {
	for _, s := range specs {
		if byStatus, ok := s.(specification.ByStatus); ok {
			return byStatus.Status, true
		}
	}
	return "", false
}

func specOwner(specs []specification.Specification) (uuid.UUID, bool) {
	for _, s := range specs {
		if owned, ok := s.(specification.OwnedBy); ok {
			return owned.UserID, true
		}
	}
	return uuid.Nil, false
}

// --- users ---

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.users[user.Id] = user
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	return r.Create(ctx, user)
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if id, ok := specID(specs); ok {
		if u, found := r.store.users[id]; found {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.users)), nil
}

func (r *fakeUserRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return nil
}

// --- moderation items ---

type fakeModerationRepo struct {
	store *fakeStore
}

func (r *fakeModerationRepo) Create(ctx context.Context, item *entity.ModerationItem) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *item
	r.store.items[item.Id] = &cp
	return nil
}

func (r *fakeModerationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ModerationItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if id, ok := specID(specs); ok {
		if item, found := r.store.items[id]; found {
			cp := *item
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeModerationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ModerationItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.ModerationItem
	owner, filterOwner := specOwner(specs)
	for _, item := range r.store.items {
		if filterOwner && item.OwnerId != owner {
			continue
		}
		cp := *item
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeModerationRepo) Decide(ctx context.Context, id uuid.UUID, status entity.ModerationStatus, note string, decidedAt time.Time) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	item, found := r.store.items[id]
	if !found || item.Status != entity.ModerationStatusPending {
		return false, nil
	}
	item.Status = status
	item.ModerationNote = note
	item.DecidedAt = &decidedAt
	return true, nil
}

// --- transactions ---

type fakeTransactionRepo struct {
	store *fakeStore
}

func (r *fakeTransactionRepo) Create(ctx context.Context, tx *entity.Transaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.txCreateFailures > 0 {
		r.store.txCreateFailures--
		return fmt.Errorf("connection reset by peer")
	}
	if tx.IdempotencyKey != "" {
		for _, existing := range r.store.txs {
			if existing.IdempotencyKey == tx.IdempotencyKey {
				return fmt.Errorf("duplicate key value violates unique constraint %q", "uq_transactions_idem_key")
			}
		}
	}
	cp := *tx
	r.store.txs[tx.Id] = &cp
	return nil
}

func (r *fakeTransactionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if key, ok := specIdemKey(specs); ok {
		for _, tx := range r.store.txs {
			if tx.IdempotencyKey == key {
				cp := *tx
				return &cp, nil
			}
		}
		return nil, nil
	}
	if id, ok := specID(specs); ok {
		if tx, found := r.store.txs[id]; found {
			cp := *tx
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeTransactionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Transaction
	owner, filterOwner := specOwner(specs)
	for _, tx := range r.store.txs {
		if filterOwner && tx.UserId != owner {
			continue
		}
		cp := *tx
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeTransactionRepo) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to entity.TransactionStatus) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	tx, found := r.store.txs[id]
	if !found || tx.Status != from {
		return false, nil
	}
	tx.Status = to
	return true, nil
}

func (r *fakeTransactionRepo) SumCompleted(ctx context.Context, userId uuid.UUID) (entity.LedgerTotals, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var totals entity.LedgerTotals
	for _, tx := range r.store.txs {
		if tx.UserId != userId || tx.Status != entity.TransactionStatusCompleted {
			continue
		}
		switch tx.Type {
		case entity.TransactionTypeIncome:
			totals.Income += tx.NetAmount
		case entity.TransactionTypeExpense:
			totals.Expense += tx.Amount
		case entity.TransactionTypeWithdraw:
			totals.WithdrawAmount += tx.Amount
			totals.WithdrawFee += tx.Fee
		}
	}
	return totals, nil
}

func (r *fakeTransactionRepo) GetCategoryStats(ctx context.Context, userId uuid.UUID) ([]*entity.CategoryStat, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	byKey := make(map[string]*entity.CategoryStat)
	for _, tx := range r.store.txs {
		if tx.UserId != userId || tx.Status != entity.TransactionStatusCompleted {
			continue
		}
		key := string(tx.Category) + "/" + string(tx.Type)
		stat, ok := byKey[key]
		if !ok {
			stat = &entity.CategoryStat{Category: tx.Category, Type: tx.Type}
			byKey[key] = stat
		}
		stat.Count++
		stat.Total += tx.Amount
	}
	var out []*entity.CategoryStat
	for _, stat := range byKey {
		out = append(out, stat)
	}
	return out, nil
}

// --- withdrawals ---

type fakeWithdrawalRepo struct {
	store *fakeStore
}

func (r *fakeWithdrawalRepo) Create(ctx context.Context, req *entity.WithdrawalRequest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *req
	r.store.withdrawals[req.Id] = &cp
	return nil
}

func (r *fakeWithdrawalRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WithdrawalRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if id, ok := specID(specs); ok {
		if req, found := r.store.withdrawals[id]; found {
			cp := *req
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeWithdrawalRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WithdrawalRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.WithdrawalRequest
	owner, filterOwner := specOwner(specs)
	status, filterStatus := specStatus(specs)
	for _, req := range r.store.withdrawals {
		if filterOwner && req.UserId != owner {
			continue
		}
		if filterStatus && string(req.Status) != status {
			continue
		}
		cp := *req
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeWithdrawalRepo) UpdateStatusIf(ctx context.Context, id uuid.UUID, from []entity.WithdrawalStatus, to entity.WithdrawalStatus, completedAt *time.Time) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	req, found := r.store.withdrawals[id]
	if !found {
		return false, nil
	}
	for _, status := range from {
		if req.Status == status {
			req.Status = to
			if completedAt != nil {
				req.CompletedAt = completedAt
			}
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeWithdrawalRepo) SumReserved(ctx context.Context, userId uuid.UUID, now time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var sum int64
	for _, req := range r.store.withdrawals {
		if req.UserId == userId && req.ReservationActive(now) {
			sum += req.Amount + req.Fee
		}
	}
	return sum, nil
}

// --- tiers ---

type fakeTierRepo struct {
	store *fakeStore
}

func (r *fakeTierRepo) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.SubscriptionTier, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if tier, found := r.store.tiers[userId]; found {
		cp := *tier
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeTierRepo) Upsert(ctx context.Context, tier *entity.SubscriptionTier) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *tier
	r.store.tiers[tier.UserId] = &cp
	return nil
}
