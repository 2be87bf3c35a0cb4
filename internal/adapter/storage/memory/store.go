// Package memory is a process-local ledger store. It honours the same contract as
// the PostgreSQL adapter and backs the memory storage backend and the end-to-end tests.
package memory

import (
	"context"
	"errors"
	"sync"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var errNoTx = errors.New("memory store: write outside RunInTx")

// Store holds all committed ledger state. RunInTx units are fully serialized,
// and readers only ever observe what a unit has committed.
type Store struct {
	txMu sync.Mutex

	mu        sync.RWMutex
	wallets   map[uuid.UUID]domain.Wallet
	deposits  []domain.Deposit
	transfers []domain.Transfer
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{wallets: make(map[uuid.UUID]domain.Wallet)}
}

// memTx is the pgx.Tx handed to repositories inside RunInTx. It stages every
// write; the embedded interface is nil.
type memTx struct {
	pgx.Tx

	// wallets overlays committed wallets. A nil entry marks a deletion.
	wallets   map[uuid.UUID]*domain.Wallet
	deposits  []domain.Deposit
	transfers []domain.Transfer
}

func newMemTx() *memTx {
	return &memTx{wallets: make(map[uuid.UUID]*domain.Wallet)}
}

// stagedTx unwraps tx, rejecting anything RunInTx did not hand out.
func stagedTx(tx pgx.Tx) (*memTx, error) {
	mt, ok := tx.(*memTx)
	if !ok || mt == nil {
		return nil, errNoTx
	}
	return mt, nil
}

// wallet resolves id as seen by this unit: staged writes first, then committed state.
func (t *memTx) wallet(s *Store, id uuid.UUID) (domain.Wallet, bool) {
	if staged, ok := t.wallets[id]; ok {
		if staged == nil {
			return domain.Wallet{}, false
		}
		return *staged, true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.wallets[id]
	return w, ok
}

// RunInTx implements ports.DBTransactor. Writes made through tx are staged and
// applied in one step when fn returns nil. On error or panic they are discarded,
// so no reader ever sees them.
func (s *Store) RunInTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := newMemTx()
	if err := fn(tx); err != nil {
		return err
	}
	s.commit(tx)
	return nil
}

func (s *Store) commit(tx *memTx) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, w := range tx.wallets {
		if w == nil {
			delete(s.wallets, id)
			continue
		}
		s.wallets[id] = *w
	}
	s.deposits = append(s.deposits, tx.deposits...)
	s.transfers = append(s.transfers, tx.transfers...)
}

// HealthCheck reports the in-process store as always reachable.
type HealthCheck struct{}

// Ping only fails once ctx is done.
func (HealthCheck) Ping(ctx context.Context) error { return ctx.Err() }

// Name keys the store in the health report.
func (HealthCheck) Name() string { return "memory" }
