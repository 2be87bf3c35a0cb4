package memory

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWallet(t *testing.T, s *Store, cpf, email string) domain.Wallet {
	t.Helper()
	w := domain.NewWallet("holder", cpf, email, time.Now().UTC())
	require.NoError(t, NewWalletRepo(s).Create(context.Background(), &w))
	return w
}

func TestWalletRepo_CreateDuplicate(t *testing.T) {
	s := NewStore()
	repo := NewWalletRepo(s)
	newWallet(t, s, "11111111111", "a@example.com")

	dupCPF := domain.NewWallet("x", "11111111111", "b@example.com", time.Now())
	assert.ErrorIs(t, repo.Create(context.Background(), &dupCPF), domain.ErrDuplicateWallet)

	dupEmail := domain.NewWallet("x", "22222222222", "a@example.com", time.Now())
	assert.ErrorIs(t, repo.Create(context.Background(), &dupEmail), domain.ErrDuplicateWallet)

	found, err := repo.FindByNationalIDOrEmail(context.Background(), "33333333333", "a@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)

	missing, err := repo.FindByNationalIDOrEmail(context.Background(), "33333333333", "c@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestWalletRepo_GetByID_ReturnsCopy(t *testing.T) {
	s := NewStore()
	repo := NewWalletRepo(s)
	w := newWallet(t, s, "11111111111", "a@example.com")

	got, err := repo.GetByID(context.Background(), w.ID)
	require.NoError(t, err)
	got.Balance = decimal.NewFromInt(999)

	again, err := repo.GetByID(context.Background(), w.ID)
	require.NoError(t, err)
	assert.True(t, again.Balance.IsZero())

	none, err := repo.GetByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	s := NewStore()
	w := newWallet(t, s, "11111111111", "a@example.com")
	wallets := NewWalletRepo(s)
	deposits := NewDepositRepo(s)
	failure := errors.New("fail after writes")

	err := s.RunInTx(context.Background(), func(tx pgx.Tx) error {
		d := domain.NewDeposit(w.ID, decimal.NewFromInt(50), "", time.Now())
		require.NoError(t, deposits.Create(context.Background(), tx, &d))
		require.NoError(t, wallets.UpdateBalance(context.Background(), tx, w.ID, decimal.NewFromInt(50)))
		require.NoError(t, wallets.Delete(context.Background(), tx, w.ID))
		return failure
	})
	assert.ErrorIs(t, err, failure)

	got, err := wallets.GetByID(context.Background(), w.ID)
	require.NoError(t, err)
	require.NotNil(t, got, "delete is undone")
	assert.True(t, got.Balance.IsZero(), "balance update is undone")

	events, total, err := NewStatementRepo(s).ListByWallet(context.Background(), w.ID, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, events)
}

func TestRunInTx_UncommittedWritesStayPrivate(t *testing.T) {
	s := NewStore()
	w := newWallet(t, s, "11111111111", "a@example.com")
	wallets := NewWalletRepo(s)
	statements := NewStatementRepo(s)
	failure := errors.New("abort after reads")

	type outside struct {
		balance decimal.Decimal
		total   int64
	}
	seen := make(chan outside, 1)

	err := s.RunInTx(context.Background(), func(tx pgx.Tx) error {
		ctx := context.Background()
		d := domain.NewDeposit(w.ID, decimal.NewFromInt(500), "", time.Now())
		require.NoError(t, NewDepositRepo(s).Create(ctx, tx, &d))
		require.NoError(t, wallets.UpdateBalance(ctx, tx, w.ID, decimal.NewFromInt(500)))

		inside, err := wallets.GetByIDForUpdate(ctx, tx, w.ID)
		require.NoError(t, err)
		assert.True(t, inside.Balance.Equal(decimal.NewFromInt(500)), "unit reads its own writes")

		// A concurrent reader runs while the unit is still open.
		go func() {
			got, _ := wallets.GetByID(ctx, w.ID)
			_, total, _ := statements.ListByWallet(ctx, w.ID, 0, 10)
			seen <- outside{balance: got.Balance, total: total}
		}()
		o := <-seen
		assert.True(t, o.balance.IsZero(), "reader saw balance %s before commit", o.balance)
		assert.Zero(t, o.total, "reader saw a deposit before commit")
		return failure
	})
	assert.ErrorIs(t, err, failure)

	got, err := wallets.GetByID(context.Background(), w.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero())
}

func TestRunInTx_CommitPublishesWrites(t *testing.T) {
	s := NewStore()
	w := newWallet(t, s, "11111111111", "a@example.com")
	wallets := NewWalletRepo(s)

	require.NoError(t, s.RunInTx(context.Background(), func(tx pgx.Tx) error {
		ctx := context.Background()
		d := domain.NewDeposit(w.ID, decimal.NewFromInt(75), "", time.Now())
		require.NoError(t, NewDepositRepo(s).Create(ctx, tx, &d))
		return wallets.UpdateBalance(ctx, tx, w.ID, decimal.NewFromInt(75))
	}))

	got, err := wallets.GetByID(context.Background(), w.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(75)))

	_, total, err := NewStatementRepo(s).ListByWallet(context.Background(), w.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	require.NoError(t, s.RunInTx(context.Background(), func(tx pgx.Tx) error {
		return wallets.Delete(context.Background(), tx, w.ID)
	}))
	gone, err := wallets.GetByID(context.Background(), w.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestWalletRepo_WritesRequireUnit(t *testing.T) {
	s := NewStore()
	w := newWallet(t, s, "11111111111", "a@example.com")
	wallets := NewWalletRepo(s)

	assert.ErrorIs(t, wallets.UpdateBalance(context.Background(), nil, w.ID, decimal.NewFromInt(1)), errNoTx)
	assert.ErrorIs(t, wallets.Delete(context.Background(), nil, w.ID), errNoTx)

	d := domain.NewDeposit(w.ID, decimal.NewFromInt(1), "", time.Now())
	assert.ErrorIs(t, NewDepositRepo(s).Create(context.Background(), nil, &d), errNoTx)
}

func TestRunInTx_RollsBackOnPanic(t *testing.T) {
	s := NewStore()
	w := newWallet(t, s, "11111111111", "a@example.com")
	wallets := NewWalletRepo(s)

	assert.Panics(t, func() {
		_ = s.RunInTx(context.Background(), func(tx pgx.Tx) error {
			_ = wallets.UpdateBalance(context.Background(), tx, w.ID, decimal.NewFromInt(10))
			panic("boom")
		})
	})

	got, err := wallets.GetByID(context.Background(), w.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero())

	// The store is still usable after the panic.
	assert.NoError(t, s.RunInTx(context.Background(), func(tx pgx.Tx) error { return nil }))
}

func TestRunInTx_CanceledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.RunInTx(ctx, func(tx pgx.Tx) error {
		t.Fatal("fn must not run")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWalletRepo_UpdateBalance_RejectsNegative(t *testing.T) {
	s := NewStore()
	w := newWallet(t, s, "11111111111", "a@example.com")

	err := s.RunInTx(context.Background(), func(tx pgx.Tx) error {
		return NewWalletRepo(s).UpdateBalance(context.Background(), tx, w.ID, decimal.NewFromInt(-1))
	})
	assert.Error(t, err)
}

func TestStatementRepo_OrderingAndPaging(t *testing.T) {
	s := NewStore()
	a := newWallet(t, s, "11111111111", "a@example.com")
	b := newWallet(t, s, "22222222222", "b@example.com")
	base := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)

	d := domain.NewDeposit(a.ID, decimal.NewFromInt(100), "127.0.0.1", base)
	out := domain.NewTransfer(a.ID, b.ID, decimal.NewFromInt(30), base.Add(time.Minute))
	in := domain.NewTransfer(b.ID, a.ID, decimal.NewFromInt(5), base.Add(2*time.Minute))
	unrelated := domain.NewDeposit(b.ID, decimal.NewFromInt(1), "", base.Add(3*time.Minute))

	require.NoError(t, s.RunInTx(context.Background(), func(tx pgx.Tx) error {
		ctx := context.Background()
		require.NoError(t, NewDepositRepo(s).Create(ctx, tx, &d))
		require.NoError(t, NewTransferRepo(s).Create(ctx, tx, &out))
		require.NoError(t, NewTransferRepo(s).Create(ctx, tx, &in))
		return NewDepositRepo(s).Create(ctx, tx, &unrelated)
	}))

	repo := NewStatementRepo(s)

	events, total, err := repo.ListByWallet(context.Background(), a.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, events, 3)
	assert.Equal(t, in.ID, events[0].ID)
	assert.Equal(t, domain.EntryTransferIncoming, events[0].Kind)
	assert.Equal(t, out.ID, events[1].ID)
	assert.Equal(t, domain.EntryTransferOutgoing, events[1].Kind)
	assert.Equal(t, d.ID, events[2].ID)
	assert.Equal(t, domain.EntryDeposit, events[2].Kind)

	page1, total, err := repo.ListByWallet(context.Background(), a.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page1, 1)
	assert.Equal(t, d.ID, page1[0].ID)

	beyond, _, err := repo.ListByWallet(context.Background(), a.ID, 5, 2)
	require.NoError(t, err)
	assert.Empty(t, beyond)

	for _, page := range []int{922337203685477581, math.MaxInt64} {
		far, total, err := repo.ListByWallet(context.Background(), a.ID, page, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.NotNil(t, far)
		assert.Empty(t, far)
	}
}

func TestHealthCheck(t *testing.T) {
	var hc HealthCheck
	assert.Equal(t, "memory", hc.Name())
	assert.NoError(t, hc.Ping(context.Background()))
}
