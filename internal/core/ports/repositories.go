package ports

import (
	"context"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx are used inside transaction blocks for pessimistic locking.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	FindByNationalIDOrEmail(ctx context.Context, nationalID, email string) (*domain.Wallet, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance decimal.Decimal) error
	Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

// DepositRepository appends deposit records.
type DepositRepository interface {
	Create(ctx context.Context, tx pgx.Tx, deposit *domain.Deposit) error
}

// TransferRepository appends transfer records.
type TransferRepository interface {
	Create(ctx context.Context, tx pgx.Tx, transfer *domain.Transfer) error
}

// StatementRepository reads the per-wallet union of deposits and transfers.
// Events are ordered most recent first; the int64 is the total number of events.
type StatementRepository interface {
	ListByWallet(ctx context.Context, walletID uuid.UUID, page, pageSize int) ([]domain.StatementEvent, int64, error)
}

// DBTransactor runs fn inside a single store transaction.
// The transaction is committed when fn returns nil and rolled back otherwise.
type DBTransactor interface {
	RunInTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// RateLimitStore counts requests per key in fixed windows.
type RateLimitStore interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (*RateLimitResult, error)
}

// RateLimitResult holds the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetAt   int64 // Unix timestamp
}
