package ports

import (
	"context"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

// WalletService owns the wallet lifecycle.
type WalletService interface {
	CreateWallet(ctx context.Context, req CreateWalletRequest) (*domain.Wallet, error)
	// DeleteWallet reports false without error when the wallet does not exist.
	DeleteWallet(ctx context.Context, id uuid.UUID) (bool, error)
}

// CreateWalletRequest holds validated input for wallet creation.
type CreateWalletRequest struct {
	Name       string
	NationalID string
	Email      string
}

// DepositService credits wallets from external origins.
type DepositService interface {
	Deposit(ctx context.Context, req DepositRequest) (*domain.Deposit, error)
}

// DepositRequest holds validated input for a deposit.
type DepositRequest struct {
	WalletID  uuid.UUID
	Amount    decimal.Decimal
	IPAddress string
}

// TransferService moves funds between wallets.
type TransferService interface {
	Transfer(ctx context.Context, req TransferRequest) (*domain.Transfer, error)
}

// TransferRequest holds validated input for a transfer.
type TransferRequest struct {
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	Amount     decimal.Decimal
}

// StatementService builds paginated wallet statements.
type StatementService interface {
	GetStatement(ctx context.Context, walletID uuid.UUID, page, pageSize int) (*Statement, error)
}

// Statement is a wallet snapshot plus one page of its history.
type Statement struct {
	Wallet     domain.Wallet
	Entries    []StatementEntry
	Pagination Pagination
}

// StatementEntry is one labeled line of a statement.
type StatementEntry struct {
	ID          uuid.UUID
	Type        string
	Description string
	Value       decimal.Decimal
	DateTime    time.Time
	Operation   domain.Operation
}

// Pagination describes the returned page. Page is zero-based.
type Pagination struct {
	Page          int
	PageSize      int
	TotalElements int64
	TotalPages    int
}
