package postgres

import (
	"context"
	"fmt"

	"wallet-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// DepositRepo implements ports.DepositRepository.
type DepositRepo struct{}

// NewDepositRepo creates a DepositRepo. It holds no pool: every write runs on
// the transaction handed in by the caller.
func NewDepositRepo() *DepositRepo {
	return &DepositRepo{}
}

// Create appends a deposit inside tx.
func (r *DepositRepo) Create(ctx context.Context, tx pgx.Tx, d *domain.Deposit) error {
	query := `INSERT INTO deposits (deposit_id, wallet_id, deposit_value, deposit_date_time, ip_address)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := tx.Exec(ctx, query, d.ID, d.WalletID, d.Value, d.DateTime, d.IPAddress)
	if err != nil {
		return fmt.Errorf("insert deposit: %w", err)
	}
	return nil
}

// TransferRepo implements ports.TransferRepository.
type TransferRepo struct{}

// NewTransferRepo creates a TransferRepo. Like DepositRepo, it only writes
// through the caller's transaction.
func NewTransferRepo() *TransferRepo {
	return &TransferRepo{}
}

// Create appends a transfer inside tx.
func (r *TransferRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transfer) error {
	query := `INSERT INTO transfers (transfer_id, wallet_sender_id, wallet_receiver_id, transfer_value, transfer_date_time)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := tx.Exec(ctx, query, t.ID, t.SenderID, t.ReceiverID, t.Value, t.DateTime)
	if err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}
