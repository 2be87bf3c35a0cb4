package service

import (
	"context"
	"fmt"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/internal/metrics"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// TransferServiceImpl implements ports.TransferService.
type TransferServiceImpl struct {
	walletRepo   ports.WalletRepository
	transferRepo ports.TransferRepository
	transactor   ports.DBTransactor
	log          zerolog.Logger
}

// NewTransferService creates a new TransferServiceImpl.
func NewTransferService(
	walletRepo ports.WalletRepository,
	transferRepo ports.TransferRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *TransferServiceImpl {
	return &TransferServiceImpl{
		walletRepo:   walletRepo,
		transferRepo: transferRepo,
		transactor:   transactor,
		log:          log,
	}
}

// Transfer moves funds from sender to receiver with pessimistic locking.
// Both rows are locked in ascending id order before the balance check, so two
// transfers racing on the same sender are validated one after the other.
func (s *TransferServiceImpl) Transfer(ctx context.Context, req ports.TransferRequest) (*domain.Transfer, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	var transfer domain.Transfer
	err := s.transactor.RunInTx(ctx, func(tx pgx.Tx) error {
		locked := make(map[uuid.UUID]*domain.Wallet, 2)
		for _, id := range domain.LockOrder(req.SenderID, req.ReceiverID) {
			wallet, err := s.walletRepo.GetByIDForUpdate(ctx, tx, id)
			if err != nil {
				return apperror.ErrDatabaseError(fmt.Errorf("lock wallet %s: %w", id, err))
			}
			locked[id] = wallet
		}

		sender := locked[req.SenderID]
		if sender == nil {
			return apperror.ErrWalletNotFound("sender wallet does not exist")
		}
		receiver := locked[req.ReceiverID]
		if receiver == nil {
			return apperror.ErrWalletNotFound("receiver wallet does not exist")
		}

		if !sender.CanDebit(req.Amount) {
			return apperror.ErrInsufficientBalance(sender.Balance)
		}

		transfer = domain.NewTransfer(sender.ID, receiver.ID, req.Amount, time.Now().UTC())
		if err := s.transferRepo.Create(ctx, tx, &transfer); err != nil {
			return apperror.ErrDatabaseError(fmt.Errorf("create transfer: %w", err))
		}

		debited := sender.Debited(req.Amount)
		if transfer.IsSelfTransfer() {
			// Debit and credit hit the same row and cancel out.
			if err := s.walletRepo.UpdateBalance(ctx, tx, sender.ID, debited.Credited(req.Amount).Balance); err != nil {
				return apperror.ErrDatabaseError(fmt.Errorf("update balance: %w", err))
			}
			return nil
		}

		if err := s.walletRepo.UpdateBalance(ctx, tx, sender.ID, debited.Balance); err != nil {
			return apperror.ErrDatabaseError(fmt.Errorf("debit sender: %w", err))
		}
		credited := receiver.Credited(req.Amount)
		if err := s.walletRepo.UpdateBalance(ctx, tx, receiver.ID, credited.Balance); err != nil {
			return apperror.ErrDatabaseError(fmt.Errorf("credit receiver: %w", err))
		}
		return nil
	})
	if err != nil {
		switch {
		case apperror.HasCode(err, apperror.CodeInsufficientBalance):
			metrics.RecordTransfer(metrics.TransferInsufficientBalance)
		case apperror.HasCode(err, apperror.CodeWalletNotFound):
			metrics.RecordTransfer(metrics.TransferNotFound)
		}
		return nil, asAppError(err)
	}

	metrics.RecordTransfer(metrics.TransferCompleted)
	s.log.Info().
		Str("transfer_id", transfer.ID.String()).
		Str("sender", transfer.SenderID.String()).
		Str("receiver", transfer.ReceiverID.String()).
		Str("amount", transfer.Value.String()).
		Msg("transfer completed")

	return &transfer, nil
}
