package service

import (
	"context"
	"fmt"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/internal/metrics"
	"wallet-ledger/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// DepositServiceImpl implements ports.DepositService.
type DepositServiceImpl struct {
	walletRepo  ports.WalletRepository
	depositRepo ports.DepositRepository
	transactor  ports.DBTransactor
	log         zerolog.Logger
}

// NewDepositService creates a new DepositServiceImpl.
func NewDepositService(
	walletRepo ports.WalletRepository,
	depositRepo ports.DepositRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *DepositServiceImpl {
	return &DepositServiceImpl{
		walletRepo:  walletRepo,
		depositRepo: depositRepo,
		transactor:  transactor,
		log:         log,
	}
}

// Deposit records the deposit and credits the wallet in one transaction.
func (s *DepositServiceImpl) Deposit(ctx context.Context, req ports.DepositRequest) (*domain.Deposit, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	var deposit domain.Deposit
	err := s.transactor.RunInTx(ctx, func(tx pgx.Tx) error {
		wallet, err := s.walletRepo.GetByIDForUpdate(ctx, tx, req.WalletID)
		if err != nil {
			return apperror.ErrDatabaseError(fmt.Errorf("lock wallet: %w", err))
		}
		if wallet == nil {
			return apperror.ErrWalletNotFound("wallet does not exist")
		}

		deposit = domain.NewDeposit(wallet.ID, req.Amount, req.IPAddress, time.Now().UTC())
		if err := s.depositRepo.Create(ctx, tx, &deposit); err != nil {
			return apperror.ErrDatabaseError(fmt.Errorf("create deposit: %w", err))
		}

		credited := wallet.Credited(req.Amount)
		if err := s.walletRepo.UpdateBalance(ctx, tx, wallet.ID, credited.Balance); err != nil {
			return apperror.ErrDatabaseError(fmt.Errorf("update balance: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, asAppError(err)
	}

	metrics.RecordDeposit()
	s.log.Info().
		Str("deposit_id", deposit.ID.String()).
		Str("wallet_id", deposit.WalletID.String()).
		Str("amount", deposit.Value.String()).
		Str("ip_address", deposit.IPAddress).
		Msg("deposit processed")

	return &deposit, nil
}
