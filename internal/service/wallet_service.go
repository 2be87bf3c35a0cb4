package service

import (
	"context"
	"errors"
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

// WalletServiceImpl implements ports.WalletService.
type WalletServiceImpl struct {
	walletRepo ports.WalletRepository
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(walletRepo ports.WalletRepository, transactor ports.DBTransactor, log zerolog.Logger) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo: walletRepo,
		transactor: transactor,
		log:        log,
	}
}

// CreateWallet opens an empty wallet. National id and email must both be unused.
func (s *WalletServiceImpl) CreateWallet(ctx context.Context, req ports.CreateWalletRequest) (*domain.Wallet, error) {
	existing, err := s.walletRepo.FindByNationalIDOrEmail(ctx, req.NationalID, req.Email)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("check wallet uniqueness: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrDuplicateWallet()
	}

	wallet := domain.NewWallet(req.Name, req.NationalID, req.Email, time.Now().UTC())

	// The unique constraints still catch a concurrent create that passed the check above.
	if err := s.walletRepo.Create(ctx, &wallet); err != nil {
		if errors.Is(err, domain.ErrDuplicateWallet) {
			return nil, apperror.ErrDuplicateWallet()
		}
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create wallet: %w", err))
	}

	metrics.RecordWalletCreated()
	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Msg("wallet created")

	return &wallet, nil
}

// DeleteWallet removes an empty wallet. The row is locked so a concurrent
// deposit cannot land between the balance check and the delete.
func (s *WalletServiceImpl) DeleteWallet(ctx context.Context, id uuid.UUID) (bool, error) {
	existed := false

	err := s.transactor.RunInTx(ctx, func(tx pgx.Tx) error {
		wallet, err := s.walletRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return apperror.ErrDatabaseError(fmt.Errorf("lock wallet: %w", err))
		}
		if wallet == nil {
			return nil
		}
		if !wallet.IsEmpty() {
			return apperror.ErrNonZeroBalance(wallet.Balance)
		}
		if err := s.walletRepo.Delete(ctx, tx, id); err != nil {
			return apperror.ErrDatabaseError(fmt.Errorf("delete wallet: %w", err))
		}
		existed = true
		return nil
	})
	if err != nil {
		return false, asAppError(err)
	}

	if existed {
		metrics.RecordWalletDeleted()
		s.log.Info().Str("wallet_id", id.String()).Msg("wallet deleted")
	}
	return existed, nil
}
