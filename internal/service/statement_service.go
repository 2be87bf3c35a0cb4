package service

import (
	"context"
	"errors"
	"fmt"

	"wallet-ledger/config"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// StatementServiceImpl implements ports.StatementService.
type StatementServiceImpl struct {
	walletRepo    ports.WalletRepository
	statementRepo ports.StatementRepository
	cfg           config.StatementConfig
	log           zerolog.Logger
}

// NewStatementService creates a new StatementServiceImpl.
func NewStatementService(
	walletRepo ports.WalletRepository,
	statementRepo ports.StatementRepository,
	cfg config.StatementConfig,
	log zerolog.Logger,
) *StatementServiceImpl {
	return &StatementServiceImpl{
		walletRepo:    walletRepo,
		statementRepo: statementRepo,
		cfg:           cfg,
		log:           log,
	}
}

// GetStatement returns the wallet snapshot with one zero-based page of its
// deposits and transfers, most recent first.
func (s *StatementServiceImpl) GetStatement(ctx context.Context, walletID uuid.UUID, page, pageSize int) (*ports.Statement, error) {
	page, pageSize = s.normalizePage(page, pageSize)

	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrWalletNotFound("wallet does not exist")
	}

	events, total, err := s.statementRepo.ListByWallet(ctx, walletID, page, pageSize)
	if err != nil {
		var typeErr *domain.StatementTypeError
		if errors.As(err, &typeErr) {
			s.log.Error().
				Err(err).
				Str("wallet_id", walletID.String()).
				Str("row_id", typeErr.RowID.String()).
				Msg("ledger returned an unclassifiable statement row")
			return nil, apperror.ErrInvalidStatementType(typeErr.Type)
		}
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list statement: %w", err))
	}

	entries := make([]ports.StatementEntry, 0, len(events))
	for _, ev := range events {
		entries = append(entries, ports.StatementEntry{
			ID:          ev.ID,
			Type:        ev.TypeTag(),
			Description: ev.Description(),
			Value:       ev.Value,
			DateTime:    ev.DateTime,
			Operation:   ev.Operation(),
		})
	}

	return &ports.Statement{
		Wallet:  *wallet,
		Entries: entries,
		Pagination: ports.Pagination{
			Page:          page,
			PageSize:      pageSize,
			TotalElements: total,
			TotalPages:    domain.TotalPages(total, pageSize),
		},
	}, nil
}

// normalizePage clamps a negative page to 0 and replaces an out of range size with the default.
func (s *StatementServiceImpl) normalizePage(page, pageSize int) (int, int) {
	if page < 0 {
		page = 0
	}
	if pageSize < 1 || pageSize > s.cfg.MaxPageSize {
		pageSize = s.cfg.DefaultPageSize
	}
	return page, pageSize
}
