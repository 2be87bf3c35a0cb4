package postgres

import (
	"context"
	"errors"
	"fmt"

	"wallet-ledger/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// PostgreSQL error codes the transactor and repositories react to.
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// Transactor implements ports.DBTransactor on a pgx pool.
type Transactor struct {
	pool       Pool
	maxRetries int
	log        zerolog.Logger
}

// NewTransactor creates a Transactor that retries conflicting units up to maxRetries times.
func NewTransactor(pool Pool, maxRetries int, log zerolog.Logger) *Transactor {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Transactor{
		pool:       pool,
		maxRetries: maxRetries,
		log:        log.With().Str("component", "transactor").Logger(),
	}
}

// RunInTx runs fn in a transaction. Serialization failures and deadlocks restart
// the whole unit; once retries are exhausted the conflict surfaces as SYS_002.
func (t *Transactor) RunInTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	var err error
	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		err = t.runOnce(ctx, fn)
		if err == nil || !isRetryable(err) {
			return err
		}
		t.log.Warn().Err(err).Int("attempt", attempt+1).Msg("transaction conflict, retrying")
	}
	return apperror.ErrTxConflict(err)
}

func (t *Transactor) runOnce(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			t.log.Error().Err(rbErr).Msg("rollback failed")
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
