package postgres

import (
	"context"
	"fmt"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// statementUnion exposes deposits and transfers touching $1 with one row shape.
const statementUnion = `
	SELECT deposit_id AS statement_id, 'deposit' AS type, deposit_value AS value,
		deposit_date_time AS date_time, NULL::uuid AS sender_id, NULL::uuid AS receiver_id
	FROM deposits WHERE wallet_id = $1
	UNION ALL
	SELECT transfer_id, 'transfer', transfer_value,
		transfer_date_time, wallet_sender_id, wallet_receiver_id
	FROM transfers WHERE wallet_sender_id = $1 OR wallet_receiver_id = $1`

// The count and the page must come from one snapshot, otherwise a commit
// landing between them makes total_elements disagree with the rows.
var statementTxOptions = pgx.TxOptions{
	IsoLevel:   pgx.RepeatableRead,
	AccessMode: pgx.ReadOnly,
}

// StatementRepo implements ports.StatementRepository.
type StatementRepo struct {
	pool Pool
}

// NewStatementRepo creates a new StatementRepo.
func NewStatementRepo(pool Pool) *StatementRepo {
	return &StatementRepo{pool: pool}
}

// ListByWallet returns one page of the wallet's history, most recent first.
// Ties on the timestamp are broken by statement id so paging is deterministic.
func (r *StatementRepo) ListByWallet(ctx context.Context, walletID uuid.UUID, page, pageSize int) ([]domain.StatementEvent, int64, error) {
	tx, err := r.pool.BeginTx(ctx, statementTxOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("begin statement snapshot: %w", err)
	}

	events, total, err := r.listInTx(ctx, tx, walletID, page, pageSize)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("end statement snapshot: %w", err)
	}
	return events, total, nil
}

func (r *StatementRepo) listInTx(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, page, pageSize int) ([]domain.StatementEvent, int64, error) {
	var total int64
	countQuery := `SELECT COUNT(*) FROM (` + statementUnion + `) AS statement`
	if err := tx.QueryRow(ctx, countQuery, walletID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count statement rows: %w", err)
	}

	pageQuery := `SELECT statement_id, type, value, date_time, sender_id, receiver_id
		FROM (` + statementUnion + `) AS statement
		ORDER BY date_time DESC, statement_id DESC
		LIMIT $2 OFFSET $3`

	rows, err := tx.Query(ctx, pageQuery, walletID, pageSize, domain.PageOffset(page, pageSize))
	if err != nil {
		return nil, 0, fmt.Errorf("list statement rows: %w", err)
	}
	defer rows.Close()

	events := make([]domain.StatementEvent, 0, pageSize)
	for rows.Next() {
		var row domain.StatementRow
		if err := rows.Scan(&row.ID, &row.Type, &row.Value, &row.DateTime, &row.SenderID, &row.ReceiverID); err != nil {
			return nil, 0, fmt.Errorf("scan statement row: %w", err)
		}
		ev, err := domain.NewStatementEvent(walletID, row)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate statement rows: %w", err)
	}
	return events, total, nil
}
