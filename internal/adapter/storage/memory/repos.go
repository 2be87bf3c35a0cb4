package memory

import (
	"context"
	"fmt"
	"sort"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct{ s *Store }

// NewWalletRepo creates a WalletRepo over s.
func NewWalletRepo(s *Store) *WalletRepo { return &WalletRepo{s: s} }

// Create stores w directly, outside any unit of work. A national id or email
// already held by a committed wallet yields domain.ErrDuplicateWallet.
func (r *WalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.wallets {
		if existing.NationalID == w.NationalID || existing.Email == w.Email {
			return domain.ErrDuplicateWallet
		}
	}
	r.s.wallets[w.ID] = *w
	return nil
}

// GetByID returns a copy of the committed wallet, or nil when it does not exist.
func (r *WalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	w, ok := r.s.wallets[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

// FindByNationalIDOrEmail returns any committed wallet holding either value.
func (r *WalletRepo) FindByNationalIDOrEmail(ctx context.Context, nationalID, email string) (*domain.Wallet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, w := range r.s.wallets {
		if w.NationalID == nationalID || w.Email == email {
			found := w
			return &found, nil
		}
	}
	return nil, nil
}

// GetByIDForUpdate reads the wallet as the unit sees it, including its own
// staged writes. No row lock is needed: RunInTx already serializes every unit.
func (r *WalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	mt, err := stagedTx(tx)
	if err != nil {
		return nil, err
	}
	w, ok := mt.wallet(r.s, id)
	if !ok {
		return nil, nil
	}
	return &w, nil
}

// UpdateBalance stages a new balance. It is applied when the unit commits.
func (r *WalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance decimal.Decimal) error {
	mt, err := stagedTx(tx)
	if err != nil {
		return err
	}
	w, ok := mt.wallet(r.s, id)
	if !ok {
		return fmt.Errorf("wallet not found: %s", id)
	}
	if balance.IsNegative() {
		return fmt.Errorf("wallet %s: balance would become negative", id)
	}
	w.Balance = balance
	mt.wallets[id] = &w
	return nil
}

// Delete stages the removal of the wallet. Its deposits and transfers stay.
func (r *WalletRepo) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	mt, err := stagedTx(tx)
	if err != nil {
		return err
	}
	if _, ok := mt.wallet(r.s, id); !ok {
		return fmt.Errorf("wallet not found: %s", id)
	}
	mt.wallets[id] = nil
	return nil
}

// DepositRepo implements ports.DepositRepository.
type DepositRepo struct{ s *Store }

// NewDepositRepo creates a DepositRepo over s.
func NewDepositRepo(s *Store) *DepositRepo { return &DepositRepo{s: s} }

// Create stages d. It becomes visible to statements once the unit commits.
func (r *DepositRepo) Create(ctx context.Context, tx pgx.Tx, d *domain.Deposit) error {
	mt, err := stagedTx(tx)
	if err != nil {
		return err
	}
	mt.deposits = append(mt.deposits, *d)
	return nil
}

// TransferRepo implements ports.TransferRepository.
type TransferRepo struct{ s *Store }

// NewTransferRepo creates a TransferRepo over s.
func NewTransferRepo(s *Store) *TransferRepo { return &TransferRepo{s: s} }

// Create stages t. It becomes visible to statements once the unit commits.
func (r *TransferRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transfer) error {
	mt, err := stagedTx(tx)
	if err != nil {
		return err
	}
	mt.transfers = append(mt.transfers, *t)
	return nil
}

// StatementRepo implements ports.StatementRepository.
type StatementRepo struct{ s *Store }

// NewStatementRepo creates a StatementRepo over s.
func NewStatementRepo(s *Store) *StatementRepo { return &StatementRepo{s: s} }

// ListByWallet mirrors the SQL union: newest first, ties broken by id descending.
// The count and the page come from the same committed state.
func (r *StatementRepo) ListByWallet(ctx context.Context, walletID uuid.UUID, page, pageSize int) ([]domain.StatementEvent, int64, error) {
	r.s.mu.RLock()
	var rows []domain.StatementRow
	for _, d := range r.s.deposits {
		if d.WalletID == walletID {
			rows = append(rows, domain.StatementRow{
				ID: d.ID, Type: domain.StatementRowDeposit, Value: d.Value, DateTime: d.DateTime,
			})
		}
	}
	for _, t := range r.s.transfers {
		if t.SenderID == walletID || t.ReceiverID == walletID {
			sender, receiver := t.SenderID, t.ReceiverID
			rows = append(rows, domain.StatementRow{
				ID: t.ID, Type: domain.StatementRowTransfer, Value: t.Value, DateTime: t.DateTime,
				SenderID: &sender, ReceiverID: &receiver,
			})
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].DateTime.Equal(rows[j].DateTime) {
			return rows[i].DateTime.After(rows[j].DateTime)
		}
		return rows[i].ID.String() > rows[j].ID.String()
	})

	total := int64(len(rows))
	if pageSize < 1 {
		return []domain.StatementEvent{}, total, nil
	}
	offset := domain.PageOffset(page, pageSize)
	if offset >= total {
		return []domain.StatementEvent{}, total, nil
	}
	start := int(offset)
	end := len(rows)
	if end-start > pageSize {
		end = start + pageSize
	}

	events := make([]domain.StatementEvent, 0, end-start)
	for _, row := range rows[start:end] {
		ev, err := domain.NewStatementEvent(walletID, row)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, ev)
	}
	return events, total, nil
}
