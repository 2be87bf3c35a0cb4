package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrDuplicateWallet is reported by the store when national id or email is already taken.
var ErrDuplicateWallet = errors.New("wallet national id or email already exists")

// Wallet is an account holding a non-negative balance, keyed by national id and email.
// Values are treated as immutable: balance changes produce a new Wallet.
type Wallet struct {
	ID         uuid.UUID       `json:"wallet_id"`
	Name       string          `json:"name"`
	NationalID string          `json:"cpf"`
	Email      string          `json:"email"`
	Balance    decimal.Decimal `json:"balance"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// NewWallet builds an empty wallet with a fresh identity.
func NewWallet(name, nationalID, email string, now time.Time) Wallet {
	return Wallet{
		ID:         uuid.New(),
		Name:       name,
		NationalID: nationalID,
		Email:      email,
		Balance:    decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsEmpty reports whether the wallet can be deleted.
func (w Wallet) IsEmpty() bool {
	return w.Balance.IsZero()
}

// CanDebit reports whether amount can leave the wallet without going negative.
func (w Wallet) CanDebit(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}

// Credited returns a copy of w with amount added.
func (w Wallet) Credited(amount decimal.Decimal) Wallet {
	w.Balance = w.Balance.Add(amount)
	return w
}

// Debited returns a copy of w with amount removed. The caller checks CanDebit first.
func (w Wallet) Debited(amount decimal.Decimal) Wallet {
	w.Balance = w.Balance.Sub(amount)
	return w
}
