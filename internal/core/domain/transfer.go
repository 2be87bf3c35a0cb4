package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transfer moves Value from SenderID to ReceiverID. Neither wallet owns it.
type Transfer struct {
	ID         uuid.UUID       `json:"transfer_id"`
	SenderID   uuid.UUID       `json:"sender"`
	ReceiverID uuid.UUID       `json:"receiver"`
	Value      decimal.Decimal `json:"value"`
	DateTime   time.Time       `json:"date_time"`
}

// NewTransfer stamps a transfer at now.
func NewTransfer(senderID, receiverID uuid.UUID, value decimal.Decimal, now time.Time) Transfer {
	return Transfer{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Value:      value,
		DateTime:   now,
	}
}

// IsSelfTransfer reports whether sender and receiver are the same wallet.
func (t Transfer) IsSelfTransfer() bool {
	return t.SenderID == t.ReceiverID
}

// LockOrder returns the wallet ids in the order their rows must be locked.
// Locking in ascending id order keeps concurrent opposite transfers deadlock-free.
func LockOrder(a, b uuid.UUID) []uuid.UUID {
	if a == b {
		return []uuid.UUID{a}
	}
	if a.String() < b.String() {
		return []uuid.UUID{a, b}
	}
	return []uuid.UUID{b, a}
}
