package domain

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrUnknownStatementType marks a union row whose type column is neither deposit nor transfer.
var ErrUnknownStatementType = errors.New("unknown statement row type")

// StatementTypeError describes a union row that could not be classified.
// It matches ErrUnknownStatementType with errors.Is.
type StatementTypeError struct {
	RowID  uuid.UUID
	Type   string
	Reason string
}

func (e *StatementTypeError) Error() string {
	return fmt.Sprintf("statement row %s of type %q: %s", e.RowID, e.Type, e.Reason)
}

func (e *StatementTypeError) Unwrap() error {
	return ErrUnknownStatementType
}

// Row type values produced by the statement union query.
const (
	StatementRowDeposit  = "deposit"
	StatementRowTransfer = "transfer"
)

// EntryKind is the closed set of statement entry variants.
type EntryKind int

const (
	EntryDeposit EntryKind = iota + 1
	EntryTransferOutgoing
	EntryTransferIncoming
)

func (k EntryKind) String() string {
	switch k {
	case EntryDeposit:
		return "deposit"
	case EntryTransferOutgoing:
		return "transfer_outgoing"
	case EntryTransferIncoming:
		return "transfer_incoming"
	default:
		return "unknown"
	}
}

// Operation is the direction of an entry relative to the queried wallet.
type Operation string

const (
	OperationCredit Operation = "CREDIT"
	OperationDebit  Operation = "DEBIT"
)

// StatementRow is the uniform shape of one row of the deposits/transfers union.
// SenderID and ReceiverID are nil for deposits.
type StatementRow struct {
	ID         uuid.UUID
	Type       string
	Value      decimal.Decimal
	DateTime   time.Time
	SenderID   *uuid.UUID
	ReceiverID *uuid.UUID
}

// StatementEvent is a classified statement row. Counterparty is uuid.Nil for deposits.
type StatementEvent struct {
	ID           uuid.UUID
	Kind         EntryKind
	Value        decimal.Decimal
	DateTime     time.Time
	Counterparty uuid.UUID
}

// NewStatementEvent classifies row from the point of view of walletID.
// A transfer where walletID is the sender is outgoing, including self-transfers.
func NewStatementEvent(walletID uuid.UUID, row StatementRow) (StatementEvent, error) {
	ev := StatementEvent{
		ID:       row.ID,
		Value:    row.Value,
		DateTime: row.DateTime,
	}

	switch row.Type {
	case StatementRowDeposit:
		ev.Kind = EntryDeposit
		return ev, nil
	case StatementRowTransfer:
		if row.SenderID == nil || row.ReceiverID == nil {
			return StatementEvent{}, &StatementTypeError{RowID: row.ID, Type: row.Type, Reason: "transfer without both parties"}
		}
		switch walletID {
		case *row.SenderID:
			ev.Kind = EntryTransferOutgoing
			ev.Counterparty = *row.ReceiverID
		case *row.ReceiverID:
			ev.Kind = EntryTransferIncoming
			ev.Counterparty = *row.SenderID
		default:
			return StatementEvent{}, &StatementTypeError{RowID: row.ID, Type: row.Type, Reason: "transfer does not involve wallet " + walletID.String()}
		}
		return ev, nil
	default:
		return StatementEvent{}, &StatementTypeError{RowID: row.ID, Type: row.Type, Reason: "unknown type"}
	}
}

// TypeTag is the externally visible type of the entry.
func (e StatementEvent) TypeTag() string {
	if e.Kind == EntryDeposit {
		return StatementRowDeposit
	}
	return StatementRowTransfer
}

// Description is the human readable literal shown on the statement.
func (e StatementEvent) Description() string {
	switch e.Kind {
	case EntryTransferOutgoing:
		return fmt.Sprintf("money sent to %s", e.Counterparty)
	case EntryTransferIncoming:
		return fmt.Sprintf("money received from %s", e.Counterparty)
	default:
		return "money deposit"
	}
}

// Operation is DEBIT for outgoing transfers and CREDIT otherwise.
func (e StatementEvent) Operation() Operation {
	if e.Kind == EntryTransferOutgoing {
		return OperationDebit
	}
	return OperationCredit
}

// TotalPages returns the page count for total elements split into pages of size.
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// PageOffset returns the number of rows preceding page. It saturates at
// math.MaxInt64 instead of overflowing, so an absurd page lands past the end.
func PageOffset(page, size int) int64 {
	if page <= 0 || size <= 0 {
		return 0
	}
	if int64(page) > math.MaxInt64/int64(size) {
		return math.MaxInt64
	}
	return int64(page) * int64(size)
}
