package dto

import (
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"

	"github.com/shopspring/decimal"
)

// CreateWalletRequest is the request body for opening a wallet.
type CreateWalletRequest struct {
	Name  string `json:"name" binding:"required,max=255"`
	CPF   string `json:"cpf" binding:"required,cpf"`
	Email string `json:"email" binding:"required,email,max=255"`
}

// DepositRequest is the request body for crediting a wallet.
type DepositRequest struct {
	Value decimal.Decimal `json:"value" binding:"required,gt=0"`
}

// TransferRequest is the request body for moving money between wallets.
type TransferRequest struct {
	Sender   string          `json:"sender" binding:"required,uuid"`
	Receiver string          `json:"receiver" binding:"required,uuid"`
	Value    decimal.Decimal `json:"value" binding:"required,gt=0"`
}

// WalletResponse is the public view of a wallet.
type WalletResponse struct {
	WalletID string `json:"wallet_id"`
	CPF      string `json:"cpf"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Balance  string `json:"balance"`
}

type DepositResponse struct {
	DepositID string `json:"deposit_id"`
	WalletID  string `json:"wallet_id"`
	Value     string `json:"value"`
	DateTime  string `json:"date_time"`
	IPAddress string `json:"ip_address"`
}

type TransferResponse struct {
	TransferID string `json:"transfer_id"`
	Sender     string `json:"sender"`
	Receiver   string `json:"receiver"`
	Value      string `json:"value"`
	DateTime   string `json:"date_time"`
}

// StatementItemResponse is one row of a wallet statement.
type StatementItemResponse struct {
	StatementID string `json:"statement_id"`
	Type        string `json:"type"`
	Literal     string `json:"literal"`
	Value       string `json:"value"`
	DateTime    string `json:"date_time"`
	Operation   string `json:"operation"`
}

type PaginationResponse struct {
	Page          int   `json:"page"`
	PageSize      int   `json:"page_size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
}

// StatementResponse wraps the wallet, its page of statement rows and paging info.
type StatementResponse struct {
	Wallet     WalletResponse          `json:"wallet"`
	Statements []StatementItemResponse `json:"statements"`
	Pagination PaginationResponse      `json:"pagination"`
}

// Money renders an amount with two decimal places.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func NewWalletResponse(w *domain.Wallet) WalletResponse {
	return WalletResponse{
		WalletID: w.ID.String(),
		CPF:      w.NationalID,
		Name:     w.Name,
		Email:    w.Email,
		Balance:  Money(w.Balance),
	}
}

func NewDepositResponse(d *domain.Deposit) DepositResponse {
	return DepositResponse{
		DepositID: d.ID.String(),
		WalletID:  d.WalletID.String(),
		Value:     Money(d.Value),
		DateTime:  timestamp(d.DateTime),
		IPAddress: d.IPAddress,
	}
}

func NewTransferResponse(t *domain.Transfer) TransferResponse {
	return TransferResponse{
		TransferID: t.ID.String(),
		Sender:     t.SenderID.String(),
		Receiver:   t.ReceiverID.String(),
		Value:      Money(t.Value),
		DateTime:   timestamp(t.DateTime),
	}
}

// NewStatementResponse converts a service statement into its JSON shape.
// Statements is never nil so an empty page renders as [].
func NewStatementResponse(st *ports.Statement) StatementResponse {
	items := make([]StatementItemResponse, 0, len(st.Entries))
	for _, e := range st.Entries {
		items = append(items, StatementItemResponse{
			StatementID: e.ID.String(),
			Type:        e.Type,
			Literal:     e.Description,
			Value:       Money(e.Value),
			DateTime:    timestamp(e.DateTime),
			Operation:   string(e.Operation),
		})
	}

	return StatementResponse{
		Wallet:     NewWalletResponse(&st.Wallet),
		Statements: items,
		Pagination: PaginationResponse{
			Page:          st.Pagination.Page,
			PageSize:      st.Pagination.PageSize,
			TotalElements: st.Pagination.TotalElements,
			TotalPages:    st.Pagination.TotalPages,
		},
	}
}
