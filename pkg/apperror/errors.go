package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// AppError is the error kind returned by ledger operations. Code is the tag the
// transport maps to an HTTP status.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

const (
	CodeWalletNotFound       = "WAL_001"
	CodeDuplicateWallet      = "WAL_002"
	CodeNonZeroBalance       = "WAL_003"
	CodeInsufficientBalance  = "TRF_001"
	CodeInvalidAmount        = "TRF_002"
	CodeInvalidStatementType = "STM_001"
	CodeValidation           = "REQ_001"
	CodePayloadTooLarge      = "REQ_002"
	CodeRateLimitExceeded    = "RATE_001"
	CodeInternal             = "SYS_001"
	CodeTxConflict           = "SYS_002"
)

// ---- Wallet lifecycle (WAL) ----

func ErrWalletNotFound(message string) *AppError {
	return New(CodeWalletNotFound, message, http.StatusNotFound)
}

func ErrDuplicateWallet() *AppError {
	return New(CodeDuplicateWallet, "cpf or email already exists", http.StatusConflict)
}

func ErrNonZeroBalance(balance decimal.Decimal) *AppError {
	return New(CodeNonZeroBalance,
		"The balance is not zero. The current amount is $"+balance.StringFixed(2),
		http.StatusUnprocessableEntity)
}

// ---- Money movement (TRF) ----

func ErrInsufficientBalance(balance decimal.Decimal) *AppError {
	return New(CodeInsufficientBalance,
		"insufficient balance. your current balance is $"+balance.StringFixed(2),
		http.StatusUnprocessableEntity)
}

func ErrInvalidAmount() *AppError {
	return New(CodeInvalidAmount, "value must be greater than zero", http.StatusBadRequest)
}

// ---- Statement (STM) ----

// ErrInvalidStatementType signals a ledger row the store could not classify.
// It points at schema or data corruption, not at a caller mistake.
func ErrInvalidStatementType(statementType string) *AppError {
	return New(CodeInvalidStatementType, "invalid type "+statementType, http.StatusInternalServerError)
}

// ---- Request (REQ) ----

// Validation returns a REQ_001 validation error.
func Validation(message string) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest)
}

func ErrPayloadTooLarge(limit int64) *AppError {
	return New(CodePayloadTooLarge, fmt.Sprintf("request body exceeds %d bytes", limit), http.StatusRequestEntityTooLarge)
}

func ErrRateLimitExceeded() *AppError {
	return New(CodeRateLimitExceeded, "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap(CodeInternal, "Internal database error", http.StatusInternalServerError, err)
}

// ErrTxConflict is returned once the store gave up retrying a conflicting transaction.
func ErrTxConflict(err error) *AppError {
	return Wrap(CodeTxConflict, "Concurrent update conflict, retry the request", http.StatusServiceUnavailable, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap(CodeInternal, "Internal server error", http.StatusInternalServerError, err)
}
