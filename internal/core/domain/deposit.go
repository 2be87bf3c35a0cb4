package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Deposit is a one-sided credit into a wallet from an external origin.
// IPAddress is opaque provenance supplied by the transport.
type Deposit struct {
	ID        uuid.UUID       `json:"deposit_id"`
	WalletID  uuid.UUID       `json:"wallet_id"`
	Value     decimal.Decimal `json:"value"`
	DateTime  time.Time       `json:"date_time"`
	IPAddress string          `json:"ip_address,omitempty"`
}

// NewDeposit stamps a deposit for walletID at now.
func NewDeposit(walletID uuid.UUID, value decimal.Decimal, ipAddress string, now time.Time) Deposit {
	return Deposit{
		ID:        uuid.New(),
		WalletID:  walletID,
		Value:     value,
		DateTime:  now,
		IPAddress: ipAddress,
	}
}
