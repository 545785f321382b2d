package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TxType string

const (
	TxTopup   TxType = "topup"
	TxPayment TxType = "payment"
	TxRefund  TxType = "refund"
)

type TxStatus string

const (
	TxPending   TxStatus = "pending"
	TxCompleted TxStatus = "completed"
	TxFailed    TxStatus = "failed"
)

// WalletTransaction is one ledger line; BalanceAfter is set once the entry completes.
type WalletTransaction struct {
	ID           string          `db:"id" json:"id"`
	UserID       string          `db:"user_id" json:"user"`
	Type         TxType          `db:"type" json:"type"`
	Method       string          `db:"method" json:"method"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	BalanceAfter decimal.Decimal `db:"balance_after" json:"balanceAfter"`
	Reference    string          `db:"reference" json:"reference"`
	Status       TxStatus        `db:"status" json:"status"`
	CreatedAt    time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updatedAt"`
}

// MaxTopup caps a single wallet credit.
var MaxTopup = decimal.NewFromInt(10_000_000)
