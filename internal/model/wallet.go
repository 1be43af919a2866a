package model

import (
	"github.com/google/uuid"
)

type Wallet struct {
	Base
	UserID  uuid.UUID `db:"user_id" json:"user_id"`
	Balance int64     `db:"balance" json:"balance"` // minor currency units
}

type WalletTxType string

const (
	WalletTxCredit WalletTxType = "credit"
	WalletTxDebit  WalletTxType = "debit"
)

type WalletTransaction struct {
	Base
	WalletID  uuid.UUID    `db:"wallet_id" json:"wallet_id"`
	Type      WalletTxType `db:"type" json:"type"`
	Amount    int64        `db:"amount" json:"amount"`
	Reference string       `db:"reference" json:"reference,omitempty"`
}

type AdjustWalletRequest struct {
	Type      WalletTxType `json:"type" binding:"required,oneof=credit debit"`
	Amount    int64        `json:"amount" binding:"required,gt=0"`
	Reference string       `json:"reference" binding:"max=200"`
}
