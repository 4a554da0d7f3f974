package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Voucher represents a row of the vouchers table.
type Voucher struct {
	VoucherID         string          `db:"voucher_id"`
	VoucherNumber     string          `db:"voucher_number"`
	VoucherType       string          `db:"voucher_type"`
	SubType           string          `db:"sub_type"`
	VoucherDate       time.Time       `db:"voucher_date"`
	Amount            decimal.Decimal `db:"amount"`
	CurrencyCode      string          `db:"currency_code"`
	ExchangeRate      decimal.Decimal `db:"exchange_rate"`
	TreasuryAccountID string          `db:"treasury_account_id"`
	PartyID           string          `db:"party_id"` // Nullable
	TargetAccountID   string          `db:"target_account_id"`
	PaymentMethod     string          `db:"payment_method"`
	Notes             string          `db:"notes"`
	JournalID         string          `db:"journal_id"`
	Status            string          `db:"status"`
	AuditFields
}
