package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherType distinguishes money-in from money-out vouchers.
type VoucherType string

const (
	Receipt VoucherType = "RECEIPT"
	Payment VoucherType = "PAYMENT"
)

// VoucherSubType refines the counterpart account selection when no explicit
// target account is given.
type VoucherSubType string

const (
	SubTypeParty   VoucherSubType = "PARTY"   // settle against the customers/suppliers control account
	SubTypeDeposit VoucherSubType = "DEPOSIT" // customer deposit held as a liability
	SubTypeGeneral VoucherSubType = "GENERAL" // free-form against the target account
)

// VoucherStatus tracks the lifecycle of a voucher record.
type VoucherStatus string

const (
	VoucherPosted   VoucherStatus = "POSTED"
	VoucherReversed VoucherStatus = "REVERSED"
)

// PaymentMethod is how the money physically moved.
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "CASH"
	MethodTransfer PaymentMethod = "TRANSFER"
	MethodCheque   PaymentMethod = "CHEQUE"
)

// Voucher is a single cash or bank movement (receipt or payment). Each posted
// voucher references exactly one journal.
type Voucher struct {
	VoucherID         string          `json:"voucherID"`
	VoucherNumber     string          `json:"voucherNumber"` // e.g. RCT-104522, PAY-104523; unique
	VoucherType       VoucherType     `json:"voucherType"`
	SubType           VoucherSubType  `json:"subType"`
	VoucherDate       time.Time       `json:"voucherDate"`
	Amount            decimal.Decimal `json:"amount"`
	CurrencyCode      string          `json:"currencyCode"`
	ExchangeRate      decimal.Decimal `json:"exchangeRate"`
	TreasuryAccountID string          `json:"treasuryAccountID"`
	PartyID           string          `json:"partyID,omitempty"`
	TargetAccountID   string          `json:"targetAccountID,omitempty"`
	PaymentMethod     PaymentMethod   `json:"paymentMethod"`
	Notes             string          `json:"notes,omitempty"`
	JournalID         string          `json:"journalID"` // posting produced by this voucher
	Status            VoucherStatus   `json:"status"`
	AuditFields
}
