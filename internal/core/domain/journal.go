package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// Journal is a single, balanced financial event composed of debit/credit
// lines. Once posted it is immutable; corrections happen through a linked
// reversing journal.
type Journal struct {
	JournalID          string          `json:"journalID"`
	JournalDate        time.Time       `json:"journalDate"`
	Reference          string          `json:"reference"` // e.g. RCT-000123, CHQ-CASH-552, TRF-552
	Description        string          `json:"description"`
	CurrencyCode       string          `json:"currencyCode"`
	ExchangeRate       decimal.Decimal `json:"exchangeRate"` // rate to base currency at posting time
	Status             JournalStatus   `json:"status"`
	Amount             decimal.Decimal `json:"amount"` // total debit side, the economic value of the event
	OriginalJournalID  *string         `json:"originalJournalID,omitempty"`
	ReversingJournalID *string         `json:"reversingJournalID,omitempty"`
	Lines              []JournalLine   `json:"lines,omitempty"`
	AuditFields
}

// JournalLine is a single debit or credit against one account. Exactly one of
// Debit/Credit is positive; the other is zero.
type JournalLine struct {
	LineID       string          `json:"lineID"`
	JournalID    string          `json:"journalID"`
	AccountID    string          `json:"accountID"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	Description  string          `json:"description,omitempty"`
	CostCenterID *string         `json:"costCenterID,omitempty"`
	AuditFields
	RunningBalance decimal.Decimal `json:"runningBalance"` // account balance after this line
}

// IsDebit reports whether the line moves value onto the debit side.
func (l JournalLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Amount returns the positive magnitude of the line regardless of side.
func (l JournalLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}
