package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// AccountSubType distinguishes current from non-current accounts where the
// chart of accounts cares about it. Optional.
type AccountSubType string

const (
	SubTypeCurrent    AccountSubType = "CURRENT"
	SubTypeNonCurrent AccountSubType = "NON_CURRENT"
)

// Account is a node in the chart of accounts. Group accounts structure the
// chart and hold no balance of their own; journal lines may only reference
// non-group accounts.
type Account struct {
	AccountID       string          `json:"accountID"`
	Code            string          `json:"code"` // unique numeric code, e.g. "1231"
	Name            string          `json:"name"`
	AccountType     AccountType     `json:"accountType"`
	SubType         AccountSubType  `json:"subType,omitempty"`
	IsGroup         bool            `json:"isGroup"`
	ParentAccountID string          `json:"parentAccountID,omitempty"`
	IsActive        bool            `json:"isActive"`
	Balance         decimal.Decimal `json:"balance"`
	AuditFields
}
