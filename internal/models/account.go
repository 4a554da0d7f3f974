package models

import (
	"github.com/shopspring/decimal"
)

// AccountType mirrors the fundamental accounting type column.
type AccountType string

// AccountSubType mirrors the current/non-current refinement column.
type AccountSubType string

// Account represents a row of the accounts table.
type Account struct {
	AccountID       string          `db:"account_id"`
	Code            string          `db:"code"`
	Name            string          `db:"name"`
	AccountType     AccountType     `db:"account_type"`
	SubType         AccountSubType  `db:"sub_type"`
	IsGroup         bool            `db:"is_group"`
	ParentAccountID string          `db:"parent_account_id"` // Nullable
	IsActive        bool            `db:"is_active"`
	Balance         decimal.Decimal `db:"balance"`
	AuditFields
}
