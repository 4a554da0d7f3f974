package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cheque represents a row of the cheques table. Transfer settlement columns
// are nullable and populated only when the cheque settled via bank transfer.
type Cheque struct {
	ChequeID     string          `db:"cheque_id"`
	ChequeNumber string          `db:"cheque_number"`
	Direction    string          `db:"direction"`
	Amount       decimal.Decimal `db:"amount"`
	DueDate      time.Time       `db:"due_date"`
	PartyID      string          `db:"party_id"`
	PartyName    string          `db:"party_name"`
	BankName     string          `db:"bank_name"`
	Status       string          `db:"status"`
	Notes        string          `db:"notes"`
	JournalID    string          `db:"journal_id"`

	TransferAccountNumber *string    `db:"transfer_account_number"`
	TransferBankName      *string    `db:"transfer_bank_name"`
	TransferDate          *time.Time `db:"transfer_date"`

	AuditFields
}
