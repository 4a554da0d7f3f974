package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChequeDirection distinguishes cheques we issued from cheques we hold.
type ChequeDirection string

const (
	Outgoing ChequeDirection = "OUTGOING" // notes payable, issued to a supplier
	Incoming ChequeDirection = "INCOMING" // notes receivable, received from a customer
)

// ChequeStatus is the state of a cheque instrument.
//
// Outgoing cheques start ISSUED and settle to CASHED; incoming cheques start
// RECEIVED and settle to COLLECTED. Either direction can terminate REJECTED.
type ChequeStatus string

const (
	ChequeIssued    ChequeStatus = "ISSUED"
	ChequeReceived  ChequeStatus = "RECEIVED"
	ChequeCashed    ChequeStatus = "CASHED"
	ChequeCollected ChequeStatus = "COLLECTED"
	ChequeRejected  ChequeStatus = "REJECTED"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s ChequeStatus) IsTerminal() bool {
	switch s {
	case ChequeCashed, ChequeCollected, ChequeRejected:
		return true
	}
	return false
}

// InitialStatus returns the state a newly registered cheque starts in.
func (d ChequeDirection) InitialStatus() ChequeStatus {
	if d == Incoming {
		return ChequeReceived
	}
	return ChequeIssued
}

// TransferDetails carries the bank-transfer metadata recorded when a cheque is
// settled via transfer rather than over the counter.
type TransferDetails struct {
	DestinationAccountNumber string    `json:"destinationAccountNumber"`
	DestinationBankName      string    `json:"destinationBankName"`
	TransferDate             time.Time `json:"transferDate"`
}

// Cheque is a post-dated payment instrument moving through a small state
// machine; every state change posts exactly one balanced journal.
type Cheque struct {
	ChequeID     string          `json:"chequeID"`
	ChequeNumber string          `json:"chequeNumber"`
	Direction    ChequeDirection `json:"direction"`
	Amount       decimal.Decimal `json:"amount"`
	DueDate      time.Time       `json:"dueDate"`
	PartyID      string          `json:"partyID"`
	PartyName    string          `json:"partyName"` // denormalized for journal descriptions
	BankName     string          `json:"bankName"`  // drawee bank written on the cheque
	Status       ChequeStatus    `json:"status"`
	Notes        string          `json:"notes,omitempty"`
	JournalID    string          `json:"journalID"` // registration posting
	Transfer     *TransferDetails `json:"transfer,omitempty"`
	AuditFields
}
