package dto

import (
	"time"

	"github.com/egledger/treasury_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateChequeRequest registers a new cheque instrument.
type CreateChequeRequest struct {
	ChequeNumber string                 `json:"chequeNumber" binding:"required"`
	Direction    domain.ChequeDirection `json:"direction" binding:"required,oneof=OUTGOING INCOMING"`
	Amount       decimal.Decimal        `json:"amount" binding:"required"`
	DueDate      time.Time              `json:"dueDate" binding:"required"`
	PartyID      string                 `json:"partyID" binding:"required"`
	BankName     string                 `json:"bankName" binding:"required"`
	Notes        string                 `json:"notes"`
	Attachments  []AttachmentInput      `json:"attachments" binding:"omitempty,dive"`
}

// TransferDetailsInput is the bank-transfer metadata of a transfer settlement.
type TransferDetailsInput struct {
	DestinationAccountNumber string    `json:"destinationAccountNumber" binding:"required"`
	DestinationBankName      string    `json:"destinationBankName" binding:"required"`
	TransferDate             time.Time `json:"transferDate" binding:"required"`
}

// ChequeTransitionRequest drives a cheque to a target status.
//
// BankAccountID selects the bank account the money settles through; required
// for CASHED and COLLECTED, ignored for REJECTED. Transfer marks the
// settlement as a bank transfer and changes the journal reference to
// TRF-<cheque number>.
type ChequeTransitionRequest struct {
	TargetStatus  domain.ChequeStatus   `json:"targetStatus" binding:"required,oneof=CASHED COLLECTED REJECTED"`
	ActionDate    time.Time             `json:"actionDate" binding:"required"`
	BankAccountID string                `json:"bankAccountID"`
	Transfer      *TransferDetailsInput `json:"transfer" binding:"omitempty"`
}

// ChequeResponse is the outward shape of a cheque.
type ChequeResponse struct {
	ChequeID     string                  `json:"chequeID"`
	ChequeNumber string                  `json:"chequeNumber"`
	Direction    string                  `json:"direction"`
	Amount       decimal.Decimal         `json:"amount"`
	DueDate      time.Time               `json:"dueDate"`
	PartyID      string                  `json:"partyID"`
	PartyName    string                  `json:"partyName"`
	BankName     string                  `json:"bankName"`
	Status       string                  `json:"status"`
	Notes        string                  `json:"notes,omitempty"`
	JournalID    string                  `json:"journalID"`
	Transfer     *domain.TransferDetails `json:"transfer,omitempty"`
	FailedAttachments []AttachmentFailure `json:"failedAttachments,omitempty"`
	CreatedAt    time.Time               `json:"createdAt"`
	CreatedBy    string                  `json:"createdBy"`
}

// ListChequesParams carries filter and pagination options for cheque listing.
type ListChequesParams struct {
	Direction *domain.ChequeDirection `form:"direction"`
	Limit     int                     `form:"limit"`
	NextToken *string                 `form:"nextToken"`
}

// ListChequesResponse is a page of cheques.
type ListChequesResponse struct {
	Cheques   []ChequeResponse `json:"cheques"`
	NextToken *string          `json:"nextToken,omitempty"`
}

// ToChequeResponse converts a domain cheque to its DTO.
func ToChequeResponse(c *domain.Cheque) ChequeResponse {
	return ChequeResponse{
		ChequeID:     c.ChequeID,
		ChequeNumber: c.ChequeNumber,
		Direction:    string(c.Direction),
		Amount:       c.Amount,
		DueDate:      c.DueDate,
		PartyID:      c.PartyID,
		PartyName:    c.PartyName,
		BankName:     c.BankName,
		Status:       string(c.Status),
		Notes:        c.Notes,
		JournalID:    c.JournalID,
		Transfer:     c.Transfer,
		CreatedAt:    c.CreatedAt,
		CreatedBy:    c.CreatedBy,
	}
}
