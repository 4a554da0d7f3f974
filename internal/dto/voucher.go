package dto

import (
	"time"

	"github.com/egledger/treasury_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AttachmentInput is the metadata of an already-uploaded document.
type AttachmentInput struct {
	FilePath string `json:"filePath" binding:"required"`
	FileName string `json:"fileName" binding:"required"`
	FileType string `json:"fileType"`
	FileSize int64  `json:"fileSize"`
}

// AttachmentFailure reports one attachment that could not be recorded. The
// financial record itself is committed regardless.
type AttachmentFailure struct {
	FileName string `json:"fileName"`
	Reason   string `json:"reason"`
}

// CreateVoucherRequest is the payload for creating a receipt or payment voucher.
// Either PartyID or TargetAccountID is required.
type CreateVoucherRequest struct {
	VoucherType       domain.VoucherType    `json:"voucherType" binding:"required,oneof=RECEIPT PAYMENT"`
	SubType           domain.VoucherSubType `json:"subType" binding:"omitempty,oneof=PARTY DEPOSIT GENERAL"`
	Date              time.Time             `json:"date" binding:"required"`
	Amount            decimal.Decimal       `json:"amount" binding:"required"`
	CurrencyCode      string                `json:"currencyCode"`
	ExchangeRate      decimal.Decimal       `json:"exchangeRate"`
	TreasuryAccountID string                `json:"treasuryAccountID" binding:"required"`
	PartyID           string                `json:"partyID"`
	TargetAccountID   string                `json:"targetAccountID"`
	PaymentMethod     domain.PaymentMethod  `json:"paymentMethod" binding:"omitempty,oneof=CASH TRANSFER CHEQUE"`
	Notes             string                `json:"notes"`
	CostCenterID      *string               `json:"costCenterID"`
	Attachments       []AttachmentInput     `json:"attachments" binding:"omitempty,dive"`
}

// UpdateVoucherRequest patches non-financial voucher fields. Changes to
// amount, date, treasury account or counterparty require reversal and
// re-creation and are rejected.
type UpdateVoucherRequest struct {
	Notes         *string               `json:"notes"`
	PaymentMethod *domain.PaymentMethod `json:"paymentMethod" binding:"omitempty,oneof=CASH TRANSFER CHEQUE"`
}

// VoucherResponse is the outward shape of a voucher.
type VoucherResponse struct {
	VoucherID         string              `json:"voucherID"`
	VoucherNumber     string              `json:"voucherNumber"`
	VoucherType       string              `json:"voucherType"`
	SubType           string              `json:"subType"`
	Date              time.Time           `json:"date"`
	Amount            decimal.Decimal     `json:"amount"`
	CurrencyCode      string              `json:"currencyCode"`
	ExchangeRate      decimal.Decimal     `json:"exchangeRate"`
	TreasuryAccountID string              `json:"treasuryAccountID"`
	PartyID           string              `json:"partyID,omitempty"`
	TargetAccountID   string              `json:"targetAccountID,omitempty"`
	PaymentMethod     string              `json:"paymentMethod"`
	Notes             string              `json:"notes,omitempty"`
	JournalID         string              `json:"journalID"`
	Status            string              `json:"status"`
	FailedAttachments []AttachmentFailure `json:"failedAttachments,omitempty"`
	CreatedAt         time.Time           `json:"createdAt"`
	CreatedBy         string              `json:"createdBy"`
}

// ListVouchersParams carries filter and pagination options for voucher listing.
type ListVouchersParams struct {
	VoucherType *domain.VoucherType `form:"type"`
	Limit       int                 `form:"limit"`
	NextToken   *string             `form:"nextToken"`
}

// ListVouchersResponse is a page of vouchers.
type ListVouchersResponse struct {
	Vouchers  []VoucherResponse `json:"vouchers"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToVoucherResponse converts a domain voucher to its DTO.
func ToVoucherResponse(v *domain.Voucher) VoucherResponse {
	return VoucherResponse{
		VoucherID:         v.VoucherID,
		VoucherNumber:     v.VoucherNumber,
		VoucherType:       string(v.VoucherType),
		SubType:           string(v.SubType),
		Date:              v.VoucherDate,
		Amount:            v.Amount,
		CurrencyCode:      v.CurrencyCode,
		ExchangeRate:      v.ExchangeRate,
		TreasuryAccountID: v.TreasuryAccountID,
		PartyID:           v.PartyID,
		TargetAccountID:   v.TargetAccountID,
		PaymentMethod:     string(v.PaymentMethod),
		Notes:             v.Notes,
		JournalID:         v.JournalID,
		Status:            string(v.Status),
		CreatedAt:         v.CreatedAt,
		CreatedBy:         v.CreatedBy,
	}
}
