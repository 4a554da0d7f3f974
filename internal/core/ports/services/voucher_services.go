package services

import (
	"context"

	"github.com/egledger/treasury_backend/internal/core/domain"
	"github.com/egledger/treasury_backend/internal/dto"
)

// VoucherSvcFacade creates, edits and reverses receipt/payment vouchers.
type VoucherSvcFacade interface {
	// CreateVoucher validates the input, derives the two-line journal and
	// posts both through the configured poster. Attachment failures are
	// reported per file and never fail the voucher.
	CreateVoucher(ctx context.Context, req dto.CreateVoucherRequest, creatorUserID string) (*domain.Voucher, []dto.AttachmentFailure, error)

	GetVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error)

	ListVouchers(ctx context.Context, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error)

	// UpdateVoucher applies non-financial edits. Financial fields of a posted
	// voucher can only change through ReverseVoucher plus re-creation.
	UpdateVoucher(ctx context.Context, voucherID string, req dto.UpdateVoucherRequest, userID string) (*domain.Voucher, error)

	// ReverseVoucher reverses the voucher's journal and marks it REVERSED.
	ReverseVoucher(ctx context.Context, voucherID string, userID string) (*domain.Voucher, error)
}
