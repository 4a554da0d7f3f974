package repositories

import (
	"context"
	"time"

	"github.com/egledger/treasury_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// VoucherReader defines read operations for voucher data.
type VoucherReader interface {
	FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error)

	// FindVoucherByNumber looks a voucher up by its business number. Used as
	// the idempotency check of the composite posting path.
	FindVoucherByNumber(ctx context.Context, voucherNumber string) (*domain.Voucher, error)

	ListVouchers(ctx context.Context, voucherType *domain.VoucherType, limit int, nextToken *string) ([]domain.Voucher, *string, error)
}

// VoucherWriter defines write operations for voucher data that do not post.
type VoucherWriter interface {
	// SaveVoucher inserts the voucher row alone, without touching the journal.
	// The composite posting replay uses it to finish a posting whose journal
	// is already committed.
	SaveVoucher(ctx context.Context, voucher domain.Voucher) error

	// UpdateVoucherDetails persists non-financial edits (notes, payment method).
	UpdateVoucherDetails(ctx context.Context, voucherID string, notes string, method domain.PaymentMethod, updatedBy string, updatedAt time.Time) error

	// MarkVoucherReversed flips the voucher status after its journal has been reversed.
	MarkVoucherReversed(ctx context.Context, voucherID string, updatedBy string, updatedAt time.Time) error
}

// VoucherPoster persists a voucher together with its derived journal.
//
// Implementations differ in atomicity: the atomic poster commits the voucher
// row, the journal, its lines and the balance updates in one database
// transaction. The composite poster posts the journal and inserts the voucher
// row as separate operations; a failure between the two steps leaves a posted
// journal without its voucher, and the caller's replay finishes the voucher
// insert through SaveVoucher instead of posting the journal again.
type VoucherPoster interface {
	PostVoucher(ctx context.Context, voucher domain.Voucher, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) error
}

// VoucherRepositoryFacade combines all voucher repository interfaces.
type VoucherRepositoryFacade interface {
	VoucherReader
	VoucherWriter
	VoucherPoster
}
