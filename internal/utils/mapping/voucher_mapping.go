package mapping

import (
	"github.com/egledger/treasury_backend/internal/core/domain"
	"github.com/egledger/treasury_backend/internal/models"
)

// ToModelVoucher converts a domain Voucher to a model Voucher
func ToModelVoucher(d domain.Voucher) models.Voucher {
	return models.Voucher{
		VoucherID:         d.VoucherID,
		VoucherNumber:     d.VoucherNumber,
		VoucherType:       string(d.VoucherType),
		SubType:           string(d.SubType),
		VoucherDate:       d.VoucherDate,
		Amount:            d.Amount,
		CurrencyCode:      d.CurrencyCode,
		ExchangeRate:      d.ExchangeRate,
		TreasuryAccountID: d.TreasuryAccountID,
		PartyID:           d.PartyID,
		TargetAccountID:   d.TargetAccountID,
		PaymentMethod:     string(d.PaymentMethod),
		Notes:             d.Notes,
		JournalID:         d.JournalID,
		Status:            string(d.Status),
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainVoucher converts a model Voucher to a domain Voucher
func ToDomainVoucher(m models.Voucher) domain.Voucher {
	return domain.Voucher{
		VoucherID:         m.VoucherID,
		VoucherNumber:     m.VoucherNumber,
		VoucherType:       domain.VoucherType(m.VoucherType),
		SubType:           domain.VoucherSubType(m.SubType),
		VoucherDate:       m.VoucherDate,
		Amount:            m.Amount,
		CurrencyCode:      m.CurrencyCode,
		ExchangeRate:      m.ExchangeRate,
		TreasuryAccountID: m.TreasuryAccountID,
		PartyID:           m.PartyID,
		TargetAccountID:   m.TargetAccountID,
		PaymentMethod:     domain.PaymentMethod(m.PaymentMethod),
		Notes:             m.Notes,
		JournalID:         m.JournalID,
		Status:            domain.VoucherStatus(m.Status),
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainVoucherSlice converts a slice of model Vouchers to domain Vouchers
func ToDomainVoucherSlice(ms []models.Voucher) []domain.Voucher {
	ds := make([]domain.Voucher, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainVoucher(m)
	}
	return ds
}
