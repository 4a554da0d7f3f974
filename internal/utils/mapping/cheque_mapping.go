package mapping

import (
	"github.com/egledger/treasury_backend/internal/core/domain"
	"github.com/egledger/treasury_backend/internal/models"
)

// ToModelCheque converts a domain Cheque to a model Cheque
func ToModelCheque(d domain.Cheque) models.Cheque {
	m := models.Cheque{
		ChequeID:     d.ChequeID,
		ChequeNumber: d.ChequeNumber,
		Direction:    string(d.Direction),
		Amount:       d.Amount,
		DueDate:      d.DueDate,
		PartyID:      d.PartyID,
		PartyName:    d.PartyName,
		BankName:     d.BankName,
		Status:       string(d.Status),
		Notes:        d.Notes,
		JournalID:    d.JournalID,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
	if d.Transfer != nil {
		m.TransferAccountNumber = &d.Transfer.DestinationAccountNumber
		m.TransferBankName = &d.Transfer.DestinationBankName
		m.TransferDate = &d.Transfer.TransferDate
	}
	return m
}

// ToDomainCheque converts a model Cheque to a domain Cheque
func ToDomainCheque(m models.Cheque) domain.Cheque {
	d := domain.Cheque{
		ChequeID:     m.ChequeID,
		ChequeNumber: m.ChequeNumber,
		Direction:    domain.ChequeDirection(m.Direction),
		Amount:       m.Amount,
		DueDate:      m.DueDate,
		PartyID:      m.PartyID,
		PartyName:    m.PartyName,
		BankName:     m.BankName,
		Status:       domain.ChequeStatus(m.Status),
		Notes:        m.Notes,
		JournalID:    m.JournalID,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
	if m.TransferAccountNumber != nil && m.TransferBankName != nil && m.TransferDate != nil {
		d.Transfer = &domain.TransferDetails{
			DestinationAccountNumber: *m.TransferAccountNumber,
			DestinationBankName:      *m.TransferBankName,
			TransferDate:             *m.TransferDate,
		}
	}
	return d
}

// ToDomainChequeSlice converts a slice of model Cheques to domain Cheques
func ToDomainChequeSlice(ms []models.Cheque) []domain.Cheque {
	ds := make([]domain.Cheque, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCheque(m)
	}
	return ds
}
