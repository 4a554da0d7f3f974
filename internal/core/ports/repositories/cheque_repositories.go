package repositories

import (
	"context"

	"github.com/egledger/treasury_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ChequeReader defines read operations for cheque data.
type ChequeReader interface {
	FindChequeByID(ctx context.Context, chequeID string) (*domain.Cheque, error)

	ListCheques(ctx context.Context, direction *domain.ChequeDirection, limit int, nextToken *string) ([]domain.Cheque, *string, error)
}

// ChequeWriter defines write operations for cheque data. Both methods post the
// accompanying journal in the same database transaction as the cheque change.
type ChequeWriter interface {
	// SaveChequeWithJournal registers a cheque and its registration posting atomically.
	SaveChequeWithJournal(ctx context.Context, cheque domain.Cheque, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) error

	// TransitionCheque moves a cheque from expectedStatus to the target status
	// carried on cheque, posting the journal atomically. The status update is
	// conditioned on expectedStatus still holding; a concurrent change
	// surfaces as apperrors.ErrTransitionConflict and nothing is written.
	TransitionCheque(ctx context.Context, cheque domain.Cheque, expectedStatus domain.ChequeStatus, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) error
}

// ChequeRepositoryFacade combines cheque reader and writer.
type ChequeRepositoryFacade interface {
	ChequeReader
	ChequeWriter
}
