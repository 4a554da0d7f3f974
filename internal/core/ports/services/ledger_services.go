package services

import (
	"context"

	"github.com/egledger/treasury_backend/internal/core/domain"
	"github.com/egledger/treasury_backend/internal/dto"
)

// LedgerSvcFacade validates and posts journal entries and drives reversals.
type LedgerSvcFacade interface {
	// ValidateAndPost validates the entry and, if acceptable, persists it as
	// POSTED together with its balance effects. Unbalanced entries fail with
	// apperrors.ErrUnbalancedEntry.
	ValidateAndPost(ctx context.Context, req dto.CreateJournalRequest, creatorUserID string) (*domain.Journal, error)

	GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)

	// ReverseEntry creates and posts the reversing journal for a posted entry
	// and links the pair. Posted journals are never mutated in place.
	ReverseEntry(ctx context.Context, journalID string, userID string) (*domain.Journal, error)
}
