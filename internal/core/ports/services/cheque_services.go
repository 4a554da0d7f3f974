package services

import (
	"context"

	"github.com/egledger/treasury_backend/internal/core/domain"
	"github.com/egledger/treasury_backend/internal/dto"
)

// ChequeSvcFacade registers cheques and drives their lifecycle transitions.
type ChequeSvcFacade interface {
	// CreateCheque registers the instrument in its initial status and posts
	// the registration journal.
	CreateCheque(ctx context.Context, req dto.CreateChequeRequest, creatorUserID string) (*domain.Cheque, []dto.AttachmentFailure, error)

	GetChequeByID(ctx context.Context, chequeID string) (*domain.Cheque, error)

	ListCheques(ctx context.Context, params dto.ListChequesParams) (*dto.ListChequesResponse, error)

	// TransitionCheque moves the cheque to the target status, posting exactly
	// one balanced journal atomically with the status change. Transitions out
	// of terminal states fail with apperrors.ErrInvalidTransition.
	TransitionCheque(ctx context.Context, chequeID string, req dto.ChequeTransitionRequest, userID string) (*domain.Cheque, error)
}
