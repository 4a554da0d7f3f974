package repositories

import (
	"context"

	"github.com/egledger/treasury_backend/internal/core/domain"
)

// PartyReader defines the read-only party lookups the engine needs. Party
// management itself belongs to the surrounding system.
type PartyReader interface {
	FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error)
}
