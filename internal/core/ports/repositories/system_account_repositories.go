package repositories

import (
	"context"

	"github.com/egledger/treasury_backend/internal/core/domain"
)

// SystemAccountReader reads role-to-account mappings.
type SystemAccountReader interface {
	// FindMapping returns the configured mapping for role, or
	// apperrors.ErrNotFound when none exists.
	FindMapping(ctx context.Context, role domain.SystemAccountRole) (*domain.SystemAccountMapping, error)
}

// SystemAccountWriter persists role-to-account mappings.
type SystemAccountWriter interface {
	SaveMapping(ctx context.Context, mapping domain.SystemAccountMapping) error
}

// SystemAccountRepositoryFacade combines mapping reader and writer.
type SystemAccountRepositoryFacade interface {
	SystemAccountReader
	SystemAccountWriter
}
