package repositories

import (
	"context"

	"github.com/egledger/treasury_backend/internal/core/domain"
)

// AccountReader defines read operations over the chart of accounts.
type AccountReader interface {
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountsByIDs returns the accounts keyed by ID. Missing IDs are
	// simply absent from the map; callers decide whether that is an error.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriter defines write operations over the chart of accounts.
type AccountWriter interface {
	SaveAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines account reader and writer.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
