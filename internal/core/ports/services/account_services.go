package services

import (
	"context"

	"github.com/egledger/treasury_backend/internal/core/domain"
	"github.com/egledger/treasury_backend/internal/dto"
)

// AccountSvcFacade exposes the chart of accounts to handlers and sibling services.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	GetAccountByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// ListTreasuryAccounts returns the cash/bank-eligible subset of the chart,
	// classified by the shared treasury rule.
	ListTreasuryAccounts(ctx context.Context) ([]domain.Account, error)
}

// SystemAccountSvcFacade resolves semantic accounting roles to accounts.
type SystemAccountSvcFacade interface {
	// Resolve returns the account fulfilling role. Unmapped roles fail with
	// apperrors.ErrSystemAccountNotConfigured and issue no writes.
	Resolve(ctx context.Context, role domain.SystemAccountRole) (*domain.Account, error)

	// SetMapping binds role to an existing account.
	SetMapping(ctx context.Context, role domain.SystemAccountRole, accountID string, userID string) error
}
