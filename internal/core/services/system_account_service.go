package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/egledger/treasury_backend/internal/apperrors"
	"github.com/egledger/treasury_backend/internal/core/domain"
	portsrepo "github.com/egledger/treasury_backend/internal/core/ports/repositories"
	portssvc "github.com/egledger/treasury_backend/internal/core/ports/services"
	"github.com/egledger/treasury_backend/internal/middleware"
	"github.com/egledger/treasury_backend/internal/platform/config"
)

// systemAccountService resolves semantic accounting roles to concrete
// accounts: an explicit mapping row wins, otherwise the configured default
// chart code is looked up. Resolution is read-only; callers depend on that to
// abort before issuing any write when a role is unconfigured.
type systemAccountService struct {
	mappingRepo  portsrepo.SystemAccountRepositoryFacade
	accountRepo  portsrepo.AccountReader
	defaultCodes map[string]string
}

// NewSystemAccountService creates a new system account resolver.
func NewSystemAccountService(mappingRepo portsrepo.SystemAccountRepositoryFacade, accountRepo portsrepo.AccountReader, cfg *config.Config) portssvc.SystemAccountSvcFacade {
	return &systemAccountService{
		mappingRepo:  mappingRepo,
		accountRepo:  accountRepo,
		defaultCodes: cfg.SystemAccountDefaults,
	}
}

var _ portssvc.SystemAccountSvcFacade = (*systemAccountService)(nil)

// Resolve implements portssvc.SystemAccountSvcFacade.
func (s *systemAccountService) Resolve(ctx context.Context, role domain.SystemAccountRole) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !domain.IsKnownSystemAccountRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrSystemAccountNotConfigured, role)
	}

	mapping, err := s.mappingRepo.FindMapping(ctx, role)
	if err == nil {
		account, err := s.accountRepo.FindAccountByID(ctx, mapping.AccountID)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to load mapped account for role %s: %w", role, err)
		}
		// Mapping points at a deleted/missing account; fall through to the
		// default code rather than silently picking something else.
		logger.Warn("System account mapping references a missing account",
			slog.String("role", string(role)), slog.String("account_id", mapping.AccountID))
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to read system account mapping for role %s: %w", role, err)
	}

	code, ok := s.defaultCodes[string(role)]
	if !ok || code == "" {
		return nil, fmt.Errorf("%w: role %s has no mapping and no default code", apperrors.ErrSystemAccountNotConfigured, role)
	}

	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: role %s default account %s is not in the chart", apperrors.ErrSystemAccountNotConfigured, role, code)
		}
		return nil, fmt.Errorf("failed to load default account %s for role %s: %w", code, role, err)
	}
	return account, nil
}

// SetMapping implements portssvc.SystemAccountSvcFacade.
func (s *systemAccountService) SetMapping(ctx context.Context, role domain.SystemAccountRole, accountID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !domain.IsKnownSystemAccountRole(role) {
		return fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, role)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("cannot map role %s: %w", role, err)
	}
	if account.IsGroup {
		return fmt.Errorf("%w: role %s cannot map to group account %s", apperrors.ErrValidation, role, account.Code)
	}

	now := time.Now().UTC()
	mapping := domain.SystemAccountMapping{
		Role:      role,
		AccountID: accountID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.mappingRepo.SaveMapping(ctx, mapping); err != nil {
		logger.Error("Failed to save system account mapping", slog.String("role", string(role)), slog.String("error", err.Error()))
		return fmt.Errorf("failed to save system account mapping: %w", err)
	}

	logger.Info("System account mapping updated", slog.String("role", string(role)), slog.String("account_id", accountID))
	return nil
}
