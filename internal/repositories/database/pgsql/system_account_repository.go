package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/egledger/treasury_backend/internal/apperrors"
	"github.com/egledger/treasury_backend/internal/core/domain"
	portsrepo "github.com/egledger/treasury_backend/internal/core/ports/repositories"
	"github.com/egledger/treasury_backend/internal/models"
)

type PgxSystemAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxSystemAccountRepository creates a new repository for system account mappings.
func newPgxSystemAccountRepository(pool *pgxpool.Pool) *PgxSystemAccountRepository {
	return &PgxSystemAccountRepository{pool: pool}
}

var _ portsrepo.SystemAccountRepositoryFacade = (*PgxSystemAccountRepository)(nil)

// FindMapping returns the configured mapping for role.
func (r *PgxSystemAccountRepository) FindMapping(ctx context.Context, role domain.SystemAccountRole) (*domain.SystemAccountMapping, error) {
	query := `
		SELECT role, account_id, created_at, created_by, last_updated_at, last_updated_by
		FROM system_account_mappings
		WHERE role = $1;
	`
	var m models.SystemAccountMapping
	err := r.pool.QueryRow(ctx, query, string(role)).Scan(
		&m.Role,
		&m.AccountID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find system account mapping for role "+string(role), err)
	}
	return &domain.SystemAccountMapping{
		Role:      domain.SystemAccountRole(m.Role),
		AccountID: m.AccountID,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}, nil
}

// SaveMapping inserts or replaces the mapping for a role.
func (r *PgxSystemAccountRepository) SaveMapping(ctx context.Context, mapping domain.SystemAccountMapping) error {
	query := `
		INSERT INTO system_account_mappings (role, account_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (role) DO UPDATE
		SET account_id = EXCLUDED.account_id,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.pool.Exec(ctx, query,
		string(mapping.Role),
		mapping.AccountID,
		mapping.CreatedAt,
		mapping.CreatedBy,
		mapping.LastUpdatedAt,
		mapping.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save system account mapping for role "+string(mapping.Role), err)
	}
	return nil
}
