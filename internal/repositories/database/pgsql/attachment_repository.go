package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/egledger/treasury_backend/internal/apperrors"
	"github.com/egledger/treasury_backend/internal/core/domain"
	portsrepo "github.com/egledger/treasury_backend/internal/core/ports/repositories"
	"github.com/egledger/treasury_backend/internal/models"
	"github.com/egledger/treasury_backend/internal/utils/mapping"
)

type PgxAttachmentRepository struct {
	pool *pgxpool.Pool
}

// newPgxAttachmentRepository creates a new repository for attachment metadata.
func newPgxAttachmentRepository(pool *pgxpool.Pool) *PgxAttachmentRepository {
	return &PgxAttachmentRepository{pool: pool}
}

var _ portsrepo.AttachmentRepository = (*PgxAttachmentRepository)(nil)

// SaveAttachment inserts one attachment metadata row. Runs outside any
// financial transaction on purpose.
func (r *PgxAttachmentRepository) SaveAttachment(ctx context.Context, attachment domain.Attachment) error {
	m := mapping.ToModelAttachment(attachment)
	query := `
		INSERT INTO attachments (attachment_id, owner_type, owner_id, file_path, file_name, file_type, file_size, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.pool.Exec(ctx, query,
		m.AttachmentID,
		m.OwnerType,
		m.OwnerID,
		m.FilePath,
		m.FileName,
		m.FileType,
		m.FileSize,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save attachment "+m.AttachmentID, err)
	}
	return nil
}

// ListAttachmentsByOwner returns the attachments of one financial record.
func (r *PgxAttachmentRepository) ListAttachmentsByOwner(ctx context.Context, ownerType domain.AttachmentOwner, ownerID string) ([]domain.Attachment, error) {
	query := `
		SELECT attachment_id, owner_type, owner_id, file_path, file_name, file_type, file_size, created_at, created_by, last_updated_at, last_updated_by
		FROM attachments
		WHERE owner_type = $1 AND owner_id = $2
		ORDER BY created_at;
	`
	rows, err := r.pool.Query(ctx, query, string(ownerType), ownerID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query attachments", err)
	}
	defer rows.Close()

	attachments := []models.Attachment{}
	for rows.Next() {
		var m models.Attachment
		err := rows.Scan(
			&m.AttachmentID,
			&m.OwnerType,
			&m.OwnerID,
			&m.FilePath,
			&m.FileName,
			&m.FileType,
			&m.FileSize,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan attachment row", err)
		}
		attachments = append(attachments, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating attachment rows", err)
	}
	return mapping.ToDomainAttachmentSlice(attachments), nil
}
