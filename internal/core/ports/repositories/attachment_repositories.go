package repositories

import (
	"context"

	"github.com/egledger/treasury_backend/internal/core/domain"
)

// AttachmentRepository stores attachment metadata rows. Saving an attachment
// is deliberately independent of the financial record it belongs to: a failed
// attachment insert never rolls back a committed voucher, cheque or journal.
type AttachmentRepository interface {
	SaveAttachment(ctx context.Context, attachment domain.Attachment) error

	ListAttachmentsByOwner(ctx context.Context, ownerType domain.AttachmentOwner, ownerID string) ([]domain.Attachment, error)
}
