package mapping

import (
	"github.com/egledger/treasury_backend/internal/core/domain"
	"github.com/egledger/treasury_backend/internal/models"
)

// ToModelAttachment converts a domain Attachment to a model Attachment
func ToModelAttachment(d domain.Attachment) models.Attachment {
	return models.Attachment{
		AttachmentID: d.AttachmentID,
		OwnerType:    string(d.OwnerType),
		OwnerID:      d.OwnerID,
		FilePath:     d.FilePath,
		FileName:     d.FileName,
		FileType:     d.FileType,
		FileSize:     d.FileSize,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAttachment converts a model Attachment to a domain Attachment
func ToDomainAttachment(m models.Attachment) domain.Attachment {
	return domain.Attachment{
		AttachmentID: m.AttachmentID,
		OwnerType:    domain.AttachmentOwner(m.OwnerType),
		OwnerID:      m.OwnerID,
		FilePath:     m.FilePath,
		FileName:     m.FileName,
		FileType:     m.FileType,
		FileSize:     m.FileSize,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAttachmentSlice converts a slice of model Attachments to domain Attachments
func ToDomainAttachmentSlice(ms []models.Attachment) []domain.Attachment {
	ds := make([]domain.Attachment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAttachment(m)
	}
	return ds
}
