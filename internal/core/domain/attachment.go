package domain

// AttachmentOwner is the kind of financial record an attachment belongs to.
type AttachmentOwner string

const (
	OwnerJournal AttachmentOwner = "JOURNAL"
	OwnerVoucher AttachmentOwner = "VOUCHER"
	OwnerCheque  AttachmentOwner = "CHEQUE"
)

// Attachment is an opaque reference to a stored document. Upload and download
// happen in the blob store collaborator; the engine only records metadata and
// never fails a committed financial record over an attachment.
type Attachment struct {
	AttachmentID string          `json:"attachmentID"`
	OwnerType    AttachmentOwner `json:"ownerType"`
	OwnerID      string          `json:"ownerID"`
	FilePath     string          `json:"filePath"`
	FileName     string          `json:"fileName"`
	FileType     string          `json:"fileType"`
	FileSize     int64           `json:"fileSize"`
	AuditFields
}
