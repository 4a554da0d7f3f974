package models

// Attachment represents a row of the attachments table.
type Attachment struct {
	AttachmentID string `db:"attachment_id"`
	OwnerType    string `db:"owner_type"`
	OwnerID      string `db:"owner_id"`
	FilePath     string `db:"file_path"`
	FileName     string `db:"file_name"`
	FileType     string `db:"file_type"`
	FileSize     int64  `db:"file_size"`
	AuditFields
}
