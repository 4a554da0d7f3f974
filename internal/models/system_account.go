package models

// SystemAccountMapping represents a row of the system_account_mappings table.
type SystemAccountMapping struct {
	Role      string `db:"role"`
	AccountID string `db:"account_id"`
	AuditFields
}
