package models

// Party represents a row of the parties table.
type Party struct {
	PartyID   string `db:"party_id"`
	PartyType string `db:"party_type"`
	Name      string `db:"name"`
	Phone     string `db:"phone"`
	AuditFields
}
