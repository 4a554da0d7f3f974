package domain

// PartyType distinguishes the two counterparty kinds the engine deals with.
type PartyType string

const (
	Customer PartyType = "CUSTOMER"
	Supplier PartyType = "SUPPLIER"
)

// Party is a customer or supplier counterparty. The core consumes only the
// name (journal descriptions) and phone (handed to the outbound messaging
// collaborator); everything else about parties lives outside the engine.
type Party struct {
	PartyID   string    `json:"partyID"`
	PartyType PartyType `json:"partyType"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	AuditFields
}
