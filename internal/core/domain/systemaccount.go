package domain

// SystemAccountRole names a fixed accounting role that must resolve to a
// concrete account before any posting that depends on it.
type SystemAccountRole string

const (
	RoleCash             SystemAccountRole = "CASH"
	RoleCustomers        SystemAccountRole = "CUSTOMERS"
	RoleSuppliers        SystemAccountRole = "SUPPLIERS"
	RoleNotesReceivable  SystemAccountRole = "NOTES_RECEIVABLE"
	RoleNotesPayable     SystemAccountRole = "NOTES_PAYABLE"
	RoleCustomerDeposits SystemAccountRole = "CUSTOMER_DEPOSITS"
	RoleOtherRevenue     SystemAccountRole = "OTHER_REVENUE"
	RoleGeneralExpenses  SystemAccountRole = "GENERAL_EXPENSES"
)

// KnownSystemAccountRoles lists every role the engine can resolve.
var KnownSystemAccountRoles = []SystemAccountRole{
	RoleCash,
	RoleCustomers,
	RoleSuppliers,
	RoleNotesReceivable,
	RoleNotesPayable,
	RoleCustomerDeposits,
	RoleOtherRevenue,
	RoleGeneralExpenses,
}

// IsKnownSystemAccountRole reports whether role is one the engine understands.
func IsKnownSystemAccountRole(role SystemAccountRole) bool {
	for _, r := range KnownSystemAccountRoles {
		if r == role {
			return true
		}
	}
	return false
}

// SystemAccountMapping binds a role to an account in the chart.
type SystemAccountMapping struct {
	Role      SystemAccountRole `json:"role"`
	AccountID string            `json:"accountID"`
	AuditFields
}
