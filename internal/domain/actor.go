package domain

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// Actor is the authenticated caller of an orchestrator operation.
type Actor struct {
	AccountID string
	Role      Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Owns reports whether the actor may act on a purchase owned by accountID.
func (a Actor) Owns(accountID string) bool {
	return a.IsAdmin() || (a.AccountID != "" && a.AccountID == accountID)
}
