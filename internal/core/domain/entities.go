package domain

// Role represents user role in the system
type Role string

const (
	RoleUser    Role = "USER"
	RoleOfficer Role = "OFFICER"
	RoleAdmin   Role = "ADMIN"
)

// Gate represents a physical entry point of the facility
type Gate string

const (
	GateMain  Gate = "MAIN"
	GateNorth Gate = "NORTH"
	GateSouth Gate = "SOUTH"
)

// IsValidGate reports whether g is a known gate
func IsValidGate(g string) bool {
	switch Gate(g) {
	case GateMain, GateNorth, GateSouth:
		return true
	}
	return false
}

// Session statuses
const (
	SessionActive  = "ACTIVE"
	SessionSettled = "SETTLED"
)

// Seed rate categories - always present, never deletable
const (
	CategoryAssociate    = "associate"
	CategoryNonAssociate = "non_associate"
)

// IsProtectedCategory reports whether a rate category is one of the seed categories
func IsProtectedCategory(category string) bool {
	return category == CategoryAssociate || category == CategoryNonAssociate
}
