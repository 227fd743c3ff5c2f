package domain

// Role enumerates the roles a caller may act under.
type Role string

const (
	RoleSecretary      Role = "SECRETARY"
	RoleDeputyDirector Role = "DEPUTY_DIRECTOR"
	RoleDirector       Role = "DIRECTOR"
	RoleAdmin          Role = "ADMIN"
	RoleTechnician     Role = "TECHNICIAN"
	RoleRequester      Role = "REQUESTER"
)

// StaffRoles are the roles allowed to drive the ticket workflow.
var StaffRoles = []Role{RoleSecretary, RoleDeputyDirector, RoleDirector, RoleAdmin}

// IsStaff reports whether r is one of the workflow staff roles.
func (r Role) IsStaff() bool {
	for _, staff := range StaffRoles {
		if staff == r {
			return true
		}
	}
	return false
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r.IsStaff() || r == RoleTechnician || r == RoleRequester
}

// Actor identifies who is requesting a transition.
type Actor struct {
	ID   string
	Role Role
}
