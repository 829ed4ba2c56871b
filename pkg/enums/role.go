package enums

type UserRole string

const (
	RoleManager    UserRole = "Manager"
	RoleSupervisor UserRole = "Supervisor"
	RoleEmployee   UserRole = "Employee"
)

func UserRoles() []UserRole {
	return []UserRole{RoleManager, RoleSupervisor, RoleEmployee}
}

func (r UserRole) Valid() bool {
	switch r {
	case RoleManager, RoleSupervisor, RoleEmployee:
		return true
	}
	return false
}

func (r UserRole) String() string { return string(r) }

// AtLeast reports whether r carries the privileges of required.
// Manager > Supervisor > Employee.
func (r UserRole) AtLeast(required UserRole) bool {
	return r.rank() >= required.rank()
}

func (r UserRole) rank() int {
	switch r {
	case RoleManager:
		return 3
	case RoleSupervisor:
		return 2
	case RoleEmployee:
		return 1
	}
	return 0
}
