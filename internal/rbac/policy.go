package rbac

const (
	RoleAdmin    = "ROLE_ADMIN"
	RoleManager  = "ROLE_MANAGER"
	RoleEmployee = "ROLE_EMPLOYEE"
)

type rolePolicy struct {
	Role     string
	Resource string
	Action   string
}

// rolePolicies is the closed permission table. Admins manage every
// entity, managers approve timesheets and read billing, employees work
// their own timesheets.
var rolePolicies = []rolePolicy{
	{RoleAdmin, "users", "read"},
	{RoleAdmin, "users", "write"},
	{RoleAdmin, "clients", "read"},
	{RoleAdmin, "clients", "write"},
	{RoleAdmin, "projects", "read"},
	{RoleAdmin, "projects", "write"},
	{RoleAdmin, "timesheets", "read"},
	{RoleAdmin, "timesheets", "write"},
	{RoleAdmin, "timesheets", "approve"},
	{RoleAdmin, "invoices", "read"},
	{RoleAdmin, "invoices", "write"},

	{RoleManager, "users", "read"},
	{RoleManager, "clients", "read"},
	{RoleManager, "projects", "read"},
	{RoleManager, "timesheets", "read"},
	{RoleManager, "timesheets", "write"},
	{RoleManager, "timesheets", "approve"},
	{RoleManager, "invoices", "read"},

	{RoleEmployee, "projects", "read"},
	{RoleEmployee, "timesheets", "read"},
	{RoleEmployee, "timesheets", "write"},
}
