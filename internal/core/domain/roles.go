package domain

// Ordered role list, used by the role-card login page and validation
var AllRoles = []Role{
	RoleAdmin,
	RoleManager,
	RoleHR,
	RoleFinance,
	RoleEmployee,
	RoleSales,
	RoleTech,
}

var roleDepartments = map[Role]string{
	RoleAdmin:    "Administration",
	RoleManager:  "Administration",
	RoleHR:       "Human Resources",
	RoleFinance:  "Finance",
	RoleEmployee: "Technology",
	RoleSales:    "Sales",
	RoleTech:     "Technology",
}

var roleDisplayNames = map[Role]string{
	RoleAdmin:    "System Administrator",
	RoleManager:  "Department Manager",
	RoleEmployee: "Staff Member",
	RoleHR:       "HR Specialist",
	RoleFinance:  "Finance Officer",
	RoleSales:    "Sales Representative",
	RoleTech:     "Engineer",
}

// DepartmentForRole returns the default department for a role
func DepartmentForRole(role Role) string {
	if dept, ok := roleDepartments[role]; ok {
		return dept
	}
	return "General"
}

// DisplayNameForRole returns the human-readable name for a role
func DisplayNameForRole(role Role) string {
	if name, ok := roleDisplayNames[role]; ok {
		return name
	}
	return string(role)
}

// IsValidRole reports whether the role is one of the known roles
func IsValidRole(role Role) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Process category keys and their display names.
// CategoryOther is the sentinel bucket for processes without a category;
// SubcategoryDefault is the sentinel for processes without a subcategory.
const (
	CategoryOther      = "other"
	SubcategoryDefault = "default"
)

var categoryNames = map[string]string{
	"hr":        "HR & Administration",
	"finance":   "Finance",
	"sales":     "Sales",
	"tech":      "Engineering",
	"operation": "Operations",
	"other":     "Other",
}

// CategoryName returns the display name for a category key
func CategoryName(category string) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return category
}
