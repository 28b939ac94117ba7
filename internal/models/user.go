// internal/models/user.go
package models

// Role is the single group a user belongs to. The legacy data model allowed
// multiple group memberships with first-wins resolution; here the role is a
// single enumerated field resolved at registration or role-change time.
type Role string

const (
	RoleStudent Role = "Etudiant"
	RoleCompany Role = "Entreprise"
	RoleManager Role = "Responsable"
	RoleAdmin   Role = "Administrateur"
)

// ValidRole reports whether r is one of the four known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleStudent, RoleCompany, RoleManager, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Role        Role   `json:"role"`
	IsStaff     bool   `json:"isStaff"`
	IsSuperuser bool   `json:"isSuperuser"`
	CreatedAt   string `json:"createdAt"`
}

// HasRole reports whether the user holds the given role. Superusers pass
// every role check.
func (u *User) HasRole(r Role) bool {
	if u == nil {
		return false
	}
	return u.IsSuperuser || u.Role == r
}

// IsStaffLike reports whether the user may act on behalf of the platform
// (manager or admin duties).
func (u *User) IsStaffLike() bool {
	if u == nil {
		return false
	}
	return u.IsSuperuser || u.Role == RoleManager || u.Role == RoleAdmin
}
