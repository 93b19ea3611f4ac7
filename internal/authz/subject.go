package authz

import "strings"

// Subject is the resolved identity an authorization decision runs against:
// the user id, its role name, and the permission grants attached to that
// role through the role_permissions table.
type Subject struct {
	UserID      string       `json:"user_id"`
	Role        string       `json:"role"`
	Permissions []Permission `json:"permissions"`
}

// IsAdmin matches the administrator role by name, case-insensitively.
// Legacy rows use both "ADMIN" and the Spanish "administrador".
func (s *Subject) IsAdmin() bool {
	role := strings.ToLower(s.Role)
	return role == "admin" || role == "administrador"
}

// HasPermission reports whether any grant covers the requested permission.
func (s *Subject) HasPermission(requested Permission) bool {
	for _, p := range s.Permissions {
		if p.Matches(requested) {
			return true
		}
	}
	return false
}

// Ownable is implemented by resources that carry a creator reference.
type Ownable interface {
	OwnerID() string
}

// Owns reports whether the subject is the resource's creator of record.
func (s *Subject) Owns(resource Ownable) bool {
	owner := resource.OwnerID()
	return owner != "" && owner == s.UserID
}
