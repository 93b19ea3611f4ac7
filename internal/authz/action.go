package authz

import "strings"

// Action names a verb a subject wants to perform on a resource type.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionExport Action = "export"
	ActionManage Action = "manage"
)

// Permission is an allowed action on a resource type in "resource:action"
// form, the format the permissions table stores (e.g. "projects:read").
type Permission string

func NewPermission(resourceType string, action Action) Permission {
	return Permission(resourceType + ":" + string(action))
}

// Parse splits a permission into resource type and action.
func (p Permission) Parse() (resourceType string, action Action) {
	parts := strings.SplitN(string(p), ":", 2)
	if len(parts) != 2 {
		return "", ""
	}
	return parts[0], Action(parts[1])
}

const (
	wildcard                       = "*"
	PermissionSuperAdmin Permission = "*:*"
)

// Matches reports whether this permission covers the requested one.
// "*:*" matches everything, "projects:*" matches every project action.
func (p Permission) Matches(requested Permission) bool {
	if p == PermissionSuperAdmin || p == requested {
		return true
	}
	res, act := p.Parse()
	reqRes, _ := requested.Parse()
	return res == reqRes && string(act) == wildcard
}
