package authz

import "context"

// Resource type names registered with the gate. They match the prefix of
// the seeded permission names ("projects:read", "users:create", ...).
const (
	ResourceProject = "projects"
	ResourceSkill   = "skills"
	ResourceUser    = "users"
	ResourceCareer  = "careers"
	ResourcePeriod  = "periods"
	ResourceRole    = "roles"
)

// OwnershipPolicy is the default policy for creator-owned content
// (projects, skills): any authenticated subject may read or create;
// mutating an existing resource requires being its creator of record.
// Admin bypass happens in the gate before policies run.
type OwnershipPolicy struct{}

func NewOwnershipPolicy() *OwnershipPolicy {
	return &OwnershipPolicy{}
}

func (p *OwnershipPolicy) Can(_ context.Context, subject *Subject, action Action, resource any) bool {
	switch action {
	case ActionRead, ActionCreate:
		return true
	case ActionExport, ActionManage:
		// Reserved for administrators.
		return false
	}

	if resource == nil {
		return false
	}
	ownable, ok := resource.(Ownable)
	if !ok {
		// A resource without an ownership notion is denied by default so a
		// missing OwnerID implementation fails closed.
		return false
	}
	return subject.Owns(ownable)
}

// GrantPolicy decides purely from the role's permission grants. Used for
// the user collection, where the seeded roles differ: teachers hold
// "users:read" while readers do not.
type GrantPolicy struct {
	resourceType string
}

func NewGrantPolicy(resourceType string) *GrantPolicy {
	return &GrantPolicy{resourceType: resourceType}
}

func (p *GrantPolicy) Can(_ context.Context, subject *Subject, action Action, resource any) bool {
	if resource != nil {
		if ownable, ok := resource.(Ownable); ok && subject.Owns(ownable) {
			return true
		}
	}
	return subject.HasPermission(NewPermission(p.resourceType, action))
}

// ReferenceDataPolicy covers careers and periods: world-readable, mutations
// reserved for roles holding an explicit grant (in practice, admins via the
// gate bypass).
type ReferenceDataPolicy struct {
	resourceType string
}

func NewReferenceDataPolicy(resourceType string) *ReferenceDataPolicy {
	return &ReferenceDataPolicy{resourceType: resourceType}
}

func (p *ReferenceDataPolicy) Can(_ context.Context, subject *Subject, action Action, resource any) bool {
	if action == ActionRead {
		return true
	}
	return subject.HasPermission(NewPermission(p.resourceType, action))
}

// NewDefaultGate registers the standard policy set used by the services.
func NewDefaultGate(resolver SubjectResolver) *Gate {
	gate := NewGate(resolver)
	gate.Register(ResourceProject, NewOwnershipPolicy())
	gate.Register(ResourceSkill, NewOwnershipPolicy())
	gate.Register(ResourceUser, NewGrantPolicy(ResourceUser))
	gate.Register(ResourceCareer, NewReferenceDataPolicy(ResourceCareer))
	gate.Register(ResourcePeriod, NewReferenceDataPolicy(ResourcePeriod))
	return gate
}
