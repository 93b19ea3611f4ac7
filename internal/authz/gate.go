// Package authz is the single authorization checkpoint for every service.
// A Gate holds one Policy per resource type; services call Authorize with
// the caller id, the action and the resource (nil for collection-level
// actions such as create, list or export). Admins bypass policies; everyone
// else is decided by the resource's policy against the resolved subject.
package authz

import (
	"context"
	"errors"
)

var (
	ErrUnauthorized    = errors.New("subject is not allowed to perform this action")
	ErrSubjectNotFound = errors.New("subject does not exist")
	ErrNoPolicyDefined = errors.New("no policy registered for resource type")
)

// Policy decides whether a subject can perform an action on a resource.
// resource is nil for collection-scoped actions.
type Policy interface {
	Can(ctx context.Context, subject *Subject, action Action, resource any) bool
}

// PolicyFunc adapts a function to the Policy interface.
type PolicyFunc func(ctx context.Context, subject *Subject, action Action, resource any) bool

func (f PolicyFunc) Can(ctx context.Context, subject *Subject, action Action, resource any) bool {
	return f(ctx, subject, action, resource)
}

// Authorizer is the interface services depend on.
type Authorizer interface {
	// Authorize returns nil when allowed, ErrUnauthorized when denied.
	Authorize(ctx context.Context, userID string, action Action, resourceType string, resource any) error
	// IsAdmin reports whether the user holds the administrator role.
	IsAdmin(ctx context.Context, userID string) (bool, error)
	// Resolve exposes the underlying subject lookup.
	Resolve(ctx context.Context, userID string) (*Subject, error)
	// Invalidate drops a cached subject after a role-affecting mutation.
	Invalidate(ctx context.Context, userID string)
}

// Gate is the central policy registry.
type Gate struct {
	resolver SubjectResolver
	policies map[string]Policy
}

func NewGate(resolver SubjectResolver) *Gate {
	return &Gate{
		resolver: resolver,
		policies: make(map[string]Policy),
	}
}

// Register adds a policy for a resource type, replacing any existing one.
func (g *Gate) Register(resourceType string, p Policy) {
	g.policies[resourceType] = p
}

func (g *Gate) Authorize(ctx context.Context, userID string, action Action, resourceType string, resource any) error {
	if userID == "" {
		return ErrUnauthorized
	}

	subject, err := g.resolver.Resolve(ctx, userID)
	if err != nil {
		return err
	}

	if subject.IsAdmin() {
		return nil
	}

	policy, ok := g.policies[resourceType]
	if !ok {
		return ErrNoPolicyDefined
	}
	if !policy.Can(ctx, subject, action, resource) {
		return ErrUnauthorized
	}
	return nil
}

func (g *Gate) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	subject, err := g.resolver.Resolve(ctx, userID)
	if err != nil {
		return false, err
	}
	return subject.IsAdmin(), nil
}

func (g *Gate) Resolve(ctx context.Context, userID string) (*Subject, error) {
	return g.resolver.Resolve(ctx, userID)
}

func (g *Gate) Invalidate(ctx context.Context, userID string) {
	g.resolver.Invalidate(ctx, userID)
}
