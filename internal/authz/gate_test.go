package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver serves subjects from a map, mirroring what the repository
// resolver would return.
type fakeResolver struct {
	subjects    map[string]*Subject
	invalidated []string
}

func (r *fakeResolver) Resolve(_ context.Context, userID string) (*Subject, error) {
	subject, ok := r.subjects[userID]
	if !ok {
		return nil, ErrSubjectNotFound
	}
	return subject, nil
}

func (r *fakeResolver) Invalidate(_ context.Context, userID string) {
	r.invalidated = append(r.invalidated, userID)
}

type ownedThing struct {
	owner string
}

func (o ownedThing) OwnerID() string { return o.owner }

func newFakeGate() (*Gate, *fakeResolver) {
	resolver := &fakeResolver{subjects: map[string]*Subject{
		"admin": {UserID: "admin", Role: "ADMIN"},
		"teacher": {
			UserID: "teacher",
			Role:   "TEACHER",
			Permissions: []Permission{
				"projects:create", "projects:read", "projects:update", "users:read",
			},
		},
		"reader": {UserID: "reader", Role: "USER", Permissions: []Permission{"projects:read"}},
	}}
	return NewDefaultGate(resolver), resolver
}

func TestGateAdminBypassesPolicies(t *testing.T) {
	gate, _ := newFakeGate()
	ctx := context.Background()

	assert.NoError(t, gate.Authorize(ctx, "admin", ActionExport, ResourceProject, nil))
	assert.NoError(t, gate.Authorize(ctx, "admin", ActionDelete, ResourceProject, ownedThing{owner: "someone-else"}))
	assert.NoError(t, gate.Authorize(ctx, "admin", ActionCreate, ResourceUser, nil))
}

func TestGateAdminMatchesLegacyRoleName(t *testing.T) {
	resolver := &fakeResolver{subjects: map[string]*Subject{
		"legacy": {UserID: "legacy", Role: "administrador"},
	}}
	gate := NewDefaultGate(resolver)

	assert.NoError(t, gate.Authorize(context.Background(), "legacy", ActionManage, ResourceProject, nil))

	isAdmin, err := gate.IsAdmin(context.Background(), "legacy")
	require.NoError(t, err)
	assert.True(t, isAdmin)
}

func TestGateOwnershipPolicy(t *testing.T) {
	gate, _ := newFakeGate()
	ctx := context.Background()

	// Anyone authenticated may read and create.
	assert.NoError(t, gate.Authorize(ctx, "reader", ActionRead, ResourceProject, nil))
	assert.NoError(t, gate.Authorize(ctx, "reader", ActionCreate, ResourceProject, nil))

	// Instance mutations are reserved for the creator of record.
	owned := ownedThing{owner: "reader"}
	assert.NoError(t, gate.Authorize(ctx, "reader", ActionUpdate, ResourceProject, owned))
	assert.ErrorIs(t, gate.Authorize(ctx, "teacher", ActionUpdate, ResourceProject, owned), ErrUnauthorized)
	assert.ErrorIs(t, gate.Authorize(ctx, "reader", ActionDelete, ResourceProject, ownedThing{owner: "teacher"}), ErrUnauthorized)

	// Export and manage never pass the policy, only the admin bypass.
	assert.ErrorIs(t, gate.Authorize(ctx, "teacher", ActionExport, ResourceProject, nil), ErrUnauthorized)

	// A mutation without a resource fails closed.
	assert.ErrorIs(t, gate.Authorize(ctx, "reader", ActionUpdate, ResourceProject, nil), ErrUnauthorized)
}

func TestGateOwnershipPolicyUnownedResourceFailsClosed(t *testing.T) {
	gate, _ := newFakeGate()

	err := gate.Authorize(context.Background(), "reader", ActionUpdate, ResourceProject, struct{}{})
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = gate.Authorize(context.Background(), "reader", ActionUpdate, ResourceProject, ownedThing{owner: ""})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGateGrantPolicy(t *testing.T) {
	gate, _ := newFakeGate()
	ctx := context.Background()

	// Teacher holds users:read, reader does not.
	assert.NoError(t, gate.Authorize(ctx, "teacher", ActionRead, ResourceUser, nil))
	assert.ErrorIs(t, gate.Authorize(ctx, "reader", ActionRead, ResourceUser, nil), ErrUnauthorized)

	// Owning the row beats a missing grant: readers see their own profile.
	assert.NoError(t, gate.Authorize(ctx, "reader", ActionRead, ResourceUser, ownedThing{owner: "reader"}))
	assert.ErrorIs(t, gate.Authorize(ctx, "reader", ActionRead, ResourceUser, ownedThing{owner: "teacher"}), ErrUnauthorized)

	// Collection-scoped delete ignores ownership entirely.
	assert.ErrorIs(t, gate.Authorize(ctx, "reader", ActionDelete, ResourceUser, nil), ErrUnauthorized)
}

func TestGateReferenceDataPolicy(t *testing.T) {
	gate, _ := newFakeGate()
	ctx := context.Background()

	assert.NoError(t, gate.Authorize(ctx, "reader", ActionRead, ResourceCareer, nil))
	assert.ErrorIs(t, gate.Authorize(ctx, "reader", ActionCreate, ResourceCareer, nil), ErrUnauthorized)
	assert.ErrorIs(t, gate.Authorize(ctx, "teacher", ActionDelete, ResourcePeriod, nil), ErrUnauthorized)
}

func TestGateUnknownResource(t *testing.T) {
	gate, _ := newFakeGate()

	err := gate.Authorize(context.Background(), "reader", ActionRead, "widgets", nil)
	assert.ErrorIs(t, err, ErrNoPolicyDefined)
}

func TestGateAnonymousAndUnknownSubjects(t *testing.T) {
	gate, _ := newFakeGate()
	ctx := context.Background()

	assert.ErrorIs(t, gate.Authorize(ctx, "", ActionRead, ResourceProject, nil), ErrUnauthorized)
	assert.ErrorIs(t, gate.Authorize(ctx, "ghost", ActionRead, ResourceProject, nil), ErrSubjectNotFound)

	isAdmin, err := gate.IsAdmin(ctx, "")
	require.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestGateInvalidateForwardsToResolver(t *testing.T) {
	gate, resolver := newFakeGate()

	gate.Invalidate(context.Background(), "reader")
	assert.Equal(t, []string{"reader"}, resolver.invalidated)
}

func TestPermissionMatches(t *testing.T) {
	cases := []struct {
		granted   Permission
		requested Permission
		want      bool
	}{
		{"projects:read", "projects:read", true},
		{"projects:read", "projects:update", false},
		{"projects:*", "projects:delete", true},
		{"projects:*", "users:read", false},
		{"*:*", "users:delete", true},
		{"malformed", "projects:read", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.granted.Matches(tc.requested),
			"%s matching %s", tc.granted, tc.requested)
	}
}

func TestSubjectHasPermission(t *testing.T) {
	subject := &Subject{
		UserID:      "u1",
		Role:        "TEACHER",
		Permissions: []Permission{"projects:*", "users:read"},
	}

	assert.True(t, subject.HasPermission(NewPermission(ResourceProject, ActionDelete)))
	assert.True(t, subject.HasPermission(NewPermission(ResourceUser, ActionRead)))
	assert.False(t, subject.HasPermission(NewPermission(ResourceUser, ActionDelete)))
}
