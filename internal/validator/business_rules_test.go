package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ISTS-2025/project-repository-service/internal/models"
)

func TestValidateStatusTransition(t *testing.T) {
	v := New()

	cases := []struct {
		current models.ProjectStatus
		next    models.ProjectStatus
		allowed bool
	}{
		{models.StatusPending, models.StatusApproved, true},
		{models.StatusPending, models.StatusRejected, true},
		{models.StatusPending, models.StatusCompleted, false},
		{models.StatusPending, models.StatusInProgress, false},
		{models.StatusApproved, models.StatusInProgress, true},
		{models.StatusApproved, models.StatusCompleted, false},
		{models.StatusInProgress, models.StatusCompleted, true},
		{models.StatusRejected, models.StatusApproved, false},
		{models.StatusCompleted, models.StatusPending, false},

		// No-ops are always allowed.
		{models.StatusPending, models.StatusPending, true},
		{models.StatusCompleted, "", true},
	}

	for _, tc := range cases {
		verrs := v.ValidateStatusTransition(tc.current, tc.next)
		if tc.allowed {
			assert.Nil(t, verrs, "%s to %s should be allowed", tc.current, tc.next)
		} else {
			require.NotNil(t, verrs, "%s to %s should be rejected", tc.current, tc.next)
			assert.Equal(t, "status", verrs[0].Field)
			assert.Equal(t, "status_transition", verrs[0].Rule)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	v := New()

	cases := []struct {
		password string
		valid    bool
	}{
		{"Password1", true},
		{"Abcdefg1", true},
		{"Sh0rt", false},
		{"alllowercase1", false},
		{"ALLUPPERCASE1", false},
		{"NoNumbersHere", false},
		{"", false},
	}

	for _, tc := range cases {
		verrs := v.ValidatePassword(tc.password)
		if tc.valid {
			assert.Nil(t, verrs, "password %q should pass", tc.password)
		} else {
			require.NotNil(t, verrs, "password %q should fail", tc.password)
			assert.Equal(t, "password_strength", verrs[0].Rule)
		}
	}
}

func TestValidateEmailDomain(t *testing.T) {
	v := New()

	// Empty lists allow everything.
	assert.Nil(t, v.ValidateEmailDomain("anyone@gmail.com", nil, nil))

	domains := []string{"ists.edu.ec"}
	suffixes := []string{".edu.ec"}

	assert.Nil(t, v.ValidateEmailDomain("student@ists.edu.ec", domains, nil))
	assert.Nil(t, v.ValidateEmailDomain("student@ISTS.EDU.EC", domains, nil))
	assert.Nil(t, v.ValidateEmailDomain("student@utpl.edu.ec", nil, suffixes))

	verrs := v.ValidateEmailDomain("student@gmail.com", domains, suffixes)
	require.NotNil(t, verrs)
	assert.Equal(t, "email_domain", verrs[0].Rule)

	verrs = v.ValidateEmailDomain("not-an-email", domains, nil)
	require.NotNil(t, verrs)
	assert.Equal(t, "email", verrs[0].Rule)
}

func TestValidateStructTags(t *testing.T) {
	v := New()

	type payload struct {
		Email string `validate:"required,email"`
		Name  string `validate:"required,min=1,max=5"`
	}

	assert.NoError(t, v.Validate(payload{Email: "a@b.co", Name: "ok"}))

	err := v.Validate(payload{Email: "nope", Name: ""})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}
