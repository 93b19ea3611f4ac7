package validator

import (
	"strings"
	"unicode"

	"github.com/ISTS-2025/project-repository-service/internal/models"
)

// ValidateStatusTransition checks a project status change against the
// allowed transitions.
func (v *Validator) ValidateStatusTransition(current, next models.ProjectStatus) ValidationErrors {
	if next == "" || current == next {
		return nil
	}
	if !current.CanTransitionTo(next) {
		return ValidationErrors{{
			Field:   "status",
			Message: "invalid status transition from " + string(current),
			Value:   next,
			Rule:    "status_transition",
		}}
	}
	return nil
}

// ValidatePassword enforces the minimum password policy for new credentials.
func (v *Validator) ValidatePassword(password string) ValidationErrors {
	var hasUpper, hasLower, hasNumber bool

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if len(password) < 8 || !hasUpper || !hasLower || !hasNumber {
		return ValidationErrors{{
			Field:   "password",
			Message: "must be at least 8 characters and contain uppercase, lowercase and a number",
			Rule:    "password_strength",
		}}
	}

	return nil
}

// ValidateEmailDomain checks a registration email against the allowed
// domain list and suffix list. Empty lists allow everything.
func (v *Validator) ValidateEmailDomain(email string, allowedDomains, allowedSuffixes []string) ValidationErrors {
	if len(allowedDomains) == 0 && len(allowedSuffixes) == 0 {
		return nil
	}

	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ValidationErrors{{
			Field:   "email",
			Message: "must be a valid email address",
			Value:   email,
			Rule:    "email",
		}}
	}
	domain := strings.ToLower(email[at+1:])

	for _, allowed := range allowedDomains {
		if domain == strings.ToLower(allowed) {
			return nil
		}
	}
	for _, suffix := range allowedSuffixes {
		if strings.HasSuffix(domain, strings.ToLower(suffix)) {
			return nil
		}
	}

	return ValidationErrors{{
		Field:   "email",
		Message: "email domain is not allowed",
		Value:   domain,
		Rule:    "email_domain",
	}}
}
