package services

import (
	"errors"
	"fmt"
)

// Sentinel errors the handlers map onto the HTTP error taxonomy.
var (
	ErrProjectNotFound = errors.New("project not found")
	ErrSkillNotFound   = errors.New("skill not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrCareerNotFound  = errors.New("career not found")
	ErrPeriodNotFound  = errors.New("period not found")

	ErrEmailTaken         = errors.New("email is already registered")
	ErrSkillNameTaken     = errors.New("a skill with this name already exists")
	ErrPeriodNameTaken    = errors.New("a period with this name already exists")
	ErrProjectSkillExists = errors.New("skill is already linked to this project")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrResetTokenInvalid  = errors.New("reset token is invalid or expired")

	ErrCareerReferenceInvalid = errors.New("referenced career does not exist")
	ErrRoleReferenceInvalid   = errors.New("referenced role does not exist")
	ErrSkillReferenceInvalid  = errors.New("referenced skill does not exist")
)

// PermissionError is returned when an authenticated caller is not allowed
// to perform an operation.
type PermissionError struct {
	UserID     string
	Resource   string
	ResourceID string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	if e.ResourceID != "" {
		return fmt.Sprintf("user %s cannot %s %s %s: %s", e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
	}
	return fmt.Sprintf("user %s cannot %s %s: %s", e.UserID, e.Action, e.Resource, e.Reason)
}

func NewPermissionError(userID, resource, resourceID, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		Resource:   resource,
		ResourceID: resourceID,
		Action:     action,
		Reason:     reason,
	}
}

// IsPermissionError reports whether err is a permission failure.
func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// ConfigurationError marks a missing precondition the deployment must fix,
// such as an absent seed row. Not recoverable by retrying the request.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error (%s): %s", e.Setting, e.Reason)
}

func NewConfigurationError(setting, reason string) *ConfigurationError {
	return &ConfigurationError{Setting: setting, Reason: reason}
}

// IsConfigurationError reports whether err is a fatal configuration error.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
