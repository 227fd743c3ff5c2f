package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced to API callers.
const (
	CodeValidation         = "VALIDATION_FAILED"
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeConflict           = "CONFLICT"
	CodeInternal           = "INTERNAL_ERROR"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeUnknownTechnician  = "UNKNOWN_TECHNICIAN"
	CodeRoleNotPermitted   = "ROLE_NOT_PERMITTED"
	CodeAlreadyMaxPriority = "ALREADY_MAX_PRIORITY"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

// NewInvalidTransition reports an action requested from a status that does not allow it.
func NewInvalidTransition(ticketID, currentStatus, action string) error {
	return NewDomainError(CodeInvalidTransition,
		fmt.Sprintf("cannot %s ticket in status %s", action, currentStatus),
		http.StatusConflict,
		map[string]any{
			"ticket_id":      ticketID,
			"current_status": currentStatus,
			"action":         action,
		})
}

// NewUnknownTechnician reports a technician id that does not resolve.
func NewUnknownTechnician(technicianID string) error {
	message := fmt.Sprintf("technician %q not found", technicianID)
	if technicianID == "" {
		message = "technician_id required"
	}
	return NewDomainError(CodeUnknownTechnician, message, http.StatusUnprocessableEntity,
		map[string]any{"technician_id": technicianID})
}

// NewRoleNotPermitted reports an authorization failure for a workflow action.
func NewRoleNotPermitted(role, action string) error {
	return NewDomainError(CodeRoleNotPermitted,
		fmt.Sprintf("role %s may not %s tickets", role, action),
		http.StatusForbidden,
		map[string]any{"role": role, "action": action})
}

// NewAlreadyMaxPriority reports an escalation attempted at the top tier.
func NewAlreadyMaxPriority(ticketID, priority string) error {
	return NewDomainError(CodeAlreadyMaxPriority,
		"ticket already has the highest priority",
		http.StatusConflict,
		map[string]any{"ticket_id": ticketID, "priority": priority})
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// HasCode reports whether err carries the given DomainError code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return false
	}
	return domainErr.Code == code
}

func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}
