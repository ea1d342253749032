package errors

import (
	"errors"
)

// ErrorCategory groups errors by what kind of problem they represent.
type ErrorCategory string

const (
	CategoryValidation    ErrorCategory = "validation"
	CategoryConflict      ErrorCategory = "conflict"
	CategoryResource      ErrorCategory = "resource"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryFilesystem    ErrorCategory = "filesystem"
	CategoryRender        ErrorCategory = "render"
	CategoryUnknown       ErrorCategory = "unknown"
)

// Exit codes returned by the command line for each category.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInvalidLab  = 2
	ExitConfigError = 3
)

// ClassifiedError is a regular error with a category and a message that is
// safe to show to the user as-is.
type ClassifiedError struct {
	Err      error
	Category ErrorCategory
	UserMsg  string
}

func (e *ClassifiedError) Error() string {
	return e.Err.Error()
}

func (e *ClassifiedError) Unwrap() error {
	return e.Err
}

// ClassifyError classifies an error based on its type and sentinel
func ClassifyError(err error) *ClassifiedError {
	if err == nil {
		return nil
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}

	switch {
	case IsStructuralError(err):
		return &ClassifiedError{
			Err:      err,
			Category: CategoryValidation,
			UserMsg:  "The topology description is invalid. Check network names and host interfaces.",
		}

	case IsInvalidAddress(err):
		return &ClassifiedError{
			Err:      err,
			Category: CategoryValidation,
			UserMsg:  "An address does not belong to the network it is attached to.",
		}

	case IsAddressConflict(err), errors.Is(err, ErrGatewayAlreadyReserved):
		return &ClassifiedError{
			Err:      err,
			Category: CategoryConflict,
			UserMsg:  "The same address is assigned more than once on a network.",
		}

	case IsAddressSpaceExhausted(err):
		return &ClassifiedError{
			Err:      err,
			Category: CategoryResource,
			UserMsg:  "A network has run out of addresses. Use a larger CIDR block or a lower offset.",
		}

	case IsConfigError(err), errors.Is(err, ErrInvalidConfig):
		return &ClassifiedError{
			Err:      err,
			Category: CategoryConfiguration,
			UserMsg:  "Configuration error. Please check your makelab configuration file.",
		}

	case IsFilesystemError(err):
		return &ClassifiedError{
			Err:      err,
			Category: CategoryFilesystem,
			UserMsg:  "Could not write lab files. Please check the output directory and its permissions.",
		}

	case errors.Is(err, ErrTemplateExecution):
		return &ClassifiedError{
			Err:      err,
			Category: CategoryRender,
			UserMsg:  "Could not render lab files.",
		}

	default:
		return &ClassifiedError{
			Err:      err,
			Category: CategoryUnknown,
			UserMsg:  "An unexpected error occurred.",
		}
	}
}

// GetCategory returns the category of err, or CategoryUnknown.
func GetCategory(err error) ErrorCategory {
	classified := ClassifyError(err)
	if classified == nil {
		return CategoryUnknown
	}
	return classified.Category
}

// GetUserMessage returns a message that can be shown to the user without
// the technical detail of the wrapped error.
func GetUserMessage(err error) string {
	classified := ClassifyError(err)
	if classified == nil {
		return "An error occurred."
	}
	return classified.UserMsg
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch GetCategory(err) {
	case CategoryValidation, CategoryConflict, CategoryResource:
		return ExitInvalidLab
	case CategoryConfiguration:
		return ExitConfigError
	default:
		return ExitFailure
	}
}

// NewUserError creates a new error with a user-friendly message
func NewUserError(err error, userMsg string) *ClassifiedError {
	classified := ClassifyError(err)
	if classified == nil {
		classified = &ClassifiedError{
			Err:      err,
			Category: CategoryUnknown,
		}
	}
	return &ClassifiedError{
		Err:      classified.Err,
		Category: classified.Category,
		UserMsg:  userMsg,
	}
}

// FormatErrorForLogging formats an error for structured logging
func FormatErrorForLogging(err error) map[string]interface{} {
	if err == nil {
		return nil
	}

	classified := ClassifyError(err)
	result := map[string]interface{}{
		"error":    err.Error(),
		"category": string(classified.Category),
	}

	if host, ok := GetHost(err); ok {
		result["host"] = host
	}
	if network, ok := GetNetwork(err); ok {
		result["network"] = network
	}

	return result
}
