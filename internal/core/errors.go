package core

import "errors"

// Error kinds surfaced by every component. Handlers map them to status codes
// with errors.Is; everything else is treated as an internal failure.
var (
	ErrNotFound             = errors.New("not found")
	ErrDuplicateMenu        = errors.New("an active menu already exists for this date and meal type")
	ErrDuplicateComposition = errors.New("food item already part of this menu")
	ErrDuplicateRecord      = errors.New("meal record already exists for this school, menu and date")
	ErrDuplicateSchoolCode  = errors.New("school code already in use")
	ErrDuplicateUser        = errors.New("username or email already in use")
	ErrInvalidQuantity      = errors.New("quantity must not be negative")
	ErrInvalidCount         = errors.New("count must not be negative")
	ErrValidationFailed     = errors.New("validation failed")
)

// IsConflict reports whether err is a uniqueness violation. Conflicts may be
// worth retrying with different input; validation failures never are.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateMenu) ||
		errors.Is(err, ErrDuplicateComposition) ||
		errors.Is(err, ErrDuplicateRecord) ||
		errors.Is(err, ErrDuplicateSchoolCode) ||
		errors.Is(err, ErrDuplicateUser)
}

// IsValidation reports whether err was caused by bad caller input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidCount) ||
		errors.Is(err, ErrValidationFailed)
}

// Code returns a stable machine-readable code for err, or "" for internal errors.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrDuplicateMenu):
		return "DUPLICATE_MENU"
	case errors.Is(err, ErrDuplicateComposition):
		return "DUPLICATE_COMPOSITION"
	case errors.Is(err, ErrDuplicateRecord):
		return "DUPLICATE_RECORD"
	case errors.Is(err, ErrDuplicateSchoolCode):
		return "DUPLICATE_SCHOOL_CODE"
	case errors.Is(err, ErrDuplicateUser):
		return "DUPLICATE_USER"
	case errors.Is(err, ErrInvalidQuantity):
		return "INVALID_QUANTITY"
	case errors.Is(err, ErrInvalidCount):
		return "INVALID_COUNT"
	case errors.Is(err, ErrValidationFailed):
		return "VALIDATION_FAILED"
	default:
		return ""
	}
}
