package apperrors

import "errors"

// ErrNotFound indicates that a requested entry or user could not be found.
// Non-owner update attempts also surface this, so existence is not leaked.
var ErrNotFound = errors.New("not found")

// ErrAccessDenied indicates the caller's role does not permit reading the entry.
var ErrAccessDenied = errors.New("access denied")

// ErrDuplicateBill indicates the bill number already exists on an inward or
// outward entry. Detected before any write; nothing is persisted.
var ErrDuplicateBill = errors.New("bill number already exists")

// ErrInvalidMaterial indicates a material line is missing its name, quantity
// or unit of measure. Detected before any child row is written or deleted.
var ErrInvalidMaterial = errors.New("all materials must have name, quantity, and UoM")

// ErrMissingRequiredFields indicates an outward entry was opened without
// its driver or vehicle details.
var ErrMissingRequiredFields = errors.New("driver mobile, driver name and vehicle number are required")

// ErrEditLocked indicates an outward entry can no longer be edited because
// its time-out has been recorded.
var ErrEditLocked = errors.New("entry is completed and can no longer be edited")

// ErrEntryCreationFailed wraps an unexpected storage failure during entry
// creation. The transaction has been rolled back in full.
var ErrEntryCreationFailed = errors.New("error creating entry")

// ErrEntryUpdateFailed wraps an unexpected storage failure during an outward
// entry update. The transaction has been rolled back in full.
var ErrEntryUpdateFailed = errors.New("error updating entry")
