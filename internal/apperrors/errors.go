package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrExternalSource indicates the upstream rate provider failed or returned
// malformed data. Kept distinct from ErrStorage so the ingestion job can tell
// a provider outage from a local database fault.
var ErrExternalSource = errors.New("external source error")

// ErrStorage indicates the persistence layer is unreachable or rejected an operation.
var ErrStorage = errors.New("storage error")
