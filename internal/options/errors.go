package options

import "errors"

// Error kinds returned by Service. Check them with errors.Is.
var (
	// ErrNullArgument is returned when a required id, entity or list is absent.
	ErrNullArgument = errors.New("required argument is missing")

	// ErrInvalidArgument is returned when a list argument is empty but must not be.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAlreadyExists is returned when a create finds a row with the same name.
	ErrAlreadyExists = errors.New("option already exists")

	// ErrNotFound is returned when the target row is missing or soft-deleted.
	ErrNotFound = errors.New("option not found")
)

// IsClientError reports whether err is caused by the caller rather than the store.
func IsClientError(err error) bool {
	return errors.Is(err, ErrNullArgument) ||
		errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrNotFound)
}
