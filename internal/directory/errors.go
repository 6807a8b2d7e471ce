package directory

import "errors"

var (
	// ErrUserNotFound is returned when no directory entry matches the user filter.
	ErrUserNotFound = errors.New("user not found")

	// ErrAmbiguousUser is returned when the user filter matches more than one
	// entry and strict matching is enabled. This typically indicates a
	// misconfigured filter or duplicate entries.
	ErrAmbiguousUser = errors.New("multiple directory entries match user filter")

	// ErrMissingURL is returned when no directory server URL is configured.
	ErrMissingURL = errors.New("directory server url is not configured")
)
