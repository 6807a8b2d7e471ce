package hydra

import (
	"errors"
)

var (
	// ErrMissingAdminURL is returned when no Hydra admin API URL is configured.
	ErrMissingAdminURL = errors.New("hydra admin url is not configured")
)
