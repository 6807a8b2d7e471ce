package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrBasePathNoSlash error if config webserver.basePath does not start with a slash.
	ErrBasePathNoSlash = errors.New("toml config webserver.basePath must start with '/'")

	// ErrTLSFilesIncomplete error if only one of cert file and key file is set.
	ErrTLSFilesIncomplete = errors.New("toml config webserver tlsCertFile and tlsKeyFile must be set together")
)
