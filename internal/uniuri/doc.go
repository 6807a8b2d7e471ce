// Package uniuri generates cryptographically secure random strings. The
// bridge uses it for the anti-CSRF state tokens tied to the login form.
// Length and character set are configurable; modulo bias is rejected rather
// than tolerated.
package uniuri
