// Package main provides the entry point for the hydra-ldap-bridge service.
// It runs a web server using the Fiber framework that implements the ORY
// Hydra login, consent and logout provider endpoints, authenticating users
// against an LDAP directory and mapping directory attributes to OpenID
// Connect claims.
package main
