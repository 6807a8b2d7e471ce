// Package directory authenticates end users against an LDAP directory and
// resolves their entry attributes and group memberships.
//
// Every operation opens its own connection and releases it before returning.
// Lookups run under a fixed service bind; credential checks bind as the user
// and report "wrong password" as a first-class result instead of an error.
package directory
