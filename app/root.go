// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hydra-ldap-bridge",
	Short: "hydra-ldap-bridge authenticates LDAP users for ORY Hydra",
	Long: `hydra-ldap-bridge implements the login, consent and logout endpoints
of the ORY Hydra OAuth2 server against an LDAP directory, mapping
directory attributes to OpenID Connect claims.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
