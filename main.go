package main

import (
	"os"

	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
