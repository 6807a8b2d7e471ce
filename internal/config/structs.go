package config

import (
	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Log       logger.Log
	Title     string
	Webserver Webserver
	Hydra     Hydra
	Directory Directory
	OAuth     OAuth
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool   // disable recover middleware
	Port           int    // listening port for the webserver
	ShutDownTime   int    // wait time for shutdown
	URL            string // base url for the webserver
	BasePath       string `toml:"basePath"`    // path prefix for all routes (reverse-proxy mounting)
	TLSCertFile    string `toml:"tlsCertFile"` // certificate chain in PEM format (enables TLS)
	TLSKeyFile     string `toml:"tlsKeyFile"`  // private key in PEM format (enables TLS)
}

// Hydra holds the ORY Hydra admin API settings.
type Hydra struct {
	AdminURL string `toml:"adminUrl" validate:"required,uri"` // URL of the Hydra admin endpoint
}

// Directory holds the LDAP connection and search settings.
type Directory struct {
	URL           string `validate:"required,uri"` // e.g. "ldap://ldap.example.org:389"
	UseTLS        bool   `toml:"useTls"`           // upgrade the connection with StartTLS
	SkipVerify    bool   `toml:"skipVerify"`       // skip TLS certificate verification
	BindDN        string `toml:"bindDn" validate:"required"`
	BindPassword  string `toml:"bindPassword" validate:"required"`
	UserBaseDN    string `toml:"userBaseDn" validate:"required"`
	UserFilter    string `toml:"userFilter"`  // {login} placeholder, escaped before substitution
	GroupBaseDN   string `toml:"groupBaseDn"` // empty disables group search
	GroupFilter   string `toml:"groupFilter"` // {user_dn} placeholder
	GroupNameAttr string `toml:"groupNameAttr"`
	UniqueIDAttr  string `toml:"uniqueIdAttr"` // attribute used as the OAuth2 subject
	SubjectFilter string `toml:"subjectFilter"`
	StrictMatch   bool   `toml:"strictMatch"` // fail lookups matching multiple entries
	Timeout       int    // connection and search time limit in seconds
}

// OAuth holds the claim mapping and login remember settings.
type OAuth struct {
	// LoginRememberFor is how long in seconds a successful login is remembered
	// (0 means until the browser window is closed).
	LoginRememberFor int64 `toml:"loginRememberFor"`

	// AttrsMap maps a directory attribute name to an OAuth2 claim name.
	AttrsMap map[string]string `toml:"attrsMap"`

	// ClaimsMap maps a claim name to the scope a client must request for the
	// claim to be released.
	ClaimsMap map[string]string `toml:"claimsMap"`
}
