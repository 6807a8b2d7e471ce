package directory

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/logger/adapter/stdlogger"
)

const (
	// LoginPlaceholder is replaced by the user-supplied login in the user filter.
	LoginPlaceholder = "{login}"
	// UserDNPlaceholder is replaced by the user's DN in the group filter.
	UserDNPlaceholder = "{user_dn}"
	// SubjectPlaceholder is replaced by the established OAuth2 subject in the
	// subject filter.
	SubjectPlaceholder = "{subject}"
)

// Config holds the directory connection and search settings. It is read-only
// after startup and safe to share across concurrent requests.
type Config struct {
	// URL of the directory server (e.g. "ldap://ldap.example.org:389").
	URL string
	// UseTLS upgrades the connection with StartTLS after connecting.
	UseTLS bool
	// SkipVerify skips TLS certificate verification (insecure, for testing only).
	SkipVerify bool
	// BindDN is the service identity used to perform searches.
	BindDN string
	// BindPassword is the password for the service identity.
	BindPassword string
	// UserBaseDN is the base DN for user searches.
	UserBaseDN string
	// UserFilter is the search filter for users. The {login} placeholder is
	// replaced with the (escaped) login the user provided.
	UserFilter string
	// GroupBaseDN is the base DN for group searches. When empty, group search
	// is skipped entirely and users resolve with an empty group list.
	GroupBaseDN string
	// GroupFilter is the search filter for groups. The {user_dn} placeholder
	// is replaced with the user's DN.
	GroupFilter string
	// GroupNameAttr is the attribute holding the group name (e.g. "cn").
	GroupNameAttr string
	// UniqueIDAttr is the operational attribute used as the OAuth2 subject
	// (e.g. "entryUUID").
	UniqueIDAttr string
	// SubjectFilter is the search filter used to re-resolve a user from an
	// established subject. The {subject} placeholder is replaced with the
	// subject value.
	SubjectFilter string
	// StrictMatch fails lookups that match more than one entry instead of
	// silently taking the first.
	StrictMatch bool
	// Timeout is the connection and search time limit in seconds.
	Timeout int
}

// Provider performs user lookups and credential checks against one directory.
type Provider struct {
	config *Config
}

// go-ldap reports connection-level problems through a package-wide logger.
var ldapLoggerOnce sync.Once

// New creates a directory provider, applying defaults for unset fields.
func New(config *Config) (*Provider, error) {
	ldapLoggerOnce.Do(func() {
		ldap.Logger(stdlogger.NewStd(zerolog.WarnLevel))
	})

	if config.URL == "" {
		return nil, ErrMissingURL
	}

	if _, err := url.Parse(config.URL); err != nil {
		return nil, fmt.Errorf("invalid directory url: %w", err)
	}

	// Set defaults
	if config.UserFilter == "" {
		config.UserFilter = "(&(objectClass=inetOrgPerson)(|(uid={login})(mail={login})))"
	}

	if config.GroupFilter == "" {
		config.GroupFilter = "(&(objectClass=groupOfNames)(member={user_dn}))"
	}

	if config.GroupNameAttr == "" {
		config.GroupNameAttr = "cn"
	}

	if config.UniqueIDAttr == "" {
		config.UniqueIDAttr = "entryUUID"
	}

	if config.SubjectFilter == "" {
		config.SubjectFilter = "(entryUUID={subject})"
	}

	if config.Timeout == 0 {
		config.Timeout = 10
	}

	return &Provider{config: config}, nil
}

// UniqueIDAttr returns the attribute used as the OAuth2 subject.
func (p *Provider) UniqueIDAttr() string {
	return p.config.UniqueIDAttr
}

// connect opens a new connection to the directory server. The caller owns the
// connection and must close it.
func (p *Provider) connect() (*ldap.Conn, error) {
	u, err := url.Parse(p.config.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid directory url: %w", err)
	}

	var tlsConfig *tls.Config
	if u.Scheme == "ldaps" || p.config.UseTLS {
		tlsConfig = &tls.Config{
			InsecureSkipVerify: p.config.SkipVerify, //nolint:gosec // skipping verifying tls is ok
			ServerName:         u.Hostname(),
		}
	}

	conn, err := ldap.DialURL(p.config.URL, ldap.DialWithTLSConfig(tlsConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to directory server: %w", err)
	}

	// Upgrade plain connections to TLS if requested
	if u.Scheme != "ldaps" && p.config.UseTLS {
		if errStartTLS := conn.StartTLS(tlsConfig); errStartTLS != nil {
			closeConn(conn)

			return nil, fmt.Errorf("failed to start TLS: %w", errStartTLS)
		}
	}

	if p.config.Timeout > 0 {
		conn.SetTimeout(time.Duration(p.config.Timeout) * time.Second)
	}

	return conn, nil
}

// ValidateCredentials answers whether dn/password are valid directory
// credentials. A bind rejected with the invalid-credentials result code
// returns (false, nil); any connection or protocol failure returns an error.
// Callers therefore cannot confuse "wrong password" with "directory down".
func (p *Provider) ValidateCredentials(dn, password string) (bool, error) {
	// An empty password would be an unauthenticated bind, which many servers
	// accept. Treat it as invalid credentials without asking the directory.
	if password == "" {
		return false, nil
	}

	conn, err := p.connect()
	if err != nil {
		return false, err
	}

	defer closeConn(conn)

	if errBind := conn.Bind(dn, password); errBind != nil {
		if isInvalidCredentials(errBind) {
			return false, nil
		}

		return false, fmt.Errorf("failed to bind as %q: %w", dn, errBind)
	}

	return true, nil
}

// FindUser resolves a login to a user entry, requesting the given attributes,
// and collects the entry's groups. Returns ErrUserNotFound when no entry
// matches and ErrAmbiguousUser when several do and strict matching is on.
func (p *Provider) FindUser(login string, attrs []string) (*UserRecord, error) {
	filter := RenderFilter(p.config.UserFilter, LoginPlaceholder, login)

	return p.findByFilter(filter, attrs)
}

// FindUserBySubject re-resolves a user from an established OAuth2 subject.
// Used by the consent flow when the login-phase context is not available.
func (p *Provider) FindUserBySubject(subject string, attrs []string) (*UserRecord, error) {
	filter := RenderFilter(p.config.SubjectFilter, SubjectPlaceholder, subject)

	return p.findByFilter(filter, attrs)
}

func (p *Provider) findByFilter(filter string, attrs []string) (*UserRecord, error) {
	conn, err := p.connect()
	if err != nil {
		return nil, err
	}

	defer closeConn(conn)

	// A service-bind failure is an operational error, never "user not found".
	if errBind := conn.Bind(p.config.BindDN, p.config.BindPassword); errBind != nil {
		return nil, fmt.Errorf("failed to bind with service account: %w", errBind)
	}

	entry, err := p.searchUserEntry(conn, filter, attrs)
	if err != nil {
		return nil, err
	}

	rec := newUserRecord(entry)

	// Reuse the service-bound connection for the group search.
	groups, err := p.getUserGroups(conn, entry.DN)
	if err != nil {
		return nil, fmt.Errorf("failed to get user groups: %w", err)
	}

	rec.Groups = groups

	return rec, nil
}

// searchUserEntry runs a subtree search and returns a single entry.
func (p *Provider) searchUserEntry(conn *ldap.Conn, filter string, attrs []string) (*ldap.Entry, error) {
	searchRequest := ldap.NewSearchRequest(
		p.config.UserBaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, // Size limit
		p.config.Timeout,
		false,
		filter,
		attrs,
		nil,
	)

	searchResult, err := conn.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to search for user: %w", err)
	}

	switch len(searchResult.Entries) {
	case 0:
		return nil, ErrUserNotFound
	case 1:
		return searchResult.Entries[0], nil
	default:
		if p.config.StrictMatch {
			return nil, ErrAmbiguousUser
		}

		log.Debug().Str("filter", filter).Int("matches", len(searchResult.Entries)).
			Msg("user filter matched multiple entries, taking the first")

		return searchResult.Entries[0], nil
	}
}

// getUserGroups collects the names of all groups referencing userDN. Group
// search is an optional feature: with no group base DN configured it returns
// an empty list without contacting the directory.
func (p *Provider) getUserGroups(conn *ldap.Conn, userDN string) ([]string, error) {
	if p.config.GroupBaseDN == "" {
		log.Debug().Msg("skipping group search as group base DN is not set")

		return []string{}, nil
	}

	groupFilter := RenderFilter(p.config.GroupFilter, UserDNPlaceholder, userDN)
	searchRequest := ldap.NewSearchRequest(
		p.config.GroupBaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0,
		p.config.Timeout,
		false,
		groupFilter,
		[]string{p.config.GroupNameAttr},
		nil,
	)

	searchResult, err := conn.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to search for groups: %w", err)
	}

	groups := make([]string, 0, len(searchResult.Entries))

	for _, entry := range searchResult.Entries {
		if name := entry.GetAttributeValue(p.config.GroupNameAttr); name != "" {
			groups = append(groups, name)
		}
	}

	return groups, nil
}

// isInvalidCredentials reports whether err is the directory protocol's
// explicit invalid-credentials result. Connection refusal, timeouts and other
// result codes are not credential failures.
func isInvalidCredentials(err error) bool {
	var ldapErr *ldap.Error
	if errors.As(err, &ldapErr) {
		return ldapErr.ResultCode == ldap.LDAPResultInvalidCredentials
	}

	return false
}

func closeConn(conn *ldap.Conn) {
	if err := conn.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close directory connection")
	}
}
