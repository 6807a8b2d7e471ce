package directory

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-ldap/ldap/v3"
)

func TestNew_AppliesDefaults(t *testing.T) {
	p, err := New(&Config{URL: "ldap://localhost:389"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if p.config.UserFilter != "(&(objectClass=inetOrgPerson)(|(uid={login})(mail={login})))" {
		t.Fatalf("unexpected default user filter: %q", p.config.UserFilter)
	}

	if p.config.GroupFilter != "(&(objectClass=groupOfNames)(member={user_dn}))" {
		t.Fatalf("unexpected default group filter: %q", p.config.GroupFilter)
	}

	if p.config.GroupNameAttr != "cn" {
		t.Fatalf("unexpected default group name attribute: %q", p.config.GroupNameAttr)
	}

	if p.UniqueIDAttr() != "entryUUID" {
		t.Fatalf("unexpected default unique-ID attribute: %q", p.UniqueIDAttr())
	}

	if p.config.SubjectFilter != "(entryUUID={subject})" {
		t.Fatalf("unexpected default subject filter: %q", p.config.SubjectFilter)
	}

	if p.config.Timeout != 10 {
		t.Fatalf("unexpected default timeout: %d", p.config.Timeout)
	}
}

func TestNew_KeepsExplicitSettings(t *testing.T) {
	p, err := New(&Config{
		URL:          "ldaps://directory.example.org:636",
		UserFilter:   "(sAMAccountName={login})",
		UniqueIDAttr: "objectGUID",
		Timeout:      3,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if p.config.UserFilter != "(sAMAccountName={login})" {
		t.Fatalf("user filter was overridden: %q", p.config.UserFilter)
	}

	if p.UniqueIDAttr() != "objectGUID" {
		t.Fatalf("unique-ID attribute was overridden: %q", p.UniqueIDAttr())
	}

	if p.config.Timeout != 3 {
		t.Fatalf("timeout was overridden: %d", p.config.Timeout)
	}
}

func TestNew_MissingURL(t *testing.T) {
	if _, err := New(&Config{}); !errors.Is(err, ErrMissingURL) {
		t.Fatalf("expected ErrMissingURL, got %v", err)
	}
}

func TestValidateCredentials_EmptyPassword(t *testing.T) {
	// An empty password must be rejected locally; a server that allows
	// unauthenticated binds would otherwise answer "valid".
	p, err := New(&Config{URL: "ldap://127.0.0.1:1"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	valid, err := p.ValidateCredentials("uid=alice,dc=example,dc=org", "")
	if err != nil {
		t.Fatalf("expected local rejection without directory contact, got %v", err)
	}

	if valid {
		t.Fatalf("empty password must never validate")
	}
}

func TestValidateCredentials_UnreachableServer(t *testing.T) {
	p, err := New(&Config{URL: "ldap://127.0.0.1:1"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	valid, err := p.ValidateCredentials("uid=alice,dc=example,dc=org", "secret")
	if err == nil {
		t.Fatalf("expected a transport error for an unreachable server")
	}

	if valid {
		t.Fatalf("transport errors must not report valid credentials")
	}
}

func TestFindUser_UnreachableServer(t *testing.T) {
	p, err := New(&Config{URL: "ldap://127.0.0.1:1"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := p.FindUser("alice", []string{"cn"}); err == nil {
		t.Fatalf("expected a transport error for an unreachable server")
	}
}

func TestGetUserGroups_NoGroupBaseDN(t *testing.T) {
	p, err := New(&Config{URL: "ldap://127.0.0.1:1"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// With no group base DN the search is skipped entirely; the nil
	// connection proves the directory is never contacted.
	groups, err := p.getUserGroups(nil, "uid=alice,dc=example,dc=org")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if groups == nil || len(groups) != 0 {
		t.Fatalf("expected empty, non-nil group list, got %v", groups)
	}
}

func TestIsInvalidCredentials(t *testing.T) {
	rejected := ldap.NewError(ldap.LDAPResultInvalidCredentials, errors.New("invalid credentials"))
	if !isInvalidCredentials(rejected) {
		t.Fatalf("result code 49 must classify as invalid credentials")
	}

	wrapped := fmt.Errorf("bind: %w", rejected)
	if !isInvalidCredentials(wrapped) {
		t.Fatalf("wrapped result code 49 must classify as invalid credentials")
	}

	busy := ldap.NewError(ldap.LDAPResultBusy, errors.New("busy"))
	if isInvalidCredentials(busy) {
		t.Fatalf("other result codes are not credential failures")
	}

	if isInvalidCredentials(errors.New("connection reset")) {
		t.Fatalf("plain errors are not credential failures")
	}
}
