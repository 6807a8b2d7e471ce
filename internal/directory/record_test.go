package directory

import (
	"encoding/json"
	"testing"

	"github.com/go-ldap/ldap/v3"
)

func TestNewUserRecord(t *testing.T) {
	entry := ldap.NewEntry("uid=alice,ou=people,dc=example,dc=org", map[string][]string{
		"cn":        {"Alice Wonderland"},
		"mail":      {"alice@example.org"},
		"memberOf":  {"ops", "dev"},
		"entryUUID": {"8f7b7e2e-0000-4000-8000-000000000001"},
	})

	rec := newUserRecord(entry)

	if rec.DN != "uid=alice,ou=people,dc=example,dc=org" {
		t.Fatalf("unexpected DN: %q", rec.DN)
	}

	if got := rec.Attributes["cn"]; got != "Alice Wonderland" {
		t.Fatalf("unexpected cn: %q", got)
	}

	// Multi-valued attributes collapse into one comma-joined string.
	if got := rec.Attributes["memberOf"]; got != "ops,dev" {
		t.Fatalf("unexpected memberOf: %q", got)
	}

	if rec.Groups == nil || len(rec.Groups) != 0 {
		t.Fatalf("expected empty, non-nil groups, got %v", rec.Groups)
	}
}

func TestUserRecord_Subject(t *testing.T) {
	rec := &UserRecord{
		DN: "uid=alice,ou=people,dc=example,dc=org",
		Attributes: map[string]string{
			"entryUUID": "8f7b7e2e-0000-4000-8000-000000000001",
		},
	}

	if got := rec.Subject("entryUUID", "alice"); got != "8f7b7e2e-0000-4000-8000-000000000001" {
		t.Fatalf("expected unique-ID attribute as subject, got %q", got)
	}

	// Missing or empty unique-ID attribute falls back to the login.
	if got := rec.Subject("objectGUID", "alice"); got != "alice" {
		t.Fatalf("expected fallback subject, got %q", got)
	}

	rec.Attributes["entryUUID"] = ""
	if got := rec.Subject("entryUUID", "alice"); got != "alice" {
		t.Fatalf("expected fallback subject for empty attribute, got %q", got)
	}
}

// The record has to survive the JSON round trip through the login context.
func TestUserRecord_JSONRoundTrip(t *testing.T) {
	rec := &UserRecord{
		DN:         "uid=alice,ou=people,dc=example,dc=org",
		Attributes: map[string]string{"cn": "Alice Wonderland"},
		Groups:     []string{"ops", "dev"},
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var got UserRecord
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if got.DN != rec.DN || got.Attributes["cn"] != "Alice Wonderland" || len(got.Groups) != 2 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
