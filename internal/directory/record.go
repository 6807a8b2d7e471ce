package directory

import (
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// UserRecord is the result of a successful user lookup. It is built fresh per
// login attempt and never persisted; its data only survives the request when
// embedded into the opaque context handed to the OAuth2 admin API.
type UserRecord struct {
	// DN is the entry's distinguished name.
	DN string `json:"dn"`

	// Attributes maps attribute names to a single string value. Multi-valued
	// attributes are joined with "," (lossy but deterministic).
	Attributes map[string]string `json:"attributes"`

	// Groups lists the names of the groups the entry belongs to.
	Groups []string `json:"groups"`
}

// newUserRecord normalizes a search entry into a UserRecord.
func newUserRecord(entry *ldap.Entry) *UserRecord {
	rec := &UserRecord{
		DN:         entry.DN,
		Attributes: make(map[string]string, len(entry.Attributes)),
		Groups:     []string{},
	}

	for _, attr := range entry.Attributes {
		rec.Attributes[attr.Name] = strings.Join(attr.Values, ",")
	}

	return rec
}

// Subject returns the value to use as the OAuth2 subject for this record:
// the configured unique-ID attribute when the entry carries it, otherwise
// the fallback (normally the login the user typed).
func (r *UserRecord) Subject(uniqueIDAttr, fallback string) string {
	if v, ok := r.Attributes[uniqueIDAttr]; ok && v != "" {
		return v
	}

	return fallback
}
