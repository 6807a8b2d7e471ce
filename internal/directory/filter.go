package directory

import (
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// RenderFilter substitutes every occurrence of placeholder in template with
// value and returns the resulting search filter. The value is escaped per
// RFC 4515 before substitution, so filter metacharacters in user input search
// for their literal characters instead of altering the predicate. Replaced
// text is not re-scanned. Placeholders not present in the template are left
// verbatim.
func RenderFilter(template, placeholder, value string) string {
	return strings.ReplaceAll(template, placeholder, ldap.EscapeFilter(value))
}
