package claims

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
)

var (
	// ErrClaimCollision is returned when two directory attributes map to the
	// same claim name. Such configurations would make the released claim value
	// depend on attribute iteration order, so they are rejected at startup.
	ErrClaimCollision = errors.New("two attributes map to the same claim name")

	// ErrReservedClaim is returned when the attribute map tries to produce the
	// groups claim, which is always built from group search results.
	ErrReservedClaim = errors.New(`the "groups" claim name is reserved`)
)

// ValidateMaps checks the attribute→claim and claim→scope maps for
// configurations that would produce ambiguous or surprising claim sets.
// Claims without a scope binding are allowed (they are simply never
// released) but logged, since that is usually a typo.
func ValidateMaps(attrsMap AttributeClaimMap, claimsMap ClaimScopeMap) error {
	claimSources := make(map[string][]string, len(attrsMap))
	for attrName, claimName := range attrsMap {
		claimSources[claimName] = append(claimSources[claimName], attrName)
	}

	for claimName, attrNames := range claimSources {
		if claimName == "groups" {
			return fmt.Errorf("%w (mapped from %q)", ErrReservedClaim, attrNames[0])
		}

		if len(attrNames) > 1 {
			sort.Strings(attrNames)

			return fmt.Errorf("%w: %q is produced by attributes %v", ErrClaimCollision, claimName, attrNames)
		}

		if _, ok := claimsMap[claimName]; !ok {
			log.Warn().Str("claim", claimName).
				Msg("claim is not bound to a scope and will never be released")
		}
	}

	return nil
}

// SearchAttributes returns the directory attributes to request for a lookup:
// every mapped attribute plus extras (e.g. operational attributes).
func SearchAttributes(attrsMap AttributeClaimMap, extra ...string) []string {
	attrs := make([]string, 0, len(attrsMap)+len(extra))
	for attrName := range attrsMap {
		attrs = append(attrs, attrName)
	}

	sort.Strings(attrs)

	return append(attrs, extra...)
}
