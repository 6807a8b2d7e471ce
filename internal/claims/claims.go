// Package claims maps directory attributes onto OAuth2 claims, gated by the
// scopes a client requested.
package claims

import (
	"github.com/rs/zerolog/log"

	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/directory"
)

// AttributeClaimMap maps a directory attribute name to an OAuth2 claim name.
type AttributeClaimMap map[string]string

// ClaimScopeMap maps a claim name to the OAuth2 scope a client must request
// for the claim to be released.
type ClaimScopeMap map[string]string

// ClaimSet is the set of claims released for one consent decision.
type ClaimSet map[string]any

// Map builds the claim set for a user record. The groups claim is a list
// value and is always included, regardless of requested scopes. Every other
// claim is released only when the attribute is mapped to a claim name, the
// claim name is bound to a scope, and the client requested that scope. The
// record's DN is not a claim source. The result depends only on which
// attributes are present, never on iteration order: ValidateMaps rejects
// configurations where two attributes could write the same claim.
func Map(rec *directory.UserRecord, attrsMap AttributeClaimMap, claimsMap ClaimScopeMap, requestedScopes []string) ClaimSet {
	result := ClaimSet{"groups": rec.Groups}

	scopes := make(map[string]struct{}, len(requestedScopes))
	for _, scope := range requestedScopes {
		scopes[scope] = struct{}{}
	}

	for attrName, attrValue := range rec.Attributes {
		claimName, ok := attrsMap[attrName]
		if !ok {
			log.Debug().Str("attribute", attrName).Msg("skipping attribute not mapped to a claim")

			continue
		}

		claimScope, ok := claimsMap[claimName]
		if !ok {
			log.Debug().Str("claim", claimName).Msg("skipping claim not bound to a scope")

			continue
		}

		if _, ok = scopes[claimScope]; !ok {
			log.Debug().Str("claim", claimName).Str("scope", claimScope).
				Msg("skipping claim as client did not request its scope")

			continue
		}

		result[claimName] = attrValue
	}

	return result
}
