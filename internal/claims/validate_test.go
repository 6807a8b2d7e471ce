package claims

import (
	"errors"
	"reflect"
	"testing"
)

func TestValidateMaps(t *testing.T) {
	attrsMap, claimsMap := testMaps()

	if err := ValidateMaps(attrsMap, claimsMap); err != nil {
		t.Fatalf("valid maps rejected: %v", err)
	}
}

func TestValidateMaps_Collision(t *testing.T) {
	attrsMap := AttributeClaimMap{
		"mail":      "email",
		"mailAlias": "email",
	}
	claimsMap := ClaimScopeMap{"email": "email"}

	err := ValidateMaps(attrsMap, claimsMap)
	if !errors.Is(err, ErrClaimCollision) {
		t.Fatalf("expected ErrClaimCollision, got %v", err)
	}
}

func TestValidateMaps_ReservedGroupsClaim(t *testing.T) {
	attrsMap := AttributeClaimMap{"memberOf": "groups"}

	err := ValidateMaps(attrsMap, ClaimScopeMap{"groups": "profile"})
	if !errors.Is(err, ErrReservedClaim) {
		t.Fatalf("expected ErrReservedClaim, got %v", err)
	}
}

func TestValidateMaps_UnscopedClaimAllowed(t *testing.T) {
	attrsMap := AttributeClaimMap{"employeeType": "employee_type"}

	// Not bound to a scope: warned about, but not an error.
	if err := ValidateMaps(attrsMap, ClaimScopeMap{}); err != nil {
		t.Fatalf("unscoped claim must not fail validation: %v", err)
	}
}

func TestSearchAttributes(t *testing.T) {
	attrsMap, _ := testMaps()

	got := SearchAttributes(attrsMap, "+", "entryUUID")

	want := []string{"cn", "givenName", "mail", "sn", "+", "entryUUID"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SearchAttributes() = %v, want %v", got, want)
	}
}
