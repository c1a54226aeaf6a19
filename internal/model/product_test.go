package model

import "testing"

func TestNormalizeDomain(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"shop.example.com", "shop.example.com"},
		{"  Shop.Example.com ", "shop.example.com"},
		{"STORE.EXAMPLE.COM", "store.example.com"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeDomain(tc.in); got != tc.want {
			t.Errorf("NormalizeDomain(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	if got := NormalizeName("  Fresh Mart "); got != "fresh mart" {
		t.Errorf("NormalizeName = %q, want %q", got, "fresh mart")
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleSuperAdmin, RoleAdmin, RoleUser} {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false, want true", role)
		}
	}
	if ValidRole("owner") || ValidRole("") {
		t.Error("unknown roles must be invalid")
	}
}

func TestValidTaxType(t *testing.T) {
	if !ValidTaxType(TaxTypePercentage) || !ValidTaxType(TaxTypeFixed) {
		t.Error("percentage and fixed must be valid tax types")
	}
	if ValidTaxType("flat") {
		t.Error("unknown tax types must be invalid")
	}
}

func TestValidBagType(t *testing.T) {
	if !ValidBagType(BagTypeNormal) || !ValidBagType(BagTypeDiscrete) {
		t.Error("normal and discrete must be valid bag types")
	}
	if ValidBagType("gift") {
		t.Error("unknown bag types must be invalid")
	}
}
