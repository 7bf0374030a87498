package cashfree

import (
	"strings"
	"testing"
)

func TestProfilesResolveDistinctDomains(t *testing.T) {
	v2 := ProfileV2()
	legacy := ProfileLegacy()

	cases := []struct {
		name    string
		profile EndpointProfile
		env     Environment
		want    string
	}{
		{"v2 production", v2, EnvironmentProduction, "https://api.cashfree.com"},
		{"v2 sandbox", v2, EnvironmentSandbox, "https://sandbox.cashfree.com"},
		{"legacy production", legacy, EnvironmentProduction, "https://payout-api.cashfree.com"},
		{"legacy sandbox", legacy, EnvironmentSandbox, "https://payout-gamma.cashfree.com"},
	}
	seen := map[string]string{}
	for _, tc := range cases {
		base, err := tc.profile.BaseURL(tc.env)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if base != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, base)
		}
		if prior, dup := seen[base]; dup {
			t.Fatalf("domain %q shared by %s and %s", base, prior, tc.name)
		}
		seen[base] = tc.name
	}
}

func TestStatusURLCarriesTransferIDQuery(t *testing.T) {
	statusURL, err := ProfileV2().StatusURL(EnvironmentSandbox, "txn 123")
	if err != nil {
		t.Fatalf("status url: %v", err)
	}
	if !strings.HasPrefix(statusURL, "https://sandbox.cashfree.com/payout/transfers?") {
		t.Fatalf("unexpected status url %q", statusURL)
	}
	if !strings.Contains(statusURL, "transfer_id=txn+123") {
		t.Fatalf("expected encoded transfer id query, got %q", statusURL)
	}

	if _, err := ProfileV2().StatusURL(EnvironmentSandbox, "  "); err == nil {
		t.Fatalf("expected missing transfer id error")
	}
}

func TestLegacyProfileUsesVersionedPaths(t *testing.T) {
	createURL, err := ProfileLegacy().CreateURL(EnvironmentProduction)
	if err != nil {
		t.Fatalf("create url: %v", err)
	}
	if createURL != "https://payout-api.cashfree.com/payout/v1.2/transfers" {
		t.Fatalf("unexpected legacy create url %q", createURL)
	}

	authorizeURL, err := ProfileLegacy().AuthorizeURL(EnvironmentSandbox)
	if err != nil {
		t.Fatalf("authorize url: %v", err)
	}
	if authorizeURL != "https://payout-gamma.cashfree.com/payout/v1/authorize" {
		t.Fatalf("unexpected legacy authorize url %q", authorizeURL)
	}
}

func TestProfileByName(t *testing.T) {
	profile, err := ProfileByName("")
	if err != nil || profile.Name != ProfileNameV2 {
		t.Fatalf("expected v2 default, got %q err=%v", profile.Name, err)
	}
	profile, err = ProfileByName("LEGACY")
	if err != nil || profile.Name != ProfileNameLegacy {
		t.Fatalf("expected legacy, got %q err=%v", profile.Name, err)
	}
	if _, err := ProfileByName("v3"); err == nil {
		t.Fatalf("expected unknown profile error")
	}
}

func TestResolveDomainRejectsUnknownEnvironment(t *testing.T) {
	if _, err := ProfileV2().BaseURL("staging"); err == nil {
		t.Fatalf("expected unknown environment error")
	}
}
