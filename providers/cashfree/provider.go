// Package cashfree generates zero-knowledge payout proofs against the
// Cashfree payout API: it proves that the API returned a given transfer
// status, or created a given transfer, without revealing the credentials
// used on the attested request.
package cashfree

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-payout-attest/core"
)

const ProviderID = "cashfree"

type Environment string

const (
	EnvironmentProduction Environment = core.EnvironmentProduction
	EnvironmentSandbox    Environment = core.EnvironmentSandbox
)

const (
	ProfileNameLegacy = "legacy"
	ProfileNameV2     = "v2"
)

// EndpointProfile captures one revision of the Cashfree payout API contract:
// domains per environment, endpoint paths, the API version header value, and
// the secret headers the revision mandates. The upstream API has shipped two
// materially different shapes; which one is authoritative is a configuration
// decision, not a compile-time one.
type EndpointProfile struct {
	Name                  string
	APIVersion            string
	AuthDomains           map[Environment]string
	APIDomains            map[Environment]string
	AuthorizePath         string
	StatusPath            string
	CreatePath            string
	RequiredSecretHeaders []string
}

// ProfileV2 is the current API revision and the default.
func ProfileV2() EndpointProfile {
	return EndpointProfile{
		Name:       ProfileNameV2,
		APIVersion: "2024-01-01",
		AuthDomains: map[Environment]string{
			EnvironmentProduction: "https://api.cashfree.com",
			EnvironmentSandbox:    "https://sandbox.cashfree.com",
		},
		APIDomains: map[Environment]string{
			EnvironmentProduction: "https://api.cashfree.com",
			EnvironmentSandbox:    "https://sandbox.cashfree.com",
		},
		AuthorizePath: "/payout/v1/authorize",
		StatusPath:    "/payout/transfers",
		CreatePath:    "/payout/transfers",
		RequiredSecretHeaders: []string{
			"Authorization",
			"x-client-id",
			"x-client-secret",
		},
	}
}

// ProfileLegacy is the older payout API revision, kept for integrations that
// have not migrated.
func ProfileLegacy() EndpointProfile {
	return EndpointProfile{
		Name:       ProfileNameLegacy,
		APIVersion: "1.0",
		AuthDomains: map[Environment]string{
			EnvironmentProduction: "https://payout-api.cashfree.com",
			EnvironmentSandbox:    "https://payout-gamma.cashfree.com",
		},
		APIDomains: map[Environment]string{
			EnvironmentProduction: "https://payout-api.cashfree.com",
			EnvironmentSandbox:    "https://payout-gamma.cashfree.com",
		},
		AuthorizePath: "/payout/v1/authorize",
		StatusPath:    "/payout/v1.2/transfers",
		CreatePath:    "/payout/v1.2/transfers",
		RequiredSecretHeaders: []string{
			"Authorization",
			"x-client-id",
			"x-client-secret",
		},
	}
}

func ProfileByName(name string) (EndpointProfile, error) {
	switch strings.TrimSpace(strings.ToLower(name)) {
	case "", ProfileNameV2:
		return ProfileV2(), nil
	case ProfileNameLegacy:
		return ProfileLegacy(), nil
	default:
		return EndpointProfile{}, fmt.Errorf("providers/cashfree: unknown endpoint profile %q", name)
	}
}

func (p EndpointProfile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("providers/cashfree: profile name is required")
	}
	if len(p.AuthDomains) == 0 || len(p.APIDomains) == 0 {
		return fmt.Errorf("providers/cashfree: profile %q must map domains for each environment", p.Name)
	}
	if strings.TrimSpace(p.AuthorizePath) == "" || strings.TrimSpace(p.StatusPath) == "" || strings.TrimSpace(p.CreatePath) == "" {
		return fmt.Errorf("providers/cashfree: profile %q must define authorize, status, and create paths", p.Name)
	}
	return nil
}

func (p EndpointProfile) BaseURL(env Environment) (string, error) {
	return p.resolveDomain(p.APIDomains, env)
}

func (p EndpointProfile) AuthorizeURL(env Environment) (string, error) {
	domain, err := p.resolveDomain(p.AuthDomains, env)
	if err != nil {
		return "", err
	}
	return domain + p.AuthorizePath, nil
}

func (p EndpointProfile) StatusURL(env Environment, transferID string) (string, error) {
	domain, err := p.resolveDomain(p.APIDomains, env)
	if err != nil {
		return "", err
	}
	transferID = strings.TrimSpace(transferID)
	if transferID == "" {
		return "", fmt.Errorf("providers/cashfree: transfer id is required")
	}
	query := url.Values{}
	query.Set("transfer_id", transferID)
	return domain + p.StatusPath + "?" + query.Encode(), nil
}

func (p EndpointProfile) CreateURL(env Environment) (string, error) {
	domain, err := p.resolveDomain(p.APIDomains, env)
	if err != nil {
		return "", err
	}
	return domain + p.CreatePath, nil
}

func (p EndpointProfile) resolveDomain(domains map[Environment]string, env Environment) (string, error) {
	normalized := Environment(strings.TrimSpace(strings.ToLower(string(env))))
	domain := strings.TrimSpace(domains[normalized])
	if domain == "" {
		return "", fmt.Errorf("providers/cashfree: profile %q has no domain for environment %q", p.Name, env)
	}
	return strings.TrimRight(domain, "/"), nil
}
