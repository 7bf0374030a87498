// Package descriptor assembles the public (proof-visible) and secret
// (proof-hidden) halves of an outbound payout request, plus the declarative
// match and redaction rules the attestation engine enforces.
package descriptor

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-payout-attest/core"
)

const (
	HeaderContentType = "Content-Type"
	HeaderAPIVersion  = "x-api-version"

	contentTypeJSON = "application/json"
)

type PublicRequest struct {
	Method       string
	Body         string
	APIVersion   string
	Context      map[string]string
	ExtraHeaders map[string]string
}

// BuildPublic assembles the proof-visible request descriptor. Only the
// content-type and API-version headers are added; any extra header with a
// sensitive key is rejected so authentication material cannot cross into the
// public half.
func BuildPublic(req PublicRequest) (core.PublicDescriptor, error) {
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	case "":
		return core.PublicDescriptor{}, fmt.Errorf("descriptor: method is required")
	default:
		return core.PublicDescriptor{}, fmt.Errorf("descriptor: unsupported method %q", method)
	}

	headers := map[string]string{
		HeaderContentType: contentTypeJSON,
	}
	if version := strings.TrimSpace(req.APIVersion); version != "" {
		headers[HeaderAPIVersion] = version
	}
	for key, value := range req.ExtraHeaders {
		trimmed := strings.TrimSpace(key)
		if trimmed == "" {
			continue
		}
		if core.IsSensitiveHeaderKey(trimmed) {
			return core.PublicDescriptor{}, fmt.Errorf("descriptor: header %q is secret material and cannot be public", trimmed)
		}
		headers[trimmed] = value
	}

	return core.PublicDescriptor{
		Method:  method,
		Headers: headers,
		Body:    req.Body,
		Context: core.CloneHeaders(req.Context),
	}, nil
}

// BuildSecret assembles the proof-hidden descriptor. Pure assembly: headers
// and rules are defensively copied, never inspected or mutated.
func BuildSecret(
	headers map[string]string,
	matchRules []core.MatchRule,
	redactionRules []core.RedactionRule,
) core.SecretDescriptor {
	return core.SecretDescriptor{
		Headers:        core.CloneHeaders(headers),
		MatchRules:     core.CloneMatchRules(matchRules),
		RedactionRules: core.CloneRedactionRules(redactionRules),
	}
}
