package descriptor

import (
	"fmt"

	"github.com/goliatone/go-payout-attest/core"
)

// Both rule mechanisms express the same extraction per field: structural
// paths survive field reordering, added fields, and whitespace changes;
// named-capture patterns are the fallback when the engine cannot evaluate
// paths.
var fieldPaths = map[string]string{
	core.FieldTransferID:     "$.transfer_id",
	core.FieldCFTransferID:   "$.cf_transfer_id",
	core.FieldStatus:         "$.status",
	core.FieldTransferAmount: "$.transfer_amount",
}

var fieldPatterns = map[string]string{
	core.FieldTransferID:     `"transfer_id"\s*:\s*"(?P<transfer_id>[^"]*)"`,
	core.FieldCFTransferID:   `"cf_transfer_id"\s*:\s*"?(?P<cf_transfer_id>[^",}\s]+)"?`,
	core.FieldStatus:         `"status"\s*:\s*"(?P<status>[^"]*)"`,
	core.FieldTransferAmount: `"transfer_amount"\s*:\s*(?P<transfer_amount>[0-9]+(?:\.[0-9]+)?)`,
}

// FieldLocator returns the locator for a default field under the given
// mechanism.
func FieldLocator(kind core.RuleKind, field string) (string, error) {
	var locator string
	switch kind {
	case core.RuleKindPath:
		locator = fieldPaths[field]
	case core.RuleKindPattern:
		locator = fieldPatterns[field]
	default:
		return "", fmt.Errorf("descriptor: unsupported rule kind %q", kind)
	}
	if locator == "" {
		return "", fmt.Errorf("descriptor: no default locator for field %q", field)
	}
	return locator, nil
}

func defaultRule(kind core.RuleKind, field string) core.MatchRule {
	locator, _ := FieldLocator(kind, field)
	return core.MatchRule{
		Kind:    kind,
		Field:   field,
		Locator: locator,
	}
}

// StatusMatchRules builds the ordered match rules for a status check. A
// non-empty expectedStatus becomes the first rule, an exact assertion the
// engine must satisfy before emitting a proof; the proof call fails rather
// than extracting empty when the remote status differs. Without one, the
// transfer-identifier rule asserts existence. Extra rules append after the
// defaults, never replacing them.
func StatusMatchRules(expectedStatus string, kind core.RuleKind, extra ...core.MatchRule) []core.MatchRule {
	rules := make([]core.MatchRule, 0, 4+len(extra))

	if expectedStatus != "" {
		statusRule := defaultRule(kind, core.FieldStatus)
		statusRule.Expected = expectedStatus
		rules = append(rules, statusRule)
	}

	transferRule := defaultRule(kind, core.FieldTransferID)
	transferRule.Required = true
	rules = append(rules, transferRule)
	rules = append(rules, defaultRule(kind, core.FieldCFTransferID))
	if expectedStatus == "" {
		rules = append(rules, defaultRule(kind, core.FieldStatus))
	}
	rules = append(rules, defaultRule(kind, core.FieldTransferAmount))

	return append(rules, extra...)
}

// CreationMatchRules builds the ordered match rules for a transfer-creation
// proof: identifier existence, provider-side identifier, and status.
func CreationMatchRules(kind core.RuleKind, extra ...core.MatchRule) []core.MatchRule {
	rules := make([]core.MatchRule, 0, 3+len(extra))

	transferRule := defaultRule(kind, core.FieldTransferID)
	transferRule.Required = true
	rules = append(rules, transferRule)
	rules = append(rules, defaultRule(kind, core.FieldCFTransferID))
	rules = append(rules, defaultRule(kind, core.FieldStatus))

	return append(rules, extra...)
}

// DefaultRedactionRules returns the four default reveal rules plus any
// caller-supplied additions. Defaults are never replaced.
func DefaultRedactionRules(kind core.RuleKind, extra ...core.RedactionRule) []core.RedactionRule {
	fields := []string{
		core.FieldTransferID,
		core.FieldCFTransferID,
		core.FieldStatus,
		core.FieldTransferAmount,
	}
	rules := make([]core.RedactionRule, 0, len(fields)+len(extra))
	for _, field := range fields {
		locator, _ := FieldLocator(kind, field)
		rules = append(rules, core.RedactionRule{
			Kind:    kind,
			Field:   field,
			Locator: locator,
		})
	}
	return append(rules, extra...)
}
