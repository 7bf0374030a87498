package descriptor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-payout-attest/core"
)

// ResolveRule evaluates a match or extraction rule against a response body.
// Both mechanisms resolve the same value for the same field; the engine does
// this remotely, this local resolver exists for fixture validation and rule
// authoring. Numbers keep their literal formatting.
func ResolveRule(rule core.MatchRule, body []byte) (string, bool, error) {
	switch rule.Kind {
	case core.RuleKindPath:
		return resolvePath(rule.Locator, body)
	case core.RuleKindPattern:
		return resolvePattern(rule.Locator, rule.Field, body)
	default:
		return "", false, fmt.Errorf("descriptor: unsupported rule kind %q", rule.Kind)
	}
}

// EvaluateRules checks every assertion in rules against body the way the
// engine would: a pinned Expected value must match exactly and a Required
// field must resolve.
func EvaluateRules(rules []core.MatchRule, body []byte) error {
	for _, rule := range rules {
		value, found, err := ResolveRule(rule, body)
		if err != nil {
			return err
		}
		if rule.Expected != "" {
			if !found || value != rule.Expected {
				return fmt.Errorf("descriptor: field %q = %q does not match expected %q", rule.Field, value, rule.Expected)
			}
			continue
		}
		if rule.Required && !found {
			return fmt.Errorf("descriptor: required field %q is absent", rule.Field)
		}
	}
	return nil
}

// resolvePath walks a structural path of the form $.a.b.c through decoded
// JSON. Decoding uses json.Number so numeric literals round-trip unchanged.
func resolvePath(locator string, body []byte) (string, bool, error) {
	path := strings.TrimSpace(locator)
	if !strings.HasPrefix(path, "$.") {
		return "", false, fmt.Errorf("descriptor: structural path %q must start with $.", locator)
	}
	segments := strings.Split(strings.TrimPrefix(path, "$."), ".")

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	var decoded any
	if err := decoder.Decode(&decoded); err != nil {
		return "", false, fmt.Errorf("descriptor: decode response body: %w", err)
	}

	current := decoded
	for _, segment := range segments {
		object, ok := current.(map[string]any)
		if !ok {
			return "", false, nil
		}
		next, present := object[segment]
		if !present {
			return "", false, nil
		}
		current = next
	}
	return renderValue(current), true, nil
}

func resolvePattern(locator string, field string, body []byte) (string, bool, error) {
	pattern, err := regexp.Compile(locator)
	if err != nil {
		return "", false, fmt.Errorf("descriptor: compile pattern for field %q: %w", field, err)
	}
	match := pattern.FindSubmatch(body)
	if match == nil {
		return "", false, nil
	}
	for i, name := range pattern.SubexpNames() {
		if name == field && i < len(match) {
			return string(match[i]), true, nil
		}
	}
	// No capture named after the field: fall back to the first group.
	if len(match) > 1 {
		return string(match[1]), true, nil
	}
	return "", false, nil
}

func renderValue(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case json.Number:
		return typed.String()
	case bool:
		if typed {
			return "true"
		}
		return "false"
	case nil:
		return ""
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprint(typed)
		}
		return string(encoded)
	}
}
