package core

import "strings"

const RedactedValue = "[REDACTED]"

// RedactSensitiveHeaders returns a copy of headers with authentication
// material replaced. Used before any header map reaches a log line, an error
// field, or the proof ledger.
func RedactSensitiveHeaders(headers map[string]string) map[string]string {
	if len(headers) == 0 {
		return map[string]string{}
	}
	target := make(map[string]string, len(headers))
	for key, value := range headers {
		if IsSensitiveHeaderKey(key) {
			target[key] = RedactedValue
			continue
		}
		target[key] = value
	}
	return target
}

// RedactSensitiveMap recursively redacts sensitive keys in loosely typed
// metadata before logging or persistence.
func RedactSensitiveMap(metadata map[string]any) map[string]any {
	if len(metadata) == 0 {
		return map[string]any{}
	}
	return redactSensitiveMap(metadata)
}

func redactSensitiveMap(source map[string]any) map[string]any {
	target := make(map[string]any, len(source))
	for key, value := range source {
		if IsSensitiveHeaderKey(key) {
			target[key] = RedactedValue
			continue
		}
		target[key] = redactSensitiveValue(value)
	}
	return target
}

func redactSensitiveValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return redactSensitiveMap(typed)
	case map[string]string:
		return RedactSensitiveHeaders(typed)
	case []any:
		out := make([]any, len(typed))
		for i := range typed {
			out[i] = redactSensitiveValue(typed[i])
		}
		return out
	default:
		return value
	}
}

// IsSensitiveHeaderKey reports whether a header or metadata key may carry
// authentication material. Traceability keys pass through untouched.
func IsSensitiveHeaderKey(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" || isTraceabilityKey(key) {
		return false
	}
	sensitiveTokens := []string{
		"authorization",
		"secret",
		"signature",
		"token",
		"password",
		"api_key",
		"apikey",
		"credential",
		"x-client-id",
	}
	for _, token := range sensitiveTokens {
		if strings.Contains(key, token) {
			return true
		}
	}
	return false
}

func isTraceabilityKey(key string) bool {
	switch key {
	case "provider_id",
		"operation",
		"transfer_id",
		"cf_transfer_id",
		"environment",
		"trace_id",
		"request_id":
		return true
	default:
		return false
	}
}
