package sqlstore

import "github.com/goliatone/go-payout-attest/core"

// RedactExtractedValues scrubs any credential-looking keys before a proof
// projection is written to the ledger. The client already redacts, this is
// the last line of defense for records assembled by other callers.
func RedactExtractedValues(values map[string]string) map[string]string {
	if len(values) == 0 {
		return map[string]string{}
	}
	out := make(map[string]string, len(values))
	for key, value := range values {
		if core.IsSensitiveHeaderKey(key) {
			out[key] = core.RedactedValue
			continue
		}
		out[key] = value
	}
	return out
}
