package core

import "strings"

// Credentials carries the long-lived material a client exchanges for
// short-lived bearer tokens. Construct once and hand to a single client;
// clients copy the value and never mutate it.
type Credentials struct {
	ClientID      string
	ClientSecret  string
	PrivateKeyPEM string
	StaticToken   string
	APIVersion    string
}

func (c Credentials) Validate() error {
	if strings.TrimSpace(c.ClientID) == "" {
		return newBadInputError("core: client id is required")
	}
	if strings.TrimSpace(c.ClientSecret) == "" && strings.TrimSpace(c.StaticToken) == "" {
		return newBadInputError("core: client secret or a pre-obtained token is required")
	}
	return nil
}

// HasStaticToken reports whether the caller supplied a pre-obtained bearer
// token, in which case no authorization call is needed until it goes stale.
func (c Credentials) HasStaticToken() bool {
	return strings.TrimSpace(c.StaticToken) != ""
}

func (c Credentials) HasPrivateKey() bool {
	return strings.TrimSpace(c.PrivateKeyPEM) != ""
}

const (
	OperationStatusCheck = "transfer.status_check"
	OperationCreation    = "transfer.creation"
)

// Canonical response field names shared by match rules, redaction rules, and
// result projection.
const (
	FieldTransferID     = "transfer_id"
	FieldCFTransferID   = "cf_transfer_id"
	FieldStatus         = "status"
	FieldTransferAmount = "transfer_amount"
)

// TransferStatusResult is the typed projection of a status-check proof.
// TransferID falls back to the request's transfer id when the engine
// extracted nothing for it; TransferAmount is nil when the response carried
// no amount.
type TransferStatusResult struct {
	TransferID     string
	CFTransferID   string
	Status         string
	TransferAmount *float64
	Proof          *Proof
}

// TransferCreationResult is the typed projection of a creation proof.
type TransferCreationResult struct {
	TransferID   string
	CFTransferID string
	Status       string
	Proof        *Proof
}

func CloneHeaders(headers map[string]string) map[string]string {
	if len(headers) == 0 {
		return map[string]string{}
	}
	copied := make(map[string]string, len(headers))
	for key, value := range headers {
		copied[key] = value
	}
	return copied
}

func CloneMatchRules(rules []MatchRule) []MatchRule {
	if len(rules) == 0 {
		return nil
	}
	return append([]MatchRule(nil), rules...)
}

func CloneRedactionRules(rules []RedactionRule) []RedactionRule {
	if len(rules) == 0 {
		return nil
	}
	return append([]RedactionRule(nil), rules...)
}
