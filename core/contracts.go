package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

// RuleKind discriminates the two extraction/redaction mechanisms: structural
// JSON paths (stable under field reordering and whitespace) and named-capture
// patterns used as a fallback when the engine cannot evaluate paths.
type RuleKind string

const (
	RuleKindPath    RuleKind = "path"
	RuleKindPattern RuleKind = "pattern"
)

// MatchRule asserts or extracts a single response field. Locator is a JSON
// path for RuleKindPath rules and a regular expression with a named capture
// group for RuleKindPattern rules. A non-empty Expected value turns the rule
// into an assertion the engine must satisfy before emitting a proof; Required
// asserts presence without pinning a value.
type MatchRule struct {
	Kind     RuleKind
	Field    string
	Locator  string
	Expected string
	Required bool
}

// RedactionRule names a response field the engine reveals inside the proof.
// Everything not covered by a redaction rule stays hidden.
type RedactionRule struct {
	Kind    RuleKind
	Field   string
	Locator string
}

// PublicDescriptor is the request half disclosed inside a generated proof.
// It must never carry authentication material; descriptor.BuildPublic
// enforces that at construction time.
type PublicDescriptor struct {
	Method  string
	Headers map[string]string
	Body    string
	Context map[string]string
}

// SecretDescriptor is the request half the engine consumes but never
// surfaces: authentication headers plus the response match and redaction
// rules it enforces during attestation.
type SecretDescriptor struct {
	Headers        map[string]string
	MatchRules     []MatchRule
	RedactionRules []RedactionRule
}

// ProofRequest is the full input to the external attestation engine.
type ProofRequest struct {
	URL           string
	Public        PublicDescriptor
	Secret        SecretDescriptor
	Retries       int
	RetryInterval time.Duration
}

type Witness struct {
	ID  string
	URL string
}

// Proof is the signed artifact returned by the attestation engine. It is
// read-only once received; ExtractedValues maps rule field names to the
// string values the engine recovered from the response.
type Proof struct {
	Identifier      string
	Epoch           int64
	Signatures      []string
	Witnesses       []Witness
	ExtractedValues map[string]string
}

// ProofEngine is the boundary to the external zkTLS attestation system. A
// nil proof with a nil error means the engine completed but could not
// satisfy the match rules (for example an expected-status assertion failed);
// callers surface that as a proof-generation failure.
type ProofEngine interface {
	GenerateProof(ctx context.Context, req ProofRequest) (*Proof, error)
}

// StructuralPathCapable is an optional ProofEngine interface. Engines that
// cannot evaluate structural JSON paths report false and receive
// named-capture pattern rules instead.
type StructuralPathCapable interface {
	SupportsStructuralPaths() bool
}

// ProofRecord is the persisted projection of a generated proof kept in the
// proof ledger for audit. Extracted values are redacted before storage.
type ProofRecord struct {
	ID              string
	ProviderID      string
	Operation       string
	TransferID      string
	CFTransferID    string
	Status          string
	TransferAmount  *float64
	ExtractedValues map[string]string
	WitnessHosts    []string
	CreatedAt       time.Time
}

type ProofStore interface {
	SaveProof(ctx context.Context, record ProofRecord) (ProofRecord, error)
	GetByTransfer(ctx context.Context, transferID string) (ProofRecord, error)
	ListRecent(ctx context.Context, limit int) ([]ProofRecord, error)
}

type SecretProvider interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}
