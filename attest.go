// Package attest is a zero-knowledge-proof client for third-party payout
// APIs. It manages short-lived credentials, splits requests into public and
// secret descriptors, and delegates attestation to a pluggable zkTLS engine.
package attest

import (
	"github.com/goliatone/go-payout-attest/core"
	"github.com/goliatone/go-payout-attest/providers/cashfree"
)

type Config = core.Config

type Credentials = core.Credentials

type MatchRule = core.MatchRule
type RedactionRule = core.RedactionRule
type RuleKind = core.RuleKind

type PublicDescriptor = core.PublicDescriptor
type SecretDescriptor = core.SecretDescriptor
type ProofRequest = core.ProofRequest
type Proof = core.Proof
type Witness = core.Witness
type ProofEngine = core.ProofEngine
type ProofRecord = core.ProofRecord
type ProofStore = core.ProofStore
type SecretProvider = core.SecretProvider
type MetricsRecorder = core.MetricsRecorder

type TransferStatusResult = core.TransferStatusResult
type TransferCreationResult = core.TransferCreationResult

type CashfreeClient = cashfree.Client
type CashfreeConfig = cashfree.Config
type StatusProofRequest = cashfree.StatusProofRequest
type CreationProofRequest = cashfree.CreationProofRequest
type EndpointProfile = cashfree.EndpointProfile
type Environment = cashfree.Environment

const (
	RuleKindPath    = core.RuleKindPath
	RuleKindPattern = core.RuleKindPattern

	EnvironmentProduction = core.EnvironmentProduction
	EnvironmentSandbox    = core.EnvironmentSandbox
)

var (
	NewCashfreeClient = cashfree.New
	ProfileV2         = cashfree.ProfileV2
	ProfileLegacy     = cashfree.ProfileLegacy

	WithLogger             = cashfree.WithLogger
	WithLoggerProvider     = cashfree.WithLoggerProvider
	WithMetricsRecorder    = cashfree.WithMetricsRecorder
	WithConfigProvider     = cashfree.WithConfigProvider
	WithOptionsResolver    = cashfree.WithOptionsResolver
	WithEngine             = cashfree.WithEngine
	WithProofStore         = cashfree.WithProofStore
	WithSecretProvider     = cashfree.WithSecretProvider
	WithHTTPClient         = cashfree.WithHTTPClient
	WithSignatureGenerator = cashfree.WithSignatureGenerator
	WithClock              = cashfree.WithClock

	MapError = core.MapError
)
