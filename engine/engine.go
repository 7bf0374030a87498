// Package engine contains adapters for the external zkTLS attestation
// boundary. The engine itself lives outside this module; these adapters let
// callers plug one in, stub one out, or fail loudly when none is configured.
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-payout-attest/core"
)

// Func adapts a plain function to core.ProofEngine.
type Func func(ctx context.Context, req core.ProofRequest) (*core.Proof, error)

func (f Func) GenerateProof(ctx context.Context, req core.ProofRequest) (*core.Proof, error) {
	if f == nil {
		return nil, fmt.Errorf("engine: generate function is nil")
	}
	return f(ctx, req)
}

// UnsupportedEngine rejects every proof request with a configuration error.
// Used as the default so a missing engine wiring fails loudly instead of
// silently succeeding.
type UnsupportedEngine struct {
	reason string
}

func NewUnsupportedEngine(reason string) *UnsupportedEngine {
	return &UnsupportedEngine{reason: strings.TrimSpace(reason)}
}

func (e *UnsupportedEngine) GenerateProof(context.Context, core.ProofRequest) (*core.Proof, error) {
	if e == nil || e.reason == "" {
		return nil, fmt.Errorf("engine: proof engine is not configured")
	}
	return nil, fmt.Errorf("engine: proof engine is not configured: %s", e.reason)
}

var (
	_ core.ProofEngine = Func(nil)
	_ core.ProofEngine = (*UnsupportedEngine)(nil)
)
