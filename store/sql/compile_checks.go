package sqlstore

import "github.com/goliatone/go-payout-attest/core"

var (
	_ core.ProofStore = (*ProofStore)(nil)
	_ core.ProofStore = (*CachedProofStore)(nil)
)
