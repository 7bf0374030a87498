// Package core contains the canonical payout-attestation contracts, entities,
// and descriptor types. Lower-level adapters (auth, descriptor, engine,
// store) must depend on this package; core must not depend on provider or
// engine specific adapters.
package core
