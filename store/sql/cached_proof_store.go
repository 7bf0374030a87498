package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	repositorycache "github.com/goliatone/go-repository-cache/cache"

	"github.com/goliatone/go-payout-attest/core"
)

const proofCacheKeyPrefix = "go-payout-attest::proof::v1"

// CachedProofStore serves by-transfer reads through a cache layer and
// invalidates on write. Recency listings always hit the base store.
type CachedProofStore struct {
	base  core.ProofStore
	cache repositorycache.CacheService
}

func NewCachedProofStore(base core.ProofStore, cacheService repositorycache.CacheService) (*CachedProofStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base proof store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: proof cache service is required")
	}
	return &CachedProofStore{base: base, cache: cacheService}, nil
}

// ProofCacheKey returns the deterministic cache key contract for by-transfer
// proof reads: go-payout-attest::proof::v1::<transfer_id> with the transfer
// segment URL-path escaped.
func ProofCacheKey(transferID string) (string, error) {
	trimmed := strings.TrimSpace(transferID)
	if trimmed == "" {
		return "", fmt.Errorf("sqlstore: transfer id is required")
	}
	return proofCacheKeyPrefix + "::" + url.PathEscape(trimmed), nil
}

func (s *CachedProofStore) SaveProof(ctx context.Context, record core.ProofRecord) (core.ProofRecord, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.ProofRecord{}, fmt.Errorf("sqlstore: cached proof store is not configured")
	}
	created, err := s.base.SaveProof(ctx, record)
	if err != nil {
		return core.ProofRecord{}, err
	}
	cacheKey, err := ProofCacheKey(created.TransferID)
	if err != nil {
		return core.ProofRecord{}, err
	}
	if err := s.cache.Delete(ctx, cacheKey); err != nil {
		return core.ProofRecord{}, err
	}
	return created, nil
}

func (s *CachedProofStore) GetByTransfer(ctx context.Context, transferID string) (core.ProofRecord, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.ProofRecord{}, fmt.Errorf("sqlstore: cached proof store is not configured")
	}
	cacheKey, err := ProofCacheKey(transferID)
	if err != nil {
		return core.ProofRecord{}, err
	}
	return repositorycache.GetOrFetch(ctx, s.cache, cacheKey, func(ctx context.Context) (core.ProofRecord, error) {
		return s.base.GetByTransfer(ctx, transferID)
	})
}

func (s *CachedProofStore) ListRecent(ctx context.Context, limit int) ([]core.ProofRecord, error) {
	if s == nil || s.base == nil {
		return nil, fmt.Errorf("sqlstore: cached proof store is not configured")
	}
	return s.base.ListRecent(ctx, limit)
}
