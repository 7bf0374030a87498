package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-payout-attest/core"
)

const defaultRecentLimit = 20

// ErrProofNotFound reports that no ledger entry exists for the transfer.
var ErrProofNotFound = errors.New("sqlstore: proof record not found")

// ProofStore persists redacted proof projections for audit. Raw proofs and
// descriptors are never written, only the values the proof itself reveals.
type ProofStore struct {
	db   *bun.DB
	repo repository.Repository[*proofRecord]
}

func (s *ProofStore) SaveProof(ctx context.Context, in core.ProofRecord) (core.ProofRecord, error) {
	if s == nil || s.repo == nil || s.db == nil {
		return core.ProofRecord{}, fmt.Errorf("sqlstore: proof store is not configured")
	}
	trimmedTransferID := strings.TrimSpace(in.TransferID)
	if trimmedTransferID == "" {
		return core.ProofRecord{}, fmt.Errorf("sqlstore: transfer id is required")
	}
	if strings.TrimSpace(in.Operation) == "" {
		return core.ProofRecord{}, fmt.Errorf("sqlstore: operation is required")
	}
	in.TransferID = trimmedTransferID
	if strings.TrimSpace(in.ID) == "" {
		in.ID = uuid.NewString()
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now().UTC()
	}

	record := newProofRecord(in)

	var created core.ProofRecord
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		inserted, createErr := s.repo.CreateTx(ctx, tx, record)
		if createErr != nil {
			return createErr
		}
		created = inserted.toDomain()
		return nil
	})
	if err != nil {
		return core.ProofRecord{}, err
	}
	return created, nil
}

func (s *ProofStore) GetByTransfer(ctx context.Context, transferID string) (core.ProofRecord, error) {
	if s == nil || s.repo == nil {
		return core.ProofRecord{}, fmt.Errorf("sqlstore: proof store is not configured")
	}
	trimmed := strings.TrimSpace(transferID)
	if trimmed == "" {
		return core.ProofRecord{}, fmt.Errorf("sqlstore: transfer id is required")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("transfer_id", "=", trimmed),
		repository.OrderBy("created_at DESC"),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return core.ProofRecord{}, err
	}
	if len(records) == 0 {
		return core.ProofRecord{}, fmt.Errorf("%w: transfer %q", ErrProofNotFound, trimmed)
	}
	return records[0].toDomain(), nil
}

func (s *ProofStore) ListRecent(ctx context.Context, limit int) ([]core.ProofRecord, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: proof store is not configured")
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	records, _, err := s.repo.List(ctx,
		repository.OrderBy("created_at DESC"),
		repository.SelectPaginate(limit, 0),
	)
	if err != nil {
		return nil, err
	}
	out := make([]core.ProofRecord, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out, nil
}
