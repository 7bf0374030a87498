package sqlstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-payout-attest/core"
)

type proofRecord struct {
	bun.BaseModel `bun:"table:proof_records,alias:pr"`

	ID              string            `bun:"id,pk"`
	ProviderID      string            `bun:"provider_id,notnull"`
	Operation       string            `bun:"operation,notnull"`
	TransferID      string            `bun:"transfer_id,notnull"`
	CFTransferID    string            `bun:"cf_transfer_id"`
	Status          string            `bun:"status"`
	TransferAmount  *float64          `bun:"transfer_amount"`
	ExtractedValues map[string]string `bun:"extracted_values,type:jsonb,notnull"`
	WitnessHosts    []string          `bun:"witness_hosts,type:jsonb,notnull"`
	CreatedAt       time.Time         `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func newProofRecord(in core.ProofRecord) *proofRecord {
	return &proofRecord{
		ID:              in.ID,
		ProviderID:      in.ProviderID,
		Operation:       in.Operation,
		TransferID:      in.TransferID,
		CFTransferID:    in.CFTransferID,
		Status:          in.Status,
		TransferAmount:  cloneFloatPointer(in.TransferAmount),
		ExtractedValues: RedactExtractedValues(in.ExtractedValues),
		WitnessHosts:    cloneStrings(in.WitnessHosts),
		CreatedAt:       in.CreatedAt,
	}
}

func (r *proofRecord) toDomain() core.ProofRecord {
	if r == nil {
		return core.ProofRecord{}
	}
	return core.ProofRecord{
		ID:              r.ID,
		ProviderID:      r.ProviderID,
		Operation:       r.Operation,
		TransferID:      r.TransferID,
		CFTransferID:    r.CFTransferID,
		Status:          r.Status,
		TransferAmount:  cloneFloatPointer(r.TransferAmount),
		ExtractedValues: cloneStringMap(r.ExtractedValues),
		WitnessHosts:    cloneStrings(r.WitnessHosts),
		CreatedAt:       r.CreatedAt,
	}
}

func cloneFloatPointer(input *float64) *float64 {
	if input == nil {
		return nil
	}
	value := *input
	return &value
}

func cloneStrings(input []string) []string {
	if len(input) == 0 {
		return []string{}
	}
	out := make([]string, len(input))
	copy(out, input)
	return out
}

func cloneStringMap(input map[string]string) map[string]string {
	if len(input) == 0 {
		return map[string]string{}
	}
	out := make(map[string]string, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
