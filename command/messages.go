package command

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-payout-attest/providers/cashfree"
)

const (
	TypeProveTransferStatus   = "attest.command.transfer.prove_status"
	TypeProveTransferCreation = "attest.command.transfer.prove_creation"
	TypeAuthorize             = "attest.command.authorize"
)

type ProveTransferStatusMessage struct {
	Request cashfree.StatusProofRequest
}

func (ProveTransferStatusMessage) Type() string { return TypeProveTransferStatus }

func (m ProveTransferStatusMessage) Validate() error {
	if strings.TrimSpace(m.Request.TransferID) == "" {
		return fmt.Errorf("command: transfer id is required")
	}
	if m.Request.Retries < 0 {
		return fmt.Errorf("command: retries must not be negative")
	}
	return nil
}

type ProveTransferCreationMessage struct {
	Request cashfree.CreationProofRequest
}

func (ProveTransferCreationMessage) Type() string { return TypeProveTransferCreation }

func (m ProveTransferCreationMessage) Validate() error {
	if strings.TrimSpace(string(m.Request.Body)) == "" {
		return fmt.Errorf("command: transfer request body is required")
	}
	if m.Request.Retries < 0 {
		return fmt.Errorf("command: retries must not be negative")
	}
	return nil
}

// AuthorizeMessage forces a secret-header resolution, refreshing the bearer
// token when stale. Useful for warming a client before a batch of proofs.
type AuthorizeMessage struct{}

func (AuthorizeMessage) Type() string { return TypeAuthorize }

func (AuthorizeMessage) Validate() error { return nil }
