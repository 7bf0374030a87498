package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-payout-attest/core"
	"github.com/goliatone/go-payout-attest/providers/cashfree"
)

// ProofService is the client surface the command handlers depend on;
// *cashfree.Client satisfies it.
type ProofService interface {
	ProveTransferStatus(ctx context.Context, req cashfree.StatusProofRequest) (core.TransferStatusResult, error)
	ProveTransferCreation(ctx context.Context, req cashfree.CreationProofRequest) (core.TransferCreationResult, error)
	SecretHeaders(ctx context.Context) (map[string]string, error)
}

type ProveTransferStatusCommand struct {
	service ProofService
}

func NewProveTransferStatusCommand(service ProofService) *ProveTransferStatusCommand {
	return &ProveTransferStatusCommand{service: service}
}

func (c *ProveTransferStatusCommand) Execute(ctx context.Context, msg ProveTransferStatusMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: proof service is required")
	}
	out, err := c.service.ProveTransferStatus(ctx, msg.Request)
	if err != nil {
		return core.MapError(err)
	}
	storeResult(ctx, out)
	return nil
}

type ProveTransferCreationCommand struct {
	service ProofService
}

func NewProveTransferCreationCommand(service ProofService) *ProveTransferCreationCommand {
	return &ProveTransferCreationCommand{service: service}
}

func (c *ProveTransferCreationCommand) Execute(ctx context.Context, msg ProveTransferCreationMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: proof service is required")
	}
	out, err := c.service.ProveTransferCreation(ctx, msg.Request)
	if err != nil {
		return core.MapError(err)
	}
	storeResult(ctx, out)
	return nil
}

type AuthorizeCommand struct {
	service ProofService
}

func NewAuthorizeCommand(service ProofService) *AuthorizeCommand {
	return &AuthorizeCommand{service: service}
}

func (c *AuthorizeCommand) Execute(ctx context.Context, msg AuthorizeMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: proof service is required")
	}
	headers, err := c.service.SecretHeaders(ctx)
	if err != nil {
		return core.MapError(err)
	}
	// Only the redacted shape leaves the command boundary.
	storeResult(ctx, core.RedactSensitiveHeaders(headers))
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
