package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[ProveTransferStatusMessage]   = (*ProveTransferStatusCommand)(nil)
	_ gocmd.Commander[ProveTransferCreationMessage] = (*ProveTransferCreationCommand)(nil)
	_ gocmd.Commander[AuthorizeMessage]             = (*AuthorizeCommand)(nil)
)
