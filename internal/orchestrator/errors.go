package orchestrator

import "errors"

var (
	// ErrCancelled means the operator declined a confirmation. Nothing was
	// broadcast for the declined step.
	ErrCancelled         = errors.New("cancelled by operator")
	ErrAlreadyDeployed   = errors.New("collection is already deployed")
	ErrNotDeployed       = errors.New("collection is not deployed yet")
	ErrSetupLocked       = errors.New("contract setup is locked")
	ErrNotCreatorToken   = errors.New("contract does not support transfer validation")
	ErrNoTransferPolicy  = errors.New("chain has no transfer validator configured")
	ErrInsufficientFunds = errors.New("signer balance does not cover the deployment fee")
	ErrNoConfirmer       = errors.New("orchestrator requires a confirmer")
)
