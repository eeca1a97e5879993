package contracts

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrChainRPC wraps transport and node failures. It is never retried.
	ErrChainRPC = errors.New("chain rpc error")
	// ErrTransactionFailed means the transaction was mined but reverted.
	ErrTransactionFailed = errors.New("transaction failed")
	// ErrTransactionPending means the transaction was broadcast but no receipt
	// arrived before the confirmation deadline. It may still be mined.
	ErrTransactionPending = errors.New("transaction pending")
	// ErrLogNotFound means a successful receipt lacked the expected event.
	ErrLogNotFound = errors.New("expected event log not found")
)

// TxError ties a failure to a broadcast transaction so the operator can look
// it up on the explorer.
type TxError struct {
	Hash common.Hash
	URL  string
	Err  error
}

func (e *TxError) Error() string {
	return fmt.Sprintf("%v: %s (%s)", e.Err, e.Hash.Hex(), e.URL)
}

func (e *TxError) Unwrap() error {
	return e.Err
}

func rpcError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrChainRPC, op, err)
}
