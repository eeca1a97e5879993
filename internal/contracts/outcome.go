package contracts

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

type (
	Status int

	Log struct {
		Address common.Address
		Topics  []common.Hash
		Data    []byte
	}

	// Outcome is the confirmed result of one submitted transaction.
	Outcome struct {
		ChainID         uint64
		TransactionHash common.Hash
		Status          Status
		BlockNumber     uint64
		GasUsed         uint64
		Logs            []Log
		ExplorerURL     string
	}
)

const (
	StatusFailure Status = iota
	StatusSuccess
)

func (s Status) String() string {
	if s == StatusSuccess {
		return "success"
	}
	return "failure"
}

func outcomeFromReceipt(chainID uint64, receipt *types.Receipt, url string) *Outcome {
	outcome := &Outcome{
		ChainID:         chainID,
		TransactionHash: receipt.TxHash,
		Status:          StatusFailure,
		GasUsed:         receipt.GasUsed,
		ExplorerURL:     url,
	}
	if receipt.Status == types.ReceiptStatusSuccessful {
		outcome.Status = StatusSuccess
	}
	if receipt.BlockNumber != nil {
		outcome.BlockNumber = receipt.BlockNumber.Uint64()
	}
	for _, l := range receipt.Logs {
		if l == nil {
			continue
		}
		outcome.Logs = append(outcome.Logs, Log{
			Address: l.Address,
			Topics:  append([]common.Hash(nil), l.Topics...),
			Data:    append([]byte(nil), l.Data...),
		})
	}

	return outcome
}

// ExtractAddress returns the address held in the first data word of the first
// log whose topic0 matches the event. Unrelated logs emitted by the same
// transaction, such as proxy initialisation events, are skipped.
func ExtractAddress(outcome *Outcome, topic0 common.Hash) (common.Address, error) {
	for _, l := range outcome.Logs {
		if len(l.Topics) == 0 || l.Topics[0] != topic0 {
			continue
		}
		if len(l.Data) < 32 {
			return common.Address{}, fmt.Errorf("%w: event %s carries %d data bytes", ErrLogNotFound, topic0.Hex(), len(l.Data))
		}
		return common.BytesToAddress(l.Data[12:32]), nil
	}

	return common.Address{}, fmt.Errorf("%w: topic %s in %s", ErrLogNotFound, topic0.Hex(), outcome.TransactionHash.Hex())
}
