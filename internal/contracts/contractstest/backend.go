// Package contractstest provides an in-memory chain backend for tests.
package contractstest

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/dropforge/launchpad/internal/chains"
	"github.com/dropforge/launchpad/internal/contracts"
)

type (
	// CallHandler answers an eth_call with raw return data.
	CallHandler func(to common.Address, data []byte) ([]byte, error)

	// SendHandler decides the receipt for a mined transaction.
	SendHandler func(tx *types.Transaction) (status uint64, logs []*types.Log)

	// Backend is a fake contracts.Backend. Unhandled calls fail; unhandled
	// transactions succeed without logs.
	Backend struct {
		ID      *big.Int
		BaseFee *big.Int
		// PendingPolls is the number of receipt lookups answered with NotFound
		// before a receipt is returned. Negative values never confirm.
		PendingPolls int
		EstimateErr  error
		// Balances answers eth_getBalance; unknown accounts hold 100 ether.
		Balances map[common.Address]*big.Int

		mu       sync.Mutex
		calls    map[[4]byte]CallHandler
		sends    map[[4]byte]SendHandler
		sent     []*types.Transaction
		receipts map[common.Hash]*types.Receipt
		polls    map[common.Hash]int
		closed   bool
	}
)

// NewBackend creates a fake London-style chain with the given id.
func NewBackend(chainID uint64) *Backend {
	return &Backend{
		ID:       new(big.Int).SetUint64(chainID),
		BaseFee:  big.NewInt(1_000_000_000),
		Balances: make(map[common.Address]*big.Int),
		calls:    make(map[[4]byte]CallHandler),
		sends:    make(map[[4]byte]SendHandler),
		receipts: make(map[common.Hash]*types.Receipt),
		polls:    make(map[common.Hash]int),
	}
}

// Dialer returns a contracts.Dialer that always hands out this backend.
func (b *Backend) Dialer() contracts.Dialer {
	return func(context.Context, chains.Descriptor) (contracts.Backend, error) {
		return b, nil
	}
}

// Selector computes the 4-byte id of a canonical signature.
func Selector(signature string) [4]byte {
	var id [4]byte
	copy(id[:], crypto.Keccak256([]byte(signature))[:4])
	return id
}

// Returns ABI-encodes values as return data; types are comma separated.
func Returns(typeList string, values ...any) []byte {
	var args abi.Arguments
	for _, name := range strings.Split(typeList, ",") {
		typ, err := abi.NewType(strings.TrimSpace(name), "", nil)
		if err != nil {
			panic(fmt.Sprintf("bad abi type %q: %v", name, err))
		}
		args = append(args, abi.Argument{Type: typ})
	}

	out, err := args.Pack(values...)
	if err != nil {
		panic(fmt.Sprintf("pack returns: %v", err))
	}
	return out
}

// OnCall registers a handler for eth_call by function selector.
func (b *Backend) OnCall(selector [4]byte, handler CallHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[selector] = handler
}

// OnSend registers a receipt handler for transactions by function selector.
func (b *Backend) OnSend(selector [4]byte, handler SendHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sends[selector] = handler
}

// Sent returns the broadcast transactions in order.
func (b *Backend) Sent() []*types.Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*types.Transaction(nil), b.sent...)
}

// SentWithSelector filters broadcast transactions by function selector.
func (b *Backend) SentWithSelector(selector [4]byte) []*types.Transaction {
	var out []*types.Transaction
	for _, tx := range b.Sent() {
		if len(tx.Data()) >= 4 && [4]byte(tx.Data()[:4]) == selector {
			out = append(out, tx)
		}
	}
	return out
}

func (b *Backend) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func (b *Backend) ChainID(context.Context) (*big.Int, error) {
	return new(big.Int).Set(b.ID), nil
}

func (b *Backend) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if len(call.Data) < 4 || call.To == nil {
		return nil, fmt.Errorf("malformed call")
	}

	b.mu.Lock()
	handler, ok := b.calls[[4]byte(call.Data[:4])]
	b.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("execution reverted: no handler for %x", call.Data[:4])
	}

	return handler(*call.To, call.Data)
}

func (b *Backend) BalanceAt(_ context.Context, account common.Address, _ *big.Int) (*big.Int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if balance, ok := b.Balances[account]; ok {
		return new(big.Int).Set(balance), nil
	}
	return new(big.Int).Mul(big.NewInt(100), big.NewInt(1e18)), nil
}

func (b *Backend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return uint64(len(b.sent)), nil
}

func (b *Backend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(100), BaseFee: b.BaseFee}, nil
}

func (b *Backend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(3_000_000_000), nil
}

func (b *Backend) SuggestGasTipCap(context.Context) (*big.Int, error) {
	return big.NewInt(1_500_000_000), nil
}

func (b *Backend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	if b.EstimateErr != nil {
		return 0, b.EstimateErr
	}
	return 100_000, nil
}

func (b *Backend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	status, logs := types.ReceiptStatusSuccessful, []*types.Log(nil)
	if len(tx.Data()) >= 4 {
		if handler, ok := b.sends[[4]byte(tx.Data()[:4])]; ok {
			status, logs = handler(tx)
		}
	}

	block := big.NewInt(int64(101 + len(b.sent)))
	for i, l := range logs {
		l.TxHash = tx.Hash()
		l.Index = uint(i)
		l.BlockNumber = block.Uint64()
	}

	b.sent = append(b.sent, tx)
	b.receipts[tx.Hash()] = &types.Receipt{
		Status:      status,
		TxHash:      tx.Hash(),
		GasUsed:     tx.Gas() / 2,
		BlockNumber: block,
		Logs:        logs,
	}

	return nil
}

func (b *Backend) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	receipt, ok := b.receipts[hash]
	if !ok {
		return nil, ethereum.NotFound
	}
	if b.PendingPolls < 0 || b.polls[hash] < b.PendingPolls {
		b.polls[hash]++
		return nil, ethereum.NotFound
	}

	return receipt, nil
}

func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}

// AddressLog builds a log whose first data word holds an address, the shape of
// the factory's creation event.
func AddressLog(emitter common.Address, topic0 common.Hash, address common.Address, extra ...common.Hash) *types.Log {
	data := common.LeftPadBytes(address.Bytes(), 32)
	for _, word := range extra {
		data = append(data, word.Bytes()...)
	}
	return &types.Log{
		Address: emitter,
		Topics:  []common.Hash{topic0},
		Data:    data,
	}
}
