package contracts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/dropforge/launchpad/internal/chains"
	"github.com/dropforge/launchpad/internal/logger"
)

const (
	defaultConfirmationTimeout = 10 * time.Minute
	defaultPollInterval        = 2 * time.Second
	gasHeadroomPercent         = 120
)

type (
	// Backend is the slice of the JSON-RPC surface the client needs.
	// *ethclient.Client satisfies it.
	Backend interface {
		ChainID(ctx context.Context) (*big.Int, error)
		CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
		BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
		PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
		HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
		SuggestGasPrice(ctx context.Context) (*big.Int, error)
		SuggestGasTipCap(ctx context.Context) (*big.Int, error)
		EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
		SendTransaction(ctx context.Context, tx *types.Transaction) error
		TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
		Close()
	}

	// Dialer opens a backend for a chain.
	Dialer func(ctx context.Context, chain chains.Descriptor) (Backend, error)

	// GasOptions are operator overrides. Zero values mean "ask the node".
	GasOptions struct {
		GasLimit          uint64
		GasPriceWei       *big.Int
		MaxFeePerGasWei   *big.Int
		MaxPriorityFeeWei *big.Int
	}

	Options struct {
		Gas                 GasOptions
		ConfirmationTimeout time.Duration
		PollInterval        time.Duration
	}

	// Client submits calls and transactions to any chain in the registry.
	Client struct {
		registry *chains.Registry
		dial     Dialer
		opts     Options
		logger   *slog.Logger

		mu       sync.Mutex
		backends map[uint64]Backend
	}
)

// DialRPC connects to the chain's RPC endpoint with go-ethereum's ethclient.
func DialRPC(ctx context.Context, chain chains.Descriptor) (Backend, error) {
	if chain.RPCURL == "" {
		return nil, fmt.Errorf("no rpc url configured for %s", chain.Name)
	}
	client, err := ethclient.DialContext(ctx, chain.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", chain.RPCURL, err)
	}
	return client, nil
}

// NewClient creates a client. Backends are dialled lazily and reused.
func NewClient(registry *chains.Registry, dial Dialer, opts Options) *Client {
	if opts.ConfirmationTimeout <= 0 {
		opts.ConfirmationTimeout = defaultConfirmationTimeout
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}

	return &Client{
		registry: registry,
		dial:     dial,
		opts:     opts,
		logger:   logger.Named("contract_client"),
		backends: make(map[uint64]Backend),
	}
}

// Close releases every dialled backend.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for chainID, backend := range c.backends {
		backend.Close()
		delete(c.backends, chainID)
	}
}

// Chain returns the registry descriptor for a chain id.
func (c *Client) Chain(chainID uint64) (chains.Descriptor, error) {
	return c.registry.Lookup(chainID)
}

func (c *Client) backend(ctx context.Context, chainID uint64) (Backend, chains.Descriptor, error) {
	chain, err := c.registry.Lookup(chainID)
	if err != nil {
		return nil, chains.Descriptor{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if backend, ok := c.backends[chainID]; ok {
		return backend, chain, nil
	}

	c.logger.With("chain", chain.Name, "url", chain.RPCURL).Debug("dialing rpc")
	backend, err := c.dial(ctx, chain)
	if err != nil {
		return nil, chain, rpcError("dial", err)
	}

	remoteID, err := backend.ChainID(ctx)
	if err != nil {
		backend.Close()
		return nil, chain, rpcError("eth_chainId", err)
	}
	if remoteID.Uint64() != chainID {
		backend.Close()
		return nil, chain, fmt.Errorf("%w: rpc for %s reports chain id %s, expected %d", ErrChainRPC, chain.Name, remoteID, chainID)
	}

	c.backends[chainID] = backend
	return backend, chain, nil
}

// Call performs a read-only eth_call and decodes the return values into returns.
func (c *Client) Call(ctx context.Context, chainID uint64, to common.Address, method ReadMethod, args []any, returns ...any) error {
	backend, _, err := c.backend(ctx, chainID)
	if err != nil {
		return err
	}

	data, err := method.EncodeArgs(args...)
	if err != nil {
		return err
	}

	output, err := backend.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return rpcError("eth_call "+selectorHex(data), err)
	}

	if err := method.DecodeReturns(output, returns...); err != nil {
		return fmt.Errorf("failed to decode %s result from %s: %w", selectorHex(data), to.Hex(), err)
	}

	return nil
}

// Balance returns the native balance of an account at the latest block.
func (c *Client) Balance(ctx context.Context, chainID uint64, account common.Address) (*big.Int, error) {
	backend, _, err := c.backend(ctx, chainID)
	if err != nil {
		return nil, err
	}

	balance, err := backend.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, rpcError("eth_getBalance", err)
	}
	return balance, nil
}

// Send signs and broadcasts a transaction, then blocks until it is mined or the
// confirmation deadline passes. A reverted transaction is returned together
// with a TxError wrapping ErrTransactionFailed.
func (c *Client) Send(ctx context.Context, chainID uint64, signer Signer, to common.Address, method Method, args []any, value *big.Int) (*Outcome, error) {
	backend, chain, err := c.backend(ctx, chainID)
	if err != nil {
		return nil, err
	}

	data, err := method.EncodeArgs(args...)
	if err != nil {
		return nil, err
	}
	if value == nil {
		value = new(big.Int)
	}

	from := signer.Address()
	log := c.logger.With("chain", chain.Name, "to", to.Hex(), "selector", selectorHex(data))

	nonce, err := backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, rpcError("eth_getTransactionCount", err)
	}

	gasLimit := c.opts.Gas.GasLimit
	if gasLimit == 0 {
		estimate, err := backend.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &to, Value: value, Data: data})
		if err != nil {
			return nil, rpcError("eth_estimateGas", err)
		}
		gasLimit = estimate * gasHeadroomPercent / 100
	}

	tx, err := c.buildTx(ctx, backend, chain, nonce, to, value, data, gasLimit)
	if err != nil {
		return nil, err
	}

	signed, err := signer.SignTx(ctx, tx, new(big.Int).SetUint64(chainID))
	if err != nil {
		return nil, err
	}

	if err := backend.SendTransaction(ctx, signed); err != nil {
		return nil, rpcError("eth_sendRawTransaction", err)
	}

	url := chain.TxURL(signed.Hash())
	log.With("tx_hash", signed.Hash().Hex(), "explorer", url, "nonce", nonce, "gas", gasLimit).Info("transaction submitted")

	receipt, err := c.waitMined(ctx, backend, signed.Hash())
	if err != nil {
		return nil, &TxError{Hash: signed.Hash(), URL: url, Err: err}
	}

	outcome := outcomeFromReceipt(chainID, receipt, url)
	if outcome.Status != StatusSuccess {
		log.With("tx_hash", signed.Hash().Hex(), "block", outcome.BlockNumber).Error("transaction reverted")
		return outcome, &TxError{Hash: signed.Hash(), URL: url, Err: ErrTransactionFailed}
	}

	log.With("tx_hash", signed.Hash().Hex(), "block", outcome.BlockNumber, "gas_used", outcome.GasUsed).Info("transaction confirmed")

	return outcome, nil
}

func (c *Client) buildTx(ctx context.Context, backend Backend, chain chains.Descriptor, nonce uint64, to common.Address, value *big.Int, data []byte, gasLimit uint64) (*types.Transaction, error) {
	gas := c.opts.Gas

	if !chain.LegacyGas && gas.GasPriceWei == nil {
		head, err := backend.HeaderByNumber(ctx, nil)
		if err != nil {
			return nil, rpcError("eth_getBlockByNumber", err)
		}

		if head.BaseFee != nil {
			tip := gas.MaxPriorityFeeWei
			if tip == nil {
				if tip, err = backend.SuggestGasTipCap(ctx); err != nil {
					return nil, rpcError("eth_maxPriorityFeePerGas", err)
				}
			}

			feeCap := gas.MaxFeePerGasWei
			if feeCap == nil {
				feeCap = new(big.Int).Add(new(big.Int).Mul(head.BaseFee, big.NewInt(2)), tip)
			}
			if feeCap.Cmp(tip) < 0 {
				tip = feeCap
			}

			return types.NewTx(&types.DynamicFeeTx{
				ChainID:   new(big.Int).SetUint64(chain.ChainID),
				Nonce:     nonce,
				GasTipCap: tip,
				GasFeeCap: feeCap,
				Gas:       gasLimit,
				To:        &to,
				Value:     value,
				Data:      data,
			}), nil
		}
	}

	gasPrice := gas.GasPriceWei
	if gasPrice == nil {
		var err error
		if gasPrice, err = backend.SuggestGasPrice(ctx); err != nil {
			return nil, rpcError("eth_gasPrice", err)
		}
	}

	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &to,
		Value:    value,
		Data:     data,
	}), nil
}

// waitMined polls for the receipt. Lookup errors are treated as transient
// because the transaction is already broadcast; only the deadline ends the wait.
func (c *Client) waitMined(ctx context.Context, backend Backend, hash common.Hash) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.ConfirmationTimeout)
	defer cancel()

	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()

	for {
		receipt, err := backend.TransactionReceipt(ctx, hash)
		if err == nil && receipt != nil {
			return receipt, nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			c.logger.With("tx_hash", hash.Hex(), "err", err.Error()).Warn("receipt lookup failed, retrying")
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: no receipt after %s", ErrTransactionPending, c.opts.ConfirmationTimeout)
		case <-ticker.C:
		}
	}
}

func selectorHex(data []byte) string {
	if len(data) < 4 {
		return hexutil.Encode(data)
	}
	return hexutil.Encode(data[:4])
}
