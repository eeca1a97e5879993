package chains

import (
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedChain is returned for chain ids or names missing from the catalog.
var ErrUnsupportedChain = errors.New("unsupported chain")

var (
	//go:embed chains.yaml
	catalogYAML []byte

	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

type (
	// Descriptor is the static description of one supported network.
	Descriptor struct {
		ChainID           uint64
		Name              string
		RPCURL            string
		ExplorerURL       string
		NativeSymbol      string
		FactoryAddress    common.Address
		RegistryAddress   common.Address
		TransferValidator common.Address
		TransferListID    uint64
		// LegacyGas disables EIP-1559 fee fields for chains that do not price them.
		LegacyGas         bool
		ImplementationIDs map[string]uint32
	}

	// Registry is a read-only catalog keyed by chain id and name.
	Registry struct {
		byID   map[uint64]Descriptor
		byName map[string]uint64
	}

	catalogFile struct {
		Chains []catalogEntry `yaml:"chains"`
	}

	catalogEntry struct {
		Name              string            `yaml:"name"`
		ChainID           uint64            `yaml:"chain-id"`
		RPCURL            string            `yaml:"rpc-url"`
		ExplorerURL       string            `yaml:"explorer-url"`
		NativeSymbol      string            `yaml:"native-symbol"`
		Factory           string            `yaml:"factory"`
		Registry          string            `yaml:"registry"`
		TransferValidator string            `yaml:"transfer-validator"`
		TransferListID    uint64            `yaml:"transfer-list-id"`
		LegacyGas         bool              `yaml:"legacy-gas"`
		ImplementationIDs map[string]uint32 `yaml:"implementation-ids"`
	}
)

// Default returns the registry compiled from the embedded catalog. It is parsed
// once per process.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultRegistry, defaultErr = Parse(catalogYAML)
	})

	return defaultRegistry, defaultErr
}

// Parse builds a registry from a YAML catalog document.
func Parse(data []byte) (*Registry, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode chain catalog: %w", err)
	}

	registry := &Registry{
		byID:   make(map[uint64]Descriptor, len(file.Chains)),
		byName: make(map[string]uint64, len(file.Chains)),
	}

	var errs []error
	for _, entry := range file.Chains {
		descriptor, err := entry.descriptor()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := registry.byID[descriptor.ChainID]; dup {
			errs = append(errs, fmt.Errorf("chain id %d declared twice", descriptor.ChainID))
			continue
		}
		registry.byID[descriptor.ChainID] = descriptor
		registry.byName[descriptor.Name] = descriptor.ChainID
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid chain catalog: %w", errors.Join(errs...))
	}

	return registry, nil
}

func (e catalogEntry) descriptor() (Descriptor, error) {
	var errs []error
	if e.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if e.ChainID == 0 {
		errs = append(errs, fmt.Errorf("%s: chain-id is required", e.Name))
	}
	if e.ExplorerURL == "" {
		errs = append(errs, fmt.Errorf("%s: explorer-url is required", e.Name))
	}

	parse := func(field, value string) common.Address {
		if !common.IsHexAddress(value) {
			errs = append(errs, fmt.Errorf("%s: %s %q is not an address", e.Name, field, value))
			return common.Address{}
		}
		return common.HexToAddress(value)
	}
	// An omitted validator means the chain has no transfer policy to wire.
	parseOptional := func(field, value string) common.Address {
		if value == "" {
			return common.Address{}
		}
		return parse(field, value)
	}

	descriptor := Descriptor{
		ChainID:           e.ChainID,
		Name:              strings.ToLower(e.Name),
		RPCURL:            e.RPCURL,
		ExplorerURL:       strings.TrimSuffix(e.ExplorerURL, "/"),
		NativeSymbol:      e.NativeSymbol,
		FactoryAddress:    parse("factory", e.Factory),
		RegistryAddress:   parse("registry", e.Registry),
		TransferValidator: parseOptional("transfer-validator", e.TransferValidator),
		TransferListID:    e.TransferListID,
		LegacyGas:         e.LegacyGas,
		ImplementationIDs: e.ImplementationIDs,
	}

	return descriptor, errors.Join(errs...)
}

// Lookup returns the descriptor for a chain id.
func (r *Registry) Lookup(chainID uint64) (Descriptor, error) {
	descriptor, ok := r.byID[chainID]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: chain id %d", ErrUnsupportedChain, chainID)
	}

	return descriptor, nil
}

// ByName returns the descriptor for a chain name such as "base" or "sepolia".
func (r *Registry) ByName(name string) (Descriptor, error) {
	chainID, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnsupportedChain, name)
	}

	return r.byID[chainID], nil
}

// Resolve accepts either a chain name or a decimal chain id.
func (r *Registry) Resolve(selector string) (Descriptor, error) {
	if chainID, err := strconv.ParseUint(selector, 10, 64); err == nil {
		return r.Lookup(chainID)
	}

	return r.ByName(selector)
}

// All returns every descriptor ordered by chain id.
func (r *Registry) All() []Descriptor {
	ids := slices.Sorted(maps.Keys(r.byID))
	out := make([]Descriptor, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.byID[id])
	}

	return out
}

// WithRPCOverrides returns a copy of the registry whose RPC URLs are replaced by
// the given per-chain values. Unknown chain ids are reported as an error.
func (r *Registry) WithRPCOverrides(overrides map[uint64]string) (*Registry, error) {
	clone := &Registry{
		byID:   maps.Clone(r.byID),
		byName: maps.Clone(r.byName),
	}

	for chainID, url := range overrides {
		descriptor, ok := clone.byID[chainID]
		if !ok {
			return nil, fmt.Errorf("%w: rpc override for chain id %d", ErrUnsupportedChain, chainID)
		}
		if url == "" {
			continue
		}
		descriptor.RPCURL = url
		clone.byID[chainID] = descriptor
	}

	return clone, nil
}

// ImplementationID returns the factory implementation id for a token standard.
func (d Descriptor) ImplementationID(standard string) uint32 {
	return d.ImplementationIDs[standard]
}

// TxURL links a transaction hash on the chain's block explorer.
func (d Descriptor) TxURL(hash common.Hash) string {
	return d.ExplorerURL + "/tx/" + hash.Hex()
}

// AddressURL links an account or contract on the chain's block explorer.
func (d Descriptor) AddressURL(address common.Address) string {
	return d.ExplorerURL + "/address/" + address.Hex()
}
